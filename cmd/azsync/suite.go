package main

import "github.com/teppoaland/sbsaa/pkg/types"

// suiteCase describes one UI test of the Saa app suite for work item
// creation: the test function identifier, the work item title, and the
// ordered steps.
type suiteCase struct {
	Function    string
	Title       string
	Description string
	Steps       []types.TestStep
}

// saaSuite lists the automated UI tests of the Saa weather app, in
// execution order. setup creates one Test Case work item per entry and
// registers the mapping.
var saaSuite = []suiteCase{
	{
		Function:    "test_home_tab",
		Title:       "Saa App - Check Main View Visibility",
		Description: "Verify that the HOME tab button is visible and accessible on the main view after app launch.",
		Steps: []types.TestStep{
			{Action: "Launch the Saa application", Expected: "Main view loads"},
			{Action: "Locate the HOME tab button", Expected: "Button with accessibility ID \"KOTI\" is visible"},
			{Action: "Capture screenshot", Expected: "Screenshot attached to report"},
		},
	},
	{
		Function:    "test_oulu_search",
		Title:       "Saa App - Oulu Weather Station Search",
		Description: "Verify that the search functionality finds Oulu weather stations by city name.",
		Steps: []types.TestStep{
			{Action: "Tap the search field on the main view", Expected: "Search field activates and keyboard appears"},
			{Action: "Enter \"Oulu\" as search term", Expected: "Text appears in the search field"},
			{Action: "Execute the search", Expected: "Results list Oulu weather stations"},
			{Action: "Capture screenshot of results", Expected: "Screenshot attached to report"},
		},
	},
	{
		Function:    "test_oulu_vihreasaari",
		Title:       "Saa App - Oulu Vihreasaari Weather Station",
		Description: "Verify that the Vihreasaari station is reachable from the Oulu search results and shows station data.",
		Steps: []types.TestStep{
			{Action: "Search for Oulu weather stations", Expected: "Results include Vihreasaari"},
			{Action: "Select the Vihreasaari station", Expected: "Station detail view opens"},
			{Action: "Verify station data loads", Expected: "Temperature and wind readings shown"},
		},
	},
	{
		Function:    "test_oulu_airport",
		Title:       "Saa App - Oulu Airport Weather Station",
		Description: "Verify that the Oulu Airport station provides weather data.",
		Steps: []types.TestStep{
			{Action: "Navigate to the Oulu Airport station", Expected: "Station detail view opens"},
			{Action: "Verify airport weather data", Expected: "Current readings are displayed"},
		},
	},
	{
		Function:    "test_warmest_view",
		Title:       "Saa App - Warmest Temperature View",
		Description: "Verify that the warmest temperature ranking displays correctly.",
		Steps: []types.TestStep{
			{Action: "Navigate to the warmest temperature section", Expected: "Ranking of warmest stations is shown"},
		},
	},
	{
		Function:    "test_coldest_view",
		Title:       "Saa App - Coldest Temperature View",
		Description: "Verify that the coldest temperature ranking displays correctly.",
		Steps: []types.TestStep{
			{Action: "Navigate to the coldest temperature section", Expected: "Ranking of coldest stations is shown"},
		},
	},
	{
		Function:    "test_rainiest_view",
		Title:       "Saa App - Rainiest Location View",
		Description: "Verify that the rainiest location ranking displays correctly.",
		Steps: []types.TestStep{
			{Action: "Navigate to the rainiest location section", Expected: "Ranking of rainiest locations is shown"},
		},
	},
	{
		Function:    "test_windiest_view",
		Title:       "Saa App - Windiest Location View",
		Description: "Verify that the windiest location ranking displays correctly.",
		Steps: []types.TestStep{
			{Action: "Navigate to the windiest location section", Expected: "Ranking of windiest locations is shown"},
		},
	},
	{
		Function:    "test_records_tab",
		Title:       "Saa App - Weather Records Tab Access",
		Description: "Verify that the weather records tab is reachable and renders.",
		Steps: []types.TestStep{
			{Action: "Open the records tab", Expected: "Records view is displayed"},
		},
	},
	{
		Function:    "test_final_home_check",
		Title:       "Saa App - Final Home Navigation Check",
		Description: "Verify that navigation back to the home view works at the end of the suite.",
		Steps: []types.TestStep{
			{Action: "Navigate back to the home tab", Expected: "Main view is displayed again"},
		},
	},
}
