package types

// MappingEntry associates a test identifier with a work item in the tracking
// project. Entries are keyed by test identifier in the persisted mapping
// file, so the identifier itself is not part of the serialized value.
// Unknown keys in a persisted value are ignored on read for forward
// compatibility.
type MappingEntry struct {
	TestID       string `json:"-"`
	WorkItemID   int    `json:"work_item_id"`
	WorkItemType string `json:"work_item_type"`
	URL          string `json:"url"`
}
