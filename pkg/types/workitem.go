package types

// Work item types recognized by the tracking project. The Basic process
// template uses Issue where other templates use User Story; both are kept
// because the project template is not known at compile time.
const (
	WorkItemIssue     = "Issue"
	WorkItemUserStory = "User Story"
	WorkItemTestCase  = "Test Case"
	WorkItemBug       = "Bug"
)

// initialStates maps each work item type to the state a freshly created
// item starts in.
var initialStates = map[string]string{
	WorkItemIssue:     "To Do",
	WorkItemUserStory: "New",
	WorkItemTestCase:  "Design",
	WorkItemBug:       "New",
}

// InitialState returns the creation state for the given work item type.
// Unknown types default to "New".
func InitialState(workItemType string) string {
	if s, ok := initialStates[workItemType]; ok {
		return s
	}
	return "New"
}

// Relation kinds used when linking work items. The service supports a wider
// set; kinds outside this list degrade to RelationRelated on the wire.
const (
	RelationTestedBy = "Tested By"
	RelationTests    = "Tests"
	RelationRelated  = "Related"
)

// TestStep is one ordered (action, expected result) pair of a test case.
// Steps are serialized into the service's step markup on creation.
type TestStep struct {
	Action   string
	Expected string
}
