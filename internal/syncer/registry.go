package syncer

import "fmt"

// ReportSink accepts named links and attachments for the human-readable test
// report. The reporting backend is an external collaborator; a nil sink is
// valid and drops everything.
type ReportSink interface {
	AddLink(name, url string)
	Attach(name, mimeType string, data []byte)
}

// Registry holds static test-to-work-item associations declared at test
// definition time. It is the fallback when the mapping store has no entry:
// dynamic mappings always win over static associations for the same test.
//
// The registry is a plain side table populated once at load time, queried
// like any other data structure.
type Registry struct {
	assoc  map[string]int
	urlFor func(workItemID int) string
	sink   ReportSink
}

// NewRegistry creates an empty registry. urlFor renders the canonical work
// item URL for report links; sink may be nil.
func NewRegistry(urlFor func(int) string, sink ReportSink) *Registry {
	return &Registry{
		assoc:  make(map[string]int),
		urlFor: urlFor,
		sink:   sink,
	}
}

// Associate attaches workItemID to testID and publishes a discoverable link
// in the report. It does not touch the mapping store.
func (r *Registry) Associate(testID string, workItemID int) {
	r.assoc[testID] = workItemID
	if r.sink != nil {
		r.sink.AddLink(fmt.Sprintf("Azure Work Item %d", workItemID), r.urlFor(workItemID))
	}
}

// Lookup returns the statically associated work item id for testID.
func (r *Registry) Lookup(testID string) (int, bool) {
	id, ok := r.assoc[testID]
	return id, ok
}

// Len returns the number of static associations.
func (r *Registry) Len() int {
	return len(r.assoc)
}
