package azure

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/config"
	"github.com/teppoaland/sbsaa/pkg/types"
)

// recordedRequest captures one request the mock service received.
type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Username    string
	Password    string
	Ops         []map[string]any
}

// opByPath returns the first patch operation targeting the given path.
func (r recordedRequest) opByPath(path string) (map[string]any, bool) {
	for _, op := range r.Ops {
		if op["path"] == path {
			return op, true
		}
	}
	return nil, false
}

// mockService is a minimal work item tracking endpoint that records every
// request and answers creations with a fixed id.
type mockService struct {
	server   *httptest.Server
	requests []recordedRequest
	nextID   int
	failWith int // when non-zero, every request fails with this status
}

func newMockService(t *testing.T) *mockService {
	t.Helper()
	m := &mockService{nextID: 100}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
		}
		rec.Username, rec.Password, _ = r.BasicAuth()
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Ops)
		}
		m.requests = append(m.requests, rec)

		if m.failWith != 0 {
			w.WriteHeader(m.failWith)
			_, _ = w.Write([]byte(`{"message":"TF400813: access denied"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/workitems/$") {
			m.nextID++
			_ = json.NewEncoder(w).Encode(map[string]any{"id": m.nextID})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 0, "name": "weather"})
	}))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockService) client() *Client {
	return New(&config.Config{
		OrganizationURL:     m.server.URL,
		Project:             "weather",
		PersonalAccessToken: "secret-pat",
		BugPriority:         "2",
		BugSeverity:         "3 - Medium",
	}, zap.NewNop())
}

func TestCreateIssue(t *testing.T) {
	m := newMockService(t)

	id, err := m.client().CreateIssue("Search functionality", "As a user...", "<ul><li>Keyboard appears</li></ul>")
	require.NoError(t, err)
	assert.Equal(t, 101, id)

	require.Len(t, m.requests, 1)
	req := m.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Contains(t, req.Path, "/weather/_apis/wit/workitems/$Issue")
	assert.Equal(t, "application/json-patch+json", req.ContentType)
	assert.Equal(t, "", req.Username, "PAT auth uses an empty username")
	assert.Equal(t, "secret-pat", req.Password)

	title, ok := req.opByPath("/fields/System.Title")
	require.True(t, ok)
	assert.Equal(t, "add", title["op"])
	assert.Equal(t, "Search functionality", title["value"])

	state, ok := req.opByPath("/fields/System.State")
	require.True(t, ok)
	assert.Equal(t, "To Do", state["value"])

	// Basic template: acceptance criteria fold into the description.
	desc, ok := req.opByPath("/fields/System.Description")
	require.True(t, ok)
	assert.Contains(t, desc["value"], "Acceptance Criteria")
	assert.Contains(t, desc["value"], "Keyboard appears")
}

func TestCreateUserStory(t *testing.T) {
	m := newMockService(t)

	_, err := m.client().CreateUserStory("Weather search", "story text", "criteria text")
	require.NoError(t, err)

	req := m.requests[0]
	assert.Contains(t, req.Path, "/workitems/$User Story")

	state, ok := req.opByPath("/fields/System.State")
	require.True(t, ok)
	assert.Equal(t, "New", state["value"])

	ac, ok := req.opByPath("/fields/Microsoft.VSTS.Common.AcceptanceCriteria")
	require.True(t, ok)
	assert.Equal(t, "criteria text", ac["value"])
}

func TestCreateTestCase(t *testing.T) {
	m := newMockService(t)

	steps := []types.TestStep{
		{Action: "Tap the search field", Expected: "Keyboard appears"},
		{Action: "Type Oulu"},
	}
	_, err := m.client().CreateTestCase("Oulu search", "", steps, 55)
	require.NoError(t, err)

	req := m.requests[0]
	assert.Contains(t, req.Path, "/workitems/$Test Case")

	state, ok := req.opByPath("/fields/System.State")
	require.True(t, ok)
	assert.Equal(t, "Design", state["value"])

	stepsOp, ok := req.opByPath("/fields/Microsoft.VSTS.TCM.Steps")
	require.True(t, ok)
	assert.Contains(t, stepsOp["value"], "Tap the search field")

	parent, ok := req.opByPath("/fields/System.Parent")
	require.True(t, ok)
	assert.Equal(t, float64(55), parent["value"])

	// Empty description must be excluded from the payload.
	_, ok = req.opByPath("/fields/System.Description")
	assert.False(t, ok)
}

func TestCreateTestCaseWithoutStepsOrParent(t *testing.T) {
	m := newMockService(t)

	_, err := m.client().CreateTestCase("Bare case", "", nil, 0)
	require.NoError(t, err)

	req := m.requests[0]
	_, hasSteps := req.opByPath("/fields/Microsoft.VSTS.TCM.Steps")
	assert.False(t, hasSteps)
	_, hasParent := req.opByPath("/fields/System.Parent")
	assert.False(t, hasParent)
}

func TestUpdateResult(t *testing.T) {
	tests := []struct {
		name      string
		outcome   types.Outcome
		detail    string
		wantState string
		wantCalls int
	}{
		{
			name:      "passed closes the item",
			outcome:   types.OutcomePassed,
			detail:    "took 3.20 seconds",
			wantState: "Closed",
			wantCalls: 1,
		},
		{
			name:      "failed reopens to ready",
			outcome:   types.OutcomeFailed,
			detail:    "assertion failed",
			wantState: "Ready",
			wantCalls: 1,
		},
		{
			name:      "skipped changes no state but records history",
			outcome:   types.OutcomeSkipped,
			detail:    "skipped: device offline",
			wantState: "",
			wantCalls: 1,
		},
		{
			name:      "skipped with no detail issues no request",
			outcome:   types.OutcomeSkipped,
			detail:    "",
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockService(t)

			err := m.client().UpdateResult(7, tt.outcome, tt.detail)
			require.NoError(t, err)
			require.Len(t, m.requests, tt.wantCalls)
			if tt.wantCalls == 0 {
				return
			}

			req := m.requests[0]
			assert.Equal(t, http.MethodPatch, req.Method)
			assert.Contains(t, req.Path, "/workitems/7")

			state, hasState := req.opByPath("/fields/System.State")
			if tt.wantState == "" {
				assert.False(t, hasState)
			} else {
				require.True(t, hasState)
				assert.Equal(t, tt.wantState, state["value"])
			}

			if tt.detail != "" {
				history, ok := req.opByPath("/fields/System.History")
				require.True(t, ok)
				assert.Contains(t, history["value"], tt.detail)
			}
		})
	}
}

func TestLinkNormalizesRelationKind(t *testing.T) {
	m := newMockService(t)

	err := m.client().Link(101, 55, types.RelationTestedBy)
	require.NoError(t, err)

	req := m.requests[0]
	rel, ok := req.opByPath("/relations/-")
	require.True(t, ok)

	value := rel["value"].(map[string]any)
	assert.Equal(t, "System.LinkTypes.Related", value["rel"], "tested-by degrades to the generic related link")
	assert.Contains(t, value["url"], "/_workitems/edit/55")

	attrs := value["attributes"].(map[string]any)
	assert.Contains(t, attrs["comment"], types.RelationTestedBy)
}

func TestCreateBugFromFailure(t *testing.T) {
	m := newMockService(t)

	id, err := m.client().CreateBugFromFailure("test_login", "AssertionError: button not found", "Test_features_automation_allure.py", 42)
	require.NoError(t, err)
	assert.Equal(t, 101, id)

	require.Len(t, m.requests, 2, "bug creation then link")

	create := m.requests[0]
	assert.Contains(t, create.Path, "/workitems/$Bug")

	title, ok := create.opByPath("/fields/System.Title")
	require.True(t, ok)
	assert.Equal(t, "Test Failure: test_login", title["value"])

	desc, ok := create.opByPath("/fields/System.Description")
	require.True(t, ok)
	assert.Contains(t, desc["value"], "AssertionError: button not found")
	assert.Contains(t, desc["value"], "Investigation Steps")

	priority, ok := create.opByPath("/fields/Microsoft.VSTS.Common.Priority")
	require.True(t, ok)
	assert.Equal(t, float64(2), priority["value"], "priority goes out as a number")

	link := m.requests[1]
	assert.Equal(t, http.MethodPatch, link.Method)
	assert.Contains(t, link.Path, "/workitems/101")
}

func TestCreateBugLinkFailureKeepsBug(t *testing.T) {
	m := newMockService(t)
	c := m.client()

	// First request (create) succeeds, then the link call starts failing.
	m.server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/workitems/$Bug") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 200})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	id, err := c.CreateBugFromFailure("test_login", "boom", "file.py", 42)
	require.NoError(t, err, "a failed link does not fail the bug creation")
	assert.Equal(t, 200, id)
}

func TestCreateIssueServiceError(t *testing.T) {
	m := newMockService(t)
	m.failWith = http.StatusUnauthorized

	_, err := m.client().CreateIssue("title", "desc", "")
	require.Error(t, err)

	var svcErr *types.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Status)
	assert.Contains(t, svcErr.Body, "TF400813")
}

func TestTestConnection(t *testing.T) {
	t.Run("reachable project", func(t *testing.T) {
		m := newMockService(t)
		assert.True(t, m.client().TestConnection())

		req := m.requests[0]
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Contains(t, req.Path, "/_apis/projects/weather")
	})

	t.Run("rejected probe", func(t *testing.T) {
		m := newMockService(t)
		m.failWith = http.StatusNotFound
		assert.False(t, m.client().TestConnection())
	})

	t.Run("unreachable service", func(t *testing.T) {
		m := newMockService(t)
		c := m.client()
		m.server.Close()
		assert.False(t, c.TestConnection())
	})
}
