package azure

import (
	"fmt"
	"html"
	"strconv"

	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/pkg/types"
)

// CreateIssue creates an Issue work item. The Basic process template has no
// separate acceptance criteria field, so criteria are folded into the
// description.
func (c *Client) CreateIssue(title, description, acceptanceCriteria string) (int, error) {
	if acceptanceCriteria != "" {
		description = fmt.Sprintf("%s<br/><br/><h3>Acceptance Criteria</h3>%s", description, acceptanceCriteria)
	}

	ops := []patchOp{
		addField("System.Title", title),
		addField("System.State", types.InitialState(types.WorkItemIssue)),
	}
	if description != "" {
		ops = append(ops, addField("System.Description", description))
	}

	id, err := c.createWorkItem(types.WorkItemIssue, ops)
	if err != nil {
		return 0, err
	}
	c.logger.Info("created issue", zap.Int("work_item_id", id), zap.String("title", title))
	return id, nil
}

// CreateUserStory creates a User Story work item with the Agile template's
// dedicated acceptance criteria field.
func (c *Client) CreateUserStory(title, description, acceptanceCriteria string) (int, error) {
	ops := []patchOp{
		addField("System.Title", title),
		addField("System.State", types.InitialState(types.WorkItemUserStory)),
	}
	if description != "" {
		ops = append(ops, addField("System.Description", description))
	}
	if acceptanceCriteria != "" {
		ops = append(ops, addField("Microsoft.VSTS.Common.AcceptanceCriteria", acceptanceCriteria))
	}

	id, err := c.createWorkItem(types.WorkItemUserStory, ops)
	if err != nil {
		return 0, err
	}
	c.logger.Info("created user story", zap.Int("work_item_id", id), zap.String("title", title))
	return id, nil
}

// CreateTestCase creates a Test Case work item. The ordered steps are
// serialized into the service's step markup; empty fields are excluded from
// the patch document because the service rejects null field values.
// parentID, when positive, becomes the parent work item of the test case.
func (c *Client) CreateTestCase(title, description string, steps []types.TestStep, parentID int) (int, error) {
	ops := []patchOp{
		addField("System.Title", title),
		addField("System.State", types.InitialState(types.WorkItemTestCase)),
	}
	if description != "" {
		ops = append(ops, addField("System.Description", description))
	}
	if markup := StepsMarkup(steps); markup != "" {
		ops = append(ops, addField("Microsoft.VSTS.TCM.Steps", markup))
	}
	if parentID > 0 {
		ops = append(ops, addField("System.Parent", parentID))
	}

	id, err := c.createWorkItem(types.WorkItemTestCase, ops)
	if err != nil {
		return 0, err
	}
	c.logger.Info("created test case", zap.Int("work_item_id", id), zap.String("title", title))
	return id, nil
}

// CreateBugFromFailure creates a Bug work item for a failed test and, when
// linkedID is positive, links it to the originating test case with a
// tested-by relation. A failed link leaves the created bug in place; the
// bug id is still returned.
func (c *Client) CreateBugFromFailure(testID, errorDetail, testLocation string, linkedID int) (int, error) {
	ops := []patchOp{
		addField("System.Title", "Test Failure: "+testID),
		addField("System.State", types.InitialState(types.WorkItemBug)),
		addField("System.Description", failureDescription(testID, errorDetail, testLocation)),
		addField("Microsoft.VSTS.Common.Priority", bugPriority(c.cfg.BugPriority)),
		addField("Microsoft.VSTS.Common.Severity", c.cfg.BugSeverity),
	}
	if c.cfg.DefaultAssignee != "" {
		ops = append(ops, addField("System.AssignedTo", c.cfg.DefaultAssignee))
	}

	id, err := c.createWorkItem(types.WorkItemBug, ops)
	if err != nil {
		return 0, err
	}
	c.logger.Info("created bug from test failure",
		zap.Int("work_item_id", id), zap.String("test_id", testID))

	if linkedID > 0 {
		if err := c.Link(id, linkedID, types.RelationTestedBy); err != nil {
			c.logger.Warn("bug created but link to test case failed",
				zap.Int("bug_id", id), zap.Int("test_case_id", linkedID), zap.Error(err))
		}
	}
	return id, nil
}

// Link appends a directed relation from sourceID to targetID. Relation kinds
// outside the project's supported set degrade to a generic related link; the
// requested kind is preserved in the link comment.
func (c *Client) Link(sourceID, targetID int, kind string) error {
	ops := []patchOp{{
		Op:   "add",
		Path: "/relations/-",
		Value: map[string]any{
			"rel": normalizeRelation(kind),
			"url": c.cfg.WorkItemURL(targetID),
			"attributes": map[string]any{
				"comment": fmt.Sprintf("Linked by Saa app test automation (%s)", kind),
			},
		},
	}}
	return c.updateWorkItem(sourceID, ops)
}

// UpdateResult maps a test outcome onto a work item state transition and
// appends the execution detail to the item's history. PASSED closes the
// item, FAILED reopens it to Ready, SKIPPED changes no state. A call that
// produces no operations issues no request.
func (c *Client) UpdateResult(workItemID int, outcome types.Outcome, detail string) error {
	var ops []patchOp
	switch outcome {
	case types.OutcomePassed:
		ops = append(ops, addField("System.State", "Closed"))
	case types.OutcomeFailed:
		ops = append(ops, addField("System.State", "Ready"))
	}

	if detail != "" {
		ops = append(ops, addField("System.History", "<strong>Automated Test Result:</strong><br/>"+detail))
	}

	if len(ops) == 0 {
		return nil
	}

	if err := c.updateWorkItem(workItemID, ops); err != nil {
		return err
	}
	c.logger.Info("updated work item with test result",
		zap.Int("work_item_id", workItemID), zap.String("outcome", string(outcome)))
	return nil
}

// relationRefs maps relation kinds to the reference names the project's
// process template supports.
var relationRefs = map[string]string{
	types.RelationRelated: "System.LinkTypes.Related",
}

// normalizeRelation maps a relation kind to a supported reference name.
// The Basic template only carries the generic related link type, so
// unsupported kinds degrade to it; the requested kind survives in the link
// comment.
func normalizeRelation(kind string) string {
	if ref, ok := relationRefs[kind]; ok {
		return ref
	}
	return "System.LinkTypes.Related"
}

// bugPriority parses the configured priority; the service expects a number.
func bugPriority(configured string) int {
	p, err := strconv.Atoi(configured)
	if err != nil || p < 1 || p > 4 {
		return 2
	}
	return p
}

// failureDescription renders the fixed bug description template: the
// failing test's identity, its raw error text, and the standard
// investigation checklist.
func failureDescription(testID, errorDetail, testLocation string) string {
	return fmt.Sprintf(`<h3>Automated Test Failure</h3>
<p><strong>Test Function:</strong> %s</p>
<p><strong>Test File:</strong> %s</p>
<h4>Error Details:</h4>
<pre>%s</pre>
<h4>Investigation Steps:</h4>
<ul>
<li>Verify if this is a test issue or application bug</li>
<li>Check recent code changes that might affect this functionality</li>
<li>Review test environment and device configuration</li>
<li>Validate test data and assumptions</li>
</ul>`, html.EscapeString(testID), html.EscapeString(testLocation), html.EscapeString(errorDetail))
}
