// Package azure drives work item CRUD against the Azure DevOps REST API.
//
// It is not a general-purpose client: only the operations the result
// synchronizer and the setup commands need are implemented. Requests that
// create or mutate work items are expressed as JSON Patch documents per the
// work item tracking wire contract; field paths are service-defined and
// passed through verbatim.
package azure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/config"
	"github.com/teppoaland/sbsaa/pkg/types"
)

const (
	apiVersion = "7.1"

	// Remote calls carry a bounded timeout after which they surface as a
	// ServiceError. There is no retry policy; a failed call is logged and
	// abandoned by the caller.
	defaultTimeout = 10 * time.Second

	patchContentType = "application/json-patch+json"

	// Response bodies are truncated in errors to keep log lines readable.
	maxBodyExcerpt = 512
)

// Client performs work item operations against one Azure DevOps project.
type Client struct {
	cfg    *config.Config
	http   *http.Client
	logger *zap.Logger
}

// New creates a client using the resolved configuration for authentication
// and addressing.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// patchOp is one ordered field-patch operation of a JSON Patch document.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// addField returns an "add" operation for a work item field.
func addField(field string, value any) patchOp {
	return patchOp{Op: "add", Path: "/fields/" + field, Value: value}
}

// workItemResponse is the subset of the create/update response the client
// reads back.
type workItemResponse struct {
	ID int `json:"id"`
}

// createWorkItem POSTs a creation patch document for the given work item
// type and returns the new item's id.
func (c *Client) createWorkItem(workItemType string, ops []patchOp) (int, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/wit/workitems/$%s?api-version=%s",
		c.cfg.OrganizationURL, url.PathEscape(c.cfg.Project), url.PathEscape(workItemType), apiVersion)

	op := "create " + workItemType
	var created workItemResponse
	if err := c.patch(http.MethodPost, endpoint, op, ops, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// updateWorkItem PATCHes an existing work item with the given operations.
func (c *Client) updateWorkItem(workItemID int, ops []patchOp) error {
	endpoint := fmt.Sprintf("%s/%s/_apis/wit/workitems/%d?api-version=%s",
		c.cfg.OrganizationURL, url.PathEscape(c.cfg.Project), workItemID, apiVersion)

	op := fmt.Sprintf("update work item %d", workItemID)
	return c.patch(http.MethodPatch, endpoint, op, ops, nil)
}

// patch sends a JSON Patch document and decodes the response into out when
// out is non-nil. All failures come back as *types.ServiceError.
func (c *Client) patch(method, endpoint, op string, ops []patchOp, out any) error {
	payload, err := json.Marshal(ops)
	if err != nil {
		return &types.ServiceError{Op: op, Err: err}
	}

	req, err := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &types.ServiceError{Op: op, Err: err}
	}
	req.SetBasicAuth("", c.cfg.PersonalAccessToken)
	req.Header.Set("Content-Type", patchContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return &types.ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &types.ServiceError{Op: op, Status: resp.StatusCode, Body: bodyExcerpt(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &types.ServiceError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func bodyExcerpt(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxBodyExcerpt))
	return string(body)
}

// TestConnection probes the project metadata endpoint with a read-only GET.
// Callers should abort a batch of creations when it returns false to avoid
// partial batches.
func (c *Client) TestConnection() bool {
	endpoint := fmt.Sprintf("%s/_apis/projects/%s?api-version=%s",
		c.cfg.OrganizationURL, url.PathEscape(c.cfg.Project), apiVersion)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("connection probe failed", zap.Error(err))
		return false
	}
	req.SetBasicAuth("", c.cfg.PersonalAccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("connection probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("connection probe rejected",
			zap.Int("status", resp.StatusCode), zap.String("body", bodyExcerpt(resp.Body)))
		return false
	}
	return true
}
