package erp

import (
	"context"
	"encoding/json"

	"github.com/vivo/salesops-backend/internal/domain/sales"
)

// SalesActionRepository invokes the ERP's named approval actions. The
// server validates the source status itself; nothing here is retried and
// failures carry the upstream status and body.
type SalesActionRepository struct {
	client *Client
}

// NewSalesActionRepository creates a new action repository
func NewSalesActionRepository(client *Client) *SalesActionRepository {
	return &SalesActionRepository{client: client}
}

// SubmitForApproval moves an Open document to Pending Approval. The etag
// is optional; when present it is sent as If-Match.
func (r *SalesActionRepository) SubmitForApproval(ctx context.Context, no, etag string) (*sales.ActionResult, error) {
	body, err := r.client.Invoke(ctx, actionPath(actionSubmit), actionBody(no), etag)
	if err != nil {
		return nil, err
	}
	return parseActionResult(body, no)
}

// ReturnToOpen moves a Pending Approval document back to Open.
func (r *SalesActionRepository) ReturnToOpen(ctx context.Context, no string) error {
	_, err := r.client.Invoke(ctx, actionPath(actionReturn), actionBody(no), "")
	return err
}

// Approve finalizes a Pending Approval document.
func (r *SalesActionRepository) Approve(ctx context.Context, no string) error {
	_, err := r.client.Invoke(ctx, actionPath(actionApprove), actionBody(no), "")
	return err
}

// Reject declines a Pending Approval document. The ERP answers with the
// affected record's SN and Code.
func (r *SalesActionRepository) Reject(ctx context.Context, no string) (*sales.ActionResult, error) {
	body, err := r.client.Invoke(ctx, actionPath(actionReject), actionBody(no), "")
	if err != nil {
		return nil, err
	}
	return parseActionResult(body, no)
}

func actionBody(no string) map[string]any {
	return map[string]any{"Code": no}
}

// parseActionResult decodes the action response, tolerating the empty
// body some actions answer with.
func parseActionResult(body []byte, no string) (*sales.ActionResult, error) {
	if len(body) == 0 {
		return &sales.ActionResult{Code: no}, nil
	}

	var result sales.ActionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Code == "" {
		result.Code = no
	}
	return &result, nil
}

// Ensure SalesActionRepository implements the domain interface
var _ sales.ActionRepository = (*SalesActionRepository)(nil)
