package erp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/domain/shared"
)

// SalesLineRepository manages sales lines through conditional writes.
// Patch carries the optimistic-concurrency protocol: one conditional
// PATCH, and on a 409 exactly one refetch-and-retry with the fresh ETag.
type SalesLineRepository struct {
	client *Client
}

// NewSalesLineRepository creates a new line repository
func NewSalesLineRepository(client *Client) *SalesLineRepository {
	return &SalesLineRepository{client: client}
}

// ListByHeader returns every line of the given document.
func (r *SalesLineRepository) ListByHeader(ctx context.Context, no string) ([]sales.Line, error) {
	body, err := r.client.Fetch(ctx, listPath(endpointSalesLines, eqFilter("No", no)))
	if err != nil {
		return nil, err
	}
	return collection[sales.Line](body)
}

// Create appends an empty line to the document. The ERP assigns the SN
// and the officer fields from the authenticated service account.
func (r *SalesLineRepository) Create(ctx context.Context, no string) (*sales.Line, error) {
	body, err := r.client.Create(ctx, "/"+endpointSalesLines, map[string]any{"No": no})
	if err != nil {
		return nil, err
	}
	return entity[sales.Line](body)
}

// Patch applies the edit with If-Match. On a 409 the current ETag is
// refetched and the PATCH is reissued once; a second failure of any kind
// is surfaced, so a logical edit never writes more than twice. The
// returned line is the server's recomputed row and replaces the caller's
// copy wholesale.
func (r *SalesLineRepository) Patch(ctx context.Context, no string, sn int, patch sales.LinePatch, etag string) (*sales.Line, error) {
	if patch.IsEmpty() {
		return nil, shared.ErrInvalidInput
	}

	path := linePath(no, sn)
	fields := patch.Fields()

	body, err := r.client.Update(ctx, path, fields, etag)
	if err != nil {
		if !IsStatus(err, http.StatusConflict) {
			return nil, err
		}

		fresh, err := r.currentETag(ctx, no, sn)
		if err != nil {
			return nil, err
		}

		body, err = r.client.Update(ctx, path, fields, fresh)
		if err != nil {
			return nil, err
		}
	}

	var line sales.Line
	if err := json.Unmarshal(body, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// Delete removes a line with If-Match. Deletes are not retried.
func (r *SalesLineRepository) Delete(ctx context.Context, no string, sn int, etag string) error {
	return r.client.Remove(ctx, linePath(no, sn), etag)
}

// currentETag fetches the concurrency token of a single line. $select
// narrows the payload to one column; the etag arrives in the metadata
// regardless of the selection.
func (r *SalesLineRepository) currentETag(ctx context.Context, no string, sn int) (string, error) {
	body, err := r.client.Fetch(ctx, linePath(no, sn)+"?$select=SN")
	if err != nil {
		return "", err
	}

	var row struct {
		ETag string `json:"@odata.etag"`
	}
	if err := json.Unmarshal(body, &row); err != nil {
		return "", err
	}
	return row.ETag, nil
}

// Ensure SalesLineRepository implements the domain interface
var _ sales.LineRepository = (*SalesLineRepository)(nil)
