package erp

import (
	"context"

	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/domain/shared"
)

// SalesHeaderRepository serves sales headers straight from the ERP's list
// endpoints. Each approval state has its own entity set; the region/outlet
// filter scopes every list.
type SalesHeaderRepository struct {
	client *Client
}

// NewSalesHeaderRepository creates a new header repository
func NewSalesHeaderRepository(client *Client) *SalesHeaderRepository {
	return &SalesHeaderRepository{client: client}
}

func (r *SalesHeaderRepository) ListOpen(ctx context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return r.list(ctx, endpointOpenList, regionCode, outletCode)
}

func (r *SalesHeaderRepository) ListPending(ctx context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return r.list(ctx, endpointPendingList, regionCode, outletCode)
}

func (r *SalesHeaderRepository) ListApproved(ctx context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return r.list(ctx, endpointApprovedList, regionCode, outletCode)
}

func (r *SalesHeaderRepository) ListRejected(ctx context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return r.list(ctx, endpointRejectedList, regionCode, outletCode)
}

func (r *SalesHeaderRepository) list(ctx context.Context, entitySet, regionCode, outletCode string) ([]sales.Header, error) {
	body, err := r.client.Fetch(ctx, listPath(entitySet, scopeFilter(regionCode, outletCode)))
	if err != nil {
		return nil, err
	}
	return collection[sales.Header](body)
}

// GetByNo fetches a single header through the detail entity set. The ERP
// answers a filtered list; zero rows means the document does not exist.
func (r *SalesHeaderRepository) GetByNo(ctx context.Context, no string) (*sales.Header, error) {
	body, err := r.client.Fetch(ctx, listPath(endpointHeaderDetail, eqFilter("No", no)))
	if err != nil {
		return nil, err
	}

	headers, err := collection[sales.Header](body)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, shared.ErrNotFound
	}
	return &headers[0], nil
}

// Create inserts a new header carrying only the capturing scope; the ERP
// assigns the document number, dates and initial Open status.
func (r *SalesHeaderRepository) Create(ctx context.Context, regionCode, outletCode string) (*sales.Header, error) {
	payload := map[string]any{
		"Region_Code": regionCode,
		"Outlet_Code": outletCode,
	}

	body, err := r.client.Create(ctx, "/"+endpointSalesHeader, payload)
	if err != nil {
		return nil, err
	}
	return entity[sales.Header](body)
}

// Ensure SalesHeaderRepository implements the domain interface
var _ sales.HeaderRepository = (*SalesHeaderRepository)(nil)
