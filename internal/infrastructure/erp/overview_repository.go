package erp

import (
	"context"

	"github.com/vivo/salesops-backend/internal/domain/sales"
)

// SalesOverviewRepository serves the region-wide sales summary rows.
type SalesOverviewRepository struct {
	client *Client
}

// NewSalesOverviewRepository creates a new overview repository
func NewSalesOverviewRepository(client *Client) *SalesOverviewRepository {
	return &SalesOverviewRepository{client: client}
}

// ListByScope returns the summary rows for the given region and outlet.
func (r *SalesOverviewRepository) ListByScope(ctx context.Context, regionCode, outletCode string) ([]sales.Overview, error) {
	body, err := r.client.Fetch(ctx, listPath(endpointSalesData, scopeFilter(regionCode, outletCode)))
	if err != nil {
		return nil, err
	}
	return collection[sales.Overview](body)
}

// Ensure SalesOverviewRepository implements the domain interface
var _ sales.OverviewRepository = (*SalesOverviewRepository)(nil)
