package erp

import (
	"context"

	"github.com/vivo/salesops-backend/internal/domain/sales"
)

// CatalogRepository serves the product and SKU catalogs. Both are small,
// unscoped reference tables; they are fetched fresh on every call.
type CatalogRepository struct {
	client *Client
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(client *Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

// Products returns the full product catalog.
func (r *CatalogRepository) Products(ctx context.Context) ([]sales.Product, error) {
	body, err := r.client.Fetch(ctx, "/"+endpointProducts)
	if err != nil {
		return nil, err
	}
	return collection[sales.Product](body)
}

// SKUs returns the full lubricant SKU catalog.
func (r *CatalogRepository) SKUs(ctx context.Context) ([]sales.SKU, error) {
	body, err := r.client.Fetch(ctx, "/"+endpointSKUs)
	if err != nil {
		return nil, err
	}
	return collection[sales.SKU](body)
}

// Ensure CatalogRepository implements the domain interface
var _ sales.LookupRepository = (*CatalogRepository)(nil)
