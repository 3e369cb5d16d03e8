package sales

import "context"

// HeaderRepository provides access to sales headers held by the ERP.
// Every list is scoped by region and outlet; the repository never caches.
type HeaderRepository interface {
	ListOpen(ctx context.Context, regionCode, outletCode string) ([]Header, error)
	ListPending(ctx context.Context, regionCode, outletCode string) ([]Header, error)
	ListApproved(ctx context.Context, regionCode, outletCode string) ([]Header, error)
	ListRejected(ctx context.Context, regionCode, outletCode string) ([]Header, error)
	GetByNo(ctx context.Context, no string) (*Header, error)
	Create(ctx context.Context, regionCode, outletCode string) (*Header, error)
}

// LineRepository provides access to sales lines. Patch implements the
// optimistic-concurrency protocol: a conditional PATCH that retries exactly
// once after a 409 with a freshly fetched ETag.
type LineRepository interface {
	ListByHeader(ctx context.Context, no string) ([]Line, error)
	Create(ctx context.Context, no string) (*Line, error)
	Patch(ctx context.Context, no string, sn int, patch LinePatch, etag string) (*Line, error)
	Delete(ctx context.Context, no string, sn int, etag string) error
}

// ActionRepository invokes the ERP's named approval actions. None of these
// are retried; the server validates the source status.
type ActionRepository interface {
	SubmitForApproval(ctx context.Context, no, etag string) (*ActionResult, error)
	ReturnToOpen(ctx context.Context, no string) error
	Approve(ctx context.Context, no string) error
	Reject(ctx context.Context, no string) (*ActionResult, error)
}

// LookupRepository serves the product and SKU catalogs.
type LookupRepository interface {
	Products(ctx context.Context) ([]Product, error)
	SKUs(ctx context.Context) ([]SKU, error)
}

// OverviewRepository serves the region-wide sales summary.
type OverviewRepository interface {
	ListByScope(ctx context.Context, regionCode, outletCode string) ([]Overview, error)
}
