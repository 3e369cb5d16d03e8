package sales

import (
	"context"

	"go.uber.org/zap"

	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/infrastructure/erp"
	"github.com/vivo/salesops-backend/internal/infrastructure/logger"
)

// SalesService orchestrates every sales operation. It scopes list reads by
// the caller's session, routes line edits through the conflict-retry
// protocol, and invokes the ERP's approval actions. It never caches and
// never pre-validates status transitions; the ERP's answer is
// authoritative.
type SalesService struct {
	headers  sales.HeaderRepository
	lines    sales.LineRepository
	actions  sales.ActionRepository
	lookups  sales.LookupRepository
	overview sales.OverviewRepository
	logger   *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	headers sales.HeaderRepository,
	lines sales.LineRepository,
	actions sales.ActionRepository,
	lookups sales.LookupRepository,
	overview sales.OverviewRepository,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		headers:  headers,
		lines:    lines,
		actions:  actions,
		lookups:  lookups,
		overview: overview,
		logger:   logger,
	}
}

// log prefers the request-scoped logger so lines carry the request ID.
func (s *SalesService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

// ListOpen returns the caller's open sales documents with the page footer.
func (s *SalesService) ListOpen(ctx context.Context, sess *identity.Session) (*HeaderList, error) {
	return s.list(ctx, sess, s.headers.ListOpen)
}

// ListPending returns the caller's documents awaiting approval.
func (s *SalesService) ListPending(ctx context.Context, sess *identity.Session) (*HeaderList, error) {
	return s.list(ctx, sess, s.headers.ListPending)
}

// ListApproved returns the caller's approved documents.
func (s *SalesService) ListApproved(ctx context.Context, sess *identity.Session) (*HeaderList, error) {
	return s.list(ctx, sess, s.headers.ListApproved)
}

// ListRejected returns the caller's rejected documents.
func (s *SalesService) ListRejected(ctx context.Context, sess *identity.Session) (*HeaderList, error) {
	return s.list(ctx, sess, s.headers.ListRejected)
}

func (s *SalesService) list(
	ctx context.Context,
	sess *identity.Session,
	fetch func(ctx context.Context, regionCode, outletCode string) ([]sales.Header, error),
) (*HeaderList, error) {
	rows, err := fetch(ctx, sess.RegionCode, sess.OutletCode)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	if rows == nil {
		rows = []sales.Header{}
	}
	return &HeaderList{Rows: rows, Footer: footerFor(rows)}, nil
}

// Overview returns the region-wide sales summary for the caller's scope.
func (s *SalesService) Overview(ctx context.Context, sess *identity.Session) (*OverviewList, error) {
	rows, err := s.overview.ListByScope(ctx, sess.RegionCode, sess.OutletCode)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	if rows == nil {
		rows = []sales.Overview{}
	}
	return &OverviewList{Rows: rows, Footer: overviewFooterFor(rows)}, nil
}

// HeaderDetail fetches a single document.
func (s *SalesService) HeaderDetail(ctx context.Context, no string) (*sales.Header, error) {
	header, err := s.headers.GetByNo(ctx, no)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	return header, nil
}

// CreateHeader starts a new document in the caller's scope. The ERP
// assigns the number, dates and Open status.
func (s *SalesService) CreateHeader(ctx context.Context, sess *identity.Session) (*sales.Header, error) {
	header, err := s.headers.Create(ctx, sess.RegionCode, sess.OutletCode)
	if err != nil {
		return nil, erp.DomainError(err)
	}

	s.log(ctx).Info("Sales header created",
		zap.String("no", header.No),
		zap.String("username", sess.Username),
	)
	return header, nil
}

// Lines returns every line of a document.
func (s *SalesService) Lines(ctx context.Context, no string) ([]sales.Line, error) {
	lines, err := s.lines.ListByHeader(ctx, no)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	if lines == nil {
		lines = []sales.Line{}
	}
	return lines, nil
}

// CreateLine appends a new line; the ERP assigns the SN.
func (s *SalesService) CreateLine(ctx context.Context, no string) (*sales.Line, error) {
	line, err := s.lines.Create(ctx, no)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	return line, nil
}

// UpdateLine applies a patch through the conditional write protocol and
// returns the server's recomputed row.
func (s *SalesService) UpdateLine(ctx context.Context, no string, sn int, patch sales.LinePatch, etag string) (*sales.Line, error) {
	line, err := s.lines.Patch(ctx, no, sn, patch, etag)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	return line, nil
}

// DeleteLine removes a line.
func (s *SalesService) DeleteLine(ctx context.Context, no string, sn int, etag string) error {
	return erp.DomainError(s.lines.Delete(ctx, no, sn, etag))
}

// Submit sends an Open document for approval. After any action the caller
// must refetch its lists; only the action result is returned.
func (s *SalesService) Submit(ctx context.Context, no, etag string) (*sales.ActionResult, error) {
	result, err := s.actions.SubmitForApproval(ctx, no, etag)
	if err != nil {
		return nil, erp.DomainError(err)
	}

	s.log(ctx).Info("Sales document submitted for approval", zap.String("no", no))
	return result, nil
}

// ReturnToOpen moves a pending document back to Open.
func (s *SalesService) ReturnToOpen(ctx context.Context, no string) error {
	if err := s.actions.ReturnToOpen(ctx, no); err != nil {
		return erp.DomainError(err)
	}

	s.log(ctx).Info("Sales document returned to open", zap.String("no", no))
	return nil
}

// Approve finalizes a pending document.
func (s *SalesService) Approve(ctx context.Context, no string) error {
	if err := s.actions.Approve(ctx, no); err != nil {
		return erp.DomainError(err)
	}

	s.log(ctx).Info("Sales document approved", zap.String("no", no))
	return nil
}

// Reject declines a pending document and returns the affected record.
func (s *SalesService) Reject(ctx context.Context, no string) (*sales.ActionResult, error) {
	result, err := s.actions.Reject(ctx, no)
	if err != nil {
		return nil, erp.DomainError(err)
	}

	s.log(ctx).Info("Sales document rejected", zap.String("no", no))
	return result, nil
}

// Products returns the product catalog.
func (s *SalesService) Products(ctx context.Context) ([]sales.Product, error) {
	products, err := s.lookups.Products(ctx)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	if products == nil {
		products = []sales.Product{}
	}
	return products, nil
}

// SKUs returns the lubricant SKU catalog.
func (s *SalesService) SKUs(ctx context.Context) ([]sales.SKU, error) {
	skus, err := s.lookups.SKUs(ctx)
	if err != nil {
		return nil, erp.DomainError(err)
	}
	if skus == nil {
		skus = []sales.SKU{}
	}
	return skus, nil
}
