package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	salesapp "github.com/vivo/salesops-backend/internal/application/sales"
	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/domain/shared"
	"github.com/vivo/salesops-backend/internal/infrastructure/erp"
	"github.com/vivo/salesops-backend/internal/interfaces/http/middleware"
	"github.com/vivo/salesops-backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubHeaderRepo struct {
	headers []sales.Header
	header  *sales.Header
	err     error
	calls   int
	region  string
	outlet  string
}

func (s *stubHeaderRepo) list(regionCode, outletCode string) ([]sales.Header, error) {
	s.calls++
	s.region = regionCode
	s.outlet = outletCode
	return s.headers, s.err
}

func (s *stubHeaderRepo) ListOpen(_ context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return s.list(regionCode, outletCode)
}

func (s *stubHeaderRepo) ListPending(_ context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return s.list(regionCode, outletCode)
}

func (s *stubHeaderRepo) ListApproved(_ context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return s.list(regionCode, outletCode)
}

func (s *stubHeaderRepo) ListRejected(_ context.Context, regionCode, outletCode string) ([]sales.Header, error) {
	return s.list(regionCode, outletCode)
}

func (s *stubHeaderRepo) GetByNo(_ context.Context, _ string) (*sales.Header, error) {
	s.calls++
	return s.header, s.err
}

func (s *stubHeaderRepo) Create(_ context.Context, regionCode, outletCode string) (*sales.Header, error) {
	s.calls++
	s.region = regionCode
	s.outlet = outletCode
	return s.header, s.err
}

type stubLineRepo struct {
	lines []sales.Line
	line  *sales.Line
	err   error
	patch sales.LinePatch
	etag  string
	calls int
}

func (s *stubLineRepo) ListByHeader(_ context.Context, _ string) ([]sales.Line, error) {
	s.calls++
	return s.lines, s.err
}

func (s *stubLineRepo) Create(_ context.Context, _ string) (*sales.Line, error) {
	s.calls++
	return s.line, s.err
}

func (s *stubLineRepo) Patch(_ context.Context, _ string, _ int, patch sales.LinePatch, etag string) (*sales.Line, error) {
	s.calls++
	s.patch = patch
	s.etag = etag
	return s.line, s.err
}

func (s *stubLineRepo) Delete(_ context.Context, _ string, _ int, etag string) error {
	s.calls++
	s.etag = etag
	return s.err
}

type stubActionRepo struct {
	result *sales.ActionResult
	err    error
	etag   string
	calls  int
}

func (s *stubActionRepo) SubmitForApproval(_ context.Context, _, etag string) (*sales.ActionResult, error) {
	s.calls++
	s.etag = etag
	return s.result, s.err
}

func (s *stubActionRepo) ReturnToOpen(_ context.Context, _ string) error {
	s.calls++
	return s.err
}

func (s *stubActionRepo) Approve(_ context.Context, _ string) error {
	s.calls++
	return s.err
}

func (s *stubActionRepo) Reject(_ context.Context, _ string) (*sales.ActionResult, error) {
	s.calls++
	return s.result, s.err
}

type stubLookupRepo struct {
	products []sales.Product
	skus     []sales.SKU
	err      error
}

func (s *stubLookupRepo) Products(_ context.Context) ([]sales.Product, error) {
	return s.products, s.err
}

func (s *stubLookupRepo) SKUs(_ context.Context) ([]sales.SKU, error) {
	return s.skus, s.err
}

type stubOverviewRepo struct {
	rows []sales.Overview
	err  error
}

func (s *stubOverviewRepo) ListByScope(_ context.Context, _, _ string) ([]sales.Overview, error) {
	return s.rows, s.err
}

type stubResolver struct {
	session *identity.Session
	err     error
}

func (s *stubResolver) CurrentUser(_ context.Context, _ string) (*identity.Session, error) {
	return s.session, s.err
}

type salesFixture struct {
	headers  *stubHeaderRepo
	lines    *stubLineRepo
	actions  *stubActionRepo
	lookups  *stubLookupRepo
	overview *stubOverviewRepo
	engine   *gin.Engine
}

func testSession() *identity.Session {
	return &identity.Session{
		Username:   "amina",
		Name:       "Amina Yusuf",
		Role:       "Sales Officer",
		RegionCode: "NBO",
		Region:     "Nairobi",
		OutletCode: "OUT-01",
		Outlet:     "Westlands",
	}
}

func newSalesFixture(resolver middleware.SessionResolver) *salesFixture {
	f := &salesFixture{
		headers:  &stubHeaderRepo{},
		lines:    &stubLineRepo{},
		actions:  &stubActionRepo{},
		lookups:  &stubLookupRepo{},
		overview: &stubOverviewRepo{},
	}

	service := salesapp.NewSalesService(f.headers, f.lines, f.actions, f.lookups, f.overview, zap.NewNop())
	salesHandler := NewSalesHandler(service)
	lookupHandler := NewLookupHandler(service)

	engine := gin.New()
	r := router.NewRouter(engine)

	salesRoutes := router.NewDomainGroup("sales", "/sales").
		Use(middleware.SessionAuth(resolver)).
		GET("/open", salesHandler.ListOpen).
		GET("/pending", salesHandler.ListPending).
		GET("/approved", salesHandler.ListApproved).
		GET("/rejected", salesHandler.ListRejected).
		GET("/overview", salesHandler.Overview).
		POST("", salesHandler.CreateHeader).
		GET("/:no", salesHandler.GetHeader).
		GET("/:no/lines", salesHandler.ListLines).
		POST("/:no/lines", salesHandler.CreateLine).
		PATCH("/:no/lines/:sn", salesHandler.UpdateLine).
		DELETE("/:no/lines/:sn", salesHandler.DeleteLine).
		POST("/:no/submit", salesHandler.Submit).
		POST("/:no/return", salesHandler.Return).
		POST("/:no/approve", salesHandler.Approve).
		POST("/:no/reject", salesHandler.Reject)
	r.Register(salesRoutes)

	lookupRoutes := router.NewDomainGroup("lookups", "/lookups").
		Use(middleware.SessionAuth(resolver)).
		GET("/products", lookupHandler.Products).
		GET("/skus", lookupHandler.SKUs)
	r.Register(lookupRoutes)

	r.Setup()
	f.engine = engine
	return f
}

func (f *salesFixture) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/api/v1"+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListOpenScopedBySession(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.headers.headers = []sales.Header{
		{No: "VS-001", Status: "Open", TotalTarget: 100, TotalAchieved: 40.5, TotalCommissionEarned: 0.1},
		{No: "VS-002", Status: "Open", TotalTarget: 50, TotalAchieved: 10, TotalCommissionEarned: 0.2},
	}

	w := f.request(t, http.MethodGet, "/sales/open", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var list salesapp.HeaderList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Rows, 2)
	assert.Equal(t, "150", list.Footer.TotalTarget.String())
	assert.Equal(t, "50.5", list.Footer.TotalAchieved.String())
	assert.Equal(t, "0.3", list.Footer.TotalCommissionEarned.String())

	assert.Equal(t, "NBO", f.headers.region)
	assert.Equal(t, "OUT-01", f.headers.outlet)
}

func TestListRejectedWithoutSession(t *testing.T) {
	f := newSalesFixture(&stubResolver{err: identity.ErrNoSession})

	w := f.request(t, http.MethodGet, "/sales/rejected", "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Zero(t, f.headers.calls, "unauthenticated request must not reach the gateway")
}

func TestCreateHeaderUsesSessionScope(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.headers.header = &sales.Header{No: "VS-010", Status: "Open", RegionCode: "NBO", OutletCode: "OUT-01"}

	w := f.request(t, http.MethodPost, "/sales", "")

	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "NBO", f.headers.region)
	assert.Equal(t, "OUT-01", f.headers.outlet)

	var header sales.Header
	require.NoError(t, json.Unmarshal(env.Data, &header))
	assert.Equal(t, "VS-010", header.No)
}

func TestGetHeaderNotFound(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.headers.err = shared.ErrNotFound

	w := f.request(t, http.MethodGet, "/sales/VS-404", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestUpdateLineRequiresETag(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/1", `{"quantity": 5}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Zero(t, f.lines.calls)
}

func TestUpdateLineRequiresAtLeastOneField(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/1", `{"etag": "W/\"1\""}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.lines.calls)
}

func TestUpdateLineRejectsNonPositiveQuantity(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/1", `{"quantity": 0, "etag": "W/\"1\""}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Zero(t, f.lines.calls)
}

func TestUpdateLineReturnsRecomputedRow(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.lines.line = &sales.Line{
		No: "VS-001", SN: 1, SKUCode: "SKU-20W50", SKULiters: 4,
		Quantity: 5, Total: 20, CommissionEarned: 1.5, ETag: `W/"2"`,
	}

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/1", `{"quantity": 5, "etag": "W/\"1\""}`)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var line sales.Line
	require.NoError(t, json.Unmarshal(env.Data, &line))
	assert.Equal(t, `W/"2"`, line.ETag)
	assert.Equal(t, 20.0, line.Total)

	require.NotNil(t, f.lines.patch.Quantity)
	assert.Equal(t, 5.0, *f.lines.patch.Quantity)
	assert.Nil(t, f.lines.patch.ProductCode)
	assert.Equal(t, `W/"1"`, f.lines.etag)
}

func TestUpdateLineConflict(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.lines.err = shared.ErrConcurrencyConflict

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/1", `{"quantity": 5, "etag": "W/\"1\""}`)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "CONCURRENCY_CONFLICT", env.Error.Code)
}

func TestUpdateLineInvalidSN(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodPatch, "/sales/VS-001/lines/abc", `{"quantity": 5, "etag": "W/\"1\""}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.lines.calls)
}

func TestDeleteLineRequiresETagParam(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodDelete, "/sales/VS-001/lines/1", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.lines.calls)
}

func TestDeleteLine(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodDelete, "/sales/VS-001/lines/1?etag=W%2F%221%22", "")

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, `W/"1"`, f.lines.etag)
}

func TestSubmitWithETagBody(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.actions.result = &sales.ActionResult{SN: 12, Code: "VS-001"}

	w := f.request(t, http.MethodPost, "/sales/VS-001/submit", `{"etag": "W/\"9\""}`)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var result sales.ActionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 12, result.SN)
	assert.Equal(t, `W/"9"`, f.actions.etag)
}

func TestSubmitWithoutBody(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.actions.result = &sales.ActionResult{Code: "VS-001"}

	w := f.request(t, http.MethodPost, "/sales/VS-001/submit", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.actions.etag)
}

func TestSubmitChunkedBodyKeepsETag(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.actions.result = &sales.ActionResult{Code: "VS-001"}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/VS-001/submit",
		strings.NewReader(`{"etag": "W/\"9\""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	req.ContentLength = -1

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `W/"9"`, f.actions.etag)
}

func TestRejectSurfacesUpstreamRefusal(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.actions.err = &erp.StatusError{
		Status: http.StatusBadRequest,
		Body:   `{"error":{"message":"Status must be Pending Approval."}}`,
	}

	w := f.request(t, http.MethodPost, "/sales/VS-001/reject", "")

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "UPSTREAM_ERROR", env.Error.Code)
	assert.Equal(t, "Status must be Pending Approval.", env.Error.Message)
}

func TestApproveReturnsNoContent(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})

	w := f.request(t, http.MethodPost, "/sales/VS-001/approve", "")

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, f.actions.calls)
}

func TestOverviewFooterSums(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.overview.rows = []sales.Overview{
		{TotalSalesInLiters: 10.5, TotalCommissionLiters: 1.1, TotalCommissionValue: 100, TotalTarget: 200},
		{TotalSalesInLiters: 4.5, TotalCommissionLiters: 0.4, TotalCommissionValue: 50, TotalTarget: 100},
	}

	w := f.request(t, http.MethodGet, "/sales/overview", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var list salesapp.OverviewList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, "15", list.Footer.TotalSalesInLiters.String())
	assert.Equal(t, "1.5", list.Footer.TotalCommissionLiters.String())
}

func TestLookupProducts(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.lookups.products = []sales.Product{{Code: "FUEL-D", Description: "Diesel"}}

	w := f.request(t, http.MethodGet, "/lookups/products", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)

	var products []sales.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "FUEL-D", products[0].Code)
}

func TestLookupSKUsUnavailableUpstream(t *testing.T) {
	f := newSalesFixture(&stubResolver{session: testSession()})
	f.lookups.err = erp.ErrUnavailable

	w := f.request(t, http.MethodGet, "/lookups/skus", "")

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "UPSTREAM_ERROR", env.Error.Code)
}
