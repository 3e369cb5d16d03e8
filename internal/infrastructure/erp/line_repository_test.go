package erp

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/domain/shared"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

const recomputedLine = `{
	"@odata.etag": "W/\"fresh\"",
	"No": "SALE-001",
	"SN": 2,
	"Product_Code": "P-10",
	"Target": 120.0,
	"SKU_Code": "SKU-4L",
	"SKU_Liters": 4.0,
	"Grade": "Premium",
	"Quantity": 6,
	"Total": 24.0,
	"SKU_Ratio": 0.5,
	"Commission_Earned": 12.5
}`

func TestSalesLineRepository_Patch_FirstAttemptSucceeds(t *testing.T) {
	var patches, gets int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			assert.Equal(t, `W/"v1"`, r.Header.Get("If-Match"))
			w.Write([]byte(recomputedLine))
		case http.MethodGet:
			gets++
		}
	}))

	repo := NewSalesLineRepository(client)
	line, err := repo.Patch(context.Background(), "SALE-001", 2,
		sales.LinePatch{Quantity: floatPtr(6)}, `W/"v1"`)

	require.NoError(t, err)
	assert.Equal(t, 1, patches)
	assert.Zero(t, gets, "no refetch without a conflict")

	// The server recomputes the dependent columns; the response replaces
	// the caller's copy wholesale.
	assert.Equal(t, 24.0, line.Total)
	assert.Equal(t, 0.5, line.SKURatio)
	assert.Equal(t, 12.5, line.CommissionEarned)
	assert.Equal(t, `W/"fresh"`, line.ETag)
}

func TestSalesLineRepository_Patch_ConflictRetriesExactlyOnce(t *testing.T) {
	var patches, gets int
	var secondIfMatch string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			if patches == 1 {
				w.WriteHeader(http.StatusConflict)
				return
			}
			secondIfMatch = r.Header.Get("If-Match")
			w.Write([]byte(recomputedLine))
		case http.MethodGet:
			gets++
			assert.Equal(t, "/NewSalesLines(No='SALE-001',SN=2)", r.URL.Path)
			assert.Equal(t, "SN", r.URL.Query().Get("$select"), "refetch asks for the etag only")
			w.Write([]byte(`{"@odata.etag":"W/\"current\"","SN":2}`))
		}
	}))

	repo := NewSalesLineRepository(client)
	line, err := repo.Patch(context.Background(), "SALE-001", 2,
		sales.LinePatch{SKUCode: strPtr("SKU-4L")}, `W/"stale"`)

	require.NoError(t, err)
	assert.Equal(t, 2, patches, "at most two writes per logical edit")
	assert.Equal(t, 1, gets, "exactly one etag refetch")
	assert.Equal(t, `W/"current"`, secondIfMatch, "retry must carry the fresh etag")
	assert.Equal(t, "SKU-4L", line.SKUCode)
}

func TestSalesLineRepository_Patch_SecondConflictSurfaces(t *testing.T) {
	var patches int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			w.WriteHeader(http.StatusConflict)
		case http.MethodGet:
			w.Write([]byte(`{"@odata.etag":"W/\"current\""}`))
		}
	}))

	repo := NewSalesLineRepository(client)
	_, err := repo.Patch(context.Background(), "SALE-001", 2,
		sales.LinePatch{Quantity: floatPtr(1)}, `W/"stale"`)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Equal(t, 2, patches, "no third attempt after a second conflict")
}

func TestSalesLineRepository_Patch_NonConflictFailureIsNotRetried(t *testing.T) {
	var patches, gets int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Quantity must be positive."}}`))
		case http.MethodGet:
			gets++
		}
	}))

	repo := NewSalesLineRepository(client)
	_, err := repo.Patch(context.Background(), "SALE-001", 2,
		sales.LinePatch{Quantity: floatPtr(-1)}, `W/"v1"`)

	require.Error(t, err)
	assert.Equal(t, 1, patches)
	assert.Zero(t, gets)
}

func TestSalesLineRepository_Patch_RefetchFailureSurfaces(t *testing.T) {
	var patches int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patches++
			w.WriteHeader(http.StatusConflict)
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	repo := NewSalesLineRepository(client)
	_, err := repo.Patch(context.Background(), "SALE-001", 2,
		sales.LinePatch{Quantity: floatPtr(1)}, `W/"v1"`)

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, 1, patches, "no blind retry when the refetch fails")
}

func TestSalesLineRepository_Patch_EmptyPatchRejectedLocally(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	repo := NewSalesLineRepository(client)
	_, err := repo.Patch(context.Background(), "SALE-001", 2, sales.LinePatch{}, "etag")

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Zero(t, requests)
}

func TestSalesLineRepository_ListByHeader(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "No eq 'SALE-001'", r.URL.Query().Get("$filter"))
		w.Write([]byte(`{"value":[` + recomputedLine + `]}`))
	}))

	repo := NewSalesLineRepository(client)
	lines, err := repo.ListByHeader(context.Background(), "SALE-001")

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].SN)
}

func TestSalesLineRepository_Delete(t *testing.T) {
	var method, ifMatch, path string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, ifMatch, path = r.Method, r.Header.Get("If-Match"), r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	repo := NewSalesLineRepository(client)
	err := repo.Delete(context.Background(), "SALE-001", 2, `W/"v1"`)

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, `W/"v1"`, ifMatch)
	assert.Equal(t, "/NewSalesLines(No='SALE-001',SN=2)", path)
}
