package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesActionRepository_SubmitForApproval(t *testing.T) {
	var gotPath, gotIfMatch string
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIfMatch = r.Header.Get("If-Match")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))

	repo := NewSalesActionRepository(client)
	result, err := repo.SubmitForApproval(context.Background(), "SALE-001", `W/"v1"`)

	require.NoError(t, err)
	assert.Equal(t, "/SendRequestForApproval", gotPath)
	assert.Equal(t, `W/"v1"`, gotIfMatch)
	assert.Equal(t, map[string]any{"Code": "SALE-001"}, gotBody)
	assert.Equal(t, "SALE-001", result.Code)
}

func TestSalesActionRepository_Reject_ReturnsAffectedRecord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/RejectRequest", r.URL.Path)
		w.Write([]byte(`{"SN":7,"Code":"SALE-001"}`))
	}))

	repo := NewSalesActionRepository(client)
	result, err := repo.Reject(context.Background(), "SALE-001")

	require.NoError(t, err)
	assert.Equal(t, 7, result.SN)
	assert.Equal(t, "SALE-001", result.Code)
}

func TestSalesActionRepository_BusinessRejectionSurfaces(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Status must be Pending Approval."}}`))
	}))

	repo := NewSalesActionRepository(client)
	err := repo.Approve(context.Background(), "SALE-001")

	require.Error(t, err)
	assert.Equal(t, 1, calls, "actions are never retried")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Contains(t, statusErr.Body, "Status must be Pending Approval")
}

func TestSalesActionRepository_ReturnToOpen(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	repo := NewSalesActionRepository(client)
	require.NoError(t, repo.ReturnToOpen(context.Background(), "SALE-001"))
	assert.Equal(t, "/ReturnBackToOpen", gotPath)
}
