package handler

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	salesapp "github.com/vivo/salesops-backend/internal/application/sales"
	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/domain/sales"
	"github.com/vivo/salesops-backend/internal/interfaces/http/middleware"
)

// SalesHandler handles the sales document endpoints
type SalesHandler struct {
	BaseHandler
	service *salesapp.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *salesapp.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// UpdateLineRequest represents a line edit. Only the supplied fields are
// patched; the etag is the concurrency token of the row being edited.
type UpdateLineRequest struct {
	ProductCode *string  `json:"product_code" binding:"omitempty,min=1,max=50"`
	SKUCode     *string  `json:"sku_code" binding:"omitempty,min=1,max=50"`
	Quantity    *float64 `json:"quantity" binding:"omitempty,gt=0"`
	ETag        string   `json:"etag" binding:"required"`
}

// SubmitRequest optionally carries the header's concurrency token
type SubmitRequest struct {
	ETag string `json:"etag"`
}

// ListOpen returns the caller's open documents with the page footer.
func (h *SalesHandler) ListOpen(c *gin.Context) {
	h.list(c, h.service.ListOpen)
}

// ListPending returns the caller's documents awaiting approval.
func (h *SalesHandler) ListPending(c *gin.Context) {
	h.list(c, h.service.ListPending)
}

// ListApproved returns the caller's approved documents.
func (h *SalesHandler) ListApproved(c *gin.Context) {
	h.list(c, h.service.ListApproved)
}

// ListRejected returns the caller's rejected documents.
func (h *SalesHandler) ListRejected(c *gin.Context) {
	h.list(c, h.service.ListRejected)
}

func (h *SalesHandler) list(c *gin.Context, fetch func(context.Context, *identity.Session) (*salesapp.HeaderList, error)) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	list, err := fetch(c.Request.Context(), session)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, list)
}

// Overview returns the region-wide sales summary.
func (h *SalesHandler) Overview(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	list, err := h.service.Overview(c.Request.Context(), session)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, list)
}

// CreateHeader starts a new sales document in the caller's scope.
func (h *SalesHandler) CreateHeader(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	header, err := h.service.CreateHeader(c.Request.Context(), session)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, header)
}

// GetHeader returns a single document.
func (h *SalesHandler) GetHeader(c *gin.Context) {
	header, err := h.service.HeaderDetail(c.Request.Context(), c.Param("no"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, header)
}

// ListLines returns every line of a document.
func (h *SalesHandler) ListLines(c *gin.Context) {
	lines, err := h.service.Lines(c.Request.Context(), c.Param("no"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lines)
}

// CreateLine appends a new line to a document.
func (h *SalesHandler) CreateLine(c *gin.Context) {
	line, err := h.service.CreateLine(c.Request.Context(), c.Param("no"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, line)
}

// UpdateLine patches a line and returns the server's recomputed row.
func (h *SalesHandler) UpdateLine(c *gin.Context) {
	sn, ok := h.lineSN(c)
	if !ok {
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	patch := sales.LinePatch{
		ProductCode: req.ProductCode,
		SKUCode:     req.SKUCode,
		Quantity:    req.Quantity,
	}
	if patch.IsEmpty() {
		h.BadRequest(c, "At least one of product_code, sku_code or quantity is required")
		return
	}

	line, err := h.service.UpdateLine(c.Request.Context(), c.Param("no"), sn, patch, req.ETag)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, line)
}

// DeleteLine removes a line. The etag travels as a query parameter.
func (h *SalesHandler) DeleteLine(c *gin.Context) {
	sn, ok := h.lineSN(c)
	if !ok {
		return
	}

	etag := c.Query("etag")
	if etag == "" {
		h.BadRequest(c, "etag query parameter is required")
		return
	}

	if err := h.service.DeleteLine(c.Request.Context(), c.Param("no"), sn, etag); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Submit sends an open document for approval. The body is optional;
// chunked requests arrive with ContentLength -1, so only a declared-empty
// body skips binding and EOF just means no body was sent.
func (h *SalesHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.BindingError(c, err)
			return
		}
	}

	result, err := h.service.Submit(c.Request.Context(), c.Param("no"), req.ETag)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Return moves a pending document back to open.
func (h *SalesHandler) Return(c *gin.Context) {
	if err := h.service.ReturnToOpen(c.Request.Context(), c.Param("no")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve finalizes a pending document.
func (h *SalesHandler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Request.Context(), c.Param("no")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Reject declines a pending document and returns the affected record.
func (h *SalesHandler) Reject(c *gin.Context) {
	result, err := h.service.Reject(c.Request.Context(), c.Param("no"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// lineSN parses the :sn path parameter.
func (h *SalesHandler) lineSN(c *gin.Context) (int, bool) {
	sn, err := strconv.Atoi(c.Param("sn"))
	if err != nil || sn < 0 {
		h.BadRequest(c, "Invalid line number")
		return 0, false
	}
	return sn, true
}
