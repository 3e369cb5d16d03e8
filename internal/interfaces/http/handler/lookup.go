package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/vivo/salesops-backend/internal/application/sales"
)

// LookupHandler serves the reference catalogs used by line editing
type LookupHandler struct {
	BaseHandler
	service *salesapp.SalesService
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(service *salesapp.SalesService) *LookupHandler {
	return &LookupHandler{service: service}
}

// Products returns the product catalog.
func (h *LookupHandler) Products(c *gin.Context) {
	products, err := h.service.Products(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, products)
}

// SKUs returns the lubricant SKU catalog.
func (h *LookupHandler) SKUs(c *gin.Context) {
	skus, err := h.service.SKUs(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, skus)
}
