package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "order_engine/internal/domain/product"
	"order_engine/internal/domain/repository"
)

// ProductHandler is the catalog collaborator's surface: it writes
// everything about a product except the stock counter, which only the
// ledger moves.
type ProductHandler struct {
	products repository.ProductRepository
}

func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	Name          string `json:"name" binding:"required"`
	PriceCents    int64  `json:"price_cents"`
	StockQuantity int    `json:"stock_quantity"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	if _, ok := vendorID(c); !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := domain.New(uuid.NewString(), req.Name, req.PriceCents, req.StockQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.products.Save(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productResponse(p))
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse(p))
}

func productResponse(p *domain.Product) gin.H {
	return gin.H{
		"id":             p.ID,
		"name":           p.Name,
		"price_cents":    p.PriceCents,
		"stock_quantity": p.StockQuantity,
		"status":         p.Status,
	}
}
