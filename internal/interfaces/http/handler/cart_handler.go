package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "order_engine/internal/application/cart"
)

type CartHandler struct {
	svc *app.Service
}

func NewCartHandler(svc *app.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type addLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) AddLine(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AddLine(c.Request.Context(), cid, req.ProductID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line added"})
}

func (h *CartHandler) SetLineQuantity(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetLineQuantity(c.Request.Context(), cid, c.Param("productID"), req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line updated"})
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveLine(c.Request.Context(), cid, c.Param("productID")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line removed"})
}

func (h *CartHandler) View(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	view, err := h.svc.View(c.Request.Context(), cid)
	if err != nil {
		writeError(c, err)
		return
	}

	lines := make([]gin.H, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, gin.H{
			"product_id":  l.ProductID,
			"name":        l.Name,
			"quantity":    l.Quantity,
			"price_cents": l.PriceCents,
			"in_stock":    l.InStock,
			"missing":     l.Missing,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"customer_id": view.CustomerID,
		"lines":       lines,
		"total_cents": view.TotalCents,
	})
}
