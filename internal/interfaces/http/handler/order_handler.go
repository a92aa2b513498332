package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "order_engine/internal/application/checkout"
	lifecycleapp "order_engine/internal/application/lifecycle"
	domain "order_engine/internal/domain/order"
	"order_engine/internal/domain/repository"
)

type OrderHandler struct {
	checkout  *checkoutapp.Service
	lifecycle *lifecycleapp.Service
	orders    repository.OrderRepository
}

func NewOrderHandler(checkout *checkoutapp.Service, lifecycle *lifecycleapp.Service, orders repository.OrderRepository) *OrderHandler {
	return &OrderHandler{checkout: checkout, lifecycle: lifecycle, orders: orders}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	var cmd checkoutapp.PlaceOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.checkout.PlaceOrder(c.Request.Context(), cid, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse(o))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	o, err := h.orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if o.CustomerID != cid {
		writeError(c, domain.ErrNotOwner)
		return
	}
	c.JSON(http.StatusOK, orderResponse(o))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	orders, err := h.orders.FindByCustomer(c.Request.Context(), cid)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus is the vendor path: forward transitions only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	if _, ok := vendorID(c); !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lifecycle.Advance(c.Request.Context(), c.Param("id"), domain.Status(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": req.Status})
}

// Cancel is the customer path, allowed only while the order is pending.
func (h *OrderHandler) Cancel(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"), cid); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

func orderResponse(o *domain.Order) gin.H {
	lines := make([]gin.H, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, gin.H{
			"product_id":       l.ProductID,
			"name":             l.Name,
			"quantity":         l.Quantity,
			"unit_price_cents": l.UnitPriceCents,
			"line_total_cents": l.LineTotalCents,
		})
	}

	resp := gin.H{
		"id":               o.ID,
		"customer_id":      o.CustomerID,
		"lines":            lines,
		"total_cents":      o.TotalCents,
		"shipping_address": o.ShippingAddress,
		"contact":          o.Contact,
		"payment_method":   o.PaymentMethod,
		"status":           o.Status,
		"created_at":       o.CreatedAt,
		"updated_at":       o.UpdatedAt,
	}
	if o.Feedback != nil {
		resp["feedback"] = gin.H{
			"rating":       o.Feedback.Rating,
			"comment":      o.Feedback.Comment,
			"submitted_at": o.Feedback.SubmittedAt,
		}
	}
	return resp
}
