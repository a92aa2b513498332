package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "order_engine/internal/application/feedback"
)

type FeedbackHandler struct {
	svc *app.Service
}

func NewFeedbackHandler(svc *app.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type submitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	cid, ok := customerID(c)
	if !ok {
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.svc.Submit(c.Request.Context(), c.Param("id"), cid, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"rating":       fb.Rating,
		"comment":      fb.Comment,
		"submitted_at": fb.SubmittedAt,
	})
}
