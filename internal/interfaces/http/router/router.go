package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order_engine/internal/interfaces/http/handler"
	"order_engine/pkg/metrics"
)

func RegisterRoutes(
	r *gin.Engine,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	feedbackHandler *handler.FeedbackHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/products", productHandler.Create)
		api.GET("/products/:id", productHandler.Get)

		api.GET("/cart", cartHandler.View)
		api.POST("/cart/lines", cartHandler.AddLine)
		api.PUT("/cart/lines/:productID", cartHandler.SetLineQuantity)
		api.DELETE("/cart/lines/:productID", cartHandler.RemoveLine)

		api.POST("/orders", orderHandler.PlaceOrder)
		api.GET("/orders", orderHandler.ListOrders)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		api.POST("/orders/:id/cancel", orderHandler.Cancel)
		api.POST("/orders/:id/feedback", feedbackHandler.Submit)
	}
}
