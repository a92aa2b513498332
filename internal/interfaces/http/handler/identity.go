package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity is established by the authentication layer in front of the
// engine and handed over in headers. Handlers pass it explicitly into
// every engine call; nothing reads it from ambient request state.
const (
	headerCustomerID = "X-Customer-ID"
	headerVendorID   = "X-Vendor-ID"
)

func customerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(headerCustomerID)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "customer identity missing"})
		return "", false
	}
	return id, true
}

func vendorID(c *gin.Context) (string, bool) {
	id := c.GetHeader(headerVendorID)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "vendor identity missing"})
		return "", false
	}
	return id, true
}
