package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/middleware"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// respondUpstreamError maps an upstream client error onto the gateway's
// own response. The marketplace's message is passed through when present;
// transport failures become 502s.
func respondUpstreamError(c *gin.Context, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	if errors.Is(err, upstream.ErrUnreachable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "The marketplace is unreachable, please try again"})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}

// getToken returns the raw bearer token for forwarding, empty if the route
// has no auth middleware
func getToken(c *gin.Context) string {
	return middleware.GetAccessToken(c)
}
