package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/middleware"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/services"
)

// CheckoutHandler runs the booking-to-payment checkout
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout creates the booking and payment order and returns the gateway
// checkout handoff
// @Summary Start checkout for a vehicle booking
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), services.CheckoutParams{
		RenterID:    userCtx.UserID,
		RenterName:  userCtx.Name,
		RenterPhone: userCtx.Phone,
		RenterEmail: userCtx.Email,
		Token:       middleware.GetAccessToken(c),
		Request:     req,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		c.JSON(checkoutStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// checkoutStatus picks the HTTP status for a checkout failure. Validation
// problems are the renter's to fix; everything else is an upstream problem.
func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrStartDateRequired),
		errors.Is(err, models.ErrVehicleNotLoaded):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUserNotLoaded):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrGatewayNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
