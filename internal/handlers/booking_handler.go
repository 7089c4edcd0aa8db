package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/middleware"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/services"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// BookingHandler serves booking lists and owner-side booking actions
type BookingHandler struct {
	workflow *services.WorkflowService
	upstream *upstream.Client
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(workflow *services.WorkflowService, upstreamClient *upstream.Client) *BookingHandler {
	return &BookingHandler{
		workflow: workflow,
		upstream: upstreamClient,
	}
}

// ListRenterBookings returns the authenticated renter's bookings
func (h *BookingHandler) ListRenterBookings(c *gin.Context) {
	bookings, err := h.upstream.ListRenterBookings(c.Request.Context(), getToken(c))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListOwnerBookings returns the bookings on the authenticated owner's
// vehicles
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	bookings, err := h.upstream.ListOwnerBookings(c.Request.Context(), getToken(c))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// statusUpdateBody is the request body for a status transition
type statusUpdateBody struct {
	Status        models.BookingStatus  `json:"status" binding:"required"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod,omitempty"`
}

// UpdateStatus requests a booking status transition and returns the
// refreshed owner booking list
// @Summary Transition a booking's status
// @Tags Bookings
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body statusUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	bookings, err := h.workflow.Transition(c.Request.Context(), services.TransitionParams{
		OwnerID: userCtx.UserID,
		Token:   middleware.GetAccessToken(c),
		Request: models.StatusUpdateRequest{
			BookingID:     c.Param("id"),
			Status:        body.Status,
			PaymentMethod: body.PaymentMethod,
		},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		c.JSON(transitionStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// paymentStatusBody is the request body for a payment status toggle
type paymentStatusBody struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required"`
}

// UpdatePaymentStatus toggles a booking's payment status
func (h *BookingHandler) UpdatePaymentStatus(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body paymentStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	bookings, err := h.workflow.SetPaymentStatus(c.Request.Context(), services.TransitionParams{
		OwnerID:   userCtx.UserID,
		Token:     middleware.GetAccessToken(c),
		Request:   models.StatusUpdateRequest{BookingID: c.Param("id")},
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, body.PaymentStatus)
	if err != nil {
		c.JSON(transitionStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// transitionStatus picks the HTTP status for a workflow failure
func transitionStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "cannot move booking"),
		strings.Contains(msg, "required"),
		strings.Contains(msg, "invalid payment"),
		strings.Contains(msg, "must be paid or pending"):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
