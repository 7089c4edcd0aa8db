package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/database"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// AdminHandler serves the verification review queue and the checkout audit
// trail. All routes sit behind the admin key middleware.
type AdminHandler struct {
	upstream *upstream.Client
	audits   *database.CheckoutAuditRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(upstreamClient *upstream.Client, audits *database.CheckoutAuditRepository) *AdminHandler {
	return &AdminHandler{
		upstream: upstreamClient,
		audits:   audits,
	}
}

// ListVerifications returns listings awaiting verification review
func (h *AdminHandler) ListVerifications(c *gin.Context) {
	vehicles, err := h.upstream.ListPendingVerifications(c.Request.Context(), getToken(c))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load verification queue")
		return
	}
	if vehicles == nil {
		vehicles = []models.VehicleListing{}
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// ReviewVerification approves or rejects a pending listing
func (h *AdminHandler) ReviewVerification(c *gin.Context) {
	var decision upstream.VerificationDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if decision.Status != models.VerificationVerified && decision.Status != models.VerificationRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be verified or rejected"})
		return
	}

	vehicle, err := h.upstream.ReviewVerification(c.Request.Context(), getToken(c), c.Param("id"), decision)
	if err != nil {
		respondUpstreamError(c, err, "Failed to submit verification decision")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListAudits returns the recent checkout audit entries for one user
func (h *AdminHandler) ListAudits(c *gin.Context) {
	actorID := c.Query("actorId")
	if actorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actorId is required"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	audits, err := h.audits.RecentByActor(actorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit trail"})
		return
	}
	if audits == nil {
		audits = []*models.CheckoutAudit{}
	}

	c.JSON(http.StatusOK, gin.H{"audits": audits})
}
