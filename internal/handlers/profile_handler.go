package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// ProfileHandler proxies profile and KYC operations to the marketplace API
type ProfileHandler struct {
	upstream *upstream.Client
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(upstreamClient *upstream.Client) *ProfileHandler {
	return &ProfileHandler{upstream: upstreamClient}
}

// GetProfile returns the authenticated user's profile, including the
// license verification status the KYC page polls
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.upstream.GetProfile(c.Request.Context(), getToken(c))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SubmitLicense forwards the license photo upload (front and back) to the
// marketplace unchanged. The multipart body is streamed, not buffered.
func (h *ProfileHandler) SubmitLicense(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content-Type is required"})
		return
	}

	profile, err := h.upstream.SubmitLicensePhotos(c.Request.Context(), getToken(c), contentType, c.Request.Body)
	if err != nil {
		respondUpstreamError(c, err, "Failed to submit license photos")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetBusinessProfile returns the authenticated owner's rental business
// profile
func (h *ProfileHandler) GetBusinessProfile(c *gin.Context) {
	profile, err := h.upstream.GetBusinessProfile(c.Request.Context(), getToken(c))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load business profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateBusinessProfile forwards a business profile update (fields plus
// optional image part) to the marketplace
func (h *ProfileHandler) UpdateBusinessProfile(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content-Type is required"})
		return
	}

	profile, err := h.upstream.UpdateBusinessProfile(c.Request.Context(), getToken(c), contentType, c.Request.Body)
	if err != nil {
		respondUpstreamError(c, err, "Failed to update business profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
