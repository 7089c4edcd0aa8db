package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// ReviewHandler proxies host reviews to the marketplace API
type ReviewHandler struct {
	upstream *upstream.Client
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(upstreamClient *upstream.Client) *ReviewHandler {
	return &ReviewHandler{upstream: upstreamClient}
}

// AddReview posts a new review. Reviews are append-only; there is no edit
// or delete.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var req models.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.upstream.AddReview(c.Request.Context(), getToken(c), req)
	if err != nil {
		respondUpstreamError(c, err, "Failed to add review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetHostReviews returns a host's reviews with upstream-computed aggregates
func (h *ReviewHandler) GetHostReviews(c *gin.Context) {
	reviews, err := h.upstream.GetHostReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
