package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/services"
)

// DraftHandler stores and retrieves booking drafts
type DraftHandler struct {
	drafts *services.DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts *services.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Create stores a booking draft and returns its token
func (h *DraftHandler) Create(c *gin.Context) {
	var draft models.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, err := h.drafts.Create(c.Request.Context(), draft)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Get retrieves a draft by token
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.drafts.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, services.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Delete removes a draft
func (h *DraftHandler) Delete(c *gin.Context) {
	h.drafts.Delete(c.Request.Context(), c.Param("token"))
	c.Status(http.StatusNoContent)
}
