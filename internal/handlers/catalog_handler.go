package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/services"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// CatalogHandler serves the browsable vehicle catalog
type CatalogHandler struct {
	catalog  *services.CatalogService
	upstream *upstream.Client
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *services.CatalogService, upstreamClient *upstream.Client) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		upstream: upstreamClient,
	}
}

// Browse returns grouped vehicle listings for one catalog page view
// @Summary Browse the vehicle catalog
// @Description Fetches listings from the marketplace, grouped by model and provider, filtered by tab and search
// @Tags Catalog
// @Produce json
// @Router /api/v1/vehicles [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	query := models.CatalogQuery{
		Category:  c.Query("category"),
		City:      c.Query("city"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	if lat, err := strconv.ParseFloat(c.Query("latitude"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.Query("longitude"), 64); err == nil {
			query.Latitude = &lat
			query.Longitude = &lng
			if radius, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil {
				query.Radius = &radius
			}
		}
	}

	groups, degraded, err := h.catalog.Browse(c.Request.Context(), query, c.Query("tab"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vehicles"})
		return
	}

	// groups may legitimately be empty; the page renders an empty state
	if groups == nil {
		groups = []models.VehicleGroup{}
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":   groups,
		"degraded": degraded,
	})
}

// GetVehicle returns a single listing
func (h *CatalogHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.upstream.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// GetOwner returns the owner details for a listing
func (h *CatalogHandler) GetOwner(c *gin.Context) {
	vehicle, err := h.upstream.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err, "Failed to load vehicle")
		return
	}
	if vehicle.UserID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing has no owner details"})
		return
	}

	owner, err := h.upstream.GetOwner(c.Request.Context(), getToken(c), *vehicle.UserID)
	if err != nil {
		respondUpstreamError(c, err, "Failed to load owner details")
		return
	}

	c.JSON(http.StatusOK, owner)
}
