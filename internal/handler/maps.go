package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MapsHandler proxies place search and directions to the maps provider
type MapsHandler struct {
	service MapsService
}

// Service interface for dependency injection
type MapsService interface {
	SearchPlaces(ctx context.Context, query string) (json.RawMessage, error)
	Directions(ctx context.Context, origin, destination string) (json.RawMessage, error)
}

// NewMapsHandler creates a new maps handler
func NewMapsHandler(svc MapsService) *MapsHandler {
	return &MapsHandler{service: svc}
}

// SearchPlaces godoc
// @Summary      Search places
// @Description  Returns the provider's text search response unchanged.
// @Tags         maps
// @Produce      json
// @Param        query  query     string  true  "Free-text query"
// @Success      200    {object}  map[string]any
// @Failure      400    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /api/places/search [get]
func (h *MapsHandler) SearchPlaces(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	body, err := h.service.SearchPlaces(c.Request.Context(), query)
	if err != nil {
		// Provider errors carry the request URL, which includes the API key.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Place search failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// Directions godoc
// @Summary      Get directions
// @Description  Returns the provider's directions response unchanged.
// @Tags         maps
// @Produce      json
// @Param        origin       query     string  true  "Origin"
// @Param        destination  query     string  true  "Destination"
// @Success      200          {object}  map[string]any
// @Failure      400          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /api/directions [get]
func (h *MapsHandler) Directions(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Origin and destination parameters are required"})
		return
	}

	body, err := h.service.Directions(c.Request.Context(), origin, destination)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Directions request failed"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
