package handler

import (
	"errors"
	"net/http"

	"github.com/3lielnashar/Customers-map/internal/repository"
	"github.com/3lielnashar/Customers-map/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Customer not found"`
}

// MessageResponse is the body of writes that return no record.
type MessageResponse struct {
	Message string `json:"message" example:"Customer updated successfully"`
}

// writeError maps service and repository errors to a status and an error body.
// Unexpected errors are attached to the context for the request logger and
// reported with a generic message.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
	case errors.Is(err, service.ErrImportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
