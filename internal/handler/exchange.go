package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/3lielnashar/Customers-map/internal/service"

	"github.com/gin-gonic/gin"
)

// ExchangeHandler handles CSV export and import
type ExchangeHandler struct {
	service ExchangeService
}

// Service interface for dependency injection
type ExchangeService interface {
	Export(ctx context.Context, w io.Writer) (int, error)
	Import(ctx context.Context, filename string, r io.Reader) (int, error)
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(svc ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{service: svc}
}

// Export godoc
// @Summary      Export customers as CSV
// @Tags         exchange
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      500  {object}  ErrorResponse
// @Router       /api/customers/export [get]
func (h *ExchangeHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.service.Export(c.Request.Context(), &buf); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ExportFilename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Import godoc
// @Summary      Replace all customers from a CSV file
// @Description  The file needs name, lat and lng columns. Nothing changes if any row is invalid.
// @Tags         exchange
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/customers/import [post]
func (h *ExchangeHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	defer file.Close()

	count, err := h.service.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully imported %d customers", count)})
}
