package handler

import (
	"context"
	"net/http"

	"github.com/3lielnashar/Customers-map/internal/models"
	"github.com/3lielnashar/Customers-map/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerHandler handles the customer record endpoints
type CustomerHandler struct {
	service CustomerService
}

// Service interface for dependency injection
type CustomerService interface {
	List(ctx context.Context) ([]models.Location, error)
	Search(ctx context.Context, name string) ([]models.Location, error)
	Get(ctx context.Context, id string) (*models.Location, error)
	Create(ctx context.Context, in service.CreateInput) (*service.CreateResult, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	DeleteByName(ctx context.Context, name string) error
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{service: svc}
}

// CreatedResponse is returned by a successful create.
type CreatedResponse struct {
	ID      string `json:"id" example:"6650f0c2a1b2c3d4e5f60718"`
	Message string `json:"message" example:"Customer added successfully"`
	Address string `json:"address" example:"Paris, France"`
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Success      200  {array}   models.Location
// @Failure      500  {object}  ErrorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	locations, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Search godoc
// @Summary      Search customers by name
// @Description  Case-insensitive substring match on the name.
// @Tags         customers
// @Produce      json
// @Param        name  path      string  true  "Name fragment"
// @Success      200   {array}   models.Location
// @Failure      500   {object}  ErrorResponse
// @Router       /api/customers/search/{name} [get]
func (h *CustomerHandler) Search(c *gin.Context) {
	locations, err := h.service.Search(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Get godoc
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  models.Location
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	location, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// Create godoc
// @Summary      Add a customer
// @Description  The address is looked up from lat/lng before the record is stored.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      service.CreateInput  true  "New customer"
// @Success      201       {object}  CreatedResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	result, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{
		ID:      result.ID,
		Message: "Customer added successfully",
		Address: result.Address,
	})
}

// Update godoc
// @Summary      Update a customer
// @Description  Only supplied fields change. Supplying lat or lng refreshes the address.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path      string          true  "Customer ID"
// @Param        fields  body      map[string]any  true  "Fields to change"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

// Delete godoc
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// DeleteByName godoc
// @Summary      Delete a customer by exact name
// @Tags         customers
// @Produce      json
// @Param        name  path      string  true  "Exact name"
// @Success      200   {object}  MessageResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/customers/name/{name} [delete]
func (h *CustomerHandler) DeleteByName(c *gin.Context) {
	if err := h.service.DeleteByName(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
