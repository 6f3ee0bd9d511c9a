package users

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mytheresa/go-catalog-mappings/app/api"
	"github.com/mytheresa/go-catalog-mappings/models"
)

type AddressProvider interface {
	GetByID(ctx context.Context, id uint) (*models.Address, error)
	GetByIDEager(ctx context.Context, id uint) (*models.Address, error)
	Persist(ctx context.Context, a *models.Address) error
	Merge(ctx context.Context, a *models.Address) error
	Refresh(ctx context.Context, a *models.Address) error
	RemoveByID(ctx context.Context, id uint) (bool, error)
}

type AddressHandler struct {
	repo AddressProvider
}

func NewAddressHandler(r AddressProvider) *AddressHandler {
	return &AddressHandler{repo: r}
}

// HandleGet returns an address; ?eager=true includes the user living there.
func (h *AddressHandler) HandleGet(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	find := h.repo.GetByID
	if api.Eager(c) {
		find = h.repo.GetByIDEager
	}
	address, err := find(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to retrieve address")
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(address))
}

func (h *AddressHandler) HandleCreate(c *gin.Context) {
	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	address := &models.Address{Name: input.Name, Zipcode: input.Zipcode, State: input.State}
	if err := h.repo.Persist(c.Request.Context(), address); err != nil {
		api.Error(c, err, "Failed to create address")
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(address))
}

func (h *AddressHandler) HandleUpdate(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	ctx := c.Request.Context()
	address := &models.Address{ID: id, Name: input.Name, Zipcode: input.Zipcode, State: input.State}
	if err := h.repo.Merge(ctx, address); err != nil {
		api.Error(c, err, "Failed to update address")
		return
	}
	if err := h.repo.Refresh(ctx, address); err != nil {
		api.Error(c, err, "Failed to reload address")
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(address))
}

// HandleDelete removes the address. A user living there keeps existing
// without one.
func (h *AddressHandler) HandleDelete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	removed, err := h.repo.RemoveByID(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to delete address")
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrAddressNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
