package products

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mytheresa/go-catalog-mappings/app/api"
	"github.com/mytheresa/go-catalog-mappings/models"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    *Category `json:"category"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDEager(ctx context.Context, id uint) (*models.Product, error)
	Persist(ctx context.Context, p *models.Product) error
	Merge(ctx context.Context, p *models.Product) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

type ProductHandler struct {
	repo ProductProvider
}

func NewProductHandler(r ProductProvider) *ProductHandler {
	return &ProductHandler{
		repo: r,
	}
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uint           `json:"category_id"`
}

func (in productInput) toModel(id uint) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
}

func toResponse(p *models.Product) Product {
	resp := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
	}
	if p.Category != nil {
		resp.Category = &Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		}
	}
	return resp
}

func (h *ProductHandler) HandleGet(c *gin.Context) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := c.Query("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := c.Query("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	var priceFilter *float64
	if priceStr := c.Query("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			priceFilter = &val
		}
	}

	filters := models.ProductFilters{
		CategoryName:  c.Query("category"),
		PriceLessThan: priceFilter,
	}

	res, total, err := h.repo.GetFilteredProducts(c.Request.Context(), offset, limit, filters)
	if err != nil {
		api.Error(c, err, "Failed to retrieve products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = toResponse(&res[i])
	}

	c.JSON(http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

// HandleGetProduct returns one product with its category unless
// ?eager=false is given.
func (h *ProductHandler) HandleGetProduct(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}

	find := h.repo.GetByIDEager
	if eager, err := strconv.ParseBool(c.Query("eager")); err == nil && !eager {
		find = h.repo.FindByID
	}
	product, err := find(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, toResponse(product))
}

func (h *ProductHandler) HandleCreate(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}

	product := input.toModel(0)
	if err := h.repo.Persist(c.Request.Context(), product); err != nil {
		api.Error(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, toResponse(product))
}

func (h *ProductHandler) HandleUpdate(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product := input.toModel(id)
	merged, err := h.repo.Merge(c.Request.Context(), product)
	if err != nil {
		api.Error(c, err, "Failed to update product")
		return
	}
	if !merged {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(product))
}

func (h *ProductHandler) HandleDelete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteByID(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to delete product")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrProductNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
