package categories

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mytheresa/go-catalog-mappings/app/api"
	"github.com/mytheresa/go-catalog-mappings/models"
)

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type CategoryResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products,omitempty"`
}

type PageResponse struct {
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	Pages      int                `json:"pages"`
	Total      int64              `json:"total"`
	Categories []CategoryResponse `json:"categories"`
}

type CategoryProvider interface {
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	GetByIDEager(ctx context.Context, id uint) (*models.Category, error)
	Persist(ctx context.Context, c *models.Category) error
	Merge(ctx context.Context, c *models.Category) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountPages(ctx context.Context, resultsPerPage int) (int, error)
	ListPage(ctx context.Context, pageNum, resultsPerPage int) ([]models.Category, error)
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

type categoryInput struct {
	Name string `json:"name"`
}

func toResponse(c *models.Category) CategoryResponse {
	resp := CategoryResponse{ID: c.ID, Name: c.Name}
	if len(c.Products) > 0 {
		resp.Products = make([]ProductResponse, len(c.Products))
		for i, p := range c.Products {
			resp.Products[i] = ProductResponse{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price.InexactFloat64(),
			}
		}
	}
	return resp
}

func toResponses(categories []models.Category) []CategoryResponse {
	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = toResponse(&categories[i])
	}
	return response
}

// HandleGetAll lists every category, or a single page when page or size is
// given. Pages are 1-based and default to 10 rows.
func (h *CategoryHandler) HandleGetAll(c *gin.Context) {
	pageStr, sizeStr := c.Query("page"), c.Query("size")
	if pageStr == "" && sizeStr == "" {
		categories, err := h.repo.ListAll(c.Request.Context())
		if err != nil {
			api.Error(c, err, "failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, toResponses(categories))
		return
	}

	page, size := 1, 10
	var err error
	if pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
	}
	if sizeStr != "" {
		if size, err = strconv.Atoi(sizeStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
			return
		}
	}

	ctx := c.Request.Context()
	categories, err := h.repo.ListPage(ctx, page, size)
	if err != nil {
		api.Error(c, err, "failed to fetch categories")
		return
	}
	pages, err := h.repo.CountPages(ctx, size)
	if err != nil {
		api.Error(c, err, "failed to count categories")
		return
	}
	total, err := h.repo.Count(ctx)
	if err != nil {
		api.Error(c, err, "failed to count categories")
		return
	}

	c.JSON(http.StatusOK, PageResponse{
		Page:       page,
		Size:       size,
		Pages:      pages,
		Total:      total,
		Categories: toResponses(categories),
	})
}

// HandleGet returns one category; ?eager=true includes its products.
func (h *CategoryHandler) HandleGet(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}

	find := h.repo.FindByID
	if api.Eager(c) {
		find = h.repo.GetByIDEager
	}
	category, err := find(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, toResponse(category))
}

func (h *CategoryHandler) HandleGetByName(c *gin.Context) {
	category, err := h.repo.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		api.Error(c, err, "failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, toResponse(category))
}

func (h *CategoryHandler) HandleCreate(c *gin.Context) {
	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}

	category := &models.Category{Name: input.Name}
	if err := h.repo.Persist(c.Request.Context(), category); err != nil {
		api.Error(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, toResponse(category))
}

func (h *CategoryHandler) HandleUpdate(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	category := &models.Category{ID: id, Name: input.Name}
	merged, err := h.repo.Merge(c.Request.Context(), category)
	if err != nil {
		api.Error(c, err, "Failed to update category")
		return
	}
	if !merged {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrCategoryNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(category))
}

func (h *CategoryHandler) HandleDelete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteByID(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to delete category")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrCategoryNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
