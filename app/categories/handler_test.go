package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	CreateErr  error
	ListErr    error
	FindErr    error
	MergeErr   error
	DeleteErr  error
	Missing    bool
	LastSaved  *models.Category
	EagerCalls int
	LastPage   [2]int
}

func (m *MockCategoryRepo) find(id uint) (*models.Category, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			c := m.Categories[i]
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) FindByID(_ context.Context, id uint) (*models.Category, error) {
	c, err := m.find(id)
	if c != nil {
		c.Products = nil
	}
	return c, err
}

func (m *MockCategoryRepo) FindByName(_ context.Context, name string) (*models.Category, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := range m.Categories {
		if m.Categories[i].Name == name {
			c := m.Categories[i]
			c.Products = nil
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) ListAll(context.Context) ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) GetByIDEager(_ context.Context, id uint) (*models.Category, error) {
	m.EagerCalls++
	return m.find(id)
}

func (m *MockCategoryRepo) Persist(_ context.Context, cat *models.Category) error {
	m.LastSaved = cat
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cat.ID = uint(len(m.Categories) + 1)
	return nil
}

func (m *MockCategoryRepo) Merge(_ context.Context, cat *models.Category) (bool, error) {
	m.LastSaved = cat
	return !m.Missing && m.MergeErr == nil, m.MergeErr
}

func (m *MockCategoryRepo) DeleteByID(context.Context, uint) (bool, error) {
	return !m.Missing && m.DeleteErr == nil, m.DeleteErr
}

func (m *MockCategoryRepo) Count(context.Context) (int64, error) {
	return int64(len(m.Categories)), m.ListErr
}

func (m *MockCategoryRepo) CountPages(_ context.Context, size int) (int, error) {
	if err := models.ValidatePage(1, size); err != nil {
		return 0, err
	}
	return models.PageCount(int64(len(m.Categories)), size), nil
}

func (m *MockCategoryRepo) ListPage(_ context.Context, page, size int) ([]models.Category, error) {
	m.LastPage = [2]int{page, size}
	if err := models.ValidatePage(page, size); err != nil {
		return nil, err
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	from := models.PageOffset(page, size)
	if from >= len(m.Categories) {
		return []models.Category{}, nil
	}
	to := min(from+size, len(m.Categories))
	return m.Categories[from:to], nil
}

func sampleCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Clothing", Products: []models.Product{
			{ID: 10, Name: "Shirt", Price: decimal.NewFromFloat(15.5)},
		}},
		{ID: 2, Name: "Shoes"},
		{ID: 3, Name: "Bags"},
	}
}

func newRouter(h *CategoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/categories", h.HandleGetAll)
	r.GET("/categories/:id", h.HandleGet)
	r.GET("/categories/name/:name", h.HandleGetByName)
	r.POST("/categories", h.HandleCreate)
	r.PUT("/categories/:id", h.HandleUpdate)
	r.DELETE("/categories/:id", h.HandleDelete)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var errResp map[string]string
	err := json.NewDecoder(rec.Body).Decode(&errResp)
	assert.NoError(t, err)
	return errResp["error"]
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with multiple categories",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()[1:]}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, uint(2), resp[0].ID)
				assert.Equal(t, "Bags", resp[1].Name)
			},
		},
		{
			name: "Success with empty list",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: []models.Category{}}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 0)
			},
		},
		{
			name: "Repository error",
			url:  "/categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "failed to fetch categories", decodeError(t, rec))
			},
		},
		{
			name: "Second page",
			url:  "/categories?page=2&size=2",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp PageResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, 2, resp.Page)
				assert.Equal(t, 2, resp.Pages)
				assert.EqualValues(t, 3, resp.Total)
				assert.Len(t, resp.Categories, 1)
				assert.Equal(t, "Bags", resp.Categories[0].Name)
			},
		},
		{
			name: "Size defaults page to 1",
			url:  "/categories?size=5",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp PageResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, 1, resp.Page)
				assert.Len(t, resp.Categories, 3)
			},
		},
		{
			name: "Page zero is rejected",
			url:  "/categories?page=0",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, models.ErrInvalidPage.Error(), decodeError(t, rec))
			},
		},
		{
			name: "Non-numeric size",
			url:  "/categories?size=ten",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "invalid size", decodeError(t, rec))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			router := newRouter(NewCategoryHandler(mockRepo))
			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

// --- Tests: GET /categories/:id ---

func TestHandleGet(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name: "Lazy load",
			url:  "/categories/1",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "Clothing", resp.Name)
				assert.Empty(t, resp.Products)
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Zero(t, repo.EagerCalls)
			},
		},
		{
			name: "Eager load includes products",
			url:  "/categories/1?eager=true",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp.Products, 1)
				assert.Equal(t, 15.5, resp.Products[0].Price)
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Equal(t, 1, repo.EagerCalls)
			},
		},
		{
			name: "Not found",
			url:  "/categories/99",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, models.ErrCategoryNotFound.Error(), decodeError(t, rec))
			},
		},
		{
			name: "Invalid id",
			url:  "/categories/abc",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "invalid id", decodeError(t, rec))
			},
		},
		{
			name: "By name",
			url:  "/categories/name/Shoes",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: sampleCategories()}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, uint(2), resp.ID)
			},
		},
		{
			name: "Repository error",
			url:  "/categories/1",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{FindErr: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "failed to fetch category", decodeError(t, rec))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := tc.mockRepoSetup()
			router := newRouter(NewCategoryHandler(mockRepo))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, httptest.NewRequest("GET", tc.url, nil))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: POST /categories ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name:        "Success",
			requestBody: `{"name":"Accessories"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, uint(1), resp.ID)
				assert.Equal(t, "Accessories", resp.Name)
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved)
				assert.Equal(t, "Accessories", repo.LastSaved.Name)
			},
		},
		{
			name:        "Invalid JSON body",
			requestBody: `{invalid json`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Invalid JSON body", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "Persist should not be called with invalid JSON")
			},
		},
		{
			name:        "Missing name",
			requestBody: `{"name":"  "}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Missing name", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "Persist should not be called with missing fields")
			},
		},
		{
			name:        "Duplicate name",
			requestBody: `{"name":"Shoes"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: models.ErrCategoryAlreadyExists}
			},
			expectedStatusCode: http.StatusConflict,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, models.ErrCategoryAlreadyExists.Error(), decodeError(t, rec))
			},
		},
		{
			name:        "Repository error on create",
			requestBody: `{"name":"Toys"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Failed to create category", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved, "Persist should have been called")
				assert.Equal(t, "Toys", repo.LastSaved.Name)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			router := newRouter(NewCategoryHandler(mockRepo))
			req := httptest.NewRequest("POST", "/categories", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: PUT and DELETE /categories/:id ---

func TestHandleUpdate(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		requestBody        string
		mockRepo           *MockCategoryRepo
		expectedStatusCode int
	}{
		{name: "Success", url: "/categories/2", requestBody: `{"name":"Footwear"}`, mockRepo: &MockCategoryRepo{}, expectedStatusCode: http.StatusOK},
		{name: "Unknown id", url: "/categories/9", requestBody: `{"name":"Footwear"}`, mockRepo: &MockCategoryRepo{Missing: true}, expectedStatusCode: http.StatusNotFound},
		{name: "Blank name", url: "/categories/2", requestBody: `{"name":""}`, mockRepo: &MockCategoryRepo{MergeErr: models.ErrInvalidName}, expectedStatusCode: http.StatusBadRequest},
		{name: "Name taken", url: "/categories/2", requestBody: `{"name":"Bags"}`, mockRepo: &MockCategoryRepo{MergeErr: models.ErrCategoryAlreadyExists}, expectedStatusCode: http.StatusConflict},
		{name: "Invalid id", url: "/categories/0", requestBody: `{"name":"Bags"}`, mockRepo: &MockCategoryRepo{}, expectedStatusCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(NewCategoryHandler(tc.mockRepo))
			req := httptest.NewRequest("PUT", tc.url, strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepo           *MockCategoryRepo
		expectedStatusCode int
	}{
		{name: "Success", mockRepo: &MockCategoryRepo{}, expectedStatusCode: http.StatusNoContent},
		{name: "Unknown id", mockRepo: &MockCategoryRepo{Missing: true}, expectedStatusCode: http.StatusNotFound},
		{name: "Repository error", mockRepo: &MockCategoryRepo{DeleteErr: errors.New("locked")}, expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(NewCategoryHandler(tc.mockRepo))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/categories/3", nil))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}
