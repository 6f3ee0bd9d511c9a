package app

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mytheresa/go-catalog-mappings/app/api"
	"github.com/mytheresa/go-catalog-mappings/app/categories"
	"github.com/mytheresa/go-catalog-mappings/app/products"
	"github.com/mytheresa/go-catalog-mappings/app/users"
	"github.com/mytheresa/go-catalog-mappings/database"
)

// Dependencies are the repositories served over HTTP. Queries may be nil,
// in which case /debug/sql is not registered.
type Dependencies struct {
	Categories categories.CategoryProvider
	Products   products.ProductProvider
	Users      users.UserProvider
	Addresses  users.AddressProvider
	Queries    *database.QueryLogger
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	categoryHandler := categories.NewCategoryHandler(deps.Categories)
	r.GET("/categories", categoryHandler.HandleGetAll)
	r.GET("/categories/:id", categoryHandler.HandleGet)
	r.GET("/categories/name/:name", categoryHandler.HandleGetByName)
	r.POST("/categories", categoryHandler.HandleCreate)
	r.PUT("/categories/:id", categoryHandler.HandleUpdate)
	r.DELETE("/categories/:id", categoryHandler.HandleDelete)

	productHandler := products.NewProductHandler(deps.Products)
	r.GET("/products", productHandler.HandleGet)
	r.GET("/products/:id", productHandler.HandleGetProduct)
	r.POST("/products", productHandler.HandleCreate)
	r.PUT("/products/:id", productHandler.HandleUpdate)
	r.DELETE("/products/:id", productHandler.HandleDelete)

	userHandler := users.NewUserHandler(deps.Users)
	r.GET("/users/:id", userHandler.HandleGet)
	r.POST("/users", userHandler.HandleCreate)
	r.PUT("/users/:id", userHandler.HandleUpdate)
	r.DELETE("/users/:id", userHandler.HandleDelete)

	addressHandler := users.NewAddressHandler(deps.Addresses)
	r.GET("/addresses/:id", addressHandler.HandleGet)
	r.POST("/addresses", addressHandler.HandleCreate)
	r.PUT("/addresses/:id", addressHandler.HandleUpdate)
	r.DELETE("/addresses/:id", addressHandler.HandleDelete)

	if deps.Queries != nil {
		r.GET("/debug/sql", func(c *gin.Context) {
			n, _ := strconv.Atoi(c.Query("limit"))
			c.JSON(http.StatusOK, gin.H{"queries": deps.Queries.Recent(n)})
		})
		r.DELETE("/debug/sql", func(c *gin.Context) {
			deps.Queries.Reset()
			c.Status(http.StatusNoContent)
		})
	}

	return r
}
