package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/app"
	"github.com/mytheresa/go-catalog-mappings/config"
	"github.com/mytheresa/go-catalog-mappings/database"
	"github.com/mytheresa/go-catalog-mappings/models"
	"github.com/mytheresa/go-catalog-mappings/native"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Log.Configure()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var queries *database.QueryLogger
	if cfg.Database.QueryLog {
		queries = database.NewQueryLogger(cfg.Database.QueryLogSize)
	}

	db, err := database.Open(&cfg.Database, queries)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite databases start empty
		if err := database.AutoMigrate(db, ""); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "catalog",
		Tags:     map[string]string{"env": cfg.App.Environment},
		Reporter: tally.NullStatsReporter,
	}, time.Second)
	defer closer.Close()

	categories, categoriesCloser, err := newCategoryDAO(cfg, db, scope)
	if err != nil {
		log.Fatalf("Failed to initialize category store: %v", err)
	}
	defer categoriesCloser.Close()

	router := app.SetupRouter(app.Dependencies{
		Categories: categories,
		Products:   models.NewProductsRepository(db, scope),
		Users:      models.NewUsersRepository(db, scope),
		Addresses:  models.NewAddressesRepository(db, scope),
		Queries:    queries,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":           cfg.App.Port,
			"category_style": cfg.App.CategoryStyle,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newCategoryDAO returns the category implementation selected by
// APP_CATEGORY_STYLE. The native store gets its own lib/pq pool on postgres
// and shares gorm's pool on sqlite.
func newCategoryDAO(cfg *config.Config, db *gorm.DB, scope tally.Scope) (models.CategoryDAO, io.Closer, error) {
	switch cfg.App.CategoryStyle {
	case config.StyleCriteria:
		return models.NewCategoriesCriteriaRepository(db, scope), nopCloser{}, nil
	case config.StyleNative:
		if cfg.Database.Driver == config.DriverSQLite {
			ndb, err := database.ShareNative(db)
			if err != nil {
				return nil, nil, err
			}
			return native.NewCategoryStore(ndb, scope), nopCloser{}, nil
		}
		ndb, err := database.OpenNative(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return native.NewCategoryStore(ndb, scope), ndb, nil
	default:
		return models.NewCategoriesRepository(db, scope), nopCloser{}, nil
	}
}
