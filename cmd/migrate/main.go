package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/config"
	"github.com/mytheresa/go-catalog-mappings/database"
)

func main() {
	// Command line flags
	var (
		drop = flag.Bool("drop", false, "Drop all tables before migration")
		seed = flag.Bool("seed", false, "Seed the catalog with sample data")
		help = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Log.Configure()

	log.WithFields(log.Fields{
		"driver": cfg.Database.Driver,
		"schema": cfg.Database.Schema,
	}).Info("starting migration")

	db, err := database.Open(&cfg.Database, nil)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := run(ctx, db, cfg.Database.Schema, *drop, *seed); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// run optionally drops every table, migrates the schema and optionally seeds
// the sample catalog.
func run(ctx context.Context, db *gorm.DB, schema string, drop, seed bool) error {
	if drop {
		log.Warn("dropping all tables")
		if err := database.DropAll(db); err != nil {
			return errors.Wrap(err, "drop tables")
		}
	}

	if err := database.AutoMigrate(db, schema); err != nil {
		return errors.Wrap(err, "migrate")
	}
	log.Info("migration completed")

	if seed {
		if err := database.Seed(ctx, db, tally.NoopScope); err != nil {
			return errors.Wrap(err, "seed")
		}
	}
	return nil
}

func showHelp() {
	fmt.Println(`
Catalog migration tool

Usage:
  go run ./cmd/migrate [options]

Options:
  -drop   Drop all tables before migration
  -seed   Insert sample categories and products after migration
  -help   Show this help message

The database is selected with the DB_* environment variables or a .env file.`)
}
