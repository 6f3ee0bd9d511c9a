package database

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// AutoMigrate creates the schema (postgres only) and migrates every model.
func AutoMigrate(db *gorm.DB, schema string) error {
	if db.Dialector.Name() == "postgres" && schema != "" && schema != "public" {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + db.Statement.Quote(schema)).Error; err != nil {
			return errors.Wrapf(err, "create schema %s", schema)
		}
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	log.Info("database migrated")
	return nil
}

// DropAll drops every model table, dependents first.
func DropAll(db *gorm.DB) error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return errors.Wrap(err, "drop table")
		}
	}
	log.Info("database tables dropped")
	return nil
}
