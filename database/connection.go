package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mytheresa/go-catalog-mappings/config"
)

// Open connects gorm to the configured database. Statements are recorded in
// queries when it is not nil.
func Open(cfg *config.DatabaseConfig, queries *QueryLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	level := logger.Warn
	if cfg.QueryLog {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(level, queries),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.WithFields(log.Fields{"driver": cfg.Driver}).Info("database connection established")
	return db, nil
}

// OpenNative opens a sqlx pool for the hand-written SQL stores. Postgres goes
// through lib/pq.
func OpenNative(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	driverName, err := nativeDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open native connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// ShareNative exposes gorm's pool to sqlx. The returned handle must not be
// closed separately.
func ShareNative(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}
	driverName, err := nativeDriverName(db.Dialector.Name())
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}

func nativeDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	}
	return "", errors.Errorf("unsupported database driver %q", driver)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
