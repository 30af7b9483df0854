package db

import (
	"fmt" // Error wrapping

	"ejn_hub/internal/config" // Application configuration
	"ejn_hub/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // Postgres driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger levels
)

// Open connects to the database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	return OpenDSN(cfg.DBDriver, cfg.DSN(), cfg.IsProd)
}

// OpenDSN connects with an explicit driver name and data source
func OpenDSN(driver, dsn string, quiet bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql", "":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	gormCfg := &gorm.Config{}
	if quiet {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent) // No SQL logs in production
	}
	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite allows a single writer; one connection serialises transactions
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("resolve sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := conn.AutoMigrate(domain.All()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
