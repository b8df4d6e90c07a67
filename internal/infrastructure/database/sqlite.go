package database

import (
	"fmt"
	"log"

	"github.com/rkstores/wholesale-api/internal/config"
	"github.com/rkstores/wholesale-api/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens the embedded SQLite database. The returned handle
// is owned by the caller and injected into every repository; there is
// no package-level singleton.
func NewSQLiteDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// SQLite allows a single writer; a single connection avoids
	// SQLITE_BUSY under concurrent transactions.
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Successfully opened SQLite database at %s", cfg.Path)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog
		&entity.Product{},

		// Contact store
		&entity.Customer{},
		&entity.Supplier{},

		// Billing
		&entity.Bill{},
		&entity.BillItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
