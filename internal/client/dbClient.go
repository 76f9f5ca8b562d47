package client

import (
	"fmt"
	"path/filepath"
	"time"

	"capicare-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDatabase opens the relational backend. With DATABASE_URL set this is
// MySQL; without it the service degrades to an embedded SQLite file next to
// the fallback store, so the audit trail and identity tables still exist in
// fallback-only deployments.
func InitDatabase(databaseURL, dataDir string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = mysql.Open(databaseURL)
	} else {
		dialector = sqlite.Open(filepath.Join(dataDir, "capicare.db"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Purchase{},
		&model.PurchaseEvent{},
		&model.AuthUser{},
		&model.Profile{},
		&model.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
