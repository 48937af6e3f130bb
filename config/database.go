package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
)

// ConnectDatabase opens the relational store. An embedded SQLite file is
// the default; a PostgreSQL DATABASE_URL takes precedence when set. The
// returned handle is constructed once at startup and injected into every
// component that needs it.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Println("Database connection established (postgres)")
		return db, nil
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	// Serialize concurrent writers at the storage engine; the application
	// relies on transactions alone for stock correctness.
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA foreign_keys = ON")

	log.Printf("Database connection established (sqlite, %s)", cfg.DatabasePath)
	return db, nil
}

// MigrateDatabase creates or updates the schema for all models
func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Order{},
		&models.Refund{},
		&models.CartItem{},
		&models.Subscription{},
		&models.Review{},
		&models.SupportTicket{},
		&models.Setting{},
	)
}

// SeedDefaults inserts default settings and the bootstrap admin account
// when they do not exist yet
func SeedDefaults(db *gorm.DB, cfg *Config) error {
	defaults := map[string]string{
		models.SettingMinFreeDelivery:       "500",
		models.SettingDomesticShipping:      "60",
		models.SettingInternationalShipping: "500",
		models.SettingMerchantUPIID:         cfg.MerchantUPIID,
	}
	for key, value := range defaults {
		var existing models.Setting
		if err := db.First(&existing, "key = ?", key).Error; err == nil {
			continue
		}
		if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	var admin models.User
	if err := db.First(&admin, "role = ?", models.RoleAdmin).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.Create(&models.User{
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
