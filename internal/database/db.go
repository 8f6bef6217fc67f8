package database

import (
	"log"
	"os"
	"path/filepath"

	"goyal-backend/internal/config"
	"goyal-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	switch cfg.DatabaseDriver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		if dir := filepath.Dir(cfg.DatabaseDSN); dir != "" && dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				log.Fatalf("Could not create data directory: %v", mkErr)
			}
		}
		DB, err = gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database ready, migration complete.")
}

// Migrate applies the schema. Upgrades only ever add tables and columns;
// there is no down path.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.StockCategory{},
		&models.StockLot{},
		&models.Sale{},
		&models.StockDraft{},
		&models.DraftItem{},
		&models.Payment{},
		&models.PaymentTransaction{},
		&models.ScheduledEvent{},
		&models.Note{},
		&models.AuditLog{},
	)
}
