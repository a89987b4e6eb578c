package config

import (
	"errors"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/callwatch/callwatch/internal/models"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	PostgresDB = db
	return nil
}

// MigratePostgres creates or updates the relational schema.
func MigratePostgres() error {
	if PostgresDB == nil {
		return errors.New("PostgresDB is nil; call InitPostgres() first")
	}
	return PostgresDB.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.OfficialScript{},
		&models.Call{},
		&models.DailyStatsAgent{},
		&models.InterestSubmission{},
	)
}
