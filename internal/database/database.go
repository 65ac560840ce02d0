package database

import (
	"fmt"
	"log"
	"time"

	"fuel-tracker/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// The document table is the only schema this service owns
	if err := db.AutoMigrate(&models.AppDocument{}); err != nil {
		return nil, fmt.Errorf("failed to migrate document table: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
