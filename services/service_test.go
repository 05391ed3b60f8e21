package services

import (
	"testing"

	"backend/config"
	"backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a pooled second connection would see its own empty :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FullName: "Test User"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTestDevice(t *testing.T, db *gorm.DB, userID uint, name, category string, rating float64, unit string) *models.Device {
	t.Helper()
	d := &models.Device{UserID: userID, Name: name, Category: category, Rating: rating, Unit: unit}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("create device: %v", err)
	}
	return d
}
