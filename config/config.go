package config

import (
	"fmt"
	"log"
	"os"

	"backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Settings carries everything built once at process start and handed to
// the services. The Gemini key/model deliberately live here instead of in
// a package-level client.
type Settings struct {
	Port         string
	GeminiAPIKey string
	GeminiModel  string
	Currency     string
	SESEmail     string
	AWSRegion    string
}

// Load reads .env (if present) and assembles the runtime settings.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	s := &Settings{
		Port:         os.Getenv("PORT"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		Currency:     os.Getenv("INSIGHT_CURRENCY"),
		SESEmail:     os.Getenv("SES_EMAIL"),
		AWSRegion:    os.Getenv("AWS_REGION"),
	}
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.GeminiModel == "" {
		s.GeminiModel = "gemini-1.5-flash"
	}
	if s.Currency == "" {
		s.Currency = "Indian Rupees (INR)"
	}
	if s.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, insights will use the built-in fallback")
	}
	return s
}

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate is split out so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.UsageRecord{},
	)
}
