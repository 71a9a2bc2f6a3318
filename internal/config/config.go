package config

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Maksimell/shop_backend/internal/models"
)

type Config struct {
	APP_PORT          string
	DB_PATH           string
	DB_HOST           string
	DB_PORT           string
	DB_USER           string
	DB_PASSWORD       string
	DB_NAME           string
	SESSION_SECRET    string
	SESSION_TTL_HOURS string
	KAFKA_ADDRESS     string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		APP_PORT:          os.Getenv("APP_PORT"),
		DB_PATH:           os.Getenv("DB_PATH"),
		DB_HOST:           os.Getenv("DB_HOST"),
		DB_PORT:           os.Getenv("DB_PORT"),
		DB_USER:           os.Getenv("DB_USER"),
		DB_PASSWORD:       os.Getenv("DB_PASSWORD"),
		DB_NAME:           os.Getenv("DB_NAME"),
		SESSION_SECRET:    os.Getenv("SESSION_SECRET"),
		SESSION_TTL_HOURS: os.Getenv("SESSION_TTL_HOURS"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		ES_URL:            os.Getenv("ES_URL"),
		ES_USER:           os.Getenv("ES_USER"),
		ES_PASSWORD:       os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:         os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

// InitDB opens the store and migrates the schema. Postgres is used when
// DB_HOST is configured, otherwise a local sqlite file.
func InitDB(configuration *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if configuration.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			configuration.DB_USER,
			configuration.DB_PASSWORD,
			configuration.DB_HOST,
			configuration.DB_PORT,
			configuration.DB_NAME,
		)
		dialector = postgres.Open(dsn)
	} else {
		path := configuration.DB_PATH
		if path == "" {
			path = "ecommerce.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}
	return db, nil
}
