package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL         string
	DatabasePath        string
	Port                string
	GoEnv               string
	JWTSecret           string
	AdminEmail          string
	AdminPassword       string
	TelegramBotToken    string
	TelegramAdminChatID string
	GeminiAPIKey        string
	MerchantUPIID       string
	AWSRegion           string
	AWSS3Bucket         string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first, then fall back to .env.
	// In production the variables are set directly, so missing files are fine.
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DatabasePath:        getEnv("DATABASE_PATH", "data/susvada.db"),
		Port:                getEnv("PORT", "8080"),
		GoEnv:               env,
		JWTSecret:           getEnv("JWT_SECRET", ""),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@susvada.com"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: getEnv("TELEGRAM_ADMIN_CHAT_ID", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		MerchantUPIID:       getEnv("MERCHANT_UPI_ID", "merchant@upi"),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSS3Bucket:         getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// TelegramEnabled reports whether outbound Telegram notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramAdminChatID != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
