package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment       string
	DBHost            string
	DBPort            string
	DBUsername        string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	S3Endpoint        string
	S3Region          string
	S3AccessKey       string
	S3SecretKey       string
	AttachmentsBucket string
	VoiceBucket       string
	Port              string
	Timezone          string
}

func NewConfig() (*Config, error) {
	env := os.Getenv("ELETTERS_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:       env,
		DBHost:            getEnvOrDefault("ELETTERS_DB_HOST", "localhost"),
		DBPort:            getEnvOrDefault("ELETTERS_DB_PORT", "5432"),
		DBUsername:        getEnvOrDefault("ELETTERS_DB_USER", "eletters"),
		DBPassword:        os.Getenv("ELETTERS_DB_PASSWORD"),
		DBName:            getEnvOrDefault("ELETTERS_DB_NAME", "eletters"),
		DBSSLMode:         getEnvOrDefault("ELETTERS_DB_SSLMODE", "disable"),
		S3Endpoint:        getEnvOrDefault("ELETTERS_S3_ENDPOINT", "http://localhost:9000"),
		S3Region:          getEnvOrDefault("ELETTERS_S3_REGION", "us-east-1"),
		S3AccessKey:       os.Getenv("ELETTERS_S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("ELETTERS_S3_SECRET_KEY"),
		AttachmentsBucket: getEnvOrDefault("ELETTERS_ATTACHMENTS_BUCKET", "letters-attachments"),
		VoiceBucket:       getEnvOrDefault("ELETTERS_VOICE_BUCKET", "voice-messages"),
		Port:              getEnvOrDefault("PORT", "8080"),
		Timezone:          getEnvOrDefault("TZ", "UTC"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("ELETTERS_DB_PASSWORD is required")
	}

	if c.S3AccessKey == "" {
		return fmt.Errorf("ELETTERS_S3_ACCESS_KEY is required")
	}

	if c.S3SecretKey == "" {
		return fmt.Errorf("ELETTERS_S3_SECRET_KEY is required")
	}

	return nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.DBUsername),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
