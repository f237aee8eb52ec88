package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Notifier             NotifierConfig
	// StrictDoctorOwnership requires the acting doctor to be the
	// appointment's assigned doctor for status updates and report uploads.
	StrictDoctorOwnership bool
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// NotifierConfig selects the notification backend. When AMQPURL is set the
// dispatcher publishes to a topic exchange; otherwise, when WebhookURL is
// set, notifications are POSTed there; with neither, they go to the log.
type NotifierConfig struct {
	AMQPURL      string
	AMQPExchange string
	WebhookURL   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	notifierConfig := NotifierConfig{
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "clinic.notifications"),
		WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	strictOwnership, err := strconv.ParseBool(getEnv("STRICT_DOCTOR_OWNERSHIP", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_DOCTOR_OWNERSHIP: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                  getEnv("PORT", "8000"),
		Origin:                getEnv("ORIGIN", "http://localhost:4200"),
		Environment:           getEnv("APP_ENV", "development"),
		JWTSecret:             getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes:  jwtExpMinutes,
		Database:              dbConfig,
		Notifier:              notifierConfig,
		StrictDoctorOwnership: strictOwnership,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
