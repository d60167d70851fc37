package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Storage configuration. StorageDriver selects between the DynamoDB
	// repositories ("dynamodb") and the in-memory ones ("memory").
	StorageDriver string
	AWSRegion     string
	DynamoDBTable string
	PostIndexName string // GSI for direct post-ID lookups

	// Authentication
	JWTSecret string
	JWTIssuer string

	// WebSocket configuration
	WSWriteTimeout   time.Duration
	WSPongTimeout    time.Duration
	WSSendBufferSize int
	WSMaxMessageSize int64

	// Logging and features
	LogLevel       string
	EnableCORS     bool
	AllowedOrigins []string

	// Rate limiting
	IPRequestsPerMinute   int
	UserRequestsPerMinute int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		StorageDriver: getEnv("STORAGE_DRIVER", "memory"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", "ripple"),
		PostIndexName: getEnv("POST_INDEX_NAME", "PostIndex"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "ripple-backend"),

		WSWriteTimeout:   getEnvDuration("WS_WRITE_TIMEOUT", 10*time.Second),
		WSPongTimeout:    getEnvDuration("WS_PONG_TIMEOUT", 60*time.Second),
		WSSendBufferSize: getEnvInt("WS_SEND_BUFFER_SIZE", 256),
		WSMaxMessageSize: int64(getEnvInt("WS_MAX_MESSAGE_SIZE", 4096)),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		EnableCORS:     getEnvBool("ENABLE_CORS", true),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		IPRequestsPerMinute:   getEnvInt("IP_REQUESTS_PER_MINUTE", 300),
		UserRequestsPerMinute: getEnvInt("USER_REQUESTS_PER_MINUTE", 120),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.StorageDriver == "memory" {
			return fmt.Errorf("the memory storage driver is not allowed in production")
		}
	}
	if c.StorageDriver != "memory" && c.StorageDriver != "dynamodb" {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver == "dynamodb" && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable with a default value
func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
