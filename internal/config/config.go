package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableRedis bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload
	UploadDir        string
	MaxUploadSize    int64
	MaxImagesPerUser int

	// Publishing
	BaseDomain string
	ApexIP     string

	// AI content generation
	AIEndpoint string
	AIAPIKey   string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	UploadRateLimitRequests   int
	UploadRateLimitWindow     int
	GenerateRateLimitRequests int
	GenerateRateLimitWindow   int

	// Features
	EnableCache   bool
	EnableMetrics bool

	// SSL polling
	SSLPollIntervalSeconds int

	UploadStaleAfterSeconds int
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "builderuser"),
		DBPassword: getEnv("DB_PASSWORD", "builderpassword"),
		DBName:     getEnv("DB_NAME", "builderdb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Upload
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:    10 * 1024 * 1024, // 10MB
		MaxImagesPerUser: getEnvAsInt("MAX_IMAGES_PER_USER", 50),

		// Publishing
		BaseDomain: getEnv("BASE_DOMAIN", "aboutwebsite.in"),
		ApexIP:     getEnv("APEX_IP", "147.93.30.162"),

		// AI content generation
		AIEndpoint: getEnv("AI_ENDPOINT", ""),
		AIAPIKey:   getEnv("AI_API_KEY", ""),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		UploadRateLimitRequests:   getEnvAsInt("UPLOAD_RATE_LIMIT_REQUESTS", 20),
		UploadRateLimitWindow:     getEnvAsInt("UPLOAD_RATE_LIMIT_WINDOW", 300),
		GenerateRateLimitRequests: getEnvAsInt("GENERATE_RATE_LIMIT_REQUESTS", 10),
		GenerateRateLimitWindow:   getEnvAsInt("GENERATE_RATE_LIMIT_WINDOW", 3600),

		// Features
		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),

		// SSL polling
		SSLPollIntervalSeconds: getEnvAsInt("SSL_POLL_INTERVAL", 300),

		UploadStaleAfterSeconds: getEnvAsInt("UPLOAD_STALE_AFTER", 900),
	}

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
