package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	BaseURL            string  // Public base URL, used in verification links
	RedisURL           string
	JWTSecret          string  // Secret key for JWT token signing
	JWTTTL             int     // Access token expiration time in hours
	JWTRefreshTTL      int     // Refresh token expiration time in hours
	RateLimitRPS       float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst     int     // Burst size for rate limiting
	RateLimitAuthRPS   float64 // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst int     // Burst size for auth endpoints
	ContactLimitTimes  int     // Redis fixed-window limit for contact endpoints (requests per window)
	ContactLimitWindow int     // Window size in seconds for contact endpoints
	QuotePageSize      int     // Fixed page size for quote listings
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	SMTPFrom           string
	ImageHostURL       string // Upload endpoint of the avatar image host
	ImageHostAPIKey    string
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		RedisURL:           getEnv("REDIS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvInt("JWT_TTL_HOURS", 1),
		JWTRefreshTTL:      getEnvInt("JWT_REFRESH_TTL_HOURS", 168), // 7 days
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		ContactLimitTimes:  getEnvInt("CONTACT_LIMIT_TIMES", 5),   // 5 requests
		ContactLimitWindow: getEnvInt("CONTACT_LIMIT_WINDOW", 60), // per minute
		QuotePageSize:      getEnvInt("QUOTE_PAGE_SIZE", 4),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		ImageHostURL:       getEnv("IMAGE_HOST_URL", ""),
		ImageHostAPIKey:    getEnv("IMAGE_HOST_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
