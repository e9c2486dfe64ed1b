package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	AICacheTTL           time.Duration
	JWTSecret            string
	SeatTokenTTL         time.Duration
	HellTimeBudget       time.Duration
	VCFDepth             int
	FinishedSessionTTL   time.Duration
	IdleSessionTTL       time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	allowedOrigins := []string{frontendURL}
	if frontendURL != "http://localhost:5173" {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173") // Local development
	}
	if allowedOriginsStr != "" {
		for _, origin := range strings.Split(allowedOriginsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Database Config (empty URL keeps the archive disabled)
	dbURL := GetEnv("DATABASE_URL", "")
	dbMaxOpenConns := GetEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	dbMaxIdleConns := GetEnvAsInt("DB_MAX_IDLE_CONNS", 25)
	dbConnMaxLifetimeMin := GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	// Redis
	redisURL := GetEnv("REDIS_URL", "localhost:6379")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	aiCacheTTLMin := GetEnvAsInt("AI_CACHE_TTL_MINUTES", 60)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	seatTokenTTLHours := GetEnvAsInt("SEAT_TOKEN_TTL_HOURS", 24)

	// AI tuning
	hellBudgetMs := GetEnvAsInt("AI_HELL_TIME_BUDGET_MS", 3000)
	vcfDepth := GetEnvAsInt("AI_VCF_DEPTH", 10)

	// Sessions
	finishedTTLMin := GetEnvAsInt("SESSION_FINISHED_TTL_MINUTES", 30)
	idleTTLHours := GetEnvAsInt("SESSION_IDLE_TTL_HOURS", 6)

	return &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		RedisURL:             redisURL,
		RedisPassword:        redisPassword,
		AICacheTTL:           time.Duration(aiCacheTTLMin) * time.Minute,
		JWTSecret:            jwtSecret,
		SeatTokenTTL:         time.Duration(seatTokenTTLHours) * time.Hour,
		HellTimeBudget:       time.Duration(hellBudgetMs) * time.Millisecond,
		VCFDepth:             vcfDepth,
		FinishedSessionTTL:   time.Duration(finishedTTLMin) * time.Minute,
		IdleSessionTTL:       time.Duration(idleTTLHours) * time.Hour,
	}
}

// EngineOptions turns the AI tuning keys into overrides of the default
// Hell tier.
func (c *Config) EngineOptions() []bot.Option {
	hell := bot.DefaultConfigs()[domain.Hell]
	if c.HellTimeBudget > 0 {
		hell.TimeBudget = c.HellTimeBudget
	}
	if c.VCFDepth > 0 {
		hell.VCFDepth = c.VCFDepth
	}
	return []bot.Option{bot.WithConfig(domain.Hell, hell)}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
