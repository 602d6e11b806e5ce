package config

import (
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds every runtime setting the app needs. Values are read
// once at startup; nothing mutates this after Load.
type Config struct {
	Port        string
	DatabaseDSN string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	FrontendBaseURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	MidtransServerKey  string
	MidtransClientKey  string
	MidtransProduction bool
}

// Load reads configuration from environment variables. godotenv is
// expected to have populated the environment already (see main.go).
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret:       getEnv("JWT_SECRET", "TestSecretKeyAUTH1945"),
		AccessTokenTTL:  getDurationHours("ACCESS_TOKEN_TTL_HOURS", 8*24),
		RefreshTokenTTL: getDurationHours("REFRESH_TOKEN_TTL_HOURS", 30*24),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@coffeeshop.local"),

		MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:  os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransProduction: os.Getenv("MIDTRANS_ENV") == "production",
	}
}

// InitDB opens the MySQL connection used in production.
func InitDB(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationHours(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return time.Duration(fallback) * time.Hour
}
