package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every externally configurable value. It is loaded once in
// main and passed explicitly into each component constructor; nothing in
// this codebase reads the environment after startup.
type Config struct {
	Port string
	Env  string // "development" | "production"

	DBPath string

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	OTPExpiry time.Duration
	OTPDigits int
	OTPStore  string // "memory" | "redis"

	RedisAddr     string
	RedisPassword string

	SMSProvider      string // "console" | "twilio"
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	// DevOTPCode is a fixed code accepted by OTP verification. It is only
	// populated when Env is "development"; in any other environment the
	// loader discards it so the bypass cannot reach production.
	DevOTPCode string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),

		DBPath: getEnv("DB_PATH", "khao.db"),

		JWTAccessSecret:  getEnv("JWT_SECRET", "khao_secret_key_min_32_chars_long"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "khao_refresh_secret"),
		AccessTokenTTL:   time.Duration(getEnvInt("JWT_EXPIRATION_SECONDS", 3600)) * time.Second,
		RefreshTokenTTL:  time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_SECONDS", 604800)) * time.Second,

		OTPExpiry: time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
		OTPDigits: getEnvInt("OTP_DIGITS", 4),
		OTPStore:  getEnv("OTP_STORE", "memory"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMSProvider:      getEnv("SMS_PROVIDER", "console"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM"),
	}

	if cfg.Env == "development" {
		cfg.DevOTPCode = os.Getenv("OTP_DEV_CODE")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}
