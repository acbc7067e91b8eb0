// internal/config/config.go
//
// Environment-driven configuration for the triplet-match server.
// main loads .env (godotenv) first, then calls Load once and passes the
// result down; nothing else reads the environment directly.
//
// Environment variables (defaults in parentheses):
//   PORT (5175)  LOG_LEVEL (info)  DB_PATH (./data/app.db)
//   JWT_SECRET (dev_secret_change_me)  JWT_EXPIRES_DAYS (14)
//   COOKIE_NAME (triplet_token)  CLIENT_ORIGIN (http://localhost:5173)
//   NODE_ENV ("production" enables Secure/SameSite=None cookies)
//   DAILY_SALT (local_dev_salt)  DAILY_WIDTH (6)  DAILY_HEIGHT (6)
//   COMBOS_FILE ()  MAX_SIDE (24)

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the server reads at start-up.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
	DailySalt    string
	DailyWidth   int
	DailyHeight  int
	CombosFile   string
	MaxSide      int
}

// Load reads the environment. Malformed, zero or negative integers fall back
// to their defaults.
func Load() Config {
	return Config{
		Port:         envStr("PORT", "5175"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		DBPath:       envStr("DB_PATH", "./data/app.db"),
		JWTSecret:    envStr("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:       time.Duration(envPositive("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   envStr("COOKIE_NAME", "triplet_token"),
		ClientOrigin: envStr("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    envStr("DAILY_SALT", "local_dev_salt"),
		DailyWidth:   envPositive("DAILY_WIDTH", 6),
		DailyHeight:  envPositive("DAILY_HEIGHT", 6),
		CombosFile:   os.Getenv("COMBOS_FILE"),
		MaxSide:      envPositive("MAX_SIDE", 24),
	}
}

// envStr returns the value of k or def if unset/empty.
func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envPositive returns k as a positive integer, or def.
func envPositive(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
