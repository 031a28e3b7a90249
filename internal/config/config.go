// Package config loads application settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a setting unset.
const (
	DefaultAddr       = ":8080"
	DefaultGateRadius = 200.0
	DefaultWorkers    = 4
)

// Config holds the runtime settings for the Steadyhead application.
type Config struct {
	Addr       string
	DBPath     string
	StaticDir  string
	TrayEnable bool
	GateRadius float64
	Workers    int
}

// Load reads settings from a .env file (if present) and the process
// environment. Unset values fall back to defaults; DBPath stays empty
// so the caller can derive the per-user location.
func Load() (*Config, error) {
	// Ignore the error, a missing .env file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getEnv("STEADYHEAD_ADDR", DefaultAddr),
		DBPath:     os.Getenv("STEADYHEAD_DB"),
		StaticDir:  os.Getenv("STEADYHEAD_WEB"),
		TrayEnable: getBool("STEADYHEAD_TRAY", false),
		GateRadius: getFloat("STEADYHEAD_GATE", DefaultGateRadius),
		Workers:    getInt("STEADYHEAD_WORKERS", DefaultWorkers),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
