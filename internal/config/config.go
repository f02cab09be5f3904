package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Extraction tool
	YtdlpPath string

	// Temp asset storage
	TempDir       string
	SweepSchedule string
	SweepMaxAge   time.Duration

	// Thumbnail fetching
	FetchTimeout time.Duration

	// Optional shared-secret auth; empty disables the check
	APIKey string

	// Logging
	LogLevel string
}

// Environment variable names used by the server
const (
	EnvPort                = "PORT"
	EnvYtdlpPath           = "YTDLP_PATH"
	EnvTempDir             = "TEMP_DIR"
	EnvSweepSchedule       = "SWEEP_SCHEDULE"
	EnvSweepMaxAgeSeconds  = "SWEEP_MAX_AGE_SECONDS"
	EnvFetchTimeoutSeconds = "FETCH_TIMEOUT_SECONDS"
	EnvAPIKey              = "API_KEY"
	EnvLogLevel            = "LOG_LEVEL"
)

func Load() Config {
	cfg := Config{
		Port:          getEnv(EnvPort, "8080"),
		YtdlpPath:     getEnv(EnvYtdlpPath, "yt-dlp"),
		TempDir:       getEnv(EnvTempDir, "tmp"),
		SweepSchedule: getEnv(EnvSweepSchedule, "@hourly"),
		APIKey:        getEnv(EnvAPIKey, ""),
		LogLevel:      getEnv(EnvLogLevel, "info"),
	}

	sweepMaxAgeSeconds, err := strconv.Atoi(getEnv(EnvSweepMaxAgeSeconds, "3600"))
	if err != nil || sweepMaxAgeSeconds < 1 {
		panic(fmt.Sprintf("invalid %s: %v", EnvSweepMaxAgeSeconds, err))
	}
	cfg.SweepMaxAge = time.Duration(sweepMaxAgeSeconds) * time.Second

	fetchTimeoutSeconds, err := strconv.Atoi(getEnv(EnvFetchTimeoutSeconds, "30"))
	if err != nil || fetchTimeoutSeconds < 1 {
		panic(fmt.Sprintf("invalid %s: %v", EnvFetchTimeoutSeconds, err))
	}
	cfg.FetchTimeout = time.Duration(fetchTimeoutSeconds) * time.Second

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
