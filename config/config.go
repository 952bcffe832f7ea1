// Package config holds processing constants and environment-backed settings.
package config

import (
	"os"
	"strings"
	"time"
)

// Settings carries the environment-derived configuration for the server.
// Zero values mean "not configured"; callers decide whether that is fatal.
type Settings struct {
	Port string

	// S3 upload target. Bucket empty disables uploads.
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool

	// Scene renderer subprocess.
	PythonPath    string
	RenderScript  string
	RenderWorkDir string
	RenderTimeout time.Duration

	LogLevel string
}

// Load reads Settings from the environment. godotenv is expected to have
// populated os.Environ already (main loads .env before calling this).
func Load() Settings {
	return Settings{
		Port:           GetEnvOrDefault("PORT", "8080"),
		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Prefix:       GetEnvOrDefault("S3_PREFIX", "Animatic"),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
		PythonPath:     GetEnvOrDefault("PYTHON_PATH", "python3"),
		RenderScript:   GetEnvOrDefault("RENDER_SCRIPT", "scripts/render.py"),
		RenderWorkDir:  GetEnvOrDefault("RENDER_WORK_DIR", os.TempDir()),
		RenderTimeout:  durationEnv("RENDER_TIMEOUT", RenderTimeout),
		LogLevel:       GetEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// GetEnvOrDefault returns the environment value for key, or fallback when the
// variable is unset or blank.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
