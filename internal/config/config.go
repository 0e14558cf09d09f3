// Package config loads site configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the site configuration.
type Config struct {
	Mode     string
	Port     string
	LogLevel string

	DatabasePath string
	CatalogPath  string
	ImagesDir    string

	SessionTTL       time.Duration
	VisitorRetention time.Duration

	Admin AdminConfig
	SMTP  SMTPConfig

	ContactEmail string
}

// AdminConfig holds dashboard credentials.
type AdminConfig struct {
	Username string
	Password string
	// Defaulted is set when either credential fell back to the development default.
	Defaulted bool
}

// SMTPConfig holds outgoing mail settings for the contact form.
type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// Configured reports whether credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

// Load reads envFile (missing file is fine) and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Mode:         getenv("GIN_MODE", "debug"),
		Port:         getenv("PORT", "8080"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		DatabasePath: getenv("DATABASE_PATH", "gallery.db"),
		CatalogPath:  getenv("CATALOG_PATH", ""),
		ImagesDir:    getenv("IMAGES_DIR", "./images"),
		ContactEmail: getenv("CONTACT_EMAIL", "hello@visualgallery.com"),
		SMTP: SMTPConfig{
			Host:    getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:    getenv("SMTP_PORT", "587"),
			User:    os.Getenv("SMTP_USER"),
			Pass:    os.Getenv("SMTP_PASS"),
			ToEmail: getenv("TO_EMAIL", "hello@visualgallery.com"),
		},
	}

	switch cfg.Mode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("invalid GIN_MODE %q: want debug, release or test", cfg.Mode)
	}

	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
		cfg.Admin.Defaulted = true
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = "admin123"
		cfg.Admin.Defaulted = true
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.VisitorRetention, err = getDuration("VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Release reports whether the site runs in gin release mode.
func (c *Config) Release() bool {
	return c.Mode == "release"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}
