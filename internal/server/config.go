// Package server wires the judge proxy into an HTTP server.
package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the proxy server configuration.
type Config struct {
	Port            string
	AllowedOrigins  []string
	AuditDBPath     string // empty disables the audit log
	QuestionsPath   string // empty serves the embedded bank
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  splitList(getEnv("QUANTSIM_ALLOWED_ORIGINS", "*")),
		AuditDBPath:     getEnv("QUANTSIM_AUDIT_DB", ""),
		QuestionsPath:   getEnv("QUANTSIM_QUESTIONS", ""),
		ReadTimeout:     time.Duration(getEnvInt("QUANTSIM_READ_TIMEOUT_SECONDS", 30)) * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("QUANTSIM_ALLOWED_ORIGINS cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("QUANTSIM_READ_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
