// Package config provides centralized configuration management.
// All TMS environment variables are read here, once.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// TMSEnv holds all TMS environment variables.
type TMSEnv struct {
	// DataDir is the database directory (TMS_DATA_DIR)
	DataDir string

	// NATSURL is the notification bus endpoint (TMS_NATS_URL)
	NATSURL string

	// SMTPHost is the mail relay host (TMS_SMTP_HOST)
	SMTPHost string

	// SMTPPort is the mail relay port (TMS_SMTP_PORT)
	SMTPPort int

	// MailFrom is the notification sender address (TMS_MAIL_FROM)
	MailFrom string

	// MailTo are the notification recipients, comma-separated (TMS_MAIL_TO)
	MailTo []string

	// MetricsPort is the metrics endpoint port (TMS_METRICS_PORT)
	MetricsPort int
}

var (
	env     *TMSEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *TMSEnv {
	envOnce.Do(func() {
		env = &TMSEnv{
			DataDir:     getEnvDefault("TMS_DATA_DIR", defaultDataDir()),
			NATSURL:     os.Getenv("TMS_NATS_URL"),
			SMTPHost:    os.Getenv("TMS_SMTP_HOST"),
			SMTPPort:    getEnvInt("TMS_SMTP_PORT", 587),
			MailFrom:    getEnvDefault("TMS_MAIL_FROM", "tms@localhost"),
			MailTo:      splitList(os.Getenv("TMS_MAIL_TO")),
			MetricsPort: getEnvInt("TMS_METRICS_PORT", 9300),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

// MailConfigured reports whether the mail notifier has what it needs.
func (e *TMSEnv) MailConfigured() bool {
	return e.SMTPHost != "" && len(e.MailTo) > 0
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tms", "data")
}

func getEnvDefault(key, fallback string) string {
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
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
