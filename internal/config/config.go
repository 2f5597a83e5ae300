package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderSMTP  = "smtp"
	ProviderGmail = "gmail"
	ProviderLog   = "log"
)

type Config struct {
	// Server
	Port           string
	Environment    string
	StaticDir      string
	MaxUploadBytes int64
	TrustedProxies []string

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Notification
	NotifyProvider string
	SiteEmail      string
	SenderName     string

	// SMTP
	EmailUser string
	EmailPass string
	SMTPHost  string
	SMTPPort  int

	// Gmail API
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string

	// Pricing
	PricingFile string
}

func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		StaticDir:      getEnv("STATIC_DIR", ""),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 25<<20),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		NotifyProvider: strings.ToLower(getEnv("NOTIFY_PROVIDER", ProviderSMTP)),
		SiteEmail:      getEnv("SITE_EMAIL", ""),
		SenderName:     getEnv("MAIL_SENDER_NAME", "lamasat.com"),

		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),
		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		PricingFile: getEnv("PRICING_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	switch c.NotifyProvider {
	case ProviderSMTP:
		if c.SiteEmail == "" {
			return fmt.Errorf("SITE_EMAIL is required")
		}
		if c.EmailUser == "" {
			return fmt.Errorf("EMAIL_USER is required")
		}
		if c.EmailPass == "" {
			return fmt.Errorf("EMAIL_PASS is required")
		}
	case ProviderGmail:
		if c.SiteEmail == "" {
			return fmt.Errorf("SITE_EMAIL is required")
		}
		if c.GmailClientID == "" {
			return fmt.Errorf("GMAIL_CLIENT_ID is required")
		}
		if c.GmailClientSecret == "" {
			return fmt.Errorf("GMAIL_CLIENT_SECRET is required")
		}
		if c.GmailRefreshToken == "" {
			return fmt.Errorf("GMAIL_REFRESH_TOKEN is required")
		}
	case ProviderLog:
	default:
		return fmt.Errorf("unknown NOTIFY_PROVIDER %q", c.NotifyProvider)
	}
	return nil
}

// SMTPAddr is the host:port the SMTP sender dials.
func (c *Config) SMTPAddr() string {
	return c.SMTPHost + ":" + strconv.Itoa(c.SMTPPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
