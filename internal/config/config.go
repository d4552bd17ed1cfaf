package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel  string
	LogFormat string

	HTTPAddr string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	DBPath     string

	GitHubToken    string
	GitHubUsername string
	GitHubBaseURL  string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	MaxSummaryTokens int

	NotionAPIKey     string
	NotionDatabaseID string
	NotionBaseURL    string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
	NotifyTo string

	CreditBalance        float64
	CreditAlertThreshold float64

	ReportOutputDir string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "devrecap"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBType:     getenv("DATABASE_TYPE", "sqlite"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "devrecap"),
		DBUser:     getenv("DATABASE_USER", "devrecap"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
		DBPath:     getenv("DATABASE_PATH", "devrecap.db"),

		GitHubToken:    strings.TrimSpace(getenv("GITHUB_TOKEN", "")),
		GitHubUsername: strings.TrimSpace(getenv("GITHUB_USERNAME", "")),
		GitHubBaseURL:  getenv("GITHUB_API_URL", "https://api.github.com"),

		AnthropicAPIKey:  strings.TrimSpace(getenv("ANTHROPIC_API_KEY", "")),
		AnthropicBaseURL: getenv("ANTHROPIC_API_URL", "https://api.anthropic.com"),
		AnthropicModel:   getenv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		MaxSummaryTokens: getenvInt("MAX_SUMMARY_TOKENS", 1024),

		NotionAPIKey:     strings.TrimSpace(getenv("NOTION_API_KEY", "")),
		NotionDatabaseID: strings.TrimSpace(getenv("NOTION_DATABASE_ID", "")),
		NotionBaseURL:    getenv("NOTION_API_URL", "https://api.notion.com"),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: getenv("SMTP_USER", ""),
		SMTPPass: getenv("SMTP_PASS", ""),
		SMTPFrom: getenv("SMTP_FROM", getenv("SMTP_USER", "")),
		NotifyTo: getenv("NOTIFY_EMAIL", ""),

		CreditBalance:        getenvFloat("CREDIT_BALANCE", 0),
		CreditAlertThreshold: getenvFloat("CREDIT_ALERT_THRESHOLD", 20),

		ReportOutputDir: getenv("REPORT_OUTPUT_DIR", "reports"),
	}
}

// ValidateCollection checks the credentials required before any collection or
// summarization work starts. A missing credential aborts the whole run.
func (c Config) ValidateCollection() error {
	var missing []string
	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.GitHubUsername == "" {
		missing = append(missing, "GITHUB_USERNAME")
	}
	if c.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
