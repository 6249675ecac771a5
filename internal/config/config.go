package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rlamana/create-agent/internal/apierr"
	"github.com/rlamana/create-agent/internal/github"
)

// Config holds all configuration for a create-agent invocation
type Config struct {
	// Okteto agent platform
	OktetoContext string
	OktetoToken   string

	// Issue tracker credential: a token, or GitHub App credentials
	GitHubToken      string
	GitHubAppID      string
	GitHubPrivateKey string
	GitHubAPIURL     string

	// Issue coordinates
	IssueRepository string // owner/repo
	IssueNumber     int

	// Client settings
	UserAgent string
	Timeout   time.Duration // per call; 0 disables

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables. Values are not
// validated; call Validate once flags have been applied.
func Load() (*Config, error) {
	issueNumber, err := getEnvIssueNumber("ISSUE_NUMBER")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OktetoContext:    strings.TrimSpace(os.Getenv("OKTETO_CONTEXT")),
		OktetoToken:      strings.TrimSpace(os.Getenv("OKTETO_TOKEN")),
		GitHubToken:      strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubAppID:      strings.TrimSpace(os.Getenv("GITHUB_APP_ID")),
		GitHubPrivateKey: normalizePrivateKey(os.Getenv("GITHUB_PRIVATE_KEY")),
		GitHubAPIURL:     getEnv("GITHUB_API_URL", "https://api.github.com/"),
		IssueRepository:  strings.TrimSpace(os.Getenv("ISSUE_REPOSITORY")),
		IssueNumber:      issueNumber,
		UserAgent:        getEnv("CREATE_AGENT_USER_AGENT", "okteto-create-agent"),
		Timeout:          time.Duration(getEnvInt("CREATE_AGENT_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

func normalizePrivateKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
		trimmed = strings.TrimPrefix(trimmed, "\"")
		trimmed = strings.TrimSuffix(trimmed, "\"")
	}
	if strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
		trimmed = strings.TrimPrefix(trimmed, "'")
		trimmed = strings.TrimSuffix(trimmed, "'")
	}

	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	trimmed = strings.ReplaceAll(trimmed, "\r", "\n")
	if strings.Contains(trimmed, "\\n") {
		trimmed = strings.ReplaceAll(trimmed, "\\r", "")
		trimmed = strings.ReplaceAll(trimmed, "\\n", "\n")
	}

	return trimmed
}

// Validate checks the configuration before any network call is made.
// The Okteto context URL is checked when the endpoint is resolved.
func (c *Config) Validate() error {
	if err := c.ValidatePlatform(); err != nil {
		return err
	}
	if err := c.validateIssueContext(); err != nil {
		return err
	}
	if c.HasIssueContext() {
		if _, err := github.ParseAPIURL(c.GitHubAPIURL); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePlatform checks the settings every invocation needs, leaving
// out the issue coordinates, which a long-running server may receive per
// call.
func (c *Config) ValidatePlatform() error {
	if c.OktetoToken == "" {
		return apierr.Invalid("OKTETO_TOKEN", "environment variable is not set")
	}
	if c.Timeout < 0 {
		return apierr.Invalid("CREATE_AGENT_TIMEOUT_SECONDS", "must be >= 0")
	}
	return c.validateAppCredentials()
}

func (c *Config) validateAppCredentials() error {
	if (c.GitHubAppID == "") != (c.GitHubPrivateKey == "") {
		return apierr.Invalid("GITHUB_APP_ID", "GITHUB_APP_ID and GITHUB_PRIVATE_KEY must be set together")
	}
	return nil
}

// validateIssueContext rejects a partial credential/repository/number trio.
func (c *Config) validateIssueContext() error {
	present := 0
	var missing []string
	if c.hasTrackerCredential() {
		present++
	} else {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.IssueRepository != "" {
		present++
	} else {
		missing = append(missing, "ISSUE_REPOSITORY")
	}
	if c.IssueNumber != 0 {
		present++
	} else {
		missing = append(missing, "ISSUE_NUMBER")
	}

	if present == 0 || present == 3 {
		return nil
	}
	return apierr.Invalid("issue context", "incomplete, missing %s", strings.Join(missing, ", "))
}

func (c *Config) hasTrackerCredential() bool {
	return c.GitHubToken != "" || (c.GitHubAppID != "" && c.GitHubPrivateKey != "")
}

// HasIssueContext reports whether the notification stage is enabled.
func (c *Config) HasIssueContext() bool {
	return c.hasTrackerCredential() && c.IssueRepository != "" && c.IssueNumber != 0
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvIssueNumber parses an issue number, accepting a leading '#'.
func getEnvIssueNumber(key string) (int, error) {
	return ParseIssueNumber(key, os.Getenv(key))
}

// ParseIssueNumber parses an issue number from user input. Empty input
// yields 0, meaning no issue.
func ParseIssueNumber(field, value string) (int, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, apierr.Invalid(field, "must be a positive number, got %q", value)
	}
	return n, nil
}
