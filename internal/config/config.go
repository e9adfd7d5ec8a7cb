package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080

	Jobs struct {
		APIURL  string
		Mode    domain.SourceMode
		Timeout time.Duration
	}

	ExportDir string

	Redis struct {
		URL        string
		SessionTTL time.Duration
	}

	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}

	SheetsCredsPath string
}

// Neo4jEnabled reports whether a Neo4j archive is configured
func (c Config) Neo4jEnabled() bool {
	return c.Neo4j.URI != ""
}

// Load reads an optional .env file and then populates config from
// environment variables. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv populates config from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		LogLevel:  "info",
		Host:      "0.0.0.0",
		Port:      "8080",
		ExportDir: "exports",
	}
	cfg.Jobs.APIURL = "http://localhost:5000/api"
	cfg.Jobs.Mode = domain.SingleSource
	cfg.Jobs.Timeout = 90 * time.Second
	cfg.Redis.SessionTTL = 24 * time.Hour

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("JOBS_API_URL"); v != "" {
		cfg.Jobs.APIURL = v
	}

	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")
	cfg.SheetsCredsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	var problems []string

	if v := os.Getenv("JOBS_SOURCE_MODE"); v != "" {
		switch mode := domain.SourceMode(strings.ToLower(v)); mode {
		case domain.SingleSource, domain.MultiSource:
			cfg.Jobs.Mode = mode
		default:
			problems = append(problems, fmt.Sprintf("JOBS_SOURCE_MODE must be %q or %q, got %q", domain.SingleSource, domain.MultiSource, v))
		}
	}

	if v := os.Getenv("JOBS_BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("JOBS_BACKEND_TIMEOUT must be a positive duration, got %q", v))
		} else {
			cfg.Jobs.Timeout = d
		}
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			problems = append(problems, fmt.Sprintf("SESSION_TTL must be a non-negative duration, got %q", v))
		} else {
			cfg.Redis.SessionTTL = d
		}
	}

	if cfg.Neo4j.URI != "" {
		var missingVars []string

		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}

		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}

		if len(missingVars) > 0 {
			problems = append(problems, fmt.Sprintf("missing required environment variables: %s", strings.Join(missingVars, ", ")))
		}
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}
