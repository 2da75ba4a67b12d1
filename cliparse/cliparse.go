package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultTextModel = "openai/gpt-5.2"
	DefaultIconModel = "google/gemini-3-flash-preview"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secrets
	LoginTokenSalt   string
	OpenRouterAPIKey string

	// AI gateway
	OpenRouterURL string
	TextModel     string
	IconModel     string

	// Players whose verified email grants the admin flag
	AdminEmails []string

	// Discoveries allowed per player per UTC day
	DailyDiscoveryLimit int
}

// ParseFlags validates flags and fills the config from CLI args with
// environment variable fallbacks.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var adminEmails string

	fs := flag.NewFlagSet("combine", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.LoginTokenSalt, "login-salt", "", "Login token salt (prefer env)")
	fs.StringVar(&cfg.OpenRouterAPIKey, "openrouter-key", "", "OpenRouter API key (prefer env)")

	// AI gateway
	fs.StringVar(&cfg.OpenRouterURL, "openrouter-url", "", "OpenRouter chat completions URL")
	fs.StringVar(&cfg.TextModel, "text-model", "", "Model for result name generation")
	fs.StringVar(&cfg.IconModel, "icon-model", "", "Model for SVG icon generation")

	fs.StringVar(&adminEmails, "admin-emails", "", "Comma-separated admin emails")
	fs.IntVar(&cfg.DailyDiscoveryLimit, "discovery-limit", 0, "Discoveries per player per UTC day")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3320 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - the login salt MUST be provided; the OpenRouter key is
	// optional at startup (AI calls fail without it).
	if cfg.LoginTokenSalt == "" {
		cfg.LoginTokenSalt = os.Getenv("LOGIN_TOKEN_SALT")
	}
	if cfg.LoginTokenSalt == "" {
		return Config{}, errors.New("LOGIN_TOKEN_SALT required")
	}

	if cfg.OpenRouterAPIKey == "" {
		cfg.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.OpenRouterURL == "" {
		cfg.OpenRouterURL = os.Getenv("OPENROUTER_URL")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = os.Getenv("TEXT_MODEL")
		if cfg.TextModel == "" {
			cfg.TextModel = DefaultTextModel
		}
	}
	if cfg.IconModel == "" {
		cfg.IconModel = os.Getenv("ICON_MODEL")
		if cfg.IconModel == "" {
			cfg.IconModel = DefaultIconModel
		}
	}

	if adminEmails == "" {
		adminEmails = os.Getenv("ADMIN_EMAILS")
	}
	cfg.AdminEmails = splitEmails(adminEmails)

	if cfg.DailyDiscoveryLimit == 0 {
		if limitStr := os.Getenv("DISCOVERY_DAILY_LIMIT"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 1 {
				return Config{}, errors.New("invalid DISCOVERY_DAILY_LIMIT env variable")
			}
			cfg.DailyDiscoveryLimit = limit
		} else {
			cfg.DailyDiscoveryLimit = 20 // default
		}
	}

	return cfg, nil
}

// IsAdminEmail reports whether the email is on the configured admin list.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
