package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// User store backends.
const (
	UserStoreMongo    = "mongo"
	UserStorePostgres = "postgres"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"5000"`
	Host        string `env:"HOST" envDefault:"http://localhost:5000"` // public URL of this API

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/moodjournal"`
	MongoDatabase string `env:"MONGODB_DATABASE"`
	RedisURI      string `env:"REDIS_URI" envDefault:"redis://localhost:6379/0"`
	UserStore     string `env:"USER_STORE" envDefault:"mongo"`
	PostgresURI   string `env:"POSTGRES_URI" envDefault:"postgres://localhost:5432/moodjournal?sslmode=disable"`

	JWTSecret     string        `env:"JWT_SECRET" envDefault:"your-secret-key"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	EncryptionKey string        `env:"ENCRYPTION_KEY"` // base64, 32 bytes; empty disables e-mail encryption

	AllowedOriginsRaw string   `env:"ALLOWED_ORIGINS"`
	FrontendURL       string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	FrontendURL2      string   `env:"FRONTEND_URL_2"`
	AllowedOrigins    []string `env:"-"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	GoogleClientID  string `env:"GOOGLE_CLIENT_ID"`
	NaverProfileURL string `env:"NAVER_PROFILE_URL" envDefault:"https://openapi.naver.com/v1/nid/me"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.UserStore = strings.ToLower(strings.TrimSpace(cfg.UserStore))
	if cfg.UserStore != UserStoreMongo && cfg.UserStore != UserStorePostgres {
		return nil, fmt.Errorf("USER_STORE must be %q or %q, got %q", UserStoreMongo, UserStorePostgres, cfg.UserStore)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	cfg.AllowedOrigins = buildOrigins(cfg)

	return cfg, nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// buildOrigins merges ALLOWED_ORIGINS, the frontend URLs and the apex/www
// origins of HOST so a deployed frontend passes CORS preflight.
func buildOrigins(c *Config) []string {
	origins := parseOrigins(c.AllowedOriginsRaw)
	if len(origins) == 0 {
		for _, u := range []string{c.FrontendURL, c.FrontendURL2} {
			u = strings.TrimSpace(u)
			if u != "" {
				origins = append(origins, u)
			}
		}
	}

	host := hostname(c.Host)
	if host != "" && host != "localhost" {
		parts := strings.Split(host, ".")
		if len(parts) >= 2 {
			domain := strings.Join(parts[1:], ".")
			for _, origin := range []string{"https://" + domain, "https://www." + domain} {
				if !containsOrigin(origins, origin) {
					origins = append(origins, origin)
				}
			}
		}
	}

	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return origins
}

func hostname(raw string) string {
	h := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://"} {
		h = strings.TrimPrefix(h, prefix)
	}
	if idx := strings.Index(h, "/"); idx != -1 {
		h = h[:idx]
	}
	if idx := strings.Index(h, ":"); idx != -1 {
		h = h[:idx]
	}
	return strings.TrimSpace(h)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}
