package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the process-wide configuration. It is built once at startup and
// handed to every component explicitly.
type Config struct {
	Listen         string         `toml:"listen"`
	Port           int            `toml:"port"`
	FrontendOrigin string         `toml:"frontend_origin"`
	CookieSecure   bool           `toml:"cookie_secure"`
	Secret         string         `toml:"secret"`
	FilesRoot      string         `toml:"files_root"`
	RedisAddr      string         `toml:"redis_addr"`
	LoginPerMinute int            `toml:"login_per_minute"`
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address
	// is the client address.
	TrustedProxies []string       `toml:"trusted_proxies"`
	SessionTTL     time.Duration  `toml:"-"`
	Admin          AdminConfig    `toml:"admin"`
	Database       DatabaseConfig `toml:"database"`
}

// AdminConfig describes the account seeded on first boot.
type AdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Nickname string `toml:"nickname"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:           8000,
		FrontendOrigin: "http://localhost:4173",
		Secret:         "dev-secret",
		FilesRoot:      "/data/files",
		LoginPerMinute: 10,
		SessionTTL:     7 * 24 * time.Hour,
		Admin: AdminConfig{
			Email:    "a.moskalev",
			Password: "120488",
			Nickname: "Администратор",
		},
		Database: *GetDefaultDatabaseConfig(),
	}
}

// Load builds the configuration from defaults, an optional TOML file, a
// .env file in the working directory and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
		return nil
	}

	setString("LISTEN", &c.Listen)
	if err := setInt("PORT", &c.Port); err != nil {
		return err
	}
	setString("FRONTEND_ORIGIN", &c.FrontendOrigin)
	setString("APP_SECRET", &c.Secret)
	setString("FILES_ROOT", &c.FilesRoot)
	setString("REDIS_ADDR", &c.RedisAddr)
	if err := setInt("LOGIN_PER_MINUTE", &c.LoginPerMinute); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok && v != "" {
		c.TrustedProxies = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.TrustedProxies = append(c.TrustedProxies, p)
			}
		}
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		c.CookieSecure = v == "true" || v == "1"
	}
	setString("DEFAULT_ADMIN_EMAIL", &c.Admin.Email)
	setString("DEFAULT_ADMIN_PASSWORD", &c.Admin.Password)

	if v, ok := os.LookupEnv("DB_TYPE"); ok && v != "" {
		c.Database.Type = DatabaseType(v)
	}
	setString("DB_PATH", &c.Database.SQLite.Path)
	setString("DB_HOST", &c.Database.Postgres.Host)
	if err := setInt("DB_PORT", &c.Database.Postgres.Port); err != nil {
		return err
	}
	setString("DB_NAME", &c.Database.Postgres.Database)
	setString("DB_USER", &c.Database.Postgres.Username)
	setString("DB_PASSWORD", &c.Database.Postgres.Password)
	setString("DB_SSLMODE", &c.Database.Postgres.SSLMode)
	setString("SEED_MARKER", &c.Database.SeedMarker)
	return nil
}

// Validate reports configuration that would make the server unsafe or unusable.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret cannot be empty")
	}
	if c.FilesRoot == "" {
		return errors.New("files root cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return c.Database.ValidateConfig()
}
