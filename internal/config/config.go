package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	Report   ReportConfig   `toml:"report"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Port         int      `toml:"port"`
	Env          string   `toml:"env"`
	AllowOrigins []string `toml:"allow_origins"`
	BodyLimit    string   `toml:"body_limit"`
	// LoginRatePerMinute caps POST /token attempts per client IP.
	LoginRatePerMinute int `toml:"login_rate_per_minute"`
}

type DatabaseConfig struct {
	URL            string `toml:"url"`
	MaxConns       int32  `toml:"max_conns"`
	MigrateOnStart bool   `toml:"migrate_on_start"`
}

type AuthConfig struct {
	JWTSecret         string `toml:"jwt_secret"`
	AccessTTLSeconds  int    `toml:"access_ttl_seconds"`
	RefreshTTLSeconds int    `toml:"refresh_ttl_seconds"`
	// ResetPasswordToken is the shared secret accepted by POST /users/reset-password.
	// Empty disables the endpoint.
	ResetPasswordToken string `toml:"reset_password_token"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type StorageConfig struct {
	Endpoint         string `toml:"endpoint"`
	AccessKey        string `toml:"access_key"`
	SecretKey        string `toml:"secret_key"`
	UseSSL           bool   `toml:"use_ssl"`
	Bucket           string `toml:"bucket"`
	URLExpirySeconds int    `toml:"url_expiry_seconds"`
}

type ReportConfig struct {
	FontPath               string `toml:"font_path"`
	CacheTTLSeconds        int    `toml:"cache_ttl_seconds"`
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			Env:                "development",
			AllowOrigins:       []string{"*"},
			BodyLimit:          "20M",
			LoginRatePerMinute: 20,
		},
		Database: DatabaseConfig{
			MaxConns:       10,
			MigrateOnStart: true,
		},
		Auth: AuthConfig{
			AccessTTLSeconds:  3600,
			RefreshTTLSeconds: 7 * 24 * 3600,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			Bucket:           "backoffice-media",
			URLExpirySeconds: 3600,
		},
		Report: ReportConfig{
			CacheTTLSeconds:        300,
			RefreshIntervalSeconds: 300,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
	}
}

// Load builds the configuration: defaults, then the optional TOML file named by
// CONFIG_FILE, then environment variables (a .env file is loaded first when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file on top of cfg.
func LoadFile(filename string, cfg *Config) error {
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Auth.AccessTTLSeconds <= 0 || c.Auth.RefreshTTLSeconds <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != ""
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTTLSeconds) * time.Second
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTLSeconds) * time.Second
}

func (c *Config) URLExpiry() time.Duration {
	return time.Duration(c.Storage.URLExpirySeconds) * time.Second
}

func (c *Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.Report.CacheTTLSeconds) * time.Second
}

func (c *Config) ReportRefreshInterval() time.Duration {
	return time.Duration(c.Report.RefreshIntervalSeconds) * time.Second
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []string
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = b
		}
	}

	integer("PORT", &cfg.Server.Port)
	str("APP_ENV", &cfg.Server.Env)
	if v, ok := lookup("CORS_ALLOW_ORIGINS"); ok && v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}
	str("BODY_LIMIT", &cfg.Server.BodyLimit)
	integer("LOGIN_RATE_PER_MINUTE", &cfg.Server.LoginRatePerMinute)

	str("DATABASE_URL", &cfg.Database.URL)
	var maxConns int
	integer("DATABASE_MAX_CONNS", &maxConns)
	if maxConns > 0 {
		cfg.Database.MaxConns = int32(maxConns)
	}
	boolean("DATABASE_MIGRATE_ON_START", &cfg.Database.MigrateOnStart)

	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	integer("ACCESS_TOKEN_TTL_SECONDS", &cfg.Auth.AccessTTLSeconds)
	integer("REFRESH_TOKEN_TTL_SECONDS", &cfg.Auth.RefreshTTLSeconds)
	str("RESET_PASSWORD_TOKEN", &cfg.Auth.ResetPasswordToken)

	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	integer("REDIS_DB", &cfg.Redis.DB)

	str("MINIO_ENDPOINT", &cfg.Storage.Endpoint)
	str("MINIO_ACCESS_KEY", &cfg.Storage.AccessKey)
	str("MINIO_SECRET_KEY", &cfg.Storage.SecretKey)
	boolean("MINIO_USE_SSL", &cfg.Storage.UseSSL)
	str("MINIO_BUCKET", &cfg.Storage.Bucket)
	integer("MEDIA_URL_EXPIRY_SECONDS", &cfg.Storage.URLExpirySeconds)

	str("REPORT_FONT_PATH", &cfg.Report.FontPath)
	integer("REPORT_CACHE_TTL_SECONDS", &cfg.Report.CacheTTLSeconds)
	integer("REPORT_REFRESH_INTERVAL_SECONDS", &cfg.Report.RefreshIntervalSeconds)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_OUTPUT", &cfg.Log.Output)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, ", "))
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
