package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	Reports  ReportsConfig  `toml:"reports"`

	// GeneratedSecret is set when no JWT secret was configured and a random
	// one was made up for this process.
	GeneratedSecret bool `toml:"-"`
}

type ServerConfig struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StorageConfig holds the MinIO settings. Document storage is off when
// Endpoint is empty.
type StorageConfig struct {
	Endpoint       string `toml:"endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Bucket         string `toml:"bucket"`
	UseSSL         bool   `toml:"use_ssl"`
	URLExpiryHours int    `toml:"url_expiry_hours"`
	RetentionDays  int    `toml:"retention_days"`
}

type ReportsConfig struct {
	ContactNumber     string `toml:"contact_number"`
	PopularTTLMinutes int    `toml:"popular_ttl_minutes"`
	EditorTTLHours    int    `toml:"editor_ttl_hours"`
}

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, LogLevel: "info"},
		Database: DatabaseConfig{MaxConns: 10},
		Auth:     AuthConfig{TokenTTLMinutes: 24 * 60},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Storage: StorageConfig{
			AccessKey:      "minioadmin",
			SecretKey:      "minioadmin",
			Bucket:         "medghor-reports",
			URLExpiryHours: 24,
			RetentionDays:  30,
		},
		Reports: ReportsConfig{
			ContactNumber:     "1234567890",
			PopularTTLMinutes: 15,
			EditorTTLHours:    12,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, an
// optional .env file and finally the process environment.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = random.String(32)
		cfg.GeneratedSecret = true
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Storage.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Storage.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.Bucket, "MINIO_BUCKET")
	setString(&c.Server.LogLevel, "LOG_LEVEL")
	setString(&c.Reports.ContactNumber, "CONTACT_NUMBER")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Server.Port, "PORT"},
		{&c.Redis.DB, "REDIS_DB"},
		{&c.Auth.TokenTTLMinutes, "TOKEN_TTL_MINUTES"},
		{&c.Storage.RetentionDays, "DOCUMENT_RETENTION_DAYS"},
		{&c.Reports.EditorTTLHours, "EDITOR_TTL_HOURS"},
	}
	for _, v := range ints {
		if err := setInt(v.dst, v.key); err != nil {
			return err
		}
	}

	if raw, ok := os.LookupEnv("MINIO_USE_SSL"); ok {
		useSSL, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid MINIO_USE_SSL %q: %w", raw, err)
		}
		c.Storage.UseSSL = useSSL
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = n
	return nil
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Storage.Endpoint != "" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required when an endpoint is set")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (c *Config) URLExpiry() time.Duration {
	return time.Duration(c.Storage.URLExpiryHours) * time.Hour
}

func (c *Config) DocumentRetention() time.Duration {
	return time.Duration(c.Storage.RetentionDays) * 24 * time.Hour
}

func (c *Config) PopularTTL() time.Duration {
	return time.Duration(c.Reports.PopularTTLMinutes) * time.Minute
}

func (c *Config) EditorTTL() time.Duration {
	return time.Duration(c.Reports.EditorTTLHours) * time.Hour
}

func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != ""
}
