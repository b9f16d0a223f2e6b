package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Events    EventsConfig    `yaml:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	UploadLimitMB       int      `yaml:"upload_limit_mb"`
	AllowOrigins        []string `yaml:"allow_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// StorageConfig contains object storage settings.
//
// PublicHosts maps the storage endpoint host to the host that serves public
// objects, e.g. "ref.supabase.co" -> "ref.supabase.in". PublicBaseURL, when
// set, wins over the mapping.
type StorageConfig struct {
	Endpoint         string            `yaml:"endpoint"`
	AccessKey        string            `yaml:"access_key"`
	SecretKey        string            `yaml:"secret_key"`
	Bucket           string            `yaml:"bucket"`
	Region           string            `yaml:"region"`
	UseSSL           bool              `yaml:"use_ssl"`
	PublicBaseURL    string            `yaml:"public_base_url"`
	PublicHosts      map[string]string `yaml:"public_hosts"`
	PublicPath       string            `yaml:"public_path"`
	BreakerThreshold int               `yaml:"breaker_threshold"`
	BreakerResetSecs int               `yaml:"breaker_reset_seconds"`
}

// CacheConfig contains Redis settings for the listing grid cache.
// An empty address disables caching.
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`

	// WarmSchedule is a cron spec for refilling the cache from the database.
	// Empty disables the job.
	WarmSchedule string `yaml:"warm_schedule"`
}

// EventsConfig contains NATS settings. An empty URL disables publishing.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// RateLimitConfig contains per-client limits for the image upload endpoint
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                "8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 30,
			UploadLimitMB:       10,
			AllowOrigins:        []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Type: "postgres",
			Postgres: PostgresConfig{
				Host:     "db",
				Port:     5432,
				User:     "listings_user",
				Password: "listings_pass",
				Database: "listings_db",
				SSLMode:  "disable",
			},
			MySQL: MySQLConfig{
				Host:     "mysql",
				Port:     3306,
				User:     "listings_user",
				Password: "listings_pass",
				Database: "listings_db",
			},
		},
		Storage: StorageConfig{
			Region:           "us-east-1",
			Bucket:           "homes",
			PublicPath:       "/storage/v1/object/public",
			BreakerThreshold: 5,
			BreakerResetSecs: 30,
		},
		Cache: CacheConfig{
			TTLSeconds:   60,
			WarmSchedule: "@every 5m",
		},
		Events: EventsConfig{
			Subject: "homes.created",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			RequestsPerHour:   600,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides on top of it
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file values with environment variables when they are set
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = strings.Split(origins, ",")
	}

	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)
	if c.Database.Type == "mysql" {
		m := &c.Database.MySQL
		m.Host = getEnv("DB_HOST", m.Host)
		m.Port = getEnvInt("DB_PORT", m.Port)
		m.User = getEnv("DB_USER", m.User)
		m.Password = getEnv("DB_PASSWORD", m.Password)
		m.Database = getEnv("DB_NAME", m.Database)
	} else {
		p := &c.Database.Postgres
		p.Host = getEnv("DB_HOST", p.Host)
		p.Port = getEnvInt("DB_PORT", p.Port)
		p.User = getEnv("DB_USER", p.User)
		p.Password = getEnv("DB_PASSWORD", p.Password)
		p.Database = getEnv("DB_NAME", p.Database)
	}

	c.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", c.Storage.Endpoint)
	c.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)
	c.Storage.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", c.Storage.PublicBaseURL)

	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.Events.NATSURL = getEnv("NATS_URL", c.Events.NATSURL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.Storage.Endpoint == "" {
		errs = append(errs, errors.New("storage.endpoint is required"))
	}
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		errs = append(errs, errors.New("storage access credentials are required"))
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required"))
	}
	if c.Database.Type != "postgres" && c.Database.Type != "mysql" {
		errs = append(errs, fmt.Errorf("unsupported database.type %q", c.Database.Type))
	}
	if c.Server.UploadLimitMB <= 0 {
		errs = append(errs, errors.New("server.upload_limit_mb must be positive"))
	}
	return errors.Join(errs...)
}

// UploadLimit returns the image upload body limit in bytes
func (c *ServerConfig) UploadLimit() int64 {
	return int64(c.UploadLimitMB) << 20
}

// ReadTimeout returns the server read timeout as a duration
func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration
func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// TTL returns the cache entry lifetime as a duration
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// BreakerReset returns how long the storage circuit stays open
func (c *StorageConfig) BreakerReset() time.Duration {
	return time.Duration(c.BreakerResetSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
