package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"simple-crud/models"
)

// Config is the root configuration of the API server.
// Values come from defaults, then the YAML file, then SIMPLECRUD_* environment variables.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig    `yaml:"cors"`
}

// TimeoutConfig holds HTTP server timeouts in seconds. Zero disables a timeout.
type TimeoutConfig struct {
	Read     int `yaml:"read"`
	Write    int `yaml:"write"`
	Idle     int `yaml:"idle"`
	Shutdown int `yaml:"shutdown"`
}

// CORSConfig lists allowed origins. An empty list allows every origin.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig selects the item store.
type StorageConfig struct {
	Driver string       `yaml:"driver"` // memory | sqlite | mongo
	Seed   bool         `yaml:"seed"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Mongo  MongoConfig  `yaml:"mongo"`
}

type SQLiteConfig struct {
	Path        string `yaml:"path"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	Timeout    int    `yaml:"timeout"`
}

type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // seconds
}

// AuthConfig holds the static credential list and token settings.
type AuthConfig struct {
	Users        []models.Credential `yaml:"users"`
	TokenSecret  string              `yaml:"token_secret"`
	TokenTTL     int                 `yaml:"token_ttl"` // minutes
	RequireToken bool                `yaml:"require_token"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Supported storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Load builds the configuration. An empty path skips the file and uses defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration the server runs with when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5000,
			Timeouts: TimeoutConfig{
				Read:     15,
				Write:    15,
				Idle:     60,
				Shutdown: 5,
			},
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
			Seed:   true,
			SQLite: SQLiteConfig{
				Path:        "./data/items.db",
				BusyTimeout: 5,
			},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "testdb",
				Collection: "items",
				Timeout:    10,
			},
		},
		Cache: CacheConfig{
			Redis: RedisConfig{
				Addr: "localhost:6379",
				TTL:  300,
			},
		},
		Auth: AuthConfig{
			Users:    []models.Credential{{Username: "admin", Password: "admin"}},
			TokenTTL: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIMPLECRUD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SIMPLECRUD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SIMPLECRUD_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("SIMPLECRUD_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("SIMPLECRUD_MONGO_URI"); v != "" {
		cfg.Storage.Mongo.URI = v
	}
	if v := os.Getenv("SIMPLECRUD_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
		cfg.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("SIMPLECRUD_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("SIMPLECRUD_TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv("SIMPLECRUD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, "storage.sqlite.path is required")
		}
	case DriverMongo:
		if c.Storage.Mongo.URI == "" {
			errs = append(errs, "storage.mongo.uri is required")
		}
		if c.Storage.Mongo.Database == "" || c.Storage.Mongo.Collection == "" {
			errs = append(errs, "storage.mongo.database and storage.mongo.collection are required")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not one of memory, sqlite, mongo", c.Storage.Driver))
	}

	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		errs = append(errs, "cache.redis.addr is required when the cache is enabled")
	}

	if len(c.Auth.Users) == 0 {
		errs = append(errs, "auth.users must contain at least one credential")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Shutdown) * time.Second
}

// CacheTTL returns the Redis entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.Redis.TTL) * time.Second
}

// TokenTTL returns the lifetime of signed login tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Minute
}
