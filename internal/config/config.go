package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override. Keys follow the field
// path, e.g. CATERING_DATABASE_HOST or CATERING_RATE_LIMIT_RPS.
const EnvPrefix = "CATERING"

type Config struct {
	Server     ServerConfig     `mapstructure:"server" split_words:"true"`
	Database   DatabaseConfig   `mapstructure:"database" split_words:"true"`
	JWT        JWTConfig        `mapstructure:"jwt" split_words:"true"`
	Auth       AuthConfig       `mapstructure:"auth" split_words:"true"`
	Redis      RedisConfig      `mapstructure:"redis" split_words:"true"`
	Pagination PaginationConfig `mapstructure:"pagination" split_words:"true"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" split_words:"true"`
	CORS       CORSConfig       `mapstructure:"cors" split_words:"true"`
	Log        LogConfig        `mapstructure:"log" split_words:"true"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" split_words:"true"`
	Mode            string        `mapstructure:"mode" split_words:"true"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host" split_words:"true"`
	Port            int           `mapstructure:"port" split_words:"true"`
	User            string        `mapstructure:"user" split_words:"true"`
	Password        string        `mapstructure:"password" split_words:"true"`
	Name            string        `mapstructure:"name" split_words:"true"`
	SSLMode         string        `mapstructure:"sslmode" split_words:"true"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" split_words:"true"`
	Issuer      string `mapstructure:"issuer" split_words:"true"`
	ExpiryHours int    `mapstructure:"expiry_hours" split_words:"true"`
}

// AuthConfig holds the single API operator account.
type AuthConfig struct {
	Username     string `mapstructure:"username" split_words:"true"`
	PasswordHash string `mapstructure:"password_hash" split_words:"true"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled" split_words:"true"`
	URL          string        `mapstructure:"url" split_words:"true"`
	Channel      string        `mapstructure:"channel" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

type PaginationConfig struct {
	DefaultPerPage int `mapstructure:"default_per_page" split_words:"true"`
	MaxPerPage     int `mapstructure:"max_per_page" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled" split_words:"true"`
	RPS     float64       `mapstructure:"rps" split_words:"true"`
	Burst   int           `mapstructure:"burst" split_words:"true"`
	TTL     time.Duration `mapstructure:"ttl" split_words:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
	AllowedMethods []string `mapstructure:"allowed_methods" split_words:"true"`
	AllowedHeaders []string `mapstructure:"allowed_headers" split_words:"true"`
	MaxAge         int      `mapstructure:"max_age" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" split_words:"true"`
	Format string `mapstructure:"format" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "catering")
	v.SetDefault("database.name", "catering")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("jwt.issuer", "catering-api")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.channel", "catering.events")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("pagination.default_per_page", 10)
	v.SetDefault("pagination.max_per_page", 100)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.max_age", 86400)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads the YAML file at path (or config.yaml from the usual
// locations when path is empty), then applies CATERING_* environment
// overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		problems = append(problems, "server.mode must be one of debug, release, test")
	}
	if c.JWT.Secret == "" {
		problems = append(problems, "jwt.secret is required")
	}
	if c.JWT.ExpiryHours < 1 {
		problems = append(problems, "jwt.expiry_hours must be positive")
	}
	if c.Pagination.DefaultPerPage < 1 {
		problems = append(problems, "pagination.default_per_page must be positive")
	}
	if c.Pagination.MaxPerPage < c.Pagination.DefaultPerPage {
		problems = append(problems, "pagination.max_per_page must not be below default_per_page")
	}
	if c.Redis.Enabled && c.Redis.URL == "" {
		problems = append(problems, "redis.url is required when redis is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
