package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string           `yaml:"app_name"`
	Environment string           `yaml:"environment"`
	HTTP        HTTPConfig       `yaml:"http"`
	Database    DatabaseConfig   `yaml:"database"`
	Context     ContextConfig    `yaml:"context"`
	Logger      LoggerConfig     `yaml:"logger"`
	Migrations  MigrationsConfig `yaml:"migrations"`
	Security    SecurityConfig   `yaml:"security"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxConn      int           `yaml:"max_conn"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	SSLMode         string        `yaml:"sslmode"`
	SQLitePath      string        `yaml:"sqlite_path"`
}

type ContextConfig struct {
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type MigrationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SecurityConfig struct {
	BcryptCost    int    `yaml:"bcrypt_cost"`
	Realm         string `yaml:"realm"`
	RehashOnStart bool   `yaml:"rehash_on_start"`
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() *Config {
	return &Config{
		AppName:     "todo-app",
		Environment: "development",
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			Name:            "todo_db",
			User:            "todo_user",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			MaxConnLifetime: time.Hour,
			SSLMode:         "disable",
			SQLitePath:      "./data/todo.db",
		},
		Context: ContextConfig{
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "json",
		},
		Migrations: MigrationsConfig{Enabled: true},
		Security: SecurityConfig{
			BcryptCost:    10,
			Realm:         "todo",
			RehashOnStart: true,
		},
	}
}

// Load reads configuration from .env, an optional YAML file named by
// CONFIG_FILE, and finally environment variables, which always win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.SQLitePath == "" {
		return fmt.Errorf("config: SQLITE_PATH is required for the sqlite driver")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("config: bcrypt cost %d out of range [4,31]", c.Security.BcryptCost)
	}
	return nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.AppName = getString("APP_NAME", c.AppName)
	c.Environment = getString("APP_ENV", c.Environment)

	c.HTTP.Host = getString("SERVER_HOST", c.HTTP.Host)
	c.HTTP.Port = getString("SERVER_PORT", c.HTTP.Port)
	c.HTTP.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", c.HTTP.ReadTimeout)
	c.HTTP.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", c.HTTP.WriteTimeout)
	c.HTTP.IdleTimeout = getDuration("SERVER_IDLE_TIMEOUT", c.HTTP.IdleTimeout)
	c.HTTP.MaxConn = getInt("SERVER_MAX_CONN", c.HTTP.MaxConn)

	c.Database.Driver = getString("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getString("DATABASE_URL", c.Database.URL)
	c.Database.Host = getString("DB_HOST", c.Database.Host)
	c.Database.Port = getString("DB_PORT", c.Database.Port)
	c.Database.Name = getString("DB_NAME", c.Database.Name)
	c.Database.User = getString("DB_USER", c.Database.User)
	c.Database.Password = getString("DB_PASSWORD", c.Database.Password)
	c.Database.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxConnLifetime = getDuration("DB_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.SSLMode = getString("DB_SSLMODE", c.Database.SSLMode)
	c.Database.SQLitePath = getString("SQLITE_PATH", c.Database.SQLitePath)

	c.Context.RequestTimeout = getDuration("REQUEST_TIMEOUT_SECONDS", c.Context.RequestTimeout)
	c.Context.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT_SECONDS", c.Context.ShutdownTimeout)

	c.Logger.Level = getString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Encoding = getString("LOG_ENCODING", c.Logger.Encoding)

	c.Migrations.Enabled = getBool("RUN_MIGRATIONS", c.Migrations.Enabled)

	c.Security.BcryptCost = getInt("BCRYPT_COST", c.Security.BcryptCost)
	c.Security.Realm = getString("AUTH_REALM", c.Security.Realm)
	c.Security.RehashOnStart = getBool("REHASH_PASSWORDS_ON_START", c.Security.RehashOnStart)
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
