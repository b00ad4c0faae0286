package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB       *DBconfig       `yaml:"db"`
	RabbitMq *RabbitMqconfig `yaml:"rabbitmq"`
	Srv      *Serviceconfig  `yaml:"service"`
	App      *Appconfig      `yaml:"app"`
	Log      *Loggerconfig   `yaml:"log"`
}

type DBconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	MaxConns int    `yaml:"max_conns"`
}

// DSN builds the postgres connection string understood by pgx.
func (c *DBconfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

type RabbitMqconfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Serviceconfig struct {
	RideServicePort string `yaml:"ride_service"`
}

type Appconfig struct {
	JwtSecret          string        `yaml:"jwt_secret"`
	JwtTTL             time.Duration `yaml:"jwt_ttl"`
	PageSize           int           `yaml:"page_size"`
	MaxPageSize        int           `yaml:"max_page_size"`
	RecentEventsWindow time.Duration `yaml:"recent_events_window"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when neither a file nor env overrides a value.
func Default() *Config {
	return &Config{
		DB: &DBconfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "main",
			MaxConns: 20,
		},
		RabbitMq: &RabbitMqconfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			VHost:    "",
		},
		Srv: &Serviceconfig{
			RideServicePort: "8000",
		},
		App: &Appconfig{
			JwtSecret:          "wingz-insecure-dev-secret",
			JwtTTL:             24 * time.Hour,
			PageSize:           10,
			MaxPageSize:        100,
			RecentEventsWindow: 24 * time.Hour,
		},
		Log: &Loggerconfig{
			Level: "INFO",
		},
	}
}

// New loads the defaults, applies CONFIG_FILE when set, then env variables on top.
func New() (*Config, error) {
	cnf := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fromFile, err := NewFromYAML(path)
		if err != nil {
			return nil, err
		}
		cnf = fromFile
	}

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s=%q, using %v\n", key, valStr, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s=%q, using %v\n", key, valStr, def)
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s=%q, using %v\n", key, valStr, def)
			return def
		}
		return val
	}

	cnf.DB.Host = getEnv("DB_HOST", cnf.DB.Host)
	cnf.DB.Port = getEnvInt("DB_PORT", cnf.DB.Port)
	cnf.DB.User = getEnv("DB_USER", cnf.DB.User)
	cnf.DB.Password = getEnv("DB_PASSWORD", cnf.DB.Password)
	cnf.DB.Database = getEnv("DB_NAME", cnf.DB.Database)
	cnf.DB.MaxConns = getEnvInt("DB_MAX_CONNS", cnf.DB.MaxConns)

	cnf.RabbitMq.Enabled = getEnvBool("RABBITMQ_ENABLED", cnf.RabbitMq.Enabled)
	cnf.RabbitMq.Host = getEnv("RABBITMQ_HOST", cnf.RabbitMq.Host)
	cnf.RabbitMq.Port = getEnvInt("RABBITMQ_PORT", cnf.RabbitMq.Port)
	cnf.RabbitMq.User = getEnv("RABBITMQ_USER", cnf.RabbitMq.User)
	cnf.RabbitMq.Password = getEnv("RABBITMQ_PASSWORD", cnf.RabbitMq.Password)
	cnf.RabbitMq.VHost = getEnv("RABBITMQ_VHOST", cnf.RabbitMq.VHost)

	cnf.Srv.RideServicePort = getEnv("RIDE_SERVICE_PORT", cnf.Srv.RideServicePort)

	cnf.App.JwtSecret = getEnv("JWT_SECRET", cnf.App.JwtSecret)
	cnf.App.JwtTTL = getEnvDuration("JWT_TTL", cnf.App.JwtTTL)
	cnf.App.PageSize = getEnvInt("PAGE_SIZE", cnf.App.PageSize)
	cnf.App.MaxPageSize = getEnvInt("MAX_PAGE_SIZE", cnf.App.MaxPageSize)
	cnf.App.RecentEventsWindow = getEnvDuration("RECENT_EVENTS_WINDOW", cnf.App.RecentEventsWindow)

	cnf.Log.Level = getEnv("LOG_LEVEL", cnf.Log.Level)

	if err := cnf.validate(); err != nil {
		return nil, err
	}
	return cnf, nil
}

// NewFromYAML reads a YAML file over the defaults. Sections missing from the file keep their default values.
func NewFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cnf := Default()
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cnf, nil
}

func (c *Config) validate() error {
	if c.App.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.App.PageSize)
	}
	if c.App.MaxPageSize < c.App.PageSize {
		return fmt.Errorf("max page size %d is smaller than page size %d", c.App.MaxPageSize, c.App.PageSize)
	}
	if c.App.RecentEventsWindow <= 0 {
		return fmt.Errorf("recent events window must be positive, got %v", c.App.RecentEventsWindow)
	}
	if c.App.JwtSecret == "" {
		return fmt.Errorf("jwt secret is empty")
	}
	return nil
}
