package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	RabbitMQ RabbitMQ `yaml:"rabbitmq"`
	Menu     Menu     `yaml:"menu"`
	Session  Session  `yaml:"session"`
	Telegram Telegram `yaml:"telegram"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTP struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:":8080"`
	MetricsPort     string        `yaml:"metrics_port" env:"METRICS_PORT" env-default:":9090"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type Database struct {
	Driver       string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	User         string `yaml:"user" env:"MYSQL_USER"`
	Password     string `yaml:"password" env:"MYSQL_PASSWORD"`
	Host         string `yaml:"host" env:"MYSQL_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"MYSQL_PORT" env-default:"3306"`
	Name         string `yaml:"name" env:"MYSQL_DATABASE" env-default:"orders"`
	SQLitePath   string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"orders.db"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns int    `yaml:"max_idle_conns" env-default:"5"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"orders"`
}

type Menu struct {
	Path          string `yaml:"path" env:"MENU_PATH"`
	StrictAliases bool   `yaml:"strict_aliases" env:"MENU_STRICT_ALIASES" env-default:"false"`
}

type Session struct {
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m"`
}

type Telegram struct {
	Token string `yaml:"token" env:"TELEGRAM_TOKEN"`
}

// Load reads the YAML file at path with environment overrides. A missing
// file is not an error; the environment and defaults are used instead.
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

func (c *Config) Logger() LoggerConfig {
	return LoggerConfig{Level: c.Log.Level, Env: c.Env}
}

// DSN is the MySQL connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}
