package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Currency struct {
	Base       string `mapstructure:"base"`
	Supported  string `mapstructure:"supported"` // comma-separated ISO codes
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// SupportedList splits the configured comma-separated currency codes.
func (c *Currency) SupportedList() []string {
	parts := strings.Split(c.Supported, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

type Provider struct {
	URL            string `mapstructure:"url"`
	Name           string `mapstructure:"name"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Scheduler struct {
	MinIntervalSeconds int `mapstructure:"min_interval_seconds"`
}

type Cache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	Currency   Currency   `mapstructure:"currency"`
	Provider   Provider   `mapstructure:"provider"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Cache      Cache      `mapstructure:"cache"`
	Logging    Logging    `mapstructure:"logging"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("currency.base", "USD")
	viper.SetDefault("currency.supported", "USD,EUR,GBP,JPY,AUD,MXN")
	viper.SetDefault("currency.ttl_seconds", 3600)
	viper.SetDefault("provider.url", "https://api.exchangerate.host/latest")
	viper.SetDefault("provider.name", "exchangerate.host")
	viper.SetDefault("provider.timeout_seconds", 10)
	viper.SetDefault("scheduler.min_interval_seconds", 300)
	viper.SetDefault("cache.max_items", 1024)
	viper.SetDefault("logging.level", "info")

	// http server env vars
	_ = viper.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// currency env vars
	_ = viper.BindEnv("currency.base", "BASE_CURRENCY")
	_ = viper.BindEnv("currency.supported", "SUPPORTED_CURRENCIES")
	_ = viper.BindEnv("currency.ttl_seconds", "FX_TTL_SECONDS")

	// provider env vars
	_ = viper.BindEnv("provider.url", "EXCHANGE_API_URL")
	_ = viper.BindEnv("provider.name", "EXCHANGE_API_NAME")
	_ = viper.BindEnv("provider.timeout_seconds", "EXCHANGE_API_TIMEOUT_SECONDS")

	// scheduler env vars
	_ = viper.BindEnv("scheduler.min_interval_seconds", "SCHEDULER_MIN_INTERVAL_SECONDS")

	// logging env vars
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
