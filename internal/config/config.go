// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const DefaultPricesURL = "https://interview.switcheo.com/prices.json"

type Config struct {
	Environment string          `yaml:"environment" env:"ENVIRONMENT" env-default:"development"`
	Server      ServerConfig    `yaml:"server"`
	Prices      PricesConfig    `yaml:"prices"`
	Converter   ConverterConfig `yaml:"converter"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"8081"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	WSSendBuffer    int           `yaml:"ws_send_buffer" env:"WS_SEND_BUFFER" env-default:"16"`
}

type PricesConfig struct {
	URL          string        `yaml:"url" env:"PRICES_URL" env-default:"https://interview.switcheo.com/prices.json"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT" env-default:"10s"`
}

type ConverterConfig struct {
	DebounceDelay     time.Duration `yaml:"debounce_delay" env:"DEBOUNCE_DELAY" env-default:"500ms"`
	DisplayPrecision  int           `yaml:"display_precision" env:"DISPLAY_PRECISION" env-default:"3"`
	ThousandSeparator string        `yaml:"thousand_separator" env:"THOUSAND_SEPARATOR" env-default:","`
	DecimalSeparator  string        `yaml:"decimal_separator" env:"DECIMAL_SEPARATOR" env-default:"."`
}

// Load reads configuration from the environment, after applying a .env
// file if one exists. When CONFIG_PATH is set the YAML file it points to
// is read first and environment variables override it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Prices.URL == "" {
		return fmt.Errorf("prices url must not be empty")
	}
	if c.Converter.DebounceDelay < 0 {
		return fmt.Errorf("debounce delay must not be negative, got %s", c.Converter.DebounceDelay)
	}
	if c.Converter.DisplayPrecision < 0 {
		return fmt.Errorf("display precision must not be negative, got %d", c.Converter.DisplayPrecision)
	}
	if c.Server.WSSendBuffer < 1 {
		return fmt.Errorf("websocket send buffer must be positive, got %d", c.Server.WSSendBuffer)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
