// Package config загружает конфигурацию сервера из YAML-файла
// с переопределением через переменные окружения.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию.
const (
	DefaultHTTPAddr     = ":8080"
	DefaultPollInterval = 2 * time.Second
)

// Config — конфигурация сервера.
type Config struct {
	// HTTPAddr — адрес HTTP API (host:port).
	HTTPAddr string `yaml:"http_addr"`

	// DatabaseURL — DSN PostgreSQL.
	DatabaseURL string `yaml:"database_url"`

	// AMQPURL — URL RabbitMQ. Пустое значение отключает события.
	AMQPURL string `yaml:"amqp_url"`

	// Orders — настройки клиента orders API.
	Orders OrdersConfig `yaml:"orders"`

	// PollInterval — период опроса статуса order.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// OrdersConfig — настройки клиента orders API.
type OrdersConfig struct {
	// BaseURL — базовый URL orders API.
	BaseURL string `yaml:"base_url"`

	// Token — bearer-токен для авторизации.
	Token string `yaml:"token"`
}

// Load читает конфигурацию из YAML-файла и применяет переопределения
// из переменных окружения. Пустой path пропускает чтение файла.
func Load(path string) (*Config, error) {
	cfg := &Config{
		HTTPAddr:     DefaultHTTPAddr,
		PollInterval: DefaultPollInterval,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет поля из переменных окружения.
func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("DB_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.AMQPURL = v
	}
	if v := os.Getenv("ORDERS_API_URL"); v != "" {
		c.Orders.BaseURL = v
	}
	if v := os.Getenv("ORDERS_API_TOKEN"); v != "" {
		c.Orders.Token = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
}

// validate проверяет корректность конфигурации после загрузки.
func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}
	if c.Orders.BaseURL == "" {
		return fmt.Errorf("orders.base_url is required (or ORDERS_API_URL)")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
