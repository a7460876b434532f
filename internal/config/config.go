package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds process-level settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
}

// Redis configures the durable key-value store.
type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Relay configures the conversion relay endpoint.
type Relay struct {
	Endpoint    string `envconfig:"RELAY_ENDPOINT" required:"true"`
	AccessToken string `envconfig:"RELAY_ACCESS_TOKEN" default:""`
	TimeoutSec  int    `envconfig:"RELAY_TIMEOUT_SEC" default:"5"`
	BufferSize  int    `envconfig:"RELAY_BUFFER_SIZE" default:"256"`
}

// Orders configures the order-creation collaborator.
type Orders struct {
	Endpoint   string `envconfig:"ORDERS_ENDPOINT" required:"true"`
	APIKey     string `envconfig:"ORDERS_API_KEY" default:""`
	TimeoutSec int    `envconfig:"ORDERS_TIMEOUT_SEC" default:"15"`
}

// Checkout configures the checkout router.
type Checkout struct {
	StaggerMs int    `envconfig:"CHECKOUT_STAGGER_MS" default:"800"`
	Currency  string `envconfig:"CHECKOUT_CURRENCY" default:"USD"`
}

// Session configures visitor session bookkeeping.
type Session struct {
	IdleTimeoutMin int `envconfig:"SESSION_IDLE_TIMEOUT_MIN" default:"30"`
}

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Service  Service
	Redis    Redis
	Relay    Relay
	Orders   Orders
	Checkout Checkout
	Session  Session
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
