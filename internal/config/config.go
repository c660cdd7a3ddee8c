package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Checkout CheckoutConfig `yaml:"checkout"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Delivery DeliveryConfig `yaml:"delivery"`

	// Secrets are never read from the config file.
	Secrets Secrets `yaml:"-"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type CheckoutConfig struct {
	BaseURL     string `yaml:"base_url"`
	Currency    string `yaml:"currency"`
	RedirectURL string `yaml:"redirect_url"`
	WebhookURL  string `yaml:"webhook_url"`
}

type SMTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	From         string `yaml:"from"`
	StaffAddress string `yaml:"staff_address"`
}

// DeliveryConfig is the postcode-prefix fee table in pence.
type DeliveryConfig struct {
	Zones      map[string]int `yaml:"zones"`
	DefaultFee int            `yaml:"default_fee"`
}

// Secrets come from the environment only (FIREWOOD_* variables).
// Admin credentials left unset deny all admin access rather than
// letting anyone in.
type Secrets struct {
	AdminUser      string `envconfig:"ADMIN_USER"`
	AdminPass      string `envconfig:"ADMIN_PASS"`
	CheckoutAPIKey string `envconfig:"CHECKOUT_API_KEY"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process("firewood", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("failed to load secrets from environment: %w", err)
	}

	return &cfg, nil
}
