package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"course-service"`
	Port        string `envconfig:"APP_PORT" default:"8001"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Empty disables event publishing.
	NatsURL string `envconfig:"NATS_URL"`
	// Empty disables tracing.
	OtelEndpoint     string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceSampleRatio float64 `envconfig:"OTEL_TRACES_SAMPLER_RATIO" default:"1"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`
}

// Load reads envFile when it exists and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// Docker deployments inject variables directly.
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
