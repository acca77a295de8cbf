package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Locale selects the language for patient-facing text: status labels in
	// messages and exports. "el" for Greek deployments.
	Locale string `env:"LOCALE, default=en"`

	// SessionTTL is the absolute session lifetime; there is no renewal.
	SessionTTL time.Duration `env:"SESSION_TTL, default=720h"`

	// VerifyURL is the page a magic-link token lands on.
	VerifyURL string `env:"VERIFY_URL, default=http://localhost:8080/auth/verify"`

	// ReminderCron controls the daily reminder sweep schedule.
	ReminderCron string `env:"REMINDER_CRON, default=0 9 * * *"`

	// ReminderChannel is the gateway used for appointment reminders.
	ReminderChannel string `env:"REMINDER_CHANNEL, default=viber"`

	MessageWorkers int `env:"MESSAGE_WORKERS, default=8"`

	Mongo    MongoConfig
	Redis    RedisConfig
	WhatsApp GatewayConfig `env:", prefix=WHATSAPP_"`
	Viber    GatewayConfig `env:", prefix=VIBER_"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_system"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int           `env:"REDIS_DB,   default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=0"`
	DedupTTL time.Duration `env:"MESSAGE_DEDUP_TTL, default=24h"`
}

type GatewayConfig struct {
	BaseURL string `env:"GATEWAY_URL"`
	Token   string `env:"GATEWAY_TOKEN"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Production reports whether the service runs in a production environment;
// it gates Secure session cookies.
func (c *Config) Production() bool {
	return c.Env == "production"
}
