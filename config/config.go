package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	LedgerEventsTopic  string   `yaml:"ledger_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// PricingConfig holds the fixed charter rates. Aircraft are assigned after
// approval, so the cruise speed is a fleet-wide reference rate rather than a
// per-helicopter figure.
type PricingConfig struct {
	HourlyRate      int64   `yaml:"hourly_rate"`
	CruiseSpeedKmh  float64 `yaml:"cruise_speed_kmh"`
	PerPassengerFee int64   `yaml:"per_passenger_fee"`
}

type CacheConfig struct {
	ExperiencesTTLSeconds int `yaml:"experiences_ttl_seconds"`
	QuoteTTLSeconds       int `yaml:"quote_ttl_seconds"`
	ApprovalLockSeconds   int `yaml:"approval_lock_seconds"`
}

type WorkerConfig struct {
	ReminderSweepMinutes  int `yaml:"reminder_sweep_minutes"`
	TransferReminderHours int `yaml:"transfer_reminder_hours"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pricing.HourlyRate == 0 {
		c.Pricing.HourlyRate = 600
	}
	if c.Pricing.CruiseSpeedKmh == 0 {
		c.Pricing.CruiseSpeedKmh = 220
	}
	if c.Pricing.PerPassengerFee == 0 {
		c.Pricing.PerPassengerFee = 75
	}
	if c.Cache.ExperiencesTTLSeconds == 0 {
		c.Cache.ExperiencesTTLSeconds = 300
	}
	if c.Cache.QuoteTTLSeconds == 0 {
		c.Cache.QuoteTTLSeconds = 120
	}
	if c.Cache.ApprovalLockSeconds == 0 {
		c.Cache.ApprovalLockSeconds = 30
	}
	if c.Worker.ReminderSweepMinutes == 0 {
		c.Worker.ReminderSweepMinutes = 60
	}
	if c.Worker.TransferReminderHours == 0 {
		c.Worker.TransferReminderHours = 48
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
}
