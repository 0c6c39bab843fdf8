package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// DefaultEmojis is the reaction palette offered by the emoji picker
var DefaultEmojis = []string{"👍", "❤️", "🔥", "😂", "😮", "🎉", "👏", "😢"}

// DefaultThresholdPresets are the fixed trigger counts offered as buttons
var DefaultThresholdPresets = []int{1, 3, 5, 10}

// Config holds all configuration for the reaction monitor service
type Config struct {
	Telegram TelegramConfig
	Monitor  MonitorConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	// Tokens lists every bot identity; all of them share one monitor store
	Tokens []string
	// WebhookURL switches transport to webhooks when set, long polling otherwise
	WebhookURL    string
	WebhookSecret string
}

// WebhookEnabled reports whether updates are delivered through webhooks
func (c TelegramConfig) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// MonitorConfig holds reaction monitor rules
type MonitorConfig struct {
	// SourceChannelID is the only channel whose posts may be tracked
	SourceChannelID int64
	// OwnerID restricts the bot to a single operator when non-zero
	OwnerID          int64
	Emojis           []string
	ThresholdPresets []int
	AckEnabled       bool
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	GroupID        string
	EventsTopic    string
	ReactionsTopic string
}

// DatabaseConfig holds the fire journal database configuration
type DatabaseConfig struct {
	// Driver is "postgres", "sqlite" or empty to disable the journal
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// Enabled reports whether a journal database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Driver != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Monitor  *MonitorConfig
	Kafka    *KafkaConfig
	Database *DatabaseConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Monitor:  &cfg.Monitor,
		Kafka:    &cfg.Kafka,
		Database: &cfg.Database,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	tokens := splitList(getEnv("BOT_TOKENS", ""))
	if len(tokens) == 0 {
		tokens = splitList(getEnv("TELEGRAM_BOT_TOKEN", ""))
	}

	channelID, err := parseInt64("CHANNEL_ID", getEnv("CHANNEL_ID", ""))
	if err != nil {
		return nil, err
	}

	ownerID, err := parseInt64("OWNER_ID", getEnv("OWNER_ID", ""))
	if err != nil {
		return nil, err
	}

	presets, err := parseIntList("THRESHOLD_PRESETS", getEnv("THRESHOLD_PRESETS", ""))
	if err != nil {
		return nil, err
	}
	if len(presets) == 0 {
		presets = append([]int(nil), DefaultThresholdPresets...)
	}

	emojis := splitList(getEnv("REACTION_EMOJIS", ""))
	if len(emojis) == 0 {
		emojis = append([]string(nil), DefaultEmojis...)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Tokens:        tokens,
			WebhookURL:    strings.TrimRight(getEnv("WEBHOOK_URL", ""), "/"),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		},
		Monitor: MonitorConfig{
			SourceChannelID:  channelID,
			OwnerID:          ownerID,
			Emojis:           emojis,
			ThresholdPresets: presets,
			AckEnabled:       getEnvBool("ACK_ENABLED", true),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", false),
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
			GroupID:        getEnv("KAFKA_GROUP_ID", "reaction-monitor-group"),
			EventsTopic:    getEnv("KAFKA_EVENTS_TOPIC", "monitors.events"),
			ReactionsTopic: getEnv("KAFKA_REACTIONS_TOPIC", ""),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "reaction_monitor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "data/reaction-monitor.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", true),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "reaction-monitor"),
			Port: getEnv("SERVICE_PORT", getEnv("PORT", "3000")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Telegram.Tokens) == 0 {
		return fmt.Errorf("BOT_TOKENS is required")
	}

	if c.Monitor.SourceChannelID == 0 {
		return fmt.Errorf("CHANNEL_ID is required")
	}

	if len(c.Monitor.Emojis) == 0 {
		return fmt.Errorf("REACTION_EMOJIS must not be empty")
	}

	for _, p := range c.Monitor.ThresholdPresets {
		if p <= 0 {
			return fmt.Errorf("THRESHOLD_PRESETS must be positive, got %d", p)
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt64(key, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func parseIntList(key, raw string) ([]int, error) {
	var out []int
	for _, part := range splitList(raw) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s must be a list of integers: %w", key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
