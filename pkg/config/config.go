package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Classifier    ClassifierConfig    `mapstructure:"classifier"`
	Moderation    ModerationConfig    `mapstructure:"moderation"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	SecretKey   string `mapstructure:"secret_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ClassifierConfig struct {
	URL       string `mapstructure:"url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
	// Breaker settings for the outbound call.
	BreakerMaxFailures uint32 `mapstructure:"breaker_max_failures"`
	BreakerResetSec    int    `mapstructure:"breaker_reset_seconds"`
	// Confidence breakpoints are policy, not code.
	Breakpoints map[string]float64 `mapstructure:"breakpoints"`
}

// ModerationConfig holds the hand-tuned policy knobs: severity-to-action
// thresholds, notification tiers, age tiers and the lexicon override. All of
// them are tunable without code changes.
type ModerationConfig struct {
	MinimumAge       int               `mapstructure:"minimum_age"`
	AgeTiers         []AgeTierConfig   `mapstructure:"age_tiers"`
	Terms            []TermConfig      `mapstructure:"terms"`
	NotifyTiers      []string          `mapstructure:"notify_tiers"`
	ActionMap        map[string]string `mapstructure:"action_map"`
	QuickCheckTTLSec int               `mapstructure:"quick_check_ttl_seconds"`
}

type AgeTierConfig struct {
	MaxAge  int     `mapstructure:"max_age"`
	Ceiling float64 `mapstructure:"ceiling"`
}

type TermConfig struct {
	Word     string `mapstructure:"word"`
	Severity string `mapstructure:"severity"`
}

type NotificationsConfig struct {
	Workers     int    `mapstructure:"workers"`
	QueueSize   int    `mapstructure:"queue_size"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	WebhookURL  string `mapstructure:"webhook_url"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// config file is optional, environment variables may carry everything
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&globalConfig, decodeHook); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues()
	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Notifications.Workers == 0 {
		globalConfig.Notifications.Workers = 2
	}
	if globalConfig.Notifications.QueueSize == 0 {
		globalConfig.Notifications.QueueSize = 256
	}
	if globalConfig.Notifications.MaxAttempts == 0 {
		globalConfig.Notifications.MaxAttempts = 3
	}
	if globalConfig.Classifier.TimeoutMS == 0 {
		globalConfig.Classifier.TimeoutMS = 3000
	}
	if globalConfig.Classifier.BreakerMaxFailures == 0 {
		globalConfig.Classifier.BreakerMaxFailures = 5
	}
	if globalConfig.Classifier.BreakerResetSec == 0 {
		globalConfig.Classifier.BreakerResetSec = 30
	}
	if globalConfig.Moderation.QuickCheckTTLSec == 0 {
		globalConfig.Moderation.QuickCheckTTLSec = 300
	}
}

func GetConfig() *Config {
	return &globalConfig
}
