package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// Config holds all monitor settings, populated from environment variables.
type Config struct {
	NWSAlertsURL string
	NWSUserAgent string
	NWSTimeout   time.Duration
	PollInterval time.Duration

	HistorySize int
	SeenLimit   int // 0 keeps every identity for the life of the process
	LogDir      string
	Rules       domain.Rules
	RulesFile   string

	SoundEnabled bool
	SoundCommand string
	SoundFiles   map[domain.Category]string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional sinks.
	KafkaBrokers []string
	KafkaTopic   string
	NtfyURL      string
	NtfyTopic    string

	TrayEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	historySize, err := parseInt("ALERT_HISTORY_SIZE", 5)
	if err != nil || historySize <= 0 {
		return nil, errors.New("invalid ALERT_HISTORY_SIZE: must be a positive integer")
	}

	seenLimit, err := parseInt("ALERT_SEEN_LIMIT", 0)
	if err != nil || seenLimit < 0 {
		return nil, errors.New("invalid ALERT_SEEN_LIMIT: must be zero or a positive integer")
	}

	soundEnabled, err := parseBool("SOUND_ENABLED", true)
	if err != nil {
		return nil, err
	}

	trayEnabled, err := parseBool("TRAY_ENABLED", true)
	if err != nil {
		return nil, err
	}

	rulesFile := os.Getenv("ALERT_RULES_FILE")
	rules := domain.DefaultRules()
	if rulesFile != "" {
		rules, err = LoadRules(rulesFile)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		NWSAlertsURL: sharedcfg.EnvOrDefault("NWS_ALERTS_URL", "https://api.weather.gov/alerts/active"),
		NWSUserAgent: sharedcfg.EnvOrDefault("NWS_USER_AGENT", "nws-alert-monitor"),
		NWSTimeout:   nwsTimeout,
		PollInterval: pollInterval,

		HistorySize: historySize,
		SeenLimit:   seenLimit,
		LogDir:      sharedcfg.EnvOrDefault("ALERT_LOG_DIR", "AlertLog"),
		Rules:       rules,
		RulesFile:   rulesFile,

		SoundEnabled: soundEnabled,
		SoundCommand: os.Getenv("SOUND_COMMAND"),
		SoundFiles: map[domain.Category]string{
			domain.CategoryTornado:           os.Getenv("SOUND_TORNADO"),
			domain.CategoryThunderstorm:      os.Getenv("SOUND_THUNDERSTORM"),
			domain.CategoryTornadoWatch:      os.Getenv("SOUND_TORNADO_WATCH"),
			domain.CategoryThunderstormWatch: os.Getenv("SOUND_THUNDERSTORM_WATCH"),
		},

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaTopic: sharedcfg.EnvOrDefault("KAFKA_TOPIC", "nws-alerts"),
		NtfyURL:    sharedcfg.EnvOrDefault("NTFY_URL", "https://ntfy.sh"),
		NtfyTopic:  os.Getenv("NTFY_TOPIC"),

		TrayEnabled: trayEnabled,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.NWSAlertsURL == "" {
		return nil, errors.New("NWS_ALERTS_URL is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether notified alerts are published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// NtfyEnabled reports whether notified alerts are pushed to ntfy.
func (c *Config) NtfyEnabled() bool { return c.NtfyTopic != "" }

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
