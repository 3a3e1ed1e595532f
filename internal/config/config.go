// Package config provides configuration for the router.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the router configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Resource API
	ResourceAPIURL  string        `yaml:"resource_api_url"`
	ResourceTimeout time.Duration `yaml:"resource_timeout"`

	// Identity
	JWTSecret string `yaml:"jwt_secret"`

	// Classifier
	LLMProvider  string        `yaml:"llm_provider"`
	LLMBaseURL   string        `yaml:"llm_base_url"`
	LLMAPIKey    string        `yaml:"llm_api_key"`
	LLMModel     string        `yaml:"llm_model"`
	LLMTimeout   time.Duration `yaml:"llm_timeout"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	HistoryTurns int           `yaml:"history_turns"`

	// Drafts
	DraftBackend       string        `yaml:"draft_backend"`
	DraftTTL           time.Duration `yaml:"draft_ttl"`
	DraftSweepInterval time.Duration `yaml:"draft_sweep_interval"`
	PostgresURL        string        `yaml:"postgres_url"`

	// CRM-sync events
	EventsBackend string   `yaml:"events_backend"`
	KafkaBrokers  []string `yaml:"kafka_brokers"`
	KafkaTopic    string   `yaml:"kafka_topic"`
	AMQPURL       string   `yaml:"amqp_url"`
	AMQPExchange  string   `yaml:"amqp_exchange"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPPort:           8080,
		DatabaseURL:        "file:router.db?cache=shared&mode=rwc",
		ResourceAPIURL:     "http://127.0.0.1:8000",
		ResourceTimeout:    15 * time.Second,
		LLMProvider:        "openai",
		LLMBaseURL:         "https://api.groq.com/openai",
		LLMModel:           "llama-3.3-70b-versatile",
		LLMTimeout:         30 * time.Second,
		HistoryTurns:       10,
		DraftBackend:       "memory",
		DraftTTL:           30 * time.Minute,
		DraftSweepInterval: time.Minute,
		EventsBackend:      "none",
		KafkaBrokers:       []string{"localhost:9092"},
		KafkaTopic:         "crm-sync",
		AMQPExchange:       "crm",
		LogLevel:           "info",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ResourceAPIURL = getEnv("RESOURCE_API_URL", cfg.ResourceAPIURL)
	cfg.ResourceTimeout = getEnvDuration("RESOURCE_TIMEOUT_MS", cfg.ResourceTimeout)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.LLMProvider = getEnv("LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT_MS", cfg.LLMTimeout)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.HistoryTurns = getEnvInt("HISTORY_TURNS", cfg.HistoryTurns)
	cfg.DraftBackend = getEnv("DRAFT_BACKEND", cfg.DraftBackend)
	cfg.DraftTTL = getEnvDuration("DRAFT_TTL_MS", cfg.DraftTTL)
	cfg.DraftSweepInterval = getEnvDuration("DRAFT_SWEEP_INTERVAL_MS", cfg.DraftSweepInterval)
	cfg.PostgresURL = getEnv("POSTGRES_URL", cfg.PostgresURL)
	cfg.EventsBackend = getEnv("EVENTS_BACKEND", cfg.EventsBackend)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitList(v)
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the router cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DraftBackend {
	case "memory", "sqlite":
	case "postgres":
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required for the postgres draft backend")
		}
	default:
		return fmt.Errorf("unknown draft backend %q", c.DraftBackend)
	}
	switch c.EventsBackend {
	case "none", "kafka", "amqp":
	default:
		return fmt.Errorf("unknown events backend %q", c.EventsBackend)
	}
	if c.EventsBackend == "amqp" && c.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required for the amqp events backend")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvDuration reads a millisecond count.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
