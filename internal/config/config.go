package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	AI       AIConfig
	Cache    CacheConfig
	DB       DatabaseConfig
	Kafka    KafkaConfig
	Warmer   WarmerConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	RateLimit   float64 // requests per second across all clients
	CORSOrigins []string
}

type UpstreamConfig struct {
	OpenWeatherKey string
	OpenWeatherURL string
	Timeout        time.Duration
}

type AIConfig struct {
	GeminiKey string
	Model     string
	BaseURL   string
	Timeout   time.Duration
}

type CacheConfig struct {
	PayloadTTL           time.Duration
	NarrativeTTL         time.Duration
	ForecastTTL          time.Duration
	ForecastNarrativeTTL time.Duration
	FallbackNarrativeTTL time.Duration
	LastGoodTTL          time.Duration
	SweepInterval        time.Duration
	MaxEntries           int
	RedisURL             string
}

type DatabaseConfig struct {
	Path string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type WarmerConfig struct {
	Enabled    bool
	Interval   time.Duration
	Watchlist  string
	Workers    int
	BufferSize int
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "localhost"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			RateLimit:   getEnvFloat("RATE_LIMIT_RPS", 5),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Upstream: UpstreamConfig{
			OpenWeatherKey: getEnv("OPENWEATHER_API_KEY", ""),
			OpenWeatherURL: getEnv("OPENWEATHER_URL", "https://api.openweathermap.org"),
			Timeout:        getEnvDuration("UPSTREAM_TIMEOUT", 8*time.Second),
		},
		AI: AIConfig{
			GeminiKey: getEnv("GEMINI_API_KEY", ""),
			Model:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL:   getEnv("GEMINI_URL", "https://generativelanguage.googleapis.com"),
			Timeout:   getEnvDuration("AI_TIMEOUT", 15*time.Second),
		},
		Cache: CacheConfig{
			PayloadTTL:           getEnvDuration("CACHE_PAYLOAD_TTL", 3*time.Minute),
			NarrativeTTL:         getEnvDuration("CACHE_NARRATIVE_TTL", 10*time.Minute),
			ForecastTTL:          getEnvDuration("CACHE_FORECAST_TTL", 5*time.Minute),
			ForecastNarrativeTTL: getEnvDuration("CACHE_FORECAST_NARRATIVE_TTL", 20*time.Minute),
			FallbackNarrativeTTL: getEnvDuration("CACHE_FALLBACK_NARRATIVE_TTL", time.Minute),
			LastGoodTTL:          getEnvDuration("CACHE_LAST_GOOD_TTL", 24*time.Hour),
			SweepInterval:        getEnvDuration("CACHE_SWEEP_INTERVAL", time.Minute),
			MaxEntries:           getEnvInt("CACHE_MAX_ENTRIES", 10000),
			RedisURL:             getEnv("REDIS_URL", ""),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/enviro-risk.db"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_ALERT_TOPIC", "enviro-risk-alerts"),
		},
		Warmer: WarmerConfig{
			Enabled:    getEnvBool("WARMER_ENABLED", false),
			Interval:   getEnvDuration("WARMER_INTERVAL", 5*time.Minute),
			Watchlist:  getEnv("WATCHLIST", "Delhi|Thermal Power Plant,Mumbai|Chemical / Petrochemical"),
			Workers:    getEnvInt("WARMER_WORKERS", 2),
			BufferSize: getEnvInt("WARMER_BUFFER_SIZE", 20),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.Server.RateLimit)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Upstream.Timeout <= 0 || c.AI.Timeout <= 0 {
		return fmt.Errorf("upstream and AI timeouts must be positive")
	}
	for name, ttl := range map[string]time.Duration{
		"payload":            c.Cache.PayloadTTL,
		"narrative":          c.Cache.NarrativeTTL,
		"forecast":           c.Cache.ForecastTTL,
		"forecast narrative": c.Cache.ForecastNarrativeTTL,
		"fallback narrative": c.Cache.FallbackNarrativeTTL,
		"last known good":    c.Cache.LastGoodTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s cache TTL must be positive", name)
		}
	}
	if c.Cache.SweepInterval < time.Second {
		return fmt.Errorf("cache sweep interval must be at least 1 second")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max entries cannot be negative")
	}

	if c.Warmer.Enabled {
		if c.Warmer.Interval < time.Minute {
			return fmt.Errorf("warmer interval must be at least 1 minute")
		}
		if c.Warmer.Workers < 1 {
			return fmt.Errorf("warmer needs at least one worker")
		}
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are set")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blank items.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
