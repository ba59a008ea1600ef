package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Catalog       CatalogConfig
	Booking       BookingConfig
	Session       SessionConfig
	Preferences   PreferencesConfig
	Redis         RedisConfig
	EventTriggers EventTriggersConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
	SampleRatio       float64
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CatalogConfig struct {
	Path            string // Optional YAML override; embedded catalog is used when empty
	CacheTTLSeconds int
}

// BookingConfig tunes the simulated booking flow
type BookingConfig struct {
	Timezone         string
	Location         *time.Location
	SubmitDelay      time.Duration
	SlotAvailability float64 // Probability that a generated slot is bookable
	RandomSeed       int64   // 0 seeds from the clock
	DaysAhead        int
}

type SessionConfig struct {
	TTLMinutes       int
	MaxNotifications int
}

type PreferencesConfig struct {
	Store           string // "memory" or "redis"
	DefaultDarkMode bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EventTriggersConfig struct {
	BookingConfirmedTriggerURL string
	ContactMessageTriggerURL   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 14)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "clinicconnect-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "clinicconnect")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_TRACE_SAMPLE_RATIO", 1.0)
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "clinicconnect-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("CATALOG_CACHE_TTL", 600) // 10 minutes in seconds
	v.SetDefault("CLINIC_TIMEZONE", "UTC")
	v.SetDefault("BOOKING_SUBMIT_DELAY_MS", 1500)
	v.SetDefault("BOOKING_SLOT_AVAILABILITY", 0.7)
	v.SetDefault("BOOKING_RANDOM_SEED", 0)
	v.SetDefault("BOOKING_DAYS_AHEAD", 7)
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("NOTIFICATIONS_MAX", 20)
	v.SetDefault("PREFERENCES_STORE", "memory")
	v.SetDefault("PREFERENCES_DEFAULT_DARK_MODE", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Dir:        v.GetString("LOG_DIR"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
			SampleRatio:       v.GetFloat64("O11Y_TRACE_SAMPLE_RATIO"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Catalog: CatalogConfig{
			Path:            v.GetString("CATALOG_PATH"),
			CacheTTLSeconds: v.GetInt("CATALOG_CACHE_TTL"),
		},
		Booking: BookingConfig{
			Timezone:         v.GetString("CLINIC_TIMEZONE"),
			SubmitDelay:      time.Duration(v.GetInt("BOOKING_SUBMIT_DELAY_MS")) * time.Millisecond,
			SlotAvailability: v.GetFloat64("BOOKING_SLOT_AVAILABILITY"),
			RandomSeed:       v.GetInt64("BOOKING_RANDOM_SEED"),
			DaysAhead:        v.GetInt("BOOKING_DAYS_AHEAD"),
		},
		Session: SessionConfig{
			TTLMinutes:       v.GetInt("SESSION_TTL_MINUTES"),
			MaxNotifications: v.GetInt("NOTIFICATIONS_MAX"),
		},
		Preferences: PreferencesConfig{
			Store:           strings.ToLower(v.GetString("PREFERENCES_STORE")),
			DefaultDarkMode: v.GetBool("PREFERENCES_DEFAULT_DARK_MODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		EventTriggers: EventTriggersConfig{
			BookingConfirmedTriggerURL: v.GetString("BOOKING_CONFIRMED_TRIGGER_URL"),
			ContactMessageTriggerURL:   v.GetString("CONTACT_MESSAGE_TRIGGER_URL"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("CLINIC_TIMEZONE is invalid: %w", err)
	}
	cfg.Booking.Location = loc

	return cfg, nil
}

func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Booking.SlotAvailability < 0 || c.Booking.SlotAvailability > 1 {
		return fmt.Errorf("BOOKING_SLOT_AVAILABILITY must be between 0 and 1")
	}
	if c.Booking.DaysAhead < 1 {
		return fmt.Errorf("BOOKING_DAYS_AHEAD must be at least 1")
	}
	if c.Booking.SubmitDelay < 0 {
		return fmt.Errorf("BOOKING_SUBMIT_DELAY_MS must not be negative")
	}
	if c.Booking.Timezone != "" {
		if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
			return fmt.Errorf("CLINIC_TIMEZONE is invalid: %w", err)
		}
	}

	if c.Session.TTLMinutes < 1 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be at least 1")
	}

	switch c.Preferences.Store {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when PREFERENCES_STORE=redis")
		}
	default:
		return fmt.Errorf("PREFERENCES_STORE must be one of: memory, redis")
	}

	if c.Profiling.Enabled {
		if strings.TrimSpace(c.Profiling.Endpoint) == "" {
			return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
		}
		if c.Profiling.UploadIntervalSeconds < 1 {
			return fmt.Errorf("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS must be at least 1")
		}
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// ClinicLocation returns the clinic time zone, UTC when unset
func (b BookingConfig) ClinicLocation() *time.Location {
	if b.Location != nil {
		return b.Location
	}
	return time.UTC
}
