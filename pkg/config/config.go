package config

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tablebook/pkg/client"
	"tablebook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DefaultOperatingStart   float64
	DefaultOperatingEnd     float64
	DefaultDurationHours    float64
	DefaultGranularityHours float64
	DefaultPartySize        int
	MaxDailyReservations    int
	SlotLockTTL             time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultOperatingStart:   getEnvFloat(EnvDefaultOperatingStart, DefaultDefaultOperatingStart),
		DefaultOperatingEnd:     getEnvFloat(EnvDefaultOperatingEnd, DefaultDefaultOperatingEnd),
		DefaultDurationHours:    getEnvFloat(EnvDefaultDurationHours, DefaultDefaultDurationHours),
		DefaultGranularityHours: getEnvFloat(EnvDefaultGranularityHours, DefaultDefaultGranularityHours),
		DefaultPartySize:        getEnvNum(EnvDefaultPartySize, DefaultDefaultPartySize),
		MaxDailyReservations:    getEnvNum(EnvMaxDailyReservations, DefaultMaxDailyReservations),
		SlotLockTTL:             getEnvDuration(EnvSlotLockTTL, DefaultSlotLockTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	cfg.Client.Disconnect(ctx, cfg.Log)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.DefaultOperatingStart < 0 || cfg.DefaultOperatingStart >= 24 {
		errors = append(errors, fmt.Sprintf("DefaultOperatingStart must be within [0, 24), got: %g", cfg.DefaultOperatingStart))
	}
	if cfg.DefaultOperatingEnd <= cfg.DefaultOperatingStart || cfg.DefaultOperatingEnd > 24 {
		errors = append(errors, fmt.Sprintf("DefaultOperatingEnd must be within (DefaultOperatingStart, 24], got: %g", cfg.DefaultOperatingEnd))
	}
	if cfg.DefaultDurationHours <= 0 || cfg.DefaultDurationHours > 24 {
		errors = append(errors, fmt.Sprintf("DefaultDurationHours must be within (0, 24], got: %g", cfg.DefaultDurationHours))
	}
	if cfg.DefaultGranularityHours <= 0 || cfg.DefaultGranularityHours > 12 {
		errors = append(errors, fmt.Sprintf("DefaultGranularityHours must be within (0, 12], got: %g", cfg.DefaultGranularityHours))
	}
	if cfg.DefaultPartySize <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultPartySize must be positive, got: %d", cfg.DefaultPartySize))
	}
	if cfg.MaxDailyReservations <= 0 {
		errors = append(errors, fmt.Sprintf("MaxDailyReservations must be positive, got: %d", cfg.MaxDailyReservations))
	}
	if cfg.SlotLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SlotLockTTL must be positive, got: %s", cfg.SlotLockTTL))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_operating_start", cfg.DefaultOperatingStart,
		"default_operating_end", cfg.DefaultOperatingEnd,
		"default_duration_hours", cfg.DefaultDurationHours,
		"default_granularity_hours", cfg.DefaultGranularityHours,
		"default_party_size", cfg.DefaultPartySize,
		"max_daily_reservations", cfg.MaxDailyReservations,
		"slot_lock_ttl", cfg.SlotLockTTL,
	)
}

func redactMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := strings.Index(uri, "://")
	if scheme == -1 {
		return uri
	}
	return uri[:scheme+3] + "***" + uri[at:]
}
