package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	RegistryMemory   = "memory"
	RegistryPostgres = "postgres"
)

type Config struct {
	ServiceName string
	AppEnv      string
	LogLevel    string

	HTTPPort int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RegistryDriver selects the live registry backend: "memory" or "postgres".
	RegistryDriver string
	// AMQPURL enables RabbitMQ when set; otherwise settlement runs in-process.
	AMQPURL string
	// JWTSecret signs operator tokens; empty locks the operator endpoints.
	JWTSecret string

	MatchingSchedule  string
	ReconcileSchedule string
	RebuildSchedule   string

	MaxDispatchRadiusKm float64
	MinRating           float64
	MaxAssignAttempts   int

	PlatformFeeRate      string
	DriverCommissionRate string

	SweepBatchSize      int
	SweepConcurrency    int
	SettlementQueueSize int
	SettlementWorkers   int
}

// LoadConfig reads the environment, after loading .env when present.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "dispatch"))
	cfg.AppEnv = cast.ToString(getOrReturnDefault("APP_ENV", "development"))
	cfg.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))
	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))

	cfg.DBHost = cast.ToString(getOrReturnDefault("DB_HOST", "localhost"))
	cfg.DBPort = cast.ToString(getOrReturnDefault("DB_PORT", "5432"))
	cfg.DBUser = cast.ToString(getOrReturnDefault("DB_USER", "postgres"))
	cfg.DBPassword = cast.ToString(getOrReturnDefault("DB_PASSWORD", ""))
	cfg.DBName = cast.ToString(getOrReturnDefault("DB_NAME", "dispatch"))
	cfg.DBSslMode = cast.ToString(getOrReturnDefault("DB_SSLMODE", "disable"))

	cfg.RegistryDriver = cast.ToString(getOrReturnDefault("REGISTRY_DRIVER", RegistryMemory))
	cfg.AMQPURL = cast.ToString(getOrReturnDefault("AMQP_URL", ""))
	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", ""))

	cfg.MatchingSchedule = cast.ToString(getOrReturnDefault("MATCHING_SCHEDULE", ""))
	cfg.ReconcileSchedule = cast.ToString(getOrReturnDefault("RECONCILE_SCHEDULE", ""))
	cfg.RebuildSchedule = cast.ToString(getOrReturnDefault("REGISTRY_REBUILD_SCHEDULE", ""))

	cfg.MaxDispatchRadiusKm = cast.ToFloat64(getOrReturnDefault("MAX_DISPATCH_RADIUS_KM", services.DefaultMaxDispatchRadiusKm))
	cfg.MinRating = cast.ToFloat64(getOrReturnDefault("MIN_DRIVER_RATING", services.DefaultMinRating))
	cfg.MaxAssignAttempts = cast.ToInt(getOrReturnDefault("MAX_ASSIGN_ATTEMPTS", 3))

	cfg.PlatformFeeRate = cast.ToString(getOrReturnDefault("PLATFORM_FEE_RATE", "10"))
	cfg.DriverCommissionRate = cast.ToString(getOrReturnDefault("DRIVER_COMMISSION_RATE", "30"))

	cfg.SweepBatchSize = cast.ToInt(getOrReturnDefault("SWEEP_BATCH_SIZE", 500))
	cfg.SweepConcurrency = cast.ToInt(getOrReturnDefault("SWEEP_CONCURRENCY", 4))
	cfg.SettlementQueueSize = cast.ToInt(getOrReturnDefault("SETTLEMENT_QUEUE_SIZE", 256))
	cfg.SettlementWorkers = cast.ToInt(getOrReturnDefault("SETTLEMENT_WORKERS", 2))

	return cfg
}

// Validate checks the settings that cannot be defaulted away.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		problems = append(problems, fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort))
	}
	if c.RegistryDriver != RegistryMemory && c.RegistryDriver != RegistryPostgres {
		problems = append(problems, fmt.Errorf("REGISTRY_DRIVER must be %q or %q, got %q",
			RegistryMemory, RegistryPostgres, c.RegistryDriver))
	}
	if _, err := c.MatchPolicy(); err != nil {
		problems = append(problems, err)
	}
	if _, err := c.SettlementDefaults(); err != nil {
		problems = append(problems, err)
	}
	if c.SweepBatchSize < 0 || c.SweepConcurrency < 0 {
		problems = append(problems, errors.New("SWEEP_BATCH_SIZE and SWEEP_CONCURRENCY must not be negative"))
	}
	return errors.Join(problems...)
}

// DatabaseURL builds the postgres:// URL used by gorm, migrations and the registry pool.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func (c Config) MatchPolicy() (services.MatchPolicy, error) {
	policy := services.MatchPolicy{MaxDispatchRadiusKm: c.MaxDispatchRadiusKm, MinRating: c.MinRating}
	if err := policy.Validate(); err != nil {
		return services.MatchPolicy{}, fmt.Errorf("match policy: %w", err)
	}
	return policy, nil
}

func (c Config) SettlementDefaults() (services.SettlementDefaults, error) {
	platformFee, err := kernel.PercentFromString(c.PlatformFeeRate)
	if err != nil {
		return services.SettlementDefaults{}, fmt.Errorf("PLATFORM_FEE_RATE: %w", err)
	}
	commission, err := kernel.PercentFromString(c.DriverCommissionRate)
	if err != nil {
		return services.SettlementDefaults{}, fmt.Errorf("DRIVER_COMMISSION_RATE: %w", err)
	}
	return services.SettlementDefaults{PlatformFeeRate: platformFee, DriverCommissionRate: commission}, nil
}

func getOrReturnDefault(key string, defaultValue any) any {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
