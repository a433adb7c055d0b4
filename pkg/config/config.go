package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix scopes every configuration variable read by the engine.
	EnvPrefix = "storefront"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage driver names accepted by StorageConfig.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Redis   RedisConfig
	Promo   PromoConfig
	Recent  RecentConfig
}

// Load reads configuration from the environment, pulling in a local .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Promo.Table(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Driver string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"file"`
	Path   string `envconfig:"STOREFRONT_STORAGE_PATH" default:"storefront-state.json"`
	DSN    string `envconfig:"STOREFRONT_STORAGE_DSN"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int    `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int    `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int    `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
}

// PromoConfig carries the fixed promo table as external configuration,
// encoded as CODE:RATE pairs separated by commas.
type PromoConfig struct {
	Codes string `envconfig:"STOREFRONT_PROMO_CODES" default:"SAVE10:0.10,KHUSI20:0.20"`
}

// Table parses the configured promo codes into a rate lookup. Codes are
// normalized to upper case; rates must sit in [0, 1).
func (p PromoConfig) Table() (map[string]decimal.Decimal, error) {
	table := make(map[string]decimal.Decimal)
	if strings.TrimSpace(p.Codes) == "" {
		return table, nil
	}
	for _, pair := range strings.Split(p.Codes, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, rate, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("promo table entry %q: expected CODE:RATE", pair)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("promo table entry %q: empty code", pair)
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return nil, fmt.Errorf("promo table entry %q: %w", pair, err)
		}
		if parsed.IsNegative() || parsed.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("promo table entry %q: rate must be in [0, 1)", pair)
		}
		table[code] = parsed
	}
	return table, nil
}

type RecentConfig struct {
	Capacity int `envconfig:"STOREFRONT_RECENT_CAPACITY" default:"5"`
}
