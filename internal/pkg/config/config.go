package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

type Config struct {
	Port           string        `env:"PORT,            default=8080"`
	Env            string        `env:"ENV,             default=development"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION, default=24h"`
	BcryptCost    int           `env:"BCRYPT_COST,    default=10"`
}

// StorageConfig selects the record store backend and names its collections.
// Empty collection names are derived from ServiceName and Stage.
type StorageConfig struct {
	Backend            string `env:"STORE_BACKEND,       default=mongo"`
	ServiceName        string `env:"SERVICE_NAME,        default=serverless-api-framework"`
	Stage              string `env:"STAGE,               default=dev"`
	UsersCollection    string `env:"USERS_COLLECTION"`
	ProductsCollection string `env:"PRODUCTS_COLLECTION"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration through lookuper. A nil lookuper reads the
// process environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Storage.UsersCollection == "" {
		cfg.Storage.UsersCollection = cfg.Storage.collection("users")
	}
	if cfg.Storage.ProductsCollection == "" {
		cfg.Storage.ProductsCollection = cfg.Storage.collection("products")
	}

	return &cfg, nil
}

// IsDevelopment reports whether the service runs with human-friendly defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.JWTExpiration < time.Second {
		return errors.New("JWT_EXPIRATION must be at least 1s")
	}
	switch c.Storage.Backend {
	case BackendMongo, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendRedis, c.Storage.Backend)
	}
	return nil
}

func (s StorageConfig) collection(suffix string) string {
	return fmt.Sprintf("%s-%s-%s", s.ServiceName, s.Stage, suffix)
}
