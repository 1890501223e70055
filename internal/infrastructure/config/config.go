package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=3000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	APIPrefix  string `env:"API_PREFIX,  default=api"`
	APIVersion string `env:"API_VERSION, default=v1"`

	JWT   JWTConfig
	Auth  AuthConfig
	Seed  SeedConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET, required"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=24h"`
	Issuer    string        `env:"JWT_ISSUER, default=compliance-api"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

// Well-known seed passwords. They are rejected in production.
const (
	DefaultSeedAdminPassword = "admin123"
	DefaultSeedUserPassword  = "user123"
)

// SeedConfig controls the development accounts created at start-up.
type SeedConfig struct {
	DefaultUsers  bool   `env:"SEED_DEFAULT_USERS,  default=true"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin123"`
	UserPassword  string `env:"SEED_USER_PASSWORD,  default=user123"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=compliance_db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWT.ExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}
	if c.IsProduction() && c.Seed.DefaultUsers &&
		(c.Seed.AdminPassword == DefaultSeedAdminPassword || c.Seed.UserPassword == DefaultSeedUserPassword) {
		errs = append(errs, errors.New("SEED_DEFAULT_USERS in production requires SEED_ADMIN_PASSWORD and SEED_USER_PASSWORD to be changed"))
	}
	if c.Audit.Workers < 0 {
		errs = append(errs, errors.New("AUDIT_WORKERS must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// BasePath is the route prefix of the versioned API, e.g. "/api/v1".
func (c *Config) BasePath() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.APIPrefix, c.APIVersion} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
