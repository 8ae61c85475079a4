package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=3001"`
	Env             string        `env:"ENV,              default=production"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=12"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,    default=2"`
	CORSOrigins     []string      `env:"CORS_ORIGINS,     default=http://localhost:3000"`

	Store     StoreConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	TLS       TLSConfig
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,  default=catalog.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	MongoURI    string `env:"MONGO_URI,    default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,     default=catalog"`
}

// RedisConfig enables the movie response cache. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	PoolSize    int           `env:"REDIS_POOL_SIZE,    default=10"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
	CacheTTL    time.Duration `env:"CACHE_TTL,          default=5m"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type RateLimitConfig struct {
	Requests      int           `env:"RATE_LIMIT_REQUESTS,       default=100"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW,         default=15m"`
	LoginRequests int           `env:"LOGIN_RATE_LIMIT_REQUESTS, default=5"`
	LoginWindow   time.Duration `env:"LOGIN_RATE_LIMIT_WINDOW,   default=15m"`
}

type TLSConfig struct {
	CertFile string `env:"TLS_CERT_FILE"`
	KeyFile  string `env:"TLS_KEY_FILE"`
}

func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// IsDevelopment enables pretty logs and verbose internal error messages.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit source, used by tests.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings envconfig cannot express as tags.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDB == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 ||
		c.RateLimit.LoginRequests <= 0 || c.RateLimit.LoginWindow <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.AuditWorkers <= 0 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
