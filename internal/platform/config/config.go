package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADVOHUB_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	Log             LogConfig
	JWT             JWTConfig
	Origins         OriginsConfig
	Redis           RedisConfig
	Audit           AuditConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type JWTConfig struct {
	SigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string `env:"JWT_ISSUER" envDefault:"advohub"`
	Audience   string `env:"JWT_AUDIENCE" envDefault:"advohub-admin"`
}

// OriginsConfig locates the four backends the directory reads from.
type OriginsConfig struct {
	AdminURL         string        `env:"ORIGIN_ADMIN_URL"`
	CommunityURL     string        `env:"ORIGIN_COMMUNITY_URL"`
	VolunteerURL     string        `env:"ORIGIN_VOLUNTEER_URL"`
	ContactURL       string        `env:"ORIGIN_CONTACT_URL"`
	APIToken         string        `env:"ORIGIN_API_TOKEN"`
	Timeout          time.Duration `env:"ORIGIN_TIMEOUT" envDefault:"10s"`
	FailureThreshold int           `env:"ORIGIN_FAILURE_THRESHOLD" envDefault:"3"`
	PageLimit        int           `env:"DIRECTORY_PAGE_LIMIT" envDefault:"1000"`
	MaxPages         int           `env:"DIRECTORY_MAX_PAGES" envDefault:"50"`
	Demo             bool          `env:"DEMO_ORIGINS" envDefault:"false"`
}

// RedisConfig is optional; an empty URL disables cross-instance invalidation.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	Channel      string        `env:"REDIS_INVALIDATION_CHANNEL" envDefault:"advohub:directory:invalidate"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// AuditConfig selects the durable audit sinks. Both are optional.
type AuditConfig struct {
	DatabaseURL    string   `env:"DATABASE_URL"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic     string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"advohub.directory.audit"`
	MemoryCapacity int      `env:"AUDIT_MEMORY_CAPACITY" envDefault:"1000"`
}

// Load parses and validates the configuration.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads a .env file when one exists, then parses the environment
// without validating it.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the combinations env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.SigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required"))
	}
	if !c.Origins.Demo {
		for key, url := range map[string]string{
			"ORIGIN_ADMIN_URL":     c.Origins.AdminURL,
			"ORIGIN_COMMUNITY_URL": c.Origins.CommunityURL,
			"ORIGIN_VOLUNTEER_URL": c.Origins.VolunteerURL,
			"ORIGIN_CONTACT_URL":   c.Origins.ContactURL,
		} {
			if url == "" {
				errs = append(errs, fmt.Errorf("%s is required unless DEMO_ORIGINS is set", key))
			}
		}
	}
	if c.Origins.Timeout <= 0 {
		errs = append(errs, errors.New("ORIGIN_TIMEOUT must be positive"))
	}
	if c.Origins.FailureThreshold < 1 {
		errs = append(errs, errors.New("ORIGIN_FAILURE_THRESHOLD must be at least 1"))
	}
	return errors.Join(errs...)
}
