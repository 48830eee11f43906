package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	HTTP        HTTPConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	CORSOrigins []string
	MaxBodySize int64

	// TrustedProxies lists the proxy IPs or CIDRs allowed to set
	// X-Forwarded-For. Empty means the peer address is the client.
	TrustedProxies []string

	// CookieDomain scopes the auth_token cookie; empty means the request host.
	CookieDomain string
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig with an empty Addr turns incident rate limiting off.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	KeyPrefix string
	Limit     int
	Window    time.Duration
}

// Load reads the environment, after merging in a .env file when one exists.
// Values that are set but cannot be parsed fail the load.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env load warning", slog.Any("error", err))
	}

	env := &envReader{}
	cfg := &Config{
		Env: env.str("GO_ENV", "local"),
		HTTP: HTTPConfig{
			Port:            env.str("PORT", "8080"),
			ReadTimeout:     env.duration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    env.duration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: env.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Mongo: MongoConfig{
			URI:      env.str("MONGODB_URI", ""),
			Database: env.str("MONGODB_DB", "cyclesafe"),
			Timeout:  env.duration("MONGODB_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret: env.str("JWT_SECRET", ""),
			TTL:    env.duration("JWT_TTL", 72*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     env.str("REDIS_ADDRESS", ""),
			Password: env.str("REDIS_PASSWORD", ""),
			DB:       env.integer("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			KeyPrefix: env.str("REDIS_QUEUE_FOR_INCIDENT_LIMIT", "incident_limit"),
			Limit:     env.integer("INCIDENT_REPORT_LIMIT", 20),
			Window:    env.duration("INCIDENT_REPORT_WINDOW", time.Hour),
		},
		CORSOrigins:    env.list("CORS_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodySize:    int64(env.integer("MAX_BODY_BYTES", 50<<20)),
		TrustedProxies: env.list("TRUSTED_PROXIES", nil),
		CookieDomain:   env.str("DOMAIN", ""),
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.MaxBodySize <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.RateLimitEnabled() && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("INCIDENT_REPORT_LIMIT and INCIDENT_REPORT_WINDOW must be positive"))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p))
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Config) RateLimitEnabled() bool {
	return c.Redis.Addr != ""
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.HTTP.Port, ":") {
		return c.HTTP.Port
	}
	return ":" + c.HTTP.Port
}

// envReader reads typed values and remembers every one that failed to parse.
type envReader struct {
	errs []error
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration like 30s or 72h", key, v))
		return def
	}
	return d
}

func (r *envReader) list(key string, def []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
