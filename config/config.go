package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DBURL           string        `mapstructure:"DB_URL"`
	DBMaxOpenConns  int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns  int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	RedisAddress    string        `mapstructure:"REDIS_URL"`
	RedisPoolSize   int           `mapstructure:"REDIS_POOL_SIZE"`
	RedisMaxRetries int           `mapstructure:"REDIS_MAX_RETRIES"`
	SymmetricKey    string        `mapstructure:"SYMMETRIC_KEY"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	TrustedProxies  []string      `mapstructure:"TRUSTED_PROXIES"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	DoctorCacheTTL  time.Duration `mapstructure:"DOCTOR_CACHE_TTL"`
	SMTPHost        string        `mapstructure:"SMTP_HOST"`
	SMTPPort        int           `mapstructure:"SMTP_PORT"`
	SMTPUser        string        `mapstructure:"SMTP_USER"`
	SMTPPass        string        `mapstructure:"SMTP_PASS"`
	MailFrom        string        `mapstructure:"MAIL_FROM"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DB_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_URL", "REDIS_POOL_SIZE", "REDIS_MAX_RETRIES",
	"SYMMETRIC_KEY", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
	"CORS_ORIGINS", "TRUSTED_PROXIES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"DOCTOR_CACHE_TTL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "MAIL_FROM",
}

// Load reads configuration from the environment, falling back to a .env file
// in the working directory when one exists.
func Load() (*AppConfig, error) {
	// Missing .env is fine; the environment wins over the file either way.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8930")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 40)
	v.SetDefault("DB_MAX_IDLE_CONNS", 20)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 15)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("DOCTOR_CACHE_TTL", "10m")
	v.SetDefault("SMTP_PORT", 587)

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	_ = v.ReadInConfig()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(cfg.CORSOrigins, v.GetString("CORS_ORIGINS"))
	cfg.TrustedProxies = splitList(cfg.TrustedProxies, v.GetString("TRUSTED_PROXIES"))

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	return cfg, nil
}

// splitList normalizes a list setting. A comma separated env value arrives
// as a single element.
func splitList(list []string, raw string) []string {
	if len(list) == 1 && strings.Contains(list[0], ",") {
		list = strings.Split(list[0], ",")
	}
	if len(list) == 0 && raw != "" {
		list = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks the settings the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("missing DB_URL environment variable")
	}
	if c.RedisAddress == "" {
		return fmt.Errorf("missing REDIS_URL environment variable")
	}
	if len(c.SymmetricKey) != 32 {
		return fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(c.SymmetricKey))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.AccessTokenTTL > c.RefreshTokenTTL {
		return fmt.Errorf("ACCESS_TOKEN_TTL must not exceed REFRESH_TOKEN_TTL")
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP address or CIDR", proxy)
			}
		}
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}
