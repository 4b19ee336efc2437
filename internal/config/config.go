package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Mail      MailConfig      `mapstructure:"mail"`
	IPLookup  IPLookupConfig  `mapstructure:"ip_lookup"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// APIConfig holds HTTP server configuration.
type APIConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustProxy derives the caller address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxy   bool     `mapstructure:"trust_proxy"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// MailConfig configures the contact notification pipeline and its provider.
type MailConfig struct {
	// Provider is one of smtp, sendgrid, mailgun, ses, stdout, file.
	Provider    string `mapstructure:"provider"`
	FromAddress string `mapstructure:"from_address"`
	// Recipient is the inbox that receives contact notifications.
	Recipient    string        `mapstructure:"recipient"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`

	SMTP SMTPConfig `mapstructure:"smtp"`

	// HTTP API providers.
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
}

// SMTPConfig holds the outbound SMTP relay settings.
type SMTPConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	TLSMode            string `mapstructure:"tls_mode"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	LocalName          string `mapstructure:"local_name"`
}

// IPLookupConfig configures the IP lookup proxy.
type IPLookupConfig struct {
	// APIKey is the shared secret callers send in the x-api-key header.
	APIKey      string        `mapstructure:"api_key"`
	UpstreamURL string        `mapstructure:"upstream_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig configures the fixed-window limiter on /ip.
type RateLimitConfig struct {
	// Store is "memory" or "redis".
	Store  string        `mapstructure:"store"`
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
	Redis  RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings for the redis counter store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EnvPrefix prefixes every environment override, e.g. PORTFOLIO_MAIL_SMTP_PASSWORD
// overrides mail.smtp.password.
const EnvPrefix = "PORTFOLIO"

// Load reads config.yaml from configPath when present, applies defaults and
// PORTFOLIO_* environment overrides. A missing file is not an error so the
// service can be configured from the environment alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.read_timeout", "10s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.shutdown_timeout", "30s")
	v.SetDefault("api.trust_proxy", false)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.max_body_bytes", 64<<10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_files", 5)

	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.from_address", "")
	v.SetDefault("mail.recipient", "")
	v.SetDefault("mail.timeout", "20s")
	v.SetDefault("mail.max_retries", 0)
	v.SetDefault("mail.retry_backoff", "500ms")
	v.SetDefault("mail.smtp.host", "smtp.gmail.com")
	v.SetDefault("mail.smtp.port", 587)
	v.SetDefault("mail.smtp.username", "")
	v.SetDefault("mail.smtp.password", "")
	v.SetDefault("mail.smtp.tls_mode", "starttls")
	v.SetDefault("mail.smtp.insecure_skip_verify", false)
	v.SetDefault("mail.smtp.local_name", "localhost")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.secret_key", "")
	v.SetDefault("mail.domain", "")
	v.SetDefault("mail.endpoint", "")
	v.SetDefault("mail.region", "")

	v.SetDefault("ip_lookup.api_key", "")
	v.SetDefault("ip_lookup.upstream_url", "https://api.ipify.org?format=json")
	v.SetDefault("ip_lookup.timeout", "5s")

	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.limit", 1000)
	v.SetDefault("rate_limit.window", "15m")
	v.SetDefault("rate_limit.redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.redis.password", "")
	v.SetDefault("rate_limit.redis.db", 0)
}

// Validate reports every missing or inconsistent setting at once.
// Provider-specific credentials are checked when the provider is built.
func (c *Config) Validate() error {
	var errs []error

	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port out of range: %d", c.API.Port))
	}
	if c.Mail.Provider == "" {
		errs = append(errs, errors.New("mail.provider is required"))
	}
	if c.Mail.FromAddress == "" {
		errs = append(errs, errors.New("mail.from_address is required"))
	}
	if c.Mail.Recipient == "" {
		errs = append(errs, errors.New("mail.recipient is required"))
	}
	if c.Mail.MaxRetries < 0 {
		errs = append(errs, errors.New("mail.max_retries must not be negative"))
	}
	if c.IPLookup.APIKey == "" {
		errs = append(errs, errors.New("ip_lookup.api_key is required"))
	}
	if c.IPLookup.UpstreamURL == "" {
		errs = append(errs, errors.New("ip_lookup.upstream_url is required"))
	}
	if c.RateLimit.Limit <= 0 {
		errs = append(errs, errors.New("rate_limit.limit must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive"))
	}
	switch c.RateLimit.Store {
	case "memory":
	case "redis":
		if c.RateLimit.Redis.Addr == "" {
			errs = append(errs, errors.New("rate_limit.redis.addr is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("rate_limit.store must be memory or redis, got %q", c.RateLimit.Store))
	}

	return errors.Join(errs...)
}
