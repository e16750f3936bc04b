package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`

	// Optional API settings
	APIHost string `mapstructure:"api_host" yaml:"api_host"`
	APIPort int    `mapstructure:"api_port" yaml:"api_port"`

	// Optional SSL settings for the inbound listener
	SSLCert string `mapstructure:"ssl_cert" yaml:"ssl_cert,omitempty"`
	SSLKey  string `mapstructure:"ssl_key" yaml:"ssl_key,omitempty"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins,omitempty"`

	// Optional logging settings
	LogFile  string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Optional rate limiting for /orgdirectory
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Optional JWT settings. Auth is disabled when the secret is empty.
	JWTSecretKey string `mapstructure:"jwt_secret_key" yaml:"jwt_secret_key,omitempty"`
	JWTAlgorithm string `mapstructure:"jwt_algorithm" yaml:"jwt_algorithm"`

	// Static paths
	ConfigPath string `mapstructure:"-" yaml:"-"`
}

// UpstreamConfig describes the search service every request is forwarded to.
type UpstreamConfig struct {
	BaseURL            string        `mapstructure:"base_url" yaml:"base_url"`
	TrustStore         string        `mapstructure:"trust_store" yaml:"trust_store,omitempty"`
	TrustStorePassword string        `mapstructure:"trust_store_password" yaml:"trust_store_password,omitempty"`
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`
}

const (
	DefaultConfigPath      = "/etc/second-service/config.yml"
	DefaultAPIHost         = "0.0.0.0"
	DefaultAPIPort         = 8082
	DefaultLogLevel        = "info"
	DefaultJWTAlgorithm    = "HS256"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 100
	DefaultRateLimitBurst  = 200
	EnvPrefix              = "SECOND_SERVICE"
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	v.SetDefault("upstream.timeout", DefaultUpstreamTimeout)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)

	// Nested keys are never picked up by AutomaticEnv unless bound
	// explicitly, e.g. SECOND_SERVICE_UPSTREAM_BASE_URL.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"upstream.base_url",
		"upstream.trust_store",
		"upstream.trust_store_password",
		"upstream.timeout",
		"rate_limit.rps",
		"rate_limit.burst",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when everything comes from the environment.
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("upstream.base_url is not a valid URL: %s", c.Upstream.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream.base_url must use http or https")
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}

	// Validate trust store if provided
	if c.Upstream.TrustStore != "" {
		if _, err := os.Stat(c.Upstream.TrustStore); os.IsNotExist(err) {
			return fmt.Errorf("upstream.trust_store file does not exist: %s", c.Upstream.TrustStore)
		}
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535")
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("jwt_algorithm must be one of HS256, HS384, HS512")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

// AuthEnabled reports whether /orgdirectory requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecretKey != ""
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Upstream.TrustStorePassword != "" {
		out.Upstream.TrustStorePassword = "********"
	}
	if out.JWTSecretKey != "" {
		out.JWTSecretKey = "********"
	}
	return out
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("SECOND_SERVICE_DEV_MODE") == "1"
}
