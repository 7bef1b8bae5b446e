package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/gemini-design-proxy/pkg/generator"
)

// Config はプロキシ全体の設定です。すべて環境変数から読み込みます。
type Config struct {
	// Server configuration
	Port           string
	ProxyPath      string
	AllowedOrigins []string
	MaxBodyBytes   int64
	MetricsEnabled bool
	GinMode        string
	TrustedProxies []string

	// Gemini configuration
	GeminiAPIKey    string
	GeminiBaseURL   string
	TextModel       string
	ImageModel      string
	ImageBackend    generator.ImageBackend
	UpstreamTimeout time.Duration
	UpstreamRetries int
	JSONFallback    bool

	// Rate limiting
	RateLimitPerWindow int
	RateLimitWindow    time.Duration
	RateLimitStrategy  string

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	DefaultPort         = "8080"
	DefaultProxyPath    = "/api/proxy"
	DefaultTextModel    = "gemini-2.5-flash"
	DefaultImageModel   = "imagen-3.0-generate-002"
	DefaultMaxBodyBytes = 15 << 20
)

// Load は .env があれば読み込んだうえで、環境変数から Config を組み立てます。
// 既に設定されている環境変数は .env で上書きしません。
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv は現在の環境変数だけから Config を組み立てます。
func FromEnv() (*Config, error) {
	backend, err := generator.ParseImageBackend(getEnv("IMAGE_BACKEND", string(generator.ImageBackendImagen)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		ProxyPath:      getEnv("PROXY_PATH", DefaultProxyPath),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		GinMode:        getEnv("GIN_MODE", "release"),
		// 既定ではどのプロキシも信用せず、接続元アドレスをクライアントとみなす
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),

		// GOOGLE_API_KEY は旧来の名前です
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		TextModel:     getEnv("TEXT_MODEL", DefaultTextModel),
		ImageModel:    getEnv("IMAGE_MODEL", DefaultImageModel),
		ImageBackend:  backend,

		RateLimitStrategy: getEnv("RATE_LIMIT_STRATEGY", "window"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.MetricsEnabled, err = getBoolEnv("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.JSONFallback, err = getBoolEnv("JSON_FALLBACK", false); err != nil {
		return nil, err
	}
	if cfg.MaxBodyBytes, err = getInt64Env("MAX_BODY_BYTES", DefaultMaxBodyBytes); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = getDurationEnv("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpstreamRetries, err = getIntEnv("UPSTREAM_RETRIES", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerWindow, err = getIntEnv("RATE_LIMIT_PER_WINDOW", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDurationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.ProxyPath, "/") {
		return fmt.Errorf("PROXY_PATH must start with '/': %q", c.ProxyPath)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive: %d", c.MaxBodyBytes)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive: %s", c.UpstreamTimeout)
	}
	if c.UpstreamRetries < 0 || c.UpstreamRetries > 1 {
		return fmt.Errorf("UPSTREAM_RETRIES must be 0 or 1: %d", c.UpstreamRetries)
	}
	if c.RateLimitPerWindow < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_WINDOW must not be negative: %d", c.RateLimitPerWindow)
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES contains invalid IP or CIDR: %q", p)
		}
	}
	return nil
}

// HasCredential は Gemini の API キーが設定されているかを返します。
func (c *Config) HasCredential() bool {
	return c.GeminiAPIKey != ""
}

// GeneratorOptions は generator.Options に変換します。
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		TextModel:    c.TextModel,
		ImageModel:   c.ImageModel,
		ImageBackend: c.ImageBackend,
		MaxRetries:   c.UpstreamRetries,
		JSONFallback: c.JSONFallback,
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getInt64Env(key string, defaultValue int64) (int64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBoolEnv(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
