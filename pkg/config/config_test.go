package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/shouni/gemini-design-proxy/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "PROXY_PATH", "ALLOWED_ORIGINS", "METRICS_ENABLED", "GIN_MODE",
	"GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_BASE_URL", "TEXT_MODEL", "IMAGE_MODEL",
	"IMAGE_BACKEND", "UPSTREAM_TIMEOUT", "UPSTREAM_RETRIES", "MAX_BODY_BYTES", "JSON_FALLBACK",
	"RATE_LIMIT_PER_WINDOW", "RATE_LIMIT_WINDOW", "RATE_LIMIT_STRATEGY", "LOG_LEVEL", "LOG_FORMAT",
	"TRUSTED_PROXIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("何も設定しなければ既定値になるのだ", func(t *testing.T) {
		clearEnv(t)

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "/api/proxy", cfg.ProxyPath)
		assert.Equal(t, int64(15<<20), cfg.MaxBodyBytes)
		assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, 1, cfg.UpstreamRetries)
		assert.Equal(t, "gemini-2.5-flash", cfg.TextModel)
		assert.Equal(t, generator.ImageBackendImagen, cfg.ImageBackend)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow)
		assert.False(t, cfg.JSONFallback)
		assert.True(t, cfg.MetricsEnabled)
		assert.Empty(t, cfg.AllowedOrigins)
		assert.Empty(t, cfg.TrustedProxies)
		assert.False(t, cfg.HasCredential())
	})

	t.Run("環境変数の値を読み込む", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "secret")
		t.Setenv("IMAGE_BACKEND", "Gemini")
		t.Setenv("IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation")
		t.Setenv("UPSTREAM_TIMEOUT", "5s")
		t.Setenv("UPSTREAM_RETRIES", "0")
		t.Setenv("MAX_BODY_BYTES", "1024")
		t.Setenv("JSON_FALLBACK", "true")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("RATE_LIMIT_PER_WINDOW", "0")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")
		t.Setenv("METRICS_ENABLED", "false")

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.True(t, cfg.HasCredential())
		assert.Equal(t, generator.ImageBackendGemini, cfg.ImageBackend)
		assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		assert.Equal(t, 0, cfg.RateLimitPerWindow)
		assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
		assert.False(t, cfg.MetricsEnabled)

		opts := cfg.GeneratorOptions()
		assert.Equal(t, 0, opts.MaxRetries)
		assert.True(t, opts.JSONFallback)
		assert.Equal(t, "gemini-2.0-flash-preview-image-generation", opts.ImageModel)
	})

	t.Run("GOOGLE_API_KEY も資格情報として使える", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "legacy")

		cfg, err := FromEnv()

		require.NoError(t, err)
		assert.Equal(t, "legacy", cfg.GeminiAPIKey)
	})

	t.Run("不正な値はエラーになる", func(t *testing.T) {
		cases := map[string]string{
			"UPSTREAM_TIMEOUT":      "soon",
			"UPSTREAM_RETRIES":      "3",
			"MAX_BODY_BYTES":        "-1",
			"IMAGE_BACKEND":         "dall-e",
			"PROXY_PATH":            "api/proxy",
			"RATE_LIMIT_PER_WINDOW": "many",
			"JSON_FALLBACK":         "yes",
			"METRICS_ENABLED":       "on",
			"TRUSTED_PROXIES":       "10.0.0.1,proxy.local",
		}
		for key, value := range cases {
			t.Run(key, func(t *testing.T) {
				clearEnv(t)
				t.Setenv(key, value)

				_, err := FromEnv()
				assert.Error(t, err)
			})
		}
	})
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		_ = SetupLogging(&bytes.Buffer{}, "info", "text")
	})

	t.Run("json 形式で出力するのだ", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SetupLogging(&buf, "debug", "json"))

		log.WithField("type", "design").Info("hello")

		assert.Contains(t, buf.String(), `"message":"hello"`)
		assert.Contains(t, buf.String(), `"type":"design"`)
	})

	t.Run("レベル未満のログは出ない", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SetupLogging(&buf, "warn", "text"))

		log.Info("quiet")

		assert.Empty(t, buf.String())
	})

	t.Run("不正なレベルや形式はエラー", func(t *testing.T) {
		assert.Error(t, SetupLogging(&bytes.Buffer{}, "loud", "text"))
		assert.Error(t, SetupLogging(&bytes.Buffer{}, "info", "xml"))
	})
}
