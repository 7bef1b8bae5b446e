package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/shouni/gemini-design-proxy/pkg/config"
	"github.com/shouni/gemini-design-proxy/pkg/dispatcher"
	"github.com/shouni/gemini-design-proxy/pkg/generator"
	"github.com/shouni/gemini-design-proxy/pkg/ratelimit"
	"github.com/shouni/gemini-design-proxy/pkg/server"
	"github.com/shouni/gemini-design-proxy/pkg/version"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("設定の読み込みに失敗しました")
	}
	if err := config.SetupLogging(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		log.WithError(err).Fatal("ログの設定に失敗しました")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := newGenerator(ctx, cfg)
	limiter, err := ratelimit.New(cfg.RateLimitStrategy, cfg.RateLimitPerWindow, cfg.RateLimitWindow)
	if err != nil {
		log.WithError(err).Fatal("レートリミッターの初期化に失敗しました")
	}

	router := server.NewRouter(dispatcher.New(gen, cfg.UpstreamTimeout), limiter, server.Options{
		ProxyPath:      cfg.ProxyPath,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":          cfg.Port,
			"proxy_path":    cfg.ProxyPath,
			"text_model":    cfg.TextModel,
			"image_model":   cfg.ImageModel,
			"image_backend": cfg.ImageBackend,
			"rate_limit":    cfg.RateLimitPerWindow,
			"version":       version.Get().Version,
		}).Info("サーバーを起動します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP サーバーの起動に失敗しました")
		}
	}()

	<-ctx.Done()
	log.Info("サーバーを停止しています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("サーバーを正常に停止できませんでした")
		return
	}
	log.Info("サーバーを停止しました")
}

// newGenerator は Gemini クライアントを作ります。
// 資格情報がない場合は nil を返し、プロキシは ServerMisconfigured で応答し続けます。
func newGenerator(ctx context.Context, cfg *config.Config) generator.Generator {
	if !cfg.HasCredential() {
		log.Error("Gemini の資格情報が設定されていません。すべてのプロキシ要求は 500 になります")
		return nil
	}

	client, err := generator.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, &http.Client{})
	if err != nil {
		log.WithError(err).Error("Gemini クライアントを初期化できませんでした")
		return nil
	}
	gen, err := generator.NewGeminiGenerator(client, cfg.GeneratorOptions())
	if err != nil {
		log.WithError(err).Fatal("ジェネレーターの初期化に失敗しました")
	}
	return gen
}
