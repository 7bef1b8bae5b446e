package server

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shouni/gemini-design-proxy/pkg/metrics"
	"github.com/shouni/gemini-design-proxy/pkg/ratelimit"
)

const (
	EndPointHealth  = "/health"
	EndPointVersion = "/version"
	EndPointMetrics = "/metrics"
)

// Options はルーターの構成です。
type Options struct {
	ProxyPath      string
	MaxBodyBytes   int64
	AllowedOrigins []string
	MetricsEnabled bool
	// TrustedProxies は X-Forwarded-For を信用するプロキシの IP/CIDR です。空なら RemoteAddr だけを見ます。
	TrustedProxies []string
}

// NewRouter はプロキシのエンドポイント一式を登録した gin.Engine を作ります。
// limiter が nil なら制限しません。
func NewRouter(d Dispatcher, limiter ratelimit.Limiter, opts Options) *gin.Engine {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	// nil ならどのプロキシも信用せず、ClientIP は RemoteAddr になる
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.WithError(err).Error("TRUSTED_PROXIES が不正なため、プロキシを信用しません")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(requestID(), accessLog(opts.ProxyPath), recovery())
	// promhttp は自前で圧縮する
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{EndPointMetrics})))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors(opts.AllowedOrigins))
	}

	router.GET(EndPointHealth, health(d))
	router.GET(EndPointVersion, versionInfo)
	if opts.MetricsEnabled {
		metrics.Register()
		router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))
	}

	proxy := NewProxyHandler(d, opts.MaxBodyBytes)
	router.POST(opts.ProxyPath, rateLimit(limiter), proxy.Handle)
	if len(opts.AllowedOrigins) > 0 {
		// プリフライトは cors ミドルウェアが 204 で返す
		router.OPTIONS(opts.ProxyPath, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	router.NoMethod(methodNotAllowed)
	router.NoRoute(notFound)
	return router
}
