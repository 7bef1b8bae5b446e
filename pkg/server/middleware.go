package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"github.com/shouni/gemini-design-proxy/pkg/metrics"
	"github.com/shouni/gemini-design-proxy/pkg/ratelimit"
)

const (
	headerRequestID = "X-Request-Id"
	maxRequestIDLen = 128

	ctxKeyRequestID = "request_id"
	ctxKeyOpType    = "op_type"
	ctxKeyErrorCode = "error_code"

	codeInternal domain.ErrorKind = "InternalError"
)

// requestID は X-Request-Id を引き継ぐか新しく採番し、応答ヘッダにも載せます。
// 引き継ぐのは 128 バイト以内の [A-Za-z0-9._-] だけです。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		case ch == '.', ch == '_', ch == '-':
		default:
			return false
		}
	}
	return true
}

// accessLog は1リクエストごとに1行のログを出し、プロキシ要求ならメトリクスも更新します。
func accessLog(proxyPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := log.Fields{
			"request_id": c.GetString(ctxKeyRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
			"status":     status,
			"duration":   time.Since(start).String(),
		}
		if t := c.GetString(ctxKeyOpType); t != "" {
			fields["type"] = t
		}
		code := c.GetString(ctxKeyErrorCode)
		if code != "" {
			fields["code"] = code
		}

		if c.FullPath() == proxyPath || c.Request.URL.Path == proxyPath {
			label := code
			if label == "" {
				label = strconv.Itoa(status)
			}
			opType := c.GetString(ctxKeyOpType)
			if opType == "" {
				opType = "unknown"
			}
			metrics.RequestsTotal.WithLabelValues(opType, label).Inc()
		}

		entry := log.WithFields(fields)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// recovery は panic を JSON の 500 に変換します。
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(log.Fields{
			"request_id": c.GetString(ctxKeyRequestID),
			"panic":      recovered,
		}).Error("panic から復帰しました")
		c.Set(ctxKeyErrorCode, string(codeInternal))
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error: "Server error",
			Code:  codeInternal,
		})
	})
}

// cors は許可されたオリジンにだけ CORS ヘッダを返します。
func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || allowed[origin]) {
			if wildcard {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// rateLimit はクライアント IP ごとにリクエスト数を制限します。
func rateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !limiter.Allow(clientIP) {
			log.WithField("client_ip", clientIP).Warn("Rate limit exceeded")
			metrics.RateLimitedTotal.Inc()
			abortWithError(c, domain.ErrThrottled())
			return
		}
		c.Next()
	}
}

// abortWithError は分類付きエラーを JSON で返して処理を打ち切ります。
func abortWithError(c *gin.Context, err *domain.Error) {
	c.Set(ctxKeyErrorCode, string(err.Kind))
	c.AbortWithStatusJSON(err.HTTPStatus(), err.Response())
}
