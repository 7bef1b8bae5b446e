package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"github.com/shouni/gemini-design-proxy/pkg/version"
)

// Dispatcher は ProxyHandler が利用する実行窓口です。
type Dispatcher interface {
	Ready() bool
	Dispatch(ctx context.Context, op domain.Operation) (any, error)
}

// ProxyHandler は POST 本文を Operation に変換して Dispatcher に渡します。
type ProxyHandler struct {
	dispatcher   Dispatcher
	maxBodyBytes int64
}

// NewProxyHandler は ProxyHandler を作ります。
func NewProxyHandler(d Dispatcher, maxBodyBytes int64) *ProxyHandler {
	return &ProxyHandler{dispatcher: d, maxBodyBytes: maxBodyBytes}
}

// Handle はプロキシ要求を1件処理します。
// 資格情報 → 本文サイズ → 本文の形式 の順に検証し、どれかに失敗したら上流は呼びません。
func (h *ProxyHandler) Handle(c *gin.Context) {
	if !h.dispatcher.Ready() {
		abortWithError(c, domain.ErrServerMisconfigured(nil))
		return
	}

	body, err := readBody(c.Writer, c.Request, h.maxBodyBytes)
	if err != nil {
		abortWithError(c, domain.AsError(err))
		return
	}

	op, err := decodeOperation(body)
	if err != nil {
		abortWithError(c, domain.AsError(err))
		return
	}
	c.Set(ctxKeyOpType, string(op.Type()))

	out, err := h.dispatcher.Dispatch(c.Request.Context(), op)
	if err != nil {
		abortWithError(c, domain.AsError(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

// methodNotAllowed は POST 以外のメソッドを 405 で拒否します。
func methodNotAllowed(c *gin.Context) {
	abortWithError(c, domain.ErrMethodNotAllowed())
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, domain.ErrorResponse{Error: "Not found", Code: "NotFound"})
}

// health は資格情報の有無を含めた稼働状態を返します。資格情報の値は返しません。
func health(d Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if !d.Ready() {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"service": version.ServiceName,
		})
	}
}

func versionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
