package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
	"github.com/shouni/gemini-design-proxy/pkg/generator"
	"github.com/shouni/gemini-design-proxy/pkg/metrics"
)

// DefaultTimeout は上流呼び出し1回あたりの既定の制限時間です。
const DefaultTimeout = 30 * time.Second

// Dispatcher は Operation の種類に応じて Generator の処理を呼び分けます。
type Dispatcher struct {
	gen     generator.Generator
	timeout time.Duration
}

// New は Dispatcher を作ります。
// gen が nil の場合は資格情報が未設定とみなし、すべての要求を ServerMisconfigured で拒否します。
func New(gen generator.Generator, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{gen: gen, timeout: timeout}
}

// Ready は上流を呼び出せる状態かどうかを返します。
func (d *Dispatcher) Ready() bool {
	return d.gen != nil
}

// Dispatch は op を実行し、呼び出し元に返す応答本文を返します。
// 失敗時は常に *domain.Error を返します。
func (d *Dispatcher) Dispatch(ctx context.Context, op domain.Operation) (any, error) {
	if !d.Ready() {
		return nil, domain.ErrServerMisconfigured(fmt.Errorf("generator is not configured"))
	}
	if op == nil {
		return nil, domain.ErrInvalidRequest("Missing request type", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	defer metrics.ObserveUpstream(string(op.Type()), start)

	var (
		out any
		err error
	)
	switch req := op.(type) {
	case domain.DesignRequest:
		out, err = d.gen.GenerateDesign(ctx, req)
	case domain.StyleRequest:
		out, err = d.gen.AnalyzeStyle(ctx, req)
	case domain.ImageRequest:
		out, err = d.gen.GenerateImage(ctx, req)
	case domain.ChatRequest:
		out, err = d.gen.Chat(ctx, req)
	default:
		return nil, domain.ErrInvalidRequest(fmt.Sprintf("Unsupported request type: %s", op.Type()), nil)
	}
	if err != nil {
		de := domain.AsError(err)
		log.WithFields(log.Fields{
			"type":    op.Type(),
			"code":    de.Kind,
			"details": de.Details,
		}).WithError(de.Err).Warn("リクエストの処理に失敗しました")
		return nil, de
	}
	return out, nil
}
