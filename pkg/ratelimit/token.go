package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket はキーごとに rate.Limiter を持つ Limiter です。
// バースト上限は limit、補充速度は window あたり limit 件です。
type TokenBucket struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewTokenBucket は window あたり limit 件を補充する TokenBucket を作ります。
func NewTokenBucket(limit int, window time.Duration) *TokenBucket {
	return &TokenBucket{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window,
		now:      time.Now,
	}
}

// Allow はトークンが残っていれば1つ消費して true を返します。
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	tb.sweep(now)

	v, ok := tb.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(tb.limit, tb.burst)}
		tb.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Len は現在記録しているキーの数を返します。
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.visitors)
}

// sweep は idle 以上アクセスのないキーを取り除きます。
// その間にバケットは満杯まで補充されているので、消しても判定は変わりません。
func (tb *TokenBucket) sweep(now time.Time) {
	if now.Sub(tb.lastSweep) < tb.idle {
		return
	}
	tb.lastSweep = now
	for k, v := range tb.visitors {
		if now.Sub(v.lastSeen) >= tb.idle {
			delete(tb.visitors, k)
		}
	}
}
