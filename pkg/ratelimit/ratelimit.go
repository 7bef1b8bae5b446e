package ratelimit

import (
	"fmt"
	"strings"
	"time"
)

// Limiter はキー (クライアント IP) ごとにリクエストを許可するかを判定します。
type Limiter interface {
	Allow(key string) bool
}

// Strategy は Limiter の実装方式です。
type Strategy string

const (
	// StrategyWindow は固定長のスライディングウィンドウで数えます。
	StrategyWindow Strategy = "window"
	// StrategyToken はトークンバケットで数えます。
	StrategyToken Strategy = "token"
)

// New は設定から Limiter を作ります。limit が 0 以下なら制限しません。
func New(strategy string, limit int, window time.Duration) (Limiter, error) {
	if limit <= 0 {
		return Noop{}, nil
	}
	if window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive: %s", window)
	}
	switch Strategy(strings.ToLower(strings.TrimSpace(strategy))) {
	case StrategyWindow, "":
		return NewSlidingWindow(limit, window), nil
	case StrategyToken:
		return NewTokenBucket(limit, window), nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", strategy)
	}
}

// Noop は常に許可する Limiter です。
type Noop struct{}

func (Noop) Allow(string) bool { return true }
