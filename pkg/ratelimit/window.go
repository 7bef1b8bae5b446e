package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow は直近 window 内のリクエスト時刻をキーごとに保持する Limiter です。
// 読み出し・期限切れの除去・追加は1回のロックの中で行います。
type SlidingWindow struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewSlidingWindow は window あたり limit 件まで許可する SlidingWindow を作ります。
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow はリクエストを許可できれば記録して true を返します。
func (sw *SlidingWindow) Allow(key string) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	cutoff := now.Add(-sw.window)
	sw.sweep(now, cutoff)

	valid := evict(sw.requests[key], cutoff)
	if len(valid) >= sw.limit {
		sw.requests[key] = valid
		return false
	}
	sw.requests[key] = append(valid, now)
	return true
}

// Len は現在記録しているキーの数を返します。
func (sw *SlidingWindow) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.requests)
}

// sweep は window ごとに1回、期限切れのキーを取り除きます。
func (sw *SlidingWindow) sweep(now, cutoff time.Time) {
	if now.Sub(sw.lastSweep) < sw.window {
		return
	}
	sw.lastSweep = now
	for k, times := range sw.requests {
		if len(evict(times, cutoff)) == 0 {
			delete(sw.requests, k)
		}
	}
}

// evict は cutoff より後の時刻だけを残します。times は古い順に並んでいます。
func evict(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}
