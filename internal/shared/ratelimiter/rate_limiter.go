// Package ratelimiter はクライアント単位の固定ウィンドウ方式レートリミッターを提供します。
package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"drive_backend/internal/platform/metrics"
)

// window はキーごとのカウンターです。
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter は、キー（クライアントIP）ごとに interval あたり limit 回までの操作を許可します。
// 複数のgoroutineから安全に使用できます。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow はキーの呼び出しを1回数え、上限内であればtrueを返します。
// 上限を超えた場合は次のリセットまでの残り時間も返します。
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	w.count++
	if w.count > rl.limit {
		return false, rl.interval - now.Sub(w.lastReset)
	}
	return true, 0
}

// sweep は期限切れのウィンドウを破棄します。呼び出し側でロックを保持してください。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}

// Middleware はクライアントIP単位で制限するginミドルウェアを返します。
// 上限を超えたリクエストは429とRetry-Afterヘッダーで拒否します。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		metrics.RateLimitedTotal.Inc()
		slog.Warn("rate limit exceeded", "remote_addr", c.ClientIP(), "path", c.FullPath(), "retry_after", wait)
		seconds := int(wait.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
}
