// Package metrics はアプリケーション固有のPrometheusメトリクスを定義します。
// メトリクスはpromautoによりデフォルトレジストリへ登録され、/metricsで公開されます。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "drive"

// RegistrationsTotal は新規登録数をロール別に数えます。
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful user registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal はログイン試行数を結果別（success / failure）に数えます。
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AchievementsEarnedTotal は獲得された実績数を種類別に数えます。
var AchievementsEarnedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "achievements_earned_total",
		Help:      "Total number of achievements earned, by type.",
	},
	[]string{"type"},
)

// CacheLookupsTotal はルールカタログキャッシュの参照結果（hit / miss / error）を数えます。
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of rules cache lookups, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal はレートリミッターにより拒否されたリクエスト数です。
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the auth rate limiter.",
	},
)

// SessionsTotal は運転セッションの開始・終了数を数えます。
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "driving_sessions_total",
		Help:      "Total number of driving sessions, by event (started / ended).",
	},
	[]string{"event"},
)

// SpeedEventsTotal は記録された速度イベントを制限超過の有無別に数えます。
var SpeedEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "speed_events_total",
		Help:      "Total number of recorded speed events, by whether the limit was exceeded.",
	},
	[]string{"speeding"},
)

// HTTPRequestDuration はHTTPリクエストの処理時間をルート・メソッド・ステータス別に計測します。
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route template and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// Middleware はHTTPRequestDurationを記録するginミドルウェアを返します。
// ルート未登録のリクエストは "unmatched" として集計し、ラベルの爆発を防ぎます。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
