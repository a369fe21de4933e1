// Package router はHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	achievementshandler "drive_backend/internal/feature/achievements/transport/handler"
	authhandler "drive_backend/internal/feature/auth/transport/handler"
	instructorhandler "drive_backend/internal/feature/instructor/transport/handler"
	ruleshandler "drive_backend/internal/feature/rules/transport/handler"
	sessionshandler "drive_backend/internal/feature/sessions/transport/handler"
	jwtmw "drive_backend/internal/platform/jwt"
	"drive_backend/internal/platform/metrics"
	"drive_backend/internal/shared/ratelimiter"
)

// Handlers はルーターに登録する全フィーチャーのハンドラーです。
type Handlers struct {
	Auth         *authhandler.AuthHandler
	Achievements *achievementshandler.AchievementHandler
	Rules        *ruleshandler.RulesHandler
	Sessions     *sessionshandler.SessionHandler
	Instructor   *instructorhandler.InstructorHandler
	Health       gin.HandlerFunc
}

// Options はルーターのミドルウェア設定です。
type Options struct {
	// AllowedOrigins はCORSで許可するオリジンです。空の場合はCORSヘッダーを付与しません。
	AllowedOrigins []string
	// AuthRateLimit は /api/auth/* へのクライアントごとの1分あたりの上限です。0以下で無制限です。
	AuthRateLimit  int
}

// NewRouter は全フィーチャーのルートとミドルウェア（メトリクス・CORS・認証・レート制限）を登録したginエンジンを生成します。
// 認証が必要なルートはverifierでトークンを検証し、指導員専用のルートはロールでも制限します。
func NewRouter(h Handlers, verifier jwtmw.Verifier, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.Middleware())

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 導通確認・メトリクス
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.HEAD("/health", h.Health)

	requireAuth := jwtmw.AuthRequired(verifier)

	// 認証（ログイン・登録はレート制限付き）
	limiter := ratelimiter.NewRateLimiter(opts.AuthRateLimit, time.Minute)
	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter.Middleware(), h.Auth.Register)
		auth.POST("/login", limiter.Middleware(), h.Auth.Login)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	// 交通規則カタログは認証不要、回答のみ認証必須
	rules := api.Group("/rules")
	{
		rules.GET("/categories", h.Rules.ListCategories)
		rules.GET("/category/:categoryId", h.Rules.ListRulesByCategory)
		rules.GET("/rule/:ruleId/quiz", h.Rules.ListQuizQuestions)
		rules.POST("/quiz/:questionId/answer", requireAuth, h.Rules.SubmitAnswer)
	}

	achievements := api.Group("/achievements", requireAuth)
	{
		achievements.GET("", h.Achievements.List)
		achievements.POST("/check", h.Achievements.Check)
	}

	sessions := api.Group("/sessions", requireAuth)
	{
		sessions.GET("", h.Sessions.List)
		sessions.POST("", h.Sessions.Start)
		sessions.POST("/speed-event", h.Sessions.RecordSpeedEvent)
		sessions.GET("/:id", h.Sessions.Get)
		sessions.POST("/:id/end", h.Sessions.End)
		sessions.POST("/:id/notes", h.Sessions.AddNote)
	}

	// 指導員専用
	instructor := api.Group("/instructor", requireAuth, jwtmw.RequireRole("INSTRUCTOR"))
	{
		instructor.POST("/students", h.Instructor.AddStudent)
		instructor.GET("/students", h.Instructor.ListStudents)
		instructor.PATCH("/students/:studentId", h.Instructor.SetStatus)
	}

	return r
}
