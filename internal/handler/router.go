package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/timesheet/internal/metrics"
	"github.com/hitoshi/timesheet/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 勤務記録
	TimesheetService TimesheetServiceInterface

	// ミドルウェア依存
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	MaxBodyBytes       int64
	TrustProxy         bool
	Logger             *slog.Logger

	// メトリクス（nilの場合は/metricsとリクエスト計測を無効にする）
	Metrics  middleware.HTTPMetricsRecorder
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → (RealIP) → Logging → SecurityHeaders → CORS → Metrics
//	  └ /api/*: RateLimit → BodyLimit
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	timesheetHandler := NewTimesheetHandler(deps.TimesheetService)

	// --- 運用エンドポイント ---
	r.Get("/health", Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- API ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		r.Use(middleware.NewBodyLimitMiddleware(deps.MaxBodyBytes))

		r.Route("/api/timesheets", func(r chi.Router) {
			r.Get("/", timesheetHandler.List)
			r.Post("/", timesheetHandler.Create)
			r.Delete("/{id}", timesheetHandler.Delete)
		})
	})

	return r
}
