package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/middleware"
	"github.com/hitoshi/campman/internal/model"
	"github.com/hitoshi/campman/internal/repository"
)

// idPattern はリソースIDのルートパターン。数字以外は404になる。
const idPattern = "/{id:[0-9]+}"

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           metrics.MetricsCollector
	MetricsGatherer   prometheus.Gatherer

	// ヘルスチェック
	HealthChecker repository.HealthChecker

	// リソース
	CamperService   CamperServiceInterface
	ActivityService ActivityServiceInterface
	SignupService   SignupServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Instrument → Recovery → SecurityHeaders → CORS
//	→ RateLimit(General) → RateLimit(Write)
//
// /、/health、/metrics はレート制限の外に配置する。
// レート制限のキーはRemoteAddrで、X-Forwarded-For等の転送ヘッダは参照しない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(metrics.Instrument(collector))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	healthHandler := NewHealthHandler(deps.HealthChecker)
	camperHandler := NewCamperHandler(deps.CamperService)
	activityHandler := NewActivityHandler(deps.ActivityService)
	signupHandler := NewSignupHandler(deps.SignupService)

	// --- レート制限対象外のルート ---
	r.Get("/", healthHandler.Home)
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Use(deps.RateLimiter.WriteMiddleware())
		}

		// 参加者
		r.Route("/campers", func(r chi.Router) {
			r.Get("/", camperHandler.ListCampers)
			r.Post("/", camperHandler.CreateCamper)
			r.Get(idPattern, camperHandler.GetCamper)
			r.Patch(idPattern, camperHandler.UpdateCamper)
		})

		// アクティビティ（削除はアクティビティのみ提供する）
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", activityHandler.ListActivities)
			r.Post("/", activityHandler.CreateActivity)
			r.Get(idPattern, activityHandler.GetActivity)
			r.Patch(idPattern, activityHandler.UpdateActivity)
			r.Delete(idPattern, activityHandler.DeleteActivity)
		})

		// 申込
		r.Route("/signups", func(r chi.Router) {
			r.Get("/", signupHandler.ListSignups)
			r.Post("/", signupHandler.CreateSignup)
			r.Get(idPattern, signupHandler.GetSignup)
			r.Patch(idPattern, signupHandler.UpdateSignup)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:    model.ErrCodeRouteNotFound,
			Message: "route not found",
			Errors:  []string{r.Method + " " + r.URL.Path + " is not routed"},
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, &model.APIError{
			Code:    model.ErrCodeMethodNotAllowed,
			Message: "method not allowed",
			Errors:  []string{r.Method + " is not allowed on " + r.URL.Path},
		})
	})

	return r
}
