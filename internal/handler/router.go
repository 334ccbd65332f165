package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/devfromfinland/backend-blog/internal/metrics"
	"github.com/devfromfinland/backend-blog/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 運用系
	HealthChecker HealthChecker
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer

	// ドメインサービス
	BlogService  BlogServiceInterface
	UserService  UserServiceInterface
	LoginService AuthServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	SecurityHeaders → CORS → Logging → Metrics → Recovery
//
// 読み取り系ルートは認証不要。変更系ルート（POST/PUT/DELETE /api/blogs）は
// トークンミドルウェアの内側に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewRecoveryMiddleware())

	blogHandler := NewBlogHandler(deps.BlogService)
	userHandler := NewUserHandler(deps.UserService)
	loginHandler := NewLoginHandler(deps.LoginService)

	// 運用系エンドポイント
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証不要のルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/blogs", func(r chi.Router) {
			r.Get("/", blogHandler.List)
			r.Get("/stats", blogHandler.Stats)
			r.Get("/{id}", blogHandler.Get)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/{username}", userHandler.GetByUsername)
			// POST /api/users - ユーザー登録（登録専用レート制限を追加）
			r.With(deps.RateLimiter.RegistrationMiddleware()).Post("/", userHandler.Register)
		})

		r.Post("/api/login", loginHandler.Login)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Token → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/api/blogs", blogHandler.Create)
		r.Put("/api/blogs/{id}", blogHandler.Update)
		r.Delete("/api/blogs/{id}", blogHandler.Delete)
	})

	// 未知のルートは統一フォーマットの404を返す
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "unknown endpoint")
	})

	return r
}

// newHealthHandler はデータベース接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				middleware.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}
}
