package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intervue/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	AdminChecker      *middleware.AdminChecker
	UserFinder        middleware.UserFinder
	StatusRecorder    middleware.StatusRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// パックカタログ・JDインポート
	PackService PackServiceInterface
	JDImporter  JDImporterInterface

	// エンタイトルメント
	EntitlementService EntitlementServiceInterface
	OrderLister        OrderListerInterface

	// 面接
	InterviewService InterviewServiceInterface
	SessionLister    SessionListerInterface

	// 履歴書
	ResumeService ResumeServiceInterface

	// クレジット
	CreditRepository CreditRepositoryInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → SecurityHeaders → Logging → CSRF →
//	SessionMiddleware → RateLimit(General) → [Admin]
//
// 認証ルート（/auth/*）とヘルスチェックはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.StatusRecorder))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	packHandler := NewPackHandler(deps.PackService, deps.JDImporter)
	entHandler := NewEntitlementHandler(deps.EntitlementService, deps.OrderLister)
	interviewHandler := NewInterviewHandler(deps.InterviewService, deps.SessionLister)
	resumeHandler := NewResumeHandler(deps.ResumeService)
	creditHandler := NewCreditHandler(deps.CreditRepository)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// パックカタログ
		r.Route("/api/packs", func(r chi.Router) {
			r.Get("/", packHandler.ListPacks)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", packHandler.GetPack)

				// 購入・受験開始（購入専用レート制限を追加）
				r.With(deps.RateLimiter.PurchaseMiddleware()).Post("/purchase", entHandler.Purchase)
				r.With(deps.RateLimiter.PurchaseMiddleware()).Post("/attempts", entHandler.StartAttempt)
				r.Post("/practice", entHandler.StartPractice)

				// 注文一覧（受験回数の残り表示用）
				r.Get("/orders", entHandler.ListOrders)
			})
		})

		// 面接セッション
		r.Route("/api/interviews", func(r chi.Router) {
			r.Get("/", interviewHandler.ListSessions)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/turns", interviewHandler.ProcessTurn)
				r.Get("/progress", interviewHandler.GetProgress)
			})
		})

		// 履歴書
		r.Route("/api/resumes", func(r chi.Router) {
			r.Post("/", resumeHandler.Upload)
			r.Get("/latest", resumeHandler.GetLatest)
		})

		// クレジット
		r.Get("/api/credits", creditHandler.ListCredits)

		// --- 管理者ルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware(deps.AdminChecker, deps.UserFinder))

			r.Route("/api/admin", func(r chi.Router) {
				r.Post("/packs", packHandler.CreatePack)
				r.Put("/packs/{id}", packHandler.UpdatePack)
				r.Post("/jd/import", packHandler.ImportJD)
			})
		})
	})

	return r
}
