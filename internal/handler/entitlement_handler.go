package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intervue/internal/middleware"
	"github.com/hitoshi/intervue/internal/model"
)

// EntitlementServiceInterface はエンタイトルメントハンドラーが必要とするサービスインターフェース。
type EntitlementServiceInterface interface {
	// Purchase はパックを購入し、作成された面接セッションIDを返す。
	Purchase(ctx context.Context, userID, packID string) (string, error)
	// StartNewAttempt は利用可能な注文で新しい面接セッションを発行する。
	// 権利がない場合は透過的に購入へフォールバックする。
	StartNewAttempt(ctx context.Context, userID, packID string) (string, error)
	// StartPractice は注文を消費しない練習セッションを発行する。
	StartPractice(ctx context.Context, userID, packID string) (string, error)
}

// OrderListerInterface は注文一覧取得のインターフェース。
type OrderListerInterface interface {
	ListByUserAndPack(ctx context.Context, userID, packID string) ([]*model.Order, error)
}

// EntitlementHandler は購入・受験開始のHTTPハンドラー。
type EntitlementHandler struct {
	service EntitlementServiceInterface
	orders  OrderListerInterface
}

// NewEntitlementHandler はEntitlementHandlerを生成する。
func NewEntitlementHandler(service EntitlementServiceInterface, orders OrderListerInterface) *EntitlementHandler {
	return &EntitlementHandler{
		service: service,
		orders:  orders,
	}
}

// sessionCreatedResponse はセッション発行系APIのレスポンス。
// クライアントはsession_idを使って面接スタート画面へ遷移する。
// 画面遷移はクライアントの責務であり、サーバーは状態遷移のみを行う。
type sessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}

// orderResponse は注文情報のAPIレスポンス。
type orderResponse struct {
	ID                string    `json:"id"`
	PackID            string    `json:"pack_id"`
	Amount            int       `json:"amount"`
	Status            string    `json:"status"`
	AttemptsUsed      int       `json:"attempts_used"`
	AttemptsTotal     int       `json:"attempts_total"`
	RemainingAttempts int       `json:"remaining_attempts"`
	CreatedAt         time.Time `json:"created_at"`
}

// Purchase はパックを購入し、最初の面接セッションを発行する。
// POST /api/packs/:id/purchase
func (h *EntitlementHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	packID := chi.URLParam(r, "id")

	sessionID, err := h.service.Purchase(r.Context(), userID, packID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sessionCreatedResponse{SessionID: sessionID})
}

// StartAttempt は新しい受験セッションを発行する。
// 利用可能な注文がない場合は透過的に購入フローへフォールバックする。
// POST /api/packs/:id/attempts
func (h *EntitlementHandler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	packID := chi.URLParam(r, "id")

	sessionID, err := h.service.StartNewAttempt(r.Context(), userID, packID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sessionCreatedResponse{SessionID: sessionID})
}

// StartPractice は練習セッションを発行する。注文は消費されない。
// POST /api/packs/:id/practice
func (h *EntitlementHandler) StartPractice(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	packID := chi.URLParam(r, "id")

	sessionID, err := h.service.StartPractice(r.Context(), userID, packID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sessionCreatedResponse{SessionID: sessionID})
}

// ListOrders はユーザーの指定パックに対する注文一覧を取得する。
// 受験回数の残りを画面に表示するために使用される。
// GET /api/packs/:id/orders
func (h *EntitlementHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	packID := chi.URLParam(r, "id")

	orders, err := h.orders.ListByUserAndPack(r.Context(), userID, packID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]orderResponse, len(orders))
	for i, o := range orders {
		results[i] = orderResponse{
			ID:                o.ID,
			PackID:            o.PackID,
			Amount:            o.Amount,
			Status:            string(o.Status),
			AttemptsUsed:      o.AttemptsUsed,
			AttemptsTotal:     o.AttemptsTotal,
			RemainingAttempts: o.RemainingAttempts(),
			CreatedAt:         o.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
