package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/intervue/internal/middleware"
	"github.com/hitoshi/intervue/internal/model"
)

// CreditRepositoryInterface はクレジットハンドラーが必要とするインターフェース。
type CreditRepositoryInterface interface {
	ListByUserID(ctx context.Context, userID string) ([]*model.UserCredit, error)
	TotalByUserID(ctx context.Context, userID string) (int, error)
}

// CreditHandler はボーナスクレジット台帳のHTTPハンドラー。
type CreditHandler struct {
	credits CreditRepositoryInterface
}

// NewCreditHandler はCreditHandlerを生成する。
func NewCreditHandler(credits CreditRepositoryInterface) *CreditHandler {
	return &CreditHandler{
		credits: credits,
	}
}

// creditEntryResponse はクレジット明細のAPIレスポンス。
type creditEntryResponse struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// creditsResponse はクレジット残高と明細のAPIレスポンス。
type creditsResponse struct {
	Total   int                   `json:"total"`
	Entries []creditEntryResponse `json:"entries"`
}

// ListCredits はユーザーのクレジット残高と明細を取得する。
// GET /api/credits
func (h *CreditHandler) ListCredits(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	entries, err := h.credits.ListByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	total, err := h.credits.TotalByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := creditsResponse{
		Total:   total,
		Entries: make([]creditEntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = creditEntryResponse{
			ID:        e.ID,
			Amount:    e.Amount,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
