package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intervue/internal/middleware"
	"github.com/hitoshi/intervue/internal/model"
)

// --- モック ---

type mockEntitlementService struct {
	purchaseFn      func(ctx context.Context, userID, packID string) (string, error)
	startAttemptFn  func(ctx context.Context, userID, packID string) (string, error)
	startPracticeFn func(ctx context.Context, userID, packID string) (string, error)
}

func (m *mockEntitlementService) Purchase(ctx context.Context, userID, packID string) (string, error) {
	return m.purchaseFn(ctx, userID, packID)
}
func (m *mockEntitlementService) StartNewAttempt(ctx context.Context, userID, packID string) (string, error) {
	return m.startAttemptFn(ctx, userID, packID)
}
func (m *mockEntitlementService) StartPractice(ctx context.Context, userID, packID string) (string, error) {
	return m.startPracticeFn(ctx, userID, packID)
}

type mockOrderLister struct {
	orders []*model.Order
}

func (m *mockOrderLister) ListByUserAndPack(ctx context.Context, userID, packID string) ([]*model.Order, error) {
	return m.orders, nil
}

// newEntitlementRequest はパスパラメータとユーザーIDを設定したリクエストを生成する。
func newEntitlementRequest(method, path, packID, userID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", packID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	if userID != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	return req
}

// --- テスト ---

// TestEntitlementHandler_Purchase は購入成功時に201とセッションIDが
// 返ることを検証する。
func TestEntitlementHandler_Purchase(t *testing.T) {
	var gotUserID, gotPackID string
	service := &mockEntitlementService{
		purchaseFn: func(ctx context.Context, userID, packID string) (string, error) {
			gotUserID, gotPackID = userID, packID
			return "session-1", nil
		},
	}
	h := NewEntitlementHandler(service, &mockOrderLister{})

	req := newEntitlementRequest(http.MethodPost, "/api/packs/pack-1/purchase", "pack-1", "user-1")
	rec := httptest.NewRecorder()

	h.Purchase(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if gotUserID != "user-1" || gotPackID != "pack-1" {
		t.Errorf("service called with user=%q pack=%q", gotUserID, gotPackID)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["session_id"] != "session-1" {
		t.Errorf("session_id = %q, want session-1", body["session_id"])
	}
}

// TestEntitlementHandler_Purchase_Unauthenticated はセッションなしの
// リクエストが401になることを検証する。
func TestEntitlementHandler_Purchase_Unauthenticated(t *testing.T) {
	h := NewEntitlementHandler(&mockEntitlementService{}, &mockOrderLister{})

	req := newEntitlementRequest(http.MethodPost, "/api/packs/pack-1/purchase", "pack-1", "")
	rec := httptest.NewRecorder()

	h.Purchase(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestEntitlementHandler_StartAttempt_Exhausted は受験回数超過が
// 409 Conflictにマッピングされることを検証する。
func TestEntitlementHandler_StartAttempt_Exhausted(t *testing.T) {
	service := &mockEntitlementService{
		startAttemptFn: func(ctx context.Context, userID, packID string) (string, error) {
			return "", model.NewAttemptsExhaustedError()
		},
	}
	h := NewEntitlementHandler(service, &mockOrderLister{})

	req := newEntitlementRequest(http.MethodPost, "/api/packs/pack-1/attempts", "pack-1", "user-1")
	rec := httptest.NewRecorder()

	h.StartAttempt(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["code"] != model.ErrCodeAttemptsExhausted {
		t.Errorf("error code = %q, want %q", body["code"], model.ErrCodeAttemptsExhausted)
	}
	if body["action"] == "" {
		t.Error("error response should include an action")
	}
}

// TestEntitlementHandler_StartPractice は練習セッション発行を検証する。
func TestEntitlementHandler_StartPractice(t *testing.T) {
	service := &mockEntitlementService{
		startPracticeFn: func(ctx context.Context, userID, packID string) (string, error) {
			return "practice-session-1", nil
		},
	}
	h := NewEntitlementHandler(service, &mockOrderLister{})

	req := newEntitlementRequest(http.MethodPost, "/api/packs/pack-1/practice", "pack-1", "user-1")
	rec := httptest.NewRecorder()

	h.StartPractice(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["session_id"] != "practice-session-1" {
		t.Errorf("session_id = %q", body["session_id"])
	}
}

// TestEntitlementHandler_ListOrders は注文一覧に残り受験回数が
// 含まれることを検証する。
func TestEntitlementHandler_ListOrders(t *testing.T) {
	lister := &mockOrderLister{orders: []*model.Order{
		{
			ID:            "order-1",
			PackID:        "pack-1",
			Amount:        3000,
			Status:        model.OrderStatusPurchased,
			AttemptsUsed:  1,
			AttemptsTotal: 2,
			CreatedAt:     time.Now(),
		},
	}}
	h := NewEntitlementHandler(&mockEntitlementService{}, lister)

	req := newEntitlementRequest(http.MethodGet, "/api/packs/pack-1/orders", "pack-1", "user-1")
	rec := httptest.NewRecorder()

	h.ListOrders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("orders = %d, want 1", len(body))
	}
	if body[0]["remaining_attempts"].(float64) != 1 {
		t.Errorf("remaining_attempts = %v, want 1", body[0]["remaining_attempts"])
	}
	if body[0]["status"] != "PURCHASED" {
		t.Errorf("status = %v, want PURCHASED", body[0]["status"])
	}
}
