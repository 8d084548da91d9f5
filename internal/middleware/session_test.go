package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/intervue/internal/model"
)

type mockSessionFinder struct {
	sessions map[string]*model.Session
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.sessions[id], nil
}

// TestSessionMiddleware_ValidSession は有効なセッションCookieで
// ユーザーIDがコンテキストに注入されることを検証する。
func TestSessionMiddleware_ValidSession(t *testing.T) {
	finder := &mockSessionFinder{sessions: map[string]*model.Session{
		"session-1": {ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	mw := NewSessionMiddleware(finder)

	var gotUserID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	req.AddCookie(&http.Cookie{Name: "intervue_session", Value: "session-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("user ID in context = %q, want user-1", gotUserID)
	}
}

// TestSessionMiddleware_MissingCookie はCookieなしのリクエストが
// 401になることを検証する。
func TestSessionMiddleware_MissingCookie(t *testing.T) {
	mw := NewSessionMiddleware(&mockSessionFinder{sessions: map[string]*model.Session{}})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestSessionMiddleware_UnknownSession は無効なセッションIDが
// 401になることを検証する。
func TestSessionMiddleware_UnknownSession(t *testing.T) {
	mw := NewSessionMiddleware(&mockSessionFinder{sessions: map[string]*model.Session{}})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	req.AddCookie(&http.Cookie{Name: "intervue_session", Value: "expired-session"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestUserIDFromContext はコンテキストからのユーザーID取得を検証する。
func TestUserIDFromContext(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-1")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext returned error: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("user ID = %q, want user-1", userID)
	}

	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("missing user ID should return error")
	}
}
