package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/intervue/internal/model"
)

type mockUserFinder struct {
	users map[string]*model.User
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

// TestAdminChecker_IsAdmin は許可リスト照合を検証する。
// 比較は大文字小文字を区別せず、空白は無視される。
func TestAdminChecker_IsAdmin(t *testing.T) {
	checker := NewAdminChecker([]string{"admin@example.com", " Boss@Example.com ", ""})

	tests := []struct {
		email string
		want  bool
	}{
		{"admin@example.com", true},
		{"ADMIN@EXAMPLE.COM", true},
		{"boss@example.com", true},
		{"user@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := checker.IsAdmin(tt.email); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

// TestAdminMiddleware_AllowsAdmin は管理者のリクエストが通過することを検証する。
func TestAdminMiddleware_AllowsAdmin(t *testing.T) {
	checker := NewAdminChecker([]string{"admin@example.com"})
	finder := &mockUserFinder{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: "admin@example.com"},
	}}
	mw := NewAdminMiddleware(checker, finder)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/packs", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("admin request should reach handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestAdminMiddleware_RejectsNonAdmin は一般ユーザーのリクエストが
// 403になることを検証する。
func TestAdminMiddleware_RejectsNonAdmin(t *testing.T) {
	checker := NewAdminChecker([]string{"admin@example.com"})
	finder := &mockUserFinder{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: "user@example.com"},
	}}
	mw := NewAdminMiddleware(checker, finder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("non-admin request should not reach handler")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/packs", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// TestAdminMiddleware_RequiresSession はセッションなしのリクエストが
// 401になることを検証する。
func TestAdminMiddleware_RequiresSession(t *testing.T) {
	mw := NewAdminMiddleware(NewAdminChecker(nil), &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unauthenticated request should not reach handler")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/packs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
