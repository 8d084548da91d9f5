package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCSRFMiddleware_SafeMethodSkipsValidation はGETリクエストが
// トークンなしで通過し、Cookieが設定されることを検証する。
func TestCSRFMiddleware_SafeMethodSkipsValidation(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("csrf_token cookie should be set on safe methods")
	}
}

// TestCSRFMiddleware_ValidToken はCookieとヘッダーのトークンが一致する
// POSTリクエストが通過することを検証する。
func TestCSRFMiddleware_ValidToken(t *testing.T) {
	mw := NewCSRFMiddleware(CSRFConfig{})
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/packs/pack-1/purchase", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "token-abc"})
	req.Header.Set("X-CSRF-Token", "token-abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("request with valid token should reach handler")
	}
}

// TestCSRFMiddleware_RejectsInvalidToken はトークンの欠落・不一致が
// 403になることを検証する。
func TestCSRFMiddleware_RejectsInvalidToken(t *testing.T) {
	tests := []struct {
		name        string
		cookieValue string
		headerValue string
	}{
		{"Cookieなし", "", "token-abc"},
		{"ヘッダーなし", "token-abc", ""},
		{"不一致", "token-abc", "token-xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewCSRFMiddleware(CSRFConfig{})
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("request should not reach handler")
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/packs/pack-1/purchase", nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: "csrf_token", Value: tt.cookieValue})
			}
			if tt.headerValue != "" {
				req.Header.Set("X-CSRF-Token", tt.headerValue)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}

// TestCSRFTokenHandler はトークン取得エンドポイントを検証する。
func TestCSRFTokenHandler(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["token"] == "" {
		t.Error("response should contain a token")
	}

	// 既存トークンがある場合はそれを返す
	req2 := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req2.AddCookie(&http.Cookie{Name: "csrf_token", Value: "existing-token"})
	rec2 := httptest.NewRecorder()

	handler.ServeHTTP(rec2, req2)

	var body2 map[string]string
	if err := json.NewDecoder(rec2.Body).Decode(&body2); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body2["token"] != "existing-token" {
		t.Errorf("token = %q, want existing-token", body2["token"])
	}
}
