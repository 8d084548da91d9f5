package auth

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/intervue/internal/model"
)

// --- モック ---

type mockOAuthProvider struct {
	userInfo *OAuthUserInfo
	err      error
}

func (m *mockOAuthProvider) GetLoginURL(state string) string { return "https://example.com/auth?state=" + state }
func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	return m.userInfo, m.err
}

type mockUserRepo struct {
	users          map[string]*model.User
	createdUser    *model.User
	createdIdent   *model.Identity
	createdCredit  *model.UserCredit
	updatedProfile *model.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}
func (m *mockUserRepo) CreateWithIdentityAndCredit(ctx context.Context, user *model.User, identity *model.Identity, credit *model.UserCredit) error {
	m.createdUser = user
	m.createdIdent = identity
	m.createdCredit = credit
	return nil
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	m.updatedProfile = user
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error { return nil }

type mockIdentityRepo struct {
	identity *model.Identity
}

func (m *mockIdentityRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error) {
	return m.identity, nil
}

type mockSessionRepo struct {
	sessions map[string]*model.Session
	deleted  []string
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.sessions == nil {
		m.sessions = map[string]*model.Session{}
	}
	m.sessions[session.ID] = session
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.sessions[id], nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error { return nil }

// --- テストヘルパー ---

func testUserInfo() *OAuthUserInfo {
	return &OAuthUserInfo{
		ProviderUserID: "google-123",
		Email:          "taro@example.com",
		Name:           "山田太郎",
		AvatarURL:      "https://example.com/avatar.png",
		Provider:       "google",
	}
}

// --- テスト ---

// TestService_HandleCallback_NewUser は未登録ユーザーのコールバックで
// users、identities、サインアップクレジットが作成されることを検証する。
func TestService_HandleCallback_NewUser(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*model.User{}}
	sessionRepo := &mockSessionRepo{}
	svc := NewService(
		&mockOAuthProvider{userInfo: testUserInfo()},
		userRepo,
		&mockIdentityRepo{identity: nil},
		sessionRepo,
		ServiceConfig{SessionMaxAge: 86400},
	)

	session, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}

	if userRepo.createdUser == nil {
		t.Fatal("user should be created")
	}
	if userRepo.createdUser.Email != "taro@example.com" {
		t.Errorf("user email = %q", userRepo.createdUser.Email)
	}
	if userRepo.createdIdent == nil {
		t.Fatal("identity should be created")
	}
	if userRepo.createdIdent.Provider != "google" || userRepo.createdIdent.ProviderUserID != "google-123" {
		t.Errorf("identity = %+v", userRepo.createdIdent)
	}
	if userRepo.createdCredit == nil {
		t.Fatal("signup credit should be created")
	}
	if userRepo.createdCredit.Amount != SignupCreditAmount {
		t.Errorf("signup credit amount = %d, want %d", userRepo.createdCredit.Amount, SignupCreditAmount)
	}
	if userRepo.createdCredit.Reason != "signup_bonus" {
		t.Errorf("signup credit reason = %q", userRepo.createdCredit.Reason)
	}

	if session == nil || session.ID == "" {
		t.Fatal("session should be issued")
	}
	if session.UserID != userRepo.createdUser.ID {
		t.Errorf("session user ID = %q, want %q", session.UserID, userRepo.createdUser.ID)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session should expire in the future")
	}
}

// TestService_HandleCallback_ExistingUserSyncsProfile は登録済みユーザーの
// コールバックで変更された属性が同期されることを検証する。
func TestService_HandleCallback_ExistingUserSyncsProfile(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: "old@example.com", Name: "山田太郎", AvatarURL: "https://example.com/old.png"},
	}}
	svc := NewService(
		&mockOAuthProvider{userInfo: testUserInfo()},
		userRepo,
		&mockIdentityRepo{identity: &model.Identity{UserID: "user-1", Provider: "google", ProviderUserID: "google-123"}},
		&mockSessionRepo{},
		ServiceConfig{SessionMaxAge: 86400},
	)

	session, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}

	if userRepo.createdUser != nil {
		t.Error("existing user should not be re-created")
	}
	if userRepo.updatedProfile == nil {
		t.Fatal("changed profile should be synced")
	}
	if userRepo.updatedProfile.Email != "taro@example.com" {
		t.Errorf("synced email = %q", userRepo.updatedProfile.Email)
	}
	if session.UserID != "user-1" {
		t.Errorf("session user ID = %q, want user-1", session.UserID)
	}
}

// TestService_HandleCallback_UnchangedProfileSkipsSync は属性に変更がない場合
// 書き込みが行われないことを検証する。
func TestService_HandleCallback_UnchangedProfileSkipsSync(t *testing.T) {
	info := testUserInfo()
	userRepo := &mockUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: info.Email, Name: info.Name, AvatarURL: info.AvatarURL},
	}}
	svc := NewService(
		&mockOAuthProvider{userInfo: info},
		userRepo,
		&mockIdentityRepo{identity: &model.Identity{UserID: "user-1", Provider: "google", ProviderUserID: "google-123"}},
		&mockSessionRepo{},
		ServiceConfig{SessionMaxAge: 86400},
	)

	if _, err := svc.HandleCallback(context.Background(), "auth-code"); err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}
	if userRepo.updatedProfile != nil {
		t.Error("unchanged profile should not be written")
	}
}

// TestService_Logout はセッションが破棄されることを検証する。
func TestService_Logout(t *testing.T) {
	sessionRepo := &mockSessionRepo{}
	svc := NewService(nil, &mockUserRepo{}, &mockIdentityRepo{}, sessionRepo, ServiceConfig{})

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(sessionRepo.deleted) != 1 || sessionRepo.deleted[0] != "session-1" {
		t.Errorf("deleted sessions = %v", sessionRepo.deleted)
	}

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("empty session ID should be rejected")
	}
}

// TestService_GetCurrentUser はセッションからユーザーを解決できることを検証する。
func TestService_GetCurrentUser(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: "taro@example.com"},
	}}
	sessionRepo := &mockSessionRepo{sessions: map[string]*model.Session{
		"session-1": {ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := NewService(nil, userRepo, &mockIdentityRepo{}, sessionRepo, ServiceConfig{})

	user, err := svc.GetCurrentUser(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user ID = %q, want user-1", user.ID)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "no-such-session"); err == nil {
		t.Error("unknown session should return error")
	}
}
