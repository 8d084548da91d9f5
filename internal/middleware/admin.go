package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/intervue/internal/model"
)

// UserFinder はユーザーの検索に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// AdminChecker は管理者判定を行う。
// 許可リストは起動時に注入される（リクエスト処理中に環境変数を読まない）。
type AdminChecker struct {
	allowedEmails map[string]bool
}

// NewAdminChecker は許可された管理者メールアドレスのリストからAdminCheckerを生成する。
// メールアドレスの比較は大文字小文字を区別しない。
func NewAdminChecker(allowedEmails []string) *AdminChecker {
	m := make(map[string]bool, len(allowedEmails))
	for _, email := range allowedEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			m[email] = true
		}
	}
	return &AdminChecker{allowedEmails: m}
}

// IsAdmin はメールアドレスが管理者許可リストに含まれるかを返す。
func (ac *AdminChecker) IsAdmin(email string) bool {
	return ac.allowedEmails[strings.ToLower(email)]
}

// NewAdminMiddleware は管理者のみにアクセスを許可するミドルウェアを返す。
// SessionMiddlewareの後に配置する必要がある。
// 認証済みユーザーのメールアドレスを許可リストと照合し、
// 管理者以外には403 Forbiddenを返す。
func NewAdminMiddleware(checker *AdminChecker, userFinder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			user, err := userFinder.FindByID(r.Context(), userID)
			if err != nil {
				slog.Error("failed to find user for admin check",
					slog.String("user_id", userID),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil || !checker.IsAdmin(user.Email) {
				slog.Warn("admin access denied",
					slog.String("user_id", userID),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
