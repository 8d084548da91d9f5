// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/intervue/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentityAndCredit はユーザー、identity、サインアップクレジットを
	// 同一トランザクションで作成する。
	CreateWithIdentityAndCredit(ctx context.Context, user *model.User, identity *model.Identity, credit *model.UserCredit) error

	// UpdateProfile はIdP側で変更されたプロフィール属性（email, name, avatar）を同期する。
	UpdateProfile(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するidentities、user_creditsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はログインセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PackRepository は面接パックカタログの永続化インターフェース。
type PackRepository interface {
	// FindByID は指定IDのパックを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.InterviewPack, error)

	// List は全パックをタイトル昇順で返す。
	List(ctx context.Context) ([]*model.InterviewPack, error)

	// Create はパックを作成する。
	Create(ctx context.Context, pack *model.InterviewPack) error

	// Update はパック情報を更新する。
	Update(ctx context.Context, pack *model.InterviewPack) error
}

// OrderRepository は注文データの永続化インターフェース。
// エンタイトルメント管理のアトミックな生成・消費経路を提供する。
type OrderRepository interface {
	// CreateOrderAndSession は注文と面接セッションを同一トランザクションで作成する。
	// 片方だけが残る部分適用を起こしてはならない。
	CreateOrderAndSession(ctx context.Context, order *model.Order, session *model.InterviewSession) error

	// CreateSessionForEligibleOrder は利用可能な注文（status=PURCHASED かつ
	// attempts_used < attempts_total）を行ロックで確保し、その権利の範囲内で
	// 面接セッションを作成する。未消費のPENDINGセッション数も枠に数えることで
	// 同時実行による権利の売り越しを防ぐ。PENDINGセッション数は全注文の
	// 残回数合計と比較する。
	// 利用可能な注文がない（または枠が埋まっている）場合は (nil, nil) を返し、
	// セッションは作成しない。複数の注文が該当する場合は古い注文を使う。
	CreateSessionForEligibleOrder(ctx context.Context, session *model.InterviewSession) (*model.Order, error)

	// ConsumeAttempt は利用可能な注文のattempts_usedを条件付きでインクリメントする。
	// attempts_used < attempts_total の行にのみ適用されるため、不変条件
	// attempts_used <= attempts_total が破られることはない。
	// 複数の注文が該当する場合は古い注文から消費する。
	// 消費できる注文がない場合は (nil, nil) を返す。
	ConsumeAttempt(ctx context.Context, userID, packID string) (*model.Order, error)

	// ListByUserAndPack はユーザーの指定パックに対する注文一覧を返す。
	ListByUserAndPack(ctx context.Context, userID, packID string) ([]*model.Order, error)

	// BackfillAttemptsTotal は過去の注文にattempts_totalを一括適用する。
	// 既にattempts_usedが新しい上限を超えている注文には attempts_total = attempts_used
	// を設定する（消費済みの受験を遡って取り消さない）。更新行数を返す。
	BackfillAttemptsTotal(ctx context.Context, cap int) (int64, error)
}

// InterviewSessionRepository は面接セッションの永続化インターフェース。
type InterviewSessionRepository interface {
	// Create は面接セッションを作成する。
	Create(ctx context.Context, session *model.InterviewSession) error

	// FindByID は指定IDの面接セッションを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.InterviewSession, error)

	// UpdateStatus は面接セッションの状態を更新する。
	UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error

	// ListByUserID はユーザーの面接セッション一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.InterviewSession, error)
}

// TurnRepository は面接ターンの永続化インターフェース。
type TurnRepository interface {
	// Append はターンをセッション末尾に追記する。
	Append(ctx context.Context, turn *model.Turn) error

	// ListBySession はセッションの全ターンをseq昇順で返す。
	ListBySession(ctx context.Context, sessionID string) ([]*model.Turn, error)

	// CountBySessionAndRole はセッション内の指定ロールのターン数を返す。
	CountBySessionAndRole(ctx context.Context, sessionID string, role model.TurnRole) (int, error)
}

// CreditRepository はボーナスクレジット台帳の永続化インターフェース。
type CreditRepository interface {
	// ListByUserID はユーザーのクレジット一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.UserCredit, error)

	// TotalByUserID はユーザーのクレジット残高合計を返す。
	TotalByUserID(ctx context.Context, userID string) (int, error)
}

// AuditRepository は監査イベントの永続化インターフェース。
type AuditRepository interface {
	// Record は監査イベントを記録する。
	Record(ctx context.Context, event *model.AuditEvent) error
}

// ResumeRepository は履歴書メタデータの永続化インターフェース。
type ResumeRepository interface {
	// Create は履歴書メタデータを作成する。
	Create(ctx context.Context, resume *model.Resume) error

	// FindLatestByUserID はユーザーの最新の履歴書を返す。見つからない場合はnilを返す。
	FindLatestByUserID(ctx context.Context, userID string) (*model.Resume, error)
}
