// Package entitlement は面接パックの購入・受験権利管理のドメインロジックを提供する。
// 注文の作成、受験回数の上限管理、面接セッションの発行を所有する。
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/repository"
)

// AttemptsPerOrder は1注文あたりの受験回数上限。
// パックやユーザーごとに変えられない全体ポリシー。
const AttemptsPerOrder = 2

// AuditRecorder は監査イベント記録のインターフェース。
// 記録の失敗は業務処理の成否に影響させない。
type AuditRecorder interface {
	Record(ctx context.Context, event *model.AuditEvent) error
}

// MetricsCollector はエンタイトルメント関連メトリクス収集のインターフェース。
type MetricsCollector interface {
	RecordPurchase(amount int)
	RecordSessionCreated(isPractice bool)
	RecordAttemptConsumed()
	RecordAttemptsExhausted()
}

// Service はエンタイトルメント管理のサービス層。
// 購入・受験開始・受験回数消費のビジネスロジックを提供する。
type Service struct {
	userRepo      repository.UserRepository
	packRepo      repository.PackRepository
	orderRepo     repository.OrderRepository
	interviewRepo repository.InterviewSessionRepository
	audit         AuditRecorder
	metrics       MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	packRepo repository.PackRepository,
	orderRepo repository.OrderRepository,
	interviewRepo repository.InterviewSessionRepository,
	audit AuditRecorder,
	metrics MetricsCollector,
) *Service {
	return &Service{
		userRepo:      userRepo,
		packRepo:      packRepo,
		orderRepo:     orderRepo,
		interviewRepo: interviewRepo,
		audit:         audit,
		metrics:       metrics,
	}
}

// Purchase はパックを購入し、最初の面接セッションを発行する。
// 注文とセッションは同一トランザクションで作成され、片方だけが残ることはない。
// 戻り値は作成された面接セッションのID。スタート画面への遷移は呼び出し側の責務。
func (s *Service) Purchase(ctx context.Context, userID, packID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", model.NewUnauthorizedError()
	}

	pack, err := s.packRepo.FindByID(ctx, packID)
	if err != nil {
		return "", fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return "", model.NewPackNotFoundError(packID)
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		PackID:        packID,
		Amount:        pack.Price,
		Status:        model.OrderStatusPurchased,
		AttemptsUsed:  0,
		AttemptsTotal: AttemptsPerOrder,
		CreatedAt:     now,
	}
	session := &model.InterviewSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		PackID:     packID,
		Status:     model.InterviewStatusPending,
		IsPractice: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orderRepo.CreateOrderAndSession(ctx, order, session); err != nil {
		return "", fmt.Errorf("注文とセッションの作成に失敗しました: %w", err)
	}

	slog.Info("pack purchased",
		slog.String("user_id", userID),
		slog.String("pack_id", packID),
		slog.String("order_id", order.ID),
		slog.Int("amount", order.Amount),
	)

	s.recordAudit(ctx, userID, model.AuditActionPackPurchased, map[string]string{
		"pack_id":    packID,
		"pack_title": pack.Title,
		"order_id":   order.ID,
		"amount":     strconv.Itoa(order.Amount),
	})

	if s.metrics != nil {
		s.metrics.RecordPurchase(order.Amount)
		s.metrics.RecordSessionCreated(false)
	}

	return session.ID, nil
}

// StartNewAttempt は利用可能な注文があれば新しい面接セッションを発行する。
// 利用可能な注文がない場合（未購入、または受験回数を使い切った場合）は
// 透過的にPurchaseへフォールバックする。再購入をブロックしないのは
// 意図したポリシー。
func (s *Service) StartNewAttempt(ctx context.Context, userID, packID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", model.NewUnauthorizedError()
	}

	now := time.Now()
	session := &model.InterviewSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		PackID:     packID,
		Status:     model.InterviewStatusPending,
		IsPractice: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// 利用可能な注文の確保とセッション作成は行ロック付きの単一トランザクションで
	// 行われるため、残り1回の枠に対する同時リクエストが両方成功することはない。
	order, err := s.orderRepo.CreateSessionForEligibleOrder(ctx, session)
	if err != nil {
		return "", fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	if order == nil {
		// 利用可能な注文なし: 新規購入フローへ
		return s.Purchase(ctx, userID, packID)
	}

	slog.Info("new attempt started",
		slog.String("user_id", userID),
		slog.String("pack_id", packID),
		slog.String("order_id", order.ID),
		slog.String("session_id", session.ID),
	)

	s.recordAudit(ctx, userID, model.AuditActionAttemptStarted, map[string]string{
		"pack_id":    packID,
		"order_id":   order.ID,
		"session_id": session.ID,
	})

	if s.metrics != nil {
		s.metrics.RecordSessionCreated(false)
	}

	return session.ID, nil
}

// StartPractice は注文を消費しない練習用セッションを発行する。
func (s *Service) StartPractice(ctx context.Context, userID, packID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", model.NewUnauthorizedError()
	}

	pack, err := s.packRepo.FindByID(ctx, packID)
	if err != nil {
		return "", fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return "", model.NewPackNotFoundError(packID)
	}

	now := time.Now()
	session := &model.InterviewSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		PackID:     packID,
		Status:     model.InterviewStatusPending,
		IsPractice: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.interviewRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("練習セッションの作成に失敗しました: %w", err)
	}

	s.recordAudit(ctx, userID, model.AuditActionPracticeStarted, map[string]string{
		"pack_id":    packID,
		"session_id": session.ID,
	})

	if s.metrics != nil {
		s.metrics.RecordSessionCreated(true)
	}

	return session.ID, nil
}

// ConsumeAttempt は受験回数を1消費する。
// セッション作成時ではなく、受験が実際に開始された時点で呼ばれる。
// attempts_used < attempts_total の注文にのみ適用されるため、
// 不変条件が破られることはない。消費できる注文がない場合は
// ATTEMPTS_EXHAUSTEDを返す。
func (s *Service) ConsumeAttempt(ctx context.Context, userID, packID string) (*model.Order, error) {
	order, err := s.orderRepo.ConsumeAttempt(ctx, userID, packID)
	if err != nil {
		return nil, fmt.Errorf("受験回数の消費に失敗しました: %w", err)
	}
	if order == nil {
		if s.metrics != nil {
			s.metrics.RecordAttemptsExhausted()
		}
		return nil, model.NewAttemptsExhaustedError()
	}

	slog.Info("attempt consumed",
		slog.String("user_id", userID),
		slog.String("pack_id", packID),
		slog.String("order_id", order.ID),
		slog.Int("attempts_used", order.AttemptsUsed),
		slog.Int("attempts_total", order.AttemptsTotal),
	)

	s.recordAudit(ctx, userID, model.AuditActionAttemptConsumed, map[string]string{
		"pack_id":  packID,
		"order_id": order.ID,
	})

	if s.metrics != nil {
		s.metrics.RecordAttemptConsumed()
	}

	return order, nil
}

// BackfillAttemptLimits は過去の注文に受験回数上限を一括適用する。
// attempts_usedが上限を超えている注文には attempts_total = attempts_used を
// 設定する（消費済みの受験を遡って取り消さない）。更新行数を返す。
func (s *Service) BackfillAttemptLimits(ctx context.Context) (int64, error) {
	updated, err := s.orderRepo.BackfillAttemptsTotal(ctx, AttemptsPerOrder)
	if err != nil {
		return 0, fmt.Errorf("受験回数上限の一括適用に失敗しました: %w", err)
	}

	slog.Info("attempt limits backfilled",
		slog.Int64("orders_updated", updated),
		slog.Int("attempts_total", AttemptsPerOrder),
	)

	return updated, nil
}

// recordAudit は監査イベントをベストエフォートで記録する。
// 記録の失敗はログに残すのみで、呼び出し元へは伝播させない。
func (s *Service) recordAudit(ctx context.Context, userID, action string, metadata map[string]string) {
	if s.audit == nil {
		return
	}

	event := &model.AuditEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	if err := s.audit.Record(ctx, event); err != nil {
		slog.Error("failed to record audit event",
			slog.String("user_id", userID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
