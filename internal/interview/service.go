// Package interview は面接セッションのターン処理パイプラインを提供する。
// 音声の文字起こし、質問生成、セッション状態遷移（PENDING → IN_PROGRESS →
// COMPLETED）を所有する。
package interview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/repository"
)

// Transcriber は音声文字起こしサービスのインターフェース。
// 実体は外部サービスであり、このパッケージからは不透明に扱う。
type Transcriber interface {
	// Transcribe は音声データをテキストに変換する。
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Interviewer は質問生成サービスのインターフェース。
// これまでの会話から次の質問を生成する。doneがtrueの場合は面接終了。
type Interviewer interface {
	NextQuestion(ctx context.Context, pack *model.InterviewPack, turns []*model.Turn) (question string, done bool, err error)
}

// AttemptConsumer は受験回数消費のインターフェース。
// entitlement.Serviceの部分集合として定義する。
type AttemptConsumer interface {
	ConsumeAttempt(ctx context.Context, userID, packID string) (*model.Order, error)
}

// TurnMetrics はターン処理メトリクス収集のインターフェース。
type TurnMetrics interface {
	RecordTurnProcessed(duration time.Duration)
}

// TurnResult は1ターン処理の結果を表す。
type TurnResult struct {
	SessionID    string
	Answer       string // 文字起こしされた回答
	NextQuestion string // 次の質問（面接終了時は空）
	Done         bool
}

// Progress は面接セッションの進捗サマリを表す。
type Progress struct {
	SessionID         string
	Status            model.InterviewStatus
	AnsweredQuestions int
	TotalQuestions    int
	IsPractice        bool
}

// Service はターン処理パイプラインのサービス層。
type Service struct {
	interviewRepo repository.InterviewSessionRepository
	turnRepo      repository.TurnRepository
	packRepo      repository.PackRepository
	transcriber   Transcriber
	interviewer   Interviewer
	consumer      AttemptConsumer
	metrics       TurnMetrics
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	interviewRepo repository.InterviewSessionRepository,
	turnRepo repository.TurnRepository,
	packRepo repository.PackRepository,
	transcriber Transcriber,
	interviewer Interviewer,
	consumer AttemptConsumer,
	metrics TurnMetrics,
) *Service {
	return &Service{
		interviewRepo: interviewRepo,
		turnRepo:      turnRepo,
		packRepo:      packRepo,
		transcriber:   transcriber,
		interviewer:   interviewer,
		consumer:      consumer,
		metrics:       metrics,
	}
}

// ProcessTurn は面接の1ターンを処理する。
// PENDINGセッションの最初のターンで受験回数を消費し、IN_PROGRESSへ遷移させる。
// 受験回数の消費はセッション作成時ではなくこの時点で行われる。
func (s *Service) ProcessTurn(ctx context.Context, userID, sessionID string, audio []byte) (*TurnResult, error) {
	start := time.Now()

	session, err := s.interviewRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("面接セッションの取得に失敗しました: %w", err)
	}
	// 他ユーザーのセッションも未検出として扱う
	if session == nil || session.UserID != userID {
		return nil, model.NewInterviewNotFoundError(sessionID)
	}
	if session.Status == model.InterviewStatusCompleted {
		return nil, model.NewInterviewFinishedError()
	}

	// 最初のターン: 受験回数を消費して面接を開始する
	if session.Status == model.InterviewStatusPending {
		if !session.IsPractice {
			if _, err := s.consumer.ConsumeAttempt(ctx, userID, session.PackID); err != nil {
				return nil, err
			}
		}
		if err := s.interviewRepo.UpdateStatus(ctx, sessionID, model.InterviewStatusInProgress); err != nil {
			return nil, fmt.Errorf("セッション状態の更新に失敗しました: %w", err)
		}
		slog.Info("interview started",
			slog.String("session_id", sessionID),
			slog.String("user_id", userID),
			slog.Bool("is_practice", session.IsPractice),
		)
	}

	pack, err := s.packRepo.FindByID(ctx, session.PackID)
	if err != nil {
		return nil, fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return nil, model.NewPackNotFoundError(session.PackID)
	}

	// 1. 音声を文字起こし
	answer, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("音声の文字起こしに失敗しました: %w", err)
	}

	// 2. 回答ターンを追記
	turns, err := s.turnRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ターン履歴の取得に失敗しました: %w", err)
	}

	answerTurn := &model.Turn{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Seq:       len(turns) + 1,
		Role:      model.TurnRoleCandidate,
		Content:   answer,
		CreatedAt: time.Now(),
	}
	if err := s.turnRepo.Append(ctx, answerTurn); err != nil {
		return nil, fmt.Errorf("回答ターンの保存に失敗しました: %w", err)
	}
	turns = append(turns, answerTurn)

	// 3. 次の質問を生成
	question, done, err := s.interviewer.NextQuestion(ctx, pack, turns)
	if err != nil {
		return nil, fmt.Errorf("質問の生成に失敗しました: %w", err)
	}

	result := &TurnResult{
		SessionID: sessionID,
		Answer:    answer,
		Done:      done,
	}

	if done {
		if err := s.interviewRepo.UpdateStatus(ctx, sessionID, model.InterviewStatusCompleted); err != nil {
			return nil, fmt.Errorf("セッション状態の更新に失敗しました: %w", err)
		}
		slog.Info("interview completed",
			slog.String("session_id", sessionID),
			slog.String("user_id", userID),
		)
	} else {
		questionTurn := &model.Turn{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Seq:       len(turns) + 1,
			Role:      model.TurnRoleInterviewer,
			Content:   question,
			CreatedAt: time.Now(),
		}
		if err := s.turnRepo.Append(ctx, questionTurn); err != nil {
			return nil, fmt.Errorf("質問ターンの保存に失敗しました: %w", err)
		}
		result.NextQuestion = question
	}

	if s.metrics != nil {
		s.metrics.RecordTurnProcessed(time.Since(start))
	}

	return result, nil
}

// GetProgress は面接セッションの進捗サマリを返す。
func (s *Service) GetProgress(ctx context.Context, userID, sessionID string) (*Progress, error) {
	session, err := s.interviewRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("面接セッションの取得に失敗しました: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, model.NewInterviewNotFoundError(sessionID)
	}

	pack, err := s.packRepo.FindByID(ctx, session.PackID)
	if err != nil {
		return nil, fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return nil, model.NewPackNotFoundError(session.PackID)
	}

	answered, err := s.turnRepo.CountBySessionAndRole(ctx, sessionID, model.TurnRoleCandidate)
	if err != nil {
		return nil, fmt.Errorf("回答数の取得に失敗しました: %w", err)
	}

	return &Progress{
		SessionID:         sessionID,
		Status:            session.Status,
		AnsweredQuestions: answered,
		TotalQuestions:    QuestionBudget(pack),
		IsPractice:        session.IsPractice,
	}, nil
}

// QuestionBudget はパックの面接時間から質問数の目安を算出する。
// 1問あたり5分換算、最低3問。
func QuestionBudget(pack *model.InterviewPack) int {
	budget := pack.DurationMinutes / 5
	if budget < 3 {
		budget = 3
	}
	return budget
}
