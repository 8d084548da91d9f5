package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intervue/internal/interview"
	"github.com/hitoshi/intervue/internal/middleware"
	"github.com/hitoshi/intervue/internal/model"
)

// maxAudioBytes は1ターンの音声データの最大サイズ（10MB）。
const maxAudioBytes = 10 * 1024 * 1024

// InterviewServiceInterface は面接ハンドラーが必要とするサービスインターフェース。
type InterviewServiceInterface interface {
	ProcessTurn(ctx context.Context, userID, sessionID string, audio []byte) (*interview.TurnResult, error)
	GetProgress(ctx context.Context, userID, sessionID string) (*interview.Progress, error)
}

// SessionListerInterface は面接セッション一覧取得のインターフェース。
type SessionListerInterface interface {
	ListByUserID(ctx context.Context, userID string) ([]*model.InterviewSession, error)
}

// InterviewHandler は面接セッションのHTTPハンドラー。
type InterviewHandler struct {
	service  InterviewServiceInterface
	sessions SessionListerInterface
}

// NewInterviewHandler はInterviewHandlerを生成する。
func NewInterviewHandler(service InterviewServiceInterface, sessions SessionListerInterface) *InterviewHandler {
	return &InterviewHandler{
		service:  service,
		sessions: sessions,
	}
}

// turnResponse は1ターン処理のAPIレスポンス。
type turnResponse struct {
	SessionID    string `json:"session_id"`
	Answer       string `json:"answer"`
	NextQuestion string `json:"next_question,omitempty"`
	Done         bool   `json:"done"`
}

// progressResponse は面接進捗のAPIレスポンス。
type progressResponse struct {
	SessionID         string `json:"session_id"`
	Status            string `json:"status"`
	AnsweredQuestions int    `json:"answered_questions"`
	TotalQuestions    int    `json:"total_questions"`
	IsPractice        bool   `json:"is_practice"`
}

// interviewSessionResponse は面接セッション情報のAPIレスポンス。
type interviewSessionResponse struct {
	ID         string    `json:"id"`
	PackID     string    `json:"pack_id"`
	Status     string    `json:"status"`
	IsPractice bool      `json:"is_practice"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProcessTurn は面接の1ターンを処理する。
// リクエストボディは音声データ（audio/*）のバイナリ。
// POST /api/interviews/:id/turns
func (h *InterviewHandler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	sessionID := chi.URLParam(r, "id")

	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes+1))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("音声データの読み取りに失敗しました"))
		return
	}
	if len(audio) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("音声データが空です"))
		return
	}
	if len(audio) > maxAudioBytes {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("音声データが大きすぎます"))
		return
	}

	result, err := h.service.ProcessTurn(r.Context(), userID, sessionID, audio)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(turnResponse{
		SessionID:    result.SessionID,
		Answer:       result.Answer,
		NextQuestion: result.NextQuestion,
		Done:         result.Done,
	})
}

// GetProgress は面接セッションの進捗を取得する。
// GET /api/interviews/:id/progress
func (h *InterviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	sessionID := chi.URLParam(r, "id")

	progress, err := h.service.GetProgress(r.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progressResponse{
		SessionID:         progress.SessionID,
		Status:            string(progress.Status),
		AnsweredQuestions: progress.AnsweredQuestions,
		TotalQuestions:    progress.TotalQuestions,
		IsPractice:        progress.IsPractice,
	})
}

// ListSessions はユーザーの面接セッション一覧を取得する。
// GET /api/interviews
func (h *InterviewHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	sessions, err := h.sessions.ListByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]interviewSessionResponse, len(sessions))
	for i, s := range sessions {
		results[i] = interviewSessionResponse{
			ID:         s.ID,
			PackID:     s.PackID,
			Status:     string(s.Status),
			IsPractice: s.IsPractice,
			CreatedAt:  s.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
