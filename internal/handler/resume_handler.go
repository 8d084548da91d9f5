package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/intervue/internal/middleware"
	"github.com/hitoshi/intervue/internal/model"
)

// ResumeServiceInterface は履歴書ハンドラーが必要とするサービスインターフェース。
type ResumeServiceInterface interface {
	Upload(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*model.Resume, error)
	GetLatest(ctx context.Context, userID string) (*model.Resume, error)
}

// ResumeHandler は履歴書管理のHTTPハンドラー。
type ResumeHandler struct {
	service ResumeServiceInterface
}

// NewResumeHandler はResumeHandlerを生成する。
func NewResumeHandler(service ResumeServiceInterface) *ResumeHandler {
	return &ResumeHandler{
		service: service,
	}
}

// resumeResponse は履歴書メタデータのAPIレスポンス。
type resumeResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Upload は履歴書ファイルをアップロードする。
// multipart/form-dataの"file"フィールドでファイルを受け取る。
// POST /api/resumes
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("fileフィールドが必要です"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	resume, err := h.service.Upload(r.Context(), userID, header.Filename, contentType, header.Size, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResumeResponse(resume))
}

// GetLatest はユーザーの最新の履歴書メタデータを取得する。
// GET /api/resumes/latest
func (h *ResumeHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	resume, err := h.service.GetLatest(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if resume == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "RESUME_NOT_FOUND",
			Message:  "アップロード済みの履歴書がありません。",
			Category: "validation",
			Action:   "履歴書をアップロードしてください。",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResumeResponse(resume))
}

// toResumeResponse はドメインモデルをhandlerのレスポンス型に変換する。
func toResumeResponse(resume *model.Resume) resumeResponse {
	return resumeResponse{
		ID:          resume.ID,
		FileName:    resume.FileName,
		ContentType: resume.ContentType,
		SizeBytes:   resume.SizeBytes,
		CreatedAt:   resume.CreatedAt,
	}
}
