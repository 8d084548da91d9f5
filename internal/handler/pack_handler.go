package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/pack"
)

// PackServiceInterface はパックハンドラーが必要とするサービスインターフェース。
type PackServiceInterface interface {
	List(ctx context.Context) ([]*model.InterviewPack, error)
	Get(ctx context.Context, packID string) (*model.InterviewPack, error)
	Create(ctx context.Context, input pack.CreatePackInput) (*model.InterviewPack, error)
	Update(ctx context.Context, packID string, input pack.UpdatePackInput) (*model.InterviewPack, error)
}

// JDImporterInterface はJDインポートハンドラーが必要とするインターフェース。
type JDImporterInterface interface {
	Import(ctx context.Context, rawURL string) (string, error)
}

// PackHandler は面接パックカタログのHTTPハンドラー。
type PackHandler struct {
	service  PackServiceInterface
	importer JDImporterInterface
}

// NewPackHandler はPackHandlerを生成する。
func NewPackHandler(service PackServiceInterface, importer JDImporterInterface) *PackHandler {
	return &PackHandler{
		service:  service,
		importer: importer,
	}
}

// packResponse はパック情報のAPIレスポンス。
type packResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Role            string    `json:"role"`
	Level           string    `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int       `json:"price"`
	JobDescription  string    `json:"job_description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// packRequest はパック作成・更新リクエストのボディ。
type packRequest struct {
	Title           string `json:"title"`
	Role            string `json:"role"`
	Level           string `json:"level"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int    `json:"price"`
	JobDescription  string `json:"job_description"`
}

// jdImportRequest はJDインポートリクエストのボディ。
type jdImportRequest struct {
	URL string `json:"url"`
}

// ListPacks はパック一覧を取得する。
// GET /api/packs
func (h *PackHandler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]packResponse, len(packs))
	for i, p := range packs {
		results[i] = toPackResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetPack はパック詳細を取得する。
// GET /api/packs/:id
func (h *PackHandler) GetPack(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), packID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toPackResponse(p)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CreatePack はパックを新規作成する（管理者操作）。
// POST /api/admin/packs
func (h *PackHandler) CreatePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	p, err := h.service.Create(r.Context(), pack.CreatePackInput{
		Title:           req.Title,
		Role:            req.Role,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		JobDescription:  req.JobDescription,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toPackResponse(p)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// UpdatePack はパックを更新する（管理者操作）。
// PUT /api/admin/packs/:id
func (h *PackHandler) UpdatePack(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "id")

	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	p, err := h.service.Update(r.Context(), packID, pack.UpdatePackInput{
		Title:           req.Title,
		Role:            req.Role,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		JobDescription:  req.JobDescription,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toPackResponse(p)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ImportJD は外部サイトから求人情報を取得する（管理者操作）。
// 取得したサニタイズ済みHTMLを返すのみで、パックへの反映は別途更新APIで行う。
// POST /api/admin/jd/import
func (h *PackHandler) ImportJD(w http.ResponseWriter, r *http.Request) {
	var req jdImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.URL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("URLは必須です"))
		return
	}

	content, err := h.importer.Import(r.Context(), req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_description": content,
	})
}

// toPackResponse はドメインモデルをhandlerのレスポンス型に変換する。
func toPackResponse(p *model.InterviewPack) packResponse {
	return packResponse{
		ID:              p.ID,
		Title:           p.Title,
		Role:            p.Role,
		Level:           p.Level,
		DurationMinutes: p.DurationMinutes,
		Price:           p.Price,
		JobDescription:  p.JobDescription,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
