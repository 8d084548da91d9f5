// Package pack は面接パックカタログの閲覧・管理機能を提供する。
package pack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/repository"
	"github.com/hitoshi/intervue/internal/security"
)

// CreatePackInput はパック作成のリクエスト内容。
type CreatePackInput struct {
	Title           string
	Role            string
	Level           string
	DurationMinutes int
	Price           int
	JobDescription  string // サニタイズ前のHTML
}

// UpdatePackInput はパック更新のリクエスト内容。
type UpdatePackInput struct {
	Title           string
	Role            string
	Level           string
	DurationMinutes int
	Price           int
	JobDescription  string // サニタイズ前のHTML
}

// Service は面接パックカタログに関するビジネスロジックを提供する。
// 求人情報（JD）HTMLは保存前に必ずサニタイズされる。
type Service struct {
	packRepo  repository.PackRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(packRepo repository.PackRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		packRepo:  packRepo,
		sanitizer: sanitizer,
	}
}

// List は全パックの一覧を返す。
func (s *Service) List(ctx context.Context) ([]*model.InterviewPack, error) {
	packs, err := s.packRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("パック一覧の取得に失敗しました: %w", err)
	}
	return packs, nil
}

// Get は指定IDのパックを取得する。
func (s *Service) Get(ctx context.Context, packID string) (*model.InterviewPack, error) {
	pack, err := s.packRepo.FindByID(ctx, packID)
	if err != nil {
		return nil, fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return nil, model.NewPackNotFoundError(packID)
	}
	return pack, nil
}

// Create はパックを新規作成する（管理者操作）。
// JDのHTMLは保存前にサニタイズされる。
func (s *Service) Create(ctx context.Context, input CreatePackInput) (*model.InterviewPack, error) {
	if err := validatePackInput(input.Title, input.Role, input.DurationMinutes, input.Price); err != nil {
		return nil, err
	}

	now := time.Now()
	pack := &model.InterviewPack{
		ID:              uuid.New().String(),
		Title:           input.Title,
		Role:            input.Role,
		Level:           input.Level,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		JobDescription:  s.sanitizer.Sanitize(input.JobDescription),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.packRepo.Create(ctx, pack); err != nil {
		return nil, fmt.Errorf("パックの作成に失敗しました: %w", err)
	}

	slog.Info("interview pack created",
		slog.String("pack_id", pack.ID),
		slog.String("title", pack.Title),
	)
	return pack, nil
}

// Update は既存パックを更新する（管理者操作）。
// JDのHTMLは保存前にサニタイズされる。
func (s *Service) Update(ctx context.Context, packID string, input UpdatePackInput) (*model.InterviewPack, error) {
	if err := validatePackInput(input.Title, input.Role, input.DurationMinutes, input.Price); err != nil {
		return nil, err
	}

	pack, err := s.packRepo.FindByID(ctx, packID)
	if err != nil {
		return nil, fmt.Errorf("パックの取得に失敗しました: %w", err)
	}
	if pack == nil {
		return nil, model.NewPackNotFoundError(packID)
	}

	pack.Title = input.Title
	pack.Role = input.Role
	pack.Level = input.Level
	pack.DurationMinutes = input.DurationMinutes
	pack.Price = input.Price
	pack.JobDescription = s.sanitizer.Sanitize(input.JobDescription)
	pack.UpdatedAt = time.Now()

	if err := s.packRepo.Update(ctx, pack); err != nil {
		return nil, fmt.Errorf("パックの更新に失敗しました: %w", err)
	}

	slog.Info("interview pack updated",
		slog.String("pack_id", pack.ID),
	)
	return pack, nil
}

// validatePackInput はパック入力の共通検証を行う。
func validatePackInput(title, role string, durationMinutes, price int) error {
	if title == "" {
		return model.NewInvalidRequestError("タイトルは必須です")
	}
	if role == "" {
		return model.NewInvalidRequestError("ロールは必須です")
	}
	if durationMinutes <= 0 {
		return model.NewInvalidRequestError("面接時間は1分以上である必要があります")
	}
	if price < 0 {
		return model.NewInvalidRequestError("価格は0以上である必要があります")
	}
	return nil
}
