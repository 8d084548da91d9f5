package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresPackRepoはPackRepositoryインターフェースを満たすことを検証
func TestPostgresPackRepo_ImplementsInterface(t *testing.T) {
	var _ PackRepository = (*PostgresPackRepo)(nil)
}

// NewPostgresPackRepoが正しく初期化されることを検証
func TestNewPostgresPackRepo_Initializes(t *testing.T) {
	repo := NewPostgresPackRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// InterviewPackモデルのフィールドが正しく構築されることを検証
func TestPostgresPackRepo_PackModel_Fields(t *testing.T) {
	now := time.Now()
	pack := &model.InterviewPack{
		ID:              "pack-id-1",
		Title:           "SREミドルクラス",
		Role:            "SRE",
		Level:           "middle",
		DurationMinutes: 30,
		Price:           3000,
		JobDescription:  "<p>本番環境の信頼性向上</p>",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if pack.Title != "SREミドルクラス" {
		t.Errorf("pack.Title = %q, want %q", pack.Title, "SREミドルクラス")
	}
	if pack.DurationMinutes != 30 {
		t.Errorf("pack.DurationMinutes = %d, want 30", pack.DurationMinutes)
	}
	if pack.Price != 3000 {
		t.Errorf("pack.Price = %d, want 3000", pack.Price)
	}
}
