package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresResumeRepo はPostgreSQLを使用した履歴書メタデータリポジトリ。
type PostgresResumeRepo struct {
	db Executor
}

// NewPostgresResumeRepo はPostgresResumeRepoを生成する。
func NewPostgresResumeRepo(db Executor) *PostgresResumeRepo {
	return &PostgresResumeRepo{db: db}
}

// Create は履歴書メタデータを作成する。
func (r *PostgresResumeRepo) Create(ctx context.Context, resume *model.Resume) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, file_name, storage_path, content_type, size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resume.ID, resume.UserID, resume.FileName, resume.StoragePath,
		resume.ContentType, resume.SizeBytes, resume.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	return nil
}

// FindLatestByUserID はユーザーの最新の履歴書を返す。見つからない場合はnilを返す。
func (r *PostgresResumeRepo) FindLatestByUserID(ctx context.Context, userID string) (*model.Resume, error) {
	resume := &model.Resume{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, file_name, storage_path, content_type, size_bytes, created_at
		 FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&resume.ID, &resume.UserID, &resume.FileName, &resume.StoragePath,
		&resume.ContentType, &resume.SizeBytes, &resume.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest resume: %w", err)
	}
	return resume, nil
}

// compile-time interface check
var _ ResumeRepository = (*PostgresResumeRepo)(nil)
