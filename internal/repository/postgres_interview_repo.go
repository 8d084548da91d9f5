package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresInterviewSessionRepo はPostgreSQLを使用した面接セッションリポジトリ。
type PostgresInterviewSessionRepo struct {
	db *sql.DB
}

// NewPostgresInterviewSessionRepo はPostgresInterviewSessionRepoを生成する。
func NewPostgresInterviewSessionRepo(db *sql.DB) *PostgresInterviewSessionRepo {
	return &PostgresInterviewSessionRepo{db: db}
}

const interviewColumns = `id, user_id, pack_id, status, is_practice, created_at, updated_at`

func scanInterview(row interface {
	Scan(dest ...interface{}) error
}) (*model.InterviewSession, error) {
	s := &model.InterviewSession{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.PackID, &s.Status, &s.IsPractice,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create は面接セッションを作成する。
func (r *PostgresInterviewSessionRepo) Create(ctx context.Context, session *model.InterviewSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO interview_sessions (id, user_id, pack_id, status, is_practice, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.PackID, session.Status,
		session.IsPractice, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interview session: %w", err)
	}
	return nil
}

// FindByID は指定IDの面接セッションを取得する。見つからない場合はnilを返す。
func (r *PostgresInterviewSessionRepo) FindByID(ctx context.Context, id string) (*model.InterviewSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interview_sessions WHERE id = $1`, id)

	session, err := scanInterview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find interview session: %w", err)
	}
	return session, nil
}

// UpdateStatus は面接セッションの状態を更新する。
func (r *PostgresInterviewSessionRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE interview_sessions SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update interview session status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("interview session not found: %s", id)
	}
	return nil
}

// ListByUserID はユーザーの面接セッション一覧を作成日時降順で返す。
func (r *PostgresInterviewSessionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.InterviewSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+interviewColumns+` FROM interview_sessions
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.InterviewSession
	for rows.Next() {
		session, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interview sessions: %w", err)
	}
	return sessions, nil
}

// compile-time interface check
var _ InterviewSessionRepository = (*PostgresInterviewSessionRepo)(nil)
