package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresPackRepo はPostgreSQLを使用した面接パックリポジトリ。
type PostgresPackRepo struct {
	db *sql.DB
}

// NewPostgresPackRepo はPostgresPackRepoを生成する。
func NewPostgresPackRepo(db *sql.DB) *PostgresPackRepo {
	return &PostgresPackRepo{db: db}
}

const packColumns = `id, title, role, level, duration_minutes, price, job_description, created_at, updated_at`

func scanPack(row interface {
	Scan(dest ...interface{}) error
}) (*model.InterviewPack, error) {
	pack := &model.InterviewPack{}
	err := row.Scan(
		&pack.ID, &pack.Title, &pack.Role, &pack.Level,
		&pack.DurationMinutes, &pack.Price, &pack.JobDescription,
		&pack.CreatedAt, &pack.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pack, nil
}

// FindByID は指定IDのパックを取得する。見つからない場合はnilを返す。
func (r *PostgresPackRepo) FindByID(ctx context.Context, id string) (*model.InterviewPack, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+packColumns+` FROM interview_packs WHERE id = $1`, id)

	pack, err := scanPack(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pack by ID: %w", err)
	}
	return pack, nil
}

// List は全パックをタイトル昇順で返す。
func (r *PostgresPackRepo) List(ctx context.Context) ([]*model.InterviewPack, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+packColumns+` FROM interview_packs ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	var packs []*model.InterviewPack
	for rows.Next() {
		pack, err := scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packs: %w", err)
	}
	return packs, nil
}

// Create はパックを作成する。
func (r *PostgresPackRepo) Create(ctx context.Context, pack *model.InterviewPack) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO interview_packs (id, title, role, level, duration_minutes, price, job_description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pack.ID, pack.Title, pack.Role, pack.Level,
		pack.DurationMinutes, pack.Price, pack.JobDescription,
		pack.CreatedAt, pack.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pack: %w", err)
	}
	return nil
}

// Update はパック情報を更新する。
func (r *PostgresPackRepo) Update(ctx context.Context, pack *model.InterviewPack) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE interview_packs
		 SET title = $2, role = $3, level = $4, duration_minutes = $5,
		     price = $6, job_description = $7, updated_at = $8
		 WHERE id = $1`,
		pack.ID, pack.Title, pack.Role, pack.Level,
		pack.DurationMinutes, pack.Price, pack.JobDescription, pack.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update pack: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pack not found: %s", pack.ID)
	}
	return nil
}

// compile-time interface check
var _ PackRepository = (*PostgresPackRepo)(nil)
