package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresTurnRepo はPostgreSQLを使用した面接ターンリポジトリ。
type PostgresTurnRepo struct {
	db Executor
}

// NewPostgresTurnRepo はPostgresTurnRepoを生成する。
func NewPostgresTurnRepo(db Executor) *PostgresTurnRepo {
	return &PostgresTurnRepo{db: db}
}

// Append はターンをセッション末尾に追記する。
func (r *PostgresTurnRepo) Append(ctx context.Context, turn *model.Turn) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, seq, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		turn.ID, turn.SessionID, turn.Seq, turn.Role, turn.Content, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// ListBySession はセッションの全ターンをseq昇順で返す。
func (r *PostgresTurnRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, seq, role, content, created_at
		 FROM turns WHERE session_id = $1 ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []*model.Turn
	for rows.Next() {
		turn := &model.Turn{}
		err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Seq, &turn.Role, &turn.Content, &turn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// CountBySessionAndRole はセッション内の指定ロールのターン数を返す。
func (r *PostgresTurnRepo) CountBySessionAndRole(ctx context.Context, sessionID string, role model.TurnRole) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE session_id = $1 AND role = $2`,
		sessionID, role,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ TurnRepository = (*PostgresTurnRepo)(nil)
