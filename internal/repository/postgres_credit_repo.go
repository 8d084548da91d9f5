package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresCreditRepo はPostgreSQLを使用したクレジット台帳リポジトリ。
type PostgresCreditRepo struct {
	db Executor
}

// NewPostgresCreditRepo はPostgresCreditRepoを生成する。
func NewPostgresCreditRepo(db Executor) *PostgresCreditRepo {
	return &PostgresCreditRepo{db: db}
}

// ListByUserID はユーザーのクレジット一覧を返す。
func (r *PostgresCreditRepo) ListByUserID(ctx context.Context, userID string) ([]*model.UserCredit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, reason, created_at
		 FROM user_credits WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	var credits []*model.UserCredit
	for rows.Next() {
		credit := &model.UserCredit{}
		err := rows.Scan(&credit.ID, &credit.UserID, &credit.Amount, &credit.Reason, &credit.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credits: %w", err)
	}
	return credits, nil
}

// TotalByUserID はユーザーのクレジット残高合計を返す。
func (r *PostgresCreditRepo) TotalByUserID(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM user_credits WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum credits: %w", err)
	}
	return total, nil
}

// compile-time interface check
var _ CreditRepository = (*PostgresCreditRepo)(nil)
