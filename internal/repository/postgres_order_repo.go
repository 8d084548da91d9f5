package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
// 購入とセッション作成のアトミック経路、受験権利の条件付き消費を提供する。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

const orderColumns = `id, user_id, pack_id, amount, status, attempts_used, attempts_total, created_at`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*model.Order, error) {
	order := &model.Order{}
	err := row.Scan(
		&order.ID, &order.UserID, &order.PackID, &order.Amount,
		&order.Status, &order.AttemptsUsed, &order.AttemptsTotal, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrderAndSession は注文と面接セッションを同一トランザクションで作成する。
// どちらか一方だけが残る部分適用を防ぐ。
func (r *PostgresOrderRepo) CreateOrderAndSession(ctx context.Context, order *model.Order, session *model.InterviewSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, pack_id, amount, status, attempts_used, attempts_total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.UserID, order.PackID, order.Amount,
		order.Status, order.AttemptsUsed, order.AttemptsTotal, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interview_sessions (id, user_id, pack_id, status, is_practice, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.PackID, session.Status,
		session.IsPractice, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interview session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateSessionForEligibleOrder は利用可能な注文を行ロックで確保し、
// その権利の範囲内で面接セッションを作成する。
// 同時実行されるセッション作成はFOR UPDATEロックで直列化され、
// 未消費のPENDINGセッション数が全注文の残回数合計に達している場合は
// セッションを作成せず (nil, nil) を返す。
// 複数の注文が該当する場合は古い注文から順に扱う。
func (r *PostgresOrderRepo) CreateSessionForEligibleOrder(ctx context.Context, session *model.InterviewSession) (*model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 利用可能な注文をすべてロック付きで取得（古い順）
	rows, err := tx.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_id = $1 AND pack_id = $2 AND status = $3 AND attempts_used < attempts_total
		 ORDER BY created_at
		 FOR UPDATE`,
		session.UserID, session.PackID, model.OrderStatusPurchased,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible orders: %w", err)
	}

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan eligible order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate eligible orders: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return nil, nil
	}

	// 未消費のPENDINGセッションも権利枠に数える
	var pending int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interview_sessions
		 WHERE user_id = $1 AND pack_id = $2 AND status = $3 AND is_practice = FALSE`,
		session.UserID, session.PackID, model.InterviewStatusPending,
	).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending sessions: %w", err)
	}

	// PENDINGセッションは全注文の残回数プールと比較する。
	// 消費し切った古い注文に紐づく放置PENDINGが、新しい注文の枠を
	// 塞いで不要な購入を誘発しないようにする。
	remaining := 0
	for _, o := range orders {
		remaining += o.AttemptsTotal - o.AttemptsUsed
	}
	if pending >= remaining {
		return nil, nil
	}

	order := orders[0]

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interview_sessions (id, user_id, pack_id, status, is_practice, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.PackID, session.Status,
		session.IsPractice, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interview session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// ConsumeAttempt は利用可能な注文のattempts_usedを条件付きでインクリメントする。
// WHERE句のattempts_used < attempts_totalにより不変条件が常に保たれる。
// 複数の注文が該当する場合は古い注文から消費する。
// 消費できる注文がない場合は (nil, nil) を返す。
func (r *PostgresOrderRepo) ConsumeAttempt(ctx context.Context, userID, packID string) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE orders SET attempts_used = attempts_used + 1
		 WHERE id = (
		     SELECT id FROM orders
		     WHERE user_id = $1 AND pack_id = $2 AND status = $3 AND attempts_used < attempts_total
		     ORDER BY created_at
		     LIMIT 1
		     FOR UPDATE
		 )
		 RETURNING `+orderColumns,
		userID, packID, model.OrderStatusPurchased,
	)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume attempt: %w", err)
	}

	return order, nil
}

// ListByUserAndPack はユーザーの指定パックに対する注文一覧を返す。
func (r *PostgresOrderRepo) ListByUserAndPack(ctx context.Context, userID, packID string) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND pack_id = $2`,
		userID, packID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// BackfillAttemptsTotal は過去の注文にattempts_totalを一括適用する。
// attempts_usedが新しい上限を超えている注文には attempts_total = attempts_used を
// 設定する（GREATEST）。消費済みの受験は遡って取り消さない。
func (r *PostgresOrderRepo) BackfillAttemptsTotal(ctx context.Context, cap int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET attempts_total = GREATEST($1, attempts_used)`,
		cap,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill attempts_total: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
