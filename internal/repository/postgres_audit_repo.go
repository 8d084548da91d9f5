package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/intervue/internal/model"
)

// PostgresAuditRepo はPostgreSQLを使用した監査イベントリポジトリ。
type PostgresAuditRepo struct {
	db Executor
}

// NewPostgresAuditRepo はPostgresAuditRepoを生成する。
func NewPostgresAuditRepo(db Executor) *PostgresAuditRepo {
	return &PostgresAuditRepo{db: db}
}

// Record は監査イベントを記録する。
// メタデータはJSONBカラムに保存される。
func (r *PostgresAuditRepo) Record(ctx context.Context, event *model.AuditEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, user_id, action, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.UserID, event.Action, metadata, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AuditRepository = (*PostgresAuditRepo)(nil)
