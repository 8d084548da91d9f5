package cleanup

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// mockResult はsql.Resultのモック。
type mockResult struct {
	rowsAffected int64
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, nil }

// mockExecutor は実行されたクエリと引数を記録する。
type mockExecutor struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (m *mockExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.queries = append(m.queries, query)
	m.args = append(m.args, args)
	return mockResult{rowsAffected: 3}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestCleanupJob_Run は期限切れセッションと古い監査イベントの削除を検証する。
func TestCleanupJob_Run(t *testing.T) {
	executor := &mockExecutor{}
	job := NewCleanupJob(executor, testLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(executor.queries) != 2 {
		t.Fatalf("executed queries = %d, want 2", len(executor.queries))
	}
	if !strings.Contains(executor.queries[0], "DELETE FROM sessions") {
		t.Errorf("1st query = %q, should delete expired sessions", executor.queries[0])
	}
	if !strings.Contains(executor.queries[1], "DELETE FROM audit_events") {
		t.Errorf("2nd query = %q, should delete old audit events", executor.queries[1])
	}
}

// TestCleanupJob_Run_RetentionDays は保持日数がクエリ引数に
// 反映されることを検証する。
func TestCleanupJob_Run_RetentionDays(t *testing.T) {
	executor := &mockExecutor{}
	job := NewCleanupJob(executor, testLogger())
	job.AuditRetentionDays = 90

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(executor.args[1]) != 1 || executor.args[1][0] != "90 days" {
		t.Errorf("audit cleanup args = %v, want [90 days]", executor.args[1])
	}
}

// TestCleanupJob_Run_Error はSQLエラーが呼び出し元へ伝播することを検証する。
func TestCleanupJob_Run_Error(t *testing.T) {
	executor := &mockExecutor{err: errors.New("connection refused")}
	job := NewCleanupJob(executor, testLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run should propagate SQL errors")
	}
}
