package model

import "time"

// AuditEvent は分析用の監査イベントを表す。
// 記録はベストエフォートであり、業務処理の成否に影響してはならない。
type AuditEvent struct {
	ID        string
	UserID    string
	Action    string
	Metadata  map[string]string
	CreatedAt time.Time
}

// 監査イベントのアクション名
const (
	AuditActionPackPurchased   = "pack_purchased"
	AuditActionAttemptStarted  = "attempt_started"
	AuditActionAttemptConsumed = "attempt_consumed"
	AuditActionPracticeStarted = "practice_started"
)
