package model

import "time"

// InterviewStatus は面接セッションの状態を表す。
type InterviewStatus string

const (
	// InterviewStatusPending は作成直後の未開始状態を示す。
	// エンタイトルメント管理が書き込むのはこの状態のみ。
	InterviewStatusPending InterviewStatus = "PENDING"
	// InterviewStatusInProgress はターン処理が開始された状態を示す。
	InterviewStatusInProgress InterviewStatus = "IN_PROGRESS"
	// InterviewStatusCompleted は面接が完了した状態を示す。
	InterviewStatusCompleted InterviewStatus = "COMPLETED"
)

// InterviewSession は1回の面接受験を表す。
// 作成後の状態遷移（PENDING → IN_PROGRESS → COMPLETED）はターン処理
// パイプラインが所有する。
type InterviewSession struct {
	ID         string
	UserID     string
	PackID     string
	Status     InterviewStatus
	IsPractice bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TurnRole はターンの発話者を表す。
type TurnRole string

const (
	// TurnRoleInterviewer は面接官側の発話（質問）を示す。
	TurnRoleInterviewer TurnRole = "interviewer"
	// TurnRoleCandidate は受験者側の発話（回答）を示す。
	TurnRoleCandidate TurnRole = "candidate"
)

// Turn は面接セッション中の1発話を表す。
type Turn struct {
	ID        string
	SessionID string
	Seq       int
	Role      TurnRole
	Content   string
	CreatedAt time.Time
}
