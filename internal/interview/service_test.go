package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/intervue/internal/model"
)

// --- モック ---

type mockInterviewRepo struct {
	sessions map[string]*model.InterviewSession
	statuses []model.InterviewStatus
}

func (m *mockInterviewRepo) Create(ctx context.Context, session *model.InterviewSession) error {
	m.sessions[session.ID] = session
	return nil
}
func (m *mockInterviewRepo) FindByID(ctx context.Context, id string) (*model.InterviewSession, error) {
	return m.sessions[id], nil
}
func (m *mockInterviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	if s, ok := m.sessions[id]; ok {
		s.Status = status
	}
	m.statuses = append(m.statuses, status)
	return nil
}
func (m *mockInterviewRepo) ListByUserID(ctx context.Context, userID string) ([]*model.InterviewSession, error) {
	return nil, nil
}

type mockTurnRepo struct {
	turns []*model.Turn
}

func (m *mockTurnRepo) Append(ctx context.Context, turn *model.Turn) error {
	m.turns = append(m.turns, turn)
	return nil
}
func (m *mockTurnRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.Turn, error) {
	var result []*model.Turn
	for _, t := range m.turns {
		if t.SessionID == sessionID {
			result = append(result, t)
		}
	}
	return result, nil
}
func (m *mockTurnRepo) CountBySessionAndRole(ctx context.Context, sessionID string, role model.TurnRole) (int, error) {
	count := 0
	for _, t := range m.turns {
		if t.SessionID == sessionID && t.Role == role {
			count++
		}
	}
	return count, nil
}

type mockPackRepo struct {
	pack *model.InterviewPack
}

func (m *mockPackRepo) FindByID(ctx context.Context, id string) (*model.InterviewPack, error) {
	if m.pack != nil && m.pack.ID == id {
		return m.pack, nil
	}
	return nil, nil
}
func (m *mockPackRepo) List(ctx context.Context) ([]*model.InterviewPack, error) { return nil, nil }
func (m *mockPackRepo) Create(ctx context.Context, pack *model.InterviewPack) error {
	return nil
}
func (m *mockPackRepo) Update(ctx context.Context, pack *model.InterviewPack) error {
	return nil
}

type mockTranscriber struct {
	text string
	err  error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return m.text, m.err
}

type mockInterviewer struct {
	question string
	done     bool
}

func (m *mockInterviewer) NextQuestion(ctx context.Context, pack *model.InterviewPack, turns []*model.Turn) (string, bool, error) {
	return m.question, m.done, nil
}

type mockConsumer struct {
	calls int
	err   error
}

func (m *mockConsumer) ConsumeAttempt(ctx context.Context, userID, packID string) (*model.Order, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &model.Order{ID: "order-1", AttemptsUsed: 1, AttemptsTotal: 2}, nil
}

type mockTurnMetrics struct {
	processed int
}

func (m *mockTurnMetrics) RecordTurnProcessed(duration time.Duration) { m.processed++ }

// --- テストヘルパー ---

func newTestPack() *model.InterviewPack {
	return &model.InterviewPack{
		ID:              "pack-1",
		Title:           "SRE模擬面接",
		Role:            "SRE",
		DurationMinutes: 30,
	}
}

func newTestSession(status model.InterviewStatus, isPractice bool) *model.InterviewSession {
	return &model.InterviewSession{
		ID:         "session-1",
		UserID:     "user-1",
		PackID:     "pack-1",
		Status:     status,
		IsPractice: isPractice,
	}
}

// --- テスト ---

// TestService_ProcessTurn_FirstTurnConsumesAttempt は最初のターン処理で
// 受験回数が消費され、セッションがIN_PROGRESSへ遷移することを検証する。
func TestService_ProcessTurn_FirstTurnConsumesAttempt(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusPending, false),
	}}
	turnRepo := &mockTurnRepo{}
	consumer := &mockConsumer{}
	metrics := &mockTurnMetrics{}

	svc := NewService(
		interviewRepo, turnRepo, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "私はSREとして5年の経験があります。"},
		&mockInterviewer{question: "次の質問です。"},
		consumer, metrics,
	)

	result, err := svc.ProcessTurn(context.Background(), "user-1", "session-1", []byte("audio"))
	if err != nil {
		t.Fatalf("ProcessTurn returned error: %v", err)
	}

	if consumer.calls != 1 {
		t.Errorf("attempt consumption calls = %d, want 1", consumer.calls)
	}
	if interviewRepo.sessions["session-1"].Status != model.InterviewStatusInProgress {
		t.Errorf("session status = %s, want IN_PROGRESS", interviewRepo.sessions["session-1"].Status)
	}
	if result.Answer != "私はSREとして5年の経験があります。" {
		t.Errorf("answer = %q", result.Answer)
	}
	if result.NextQuestion != "次の質問です。" {
		t.Errorf("next question = %q", result.NextQuestion)
	}
	// 回答ターンと質問ターンの2つが保存される
	if len(turnRepo.turns) != 2 {
		t.Errorf("saved turns = %d, want 2", len(turnRepo.turns))
	}
	if metrics.processed != 1 {
		t.Errorf("turn metric = %d, want 1", metrics.processed)
	}
}

// TestService_ProcessTurn_PracticeDoesNotConsume は練習セッションの開始が
// 受験回数を消費しないことを検証する。
func TestService_ProcessTurn_PracticeDoesNotConsume(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusPending, true),
	}}
	consumer := &mockConsumer{}

	svc := NewService(
		interviewRepo, &mockTurnRepo{}, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "回答です。"},
		&mockInterviewer{question: "質問です。"},
		consumer, nil,
	)

	if _, err := svc.ProcessTurn(context.Background(), "user-1", "session-1", []byte("audio")); err != nil {
		t.Fatalf("ProcessTurn returned error: %v", err)
	}
	if consumer.calls != 0 {
		t.Errorf("practice session should not consume attempts, calls = %d", consumer.calls)
	}
}

// TestService_ProcessTurn_ExhaustedBlocksStart は受験回数超過のとき
// セッションがPENDINGのまま開始されないことを検証する。
func TestService_ProcessTurn_ExhaustedBlocksStart(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusPending, false),
	}}
	consumer := &mockConsumer{err: model.NewAttemptsExhaustedError()}

	svc := NewService(
		interviewRepo, &mockTurnRepo{}, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "回答です。"},
		&mockInterviewer{question: "質問です。"},
		consumer, nil,
	)

	_, err := svc.ProcessTurn(context.Background(), "user-1", "session-1", []byte("audio"))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAttemptsExhausted {
		t.Fatalf("expected ATTEMPTS_EXHAUSTED error, got %v", err)
	}
	if interviewRepo.sessions["session-1"].Status != model.InterviewStatusPending {
		t.Error("session should stay PENDING when attempt consumption fails")
	}
}

// TestService_ProcessTurn_OtherUsersSession は他ユーザーのセッションへの
// アクセスが未検出として扱われることを検証する。
func TestService_ProcessTurn_OtherUsersSession(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusPending, false),
	}}

	svc := NewService(
		interviewRepo, &mockTurnRepo{}, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "回答です。"},
		&mockInterviewer{question: "質問です。"},
		&mockConsumer{}, nil,
	)

	_, err := svc.ProcessTurn(context.Background(), "other-user", "session-1", []byte("audio"))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInterviewNotFound {
		t.Fatalf("expected INTERVIEW_NOT_FOUND error, got %v", err)
	}
}

// TestService_ProcessTurn_CompletedSession は完了済みセッションへのターン送信が
// 拒否されることを検証する。
func TestService_ProcessTurn_CompletedSession(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusCompleted, false),
	}}

	svc := NewService(
		interviewRepo, &mockTurnRepo{}, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "回答です。"},
		&mockInterviewer{question: "質問です。"},
		&mockConsumer{}, nil,
	)

	_, err := svc.ProcessTurn(context.Background(), "user-1", "session-1", []byte("audio"))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInterviewFinished {
		t.Fatalf("expected INTERVIEW_FINISHED error, got %v", err)
	}
}

// TestService_ProcessTurn_CompletesInterview は面接官がdoneを返したとき
// セッションがCOMPLETEDへ遷移し、質問ターンが追加されないことを検証する。
func TestService_ProcessTurn_CompletesInterview(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusInProgress, false),
	}}
	turnRepo := &mockTurnRepo{}

	svc := NewService(
		interviewRepo, turnRepo, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{text: "最後の回答です。"},
		&mockInterviewer{done: true},
		&mockConsumer{}, nil,
	)

	result, err := svc.ProcessTurn(context.Background(), "user-1", "session-1", []byte("audio"))
	if err != nil {
		t.Fatalf("ProcessTurn returned error: %v", err)
	}

	if !result.Done {
		t.Error("result should be done")
	}
	if result.NextQuestion != "" {
		t.Errorf("next question should be empty on completion, got %q", result.NextQuestion)
	}
	if interviewRepo.sessions["session-1"].Status != model.InterviewStatusCompleted {
		t.Errorf("session status = %s, want COMPLETED", interviewRepo.sessions["session-1"].Status)
	}
	// 保存されるのは回答ターンのみ
	if len(turnRepo.turns) != 1 {
		t.Errorf("saved turns = %d, want 1", len(turnRepo.turns))
	}
}

// TestService_GetProgress は進捗サマリの算出を検証する。
func TestService_GetProgress(t *testing.T) {
	interviewRepo := &mockInterviewRepo{sessions: map[string]*model.InterviewSession{
		"session-1": newTestSession(model.InterviewStatusInProgress, false),
	}}
	turnRepo := &mockTurnRepo{turns: []*model.Turn{
		{SessionID: "session-1", Seq: 1, Role: model.TurnRoleCandidate},
		{SessionID: "session-1", Seq: 2, Role: model.TurnRoleInterviewer},
		{SessionID: "session-1", Seq: 3, Role: model.TurnRoleCandidate},
	}}

	svc := NewService(
		interviewRepo, turnRepo, &mockPackRepo{pack: newTestPack()},
		&mockTranscriber{}, &mockInterviewer{}, &mockConsumer{}, nil,
	)

	progress, err := svc.GetProgress(context.Background(), "user-1", "session-1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}

	if progress.AnsweredQuestions != 2 {
		t.Errorf("answered = %d, want 2", progress.AnsweredQuestions)
	}
	// 30分パック: 30/5 = 6問
	if progress.TotalQuestions != 6 {
		t.Errorf("total = %d, want 6", progress.TotalQuestions)
	}
	if progress.Status != model.InterviewStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", progress.Status)
	}
}

// TestQuestionBudget は面接時間から質問数の目安が算出されることを検証する。
func TestQuestionBudget(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    int
	}{
		{"60分は12問", 60, 12},
		{"30分は6問", 30, 6},
		{"15分は3問", 15, 3},
		{"10分でも最低3問", 10, 3},
		{"5分でも最低3問", 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack := &model.InterviewPack{DurationMinutes: tt.minutes}
			if got := QuestionBudget(pack); got != tt.want {
				t.Errorf("QuestionBudget(%d分) = %d, want %d", tt.minutes, got, tt.want)
			}
		})
	}
}

// TestScriptedInterviewer_FinishesAtBudget はスクリプト面接官が質問数の目安に
// 達したら面接を終了することを検証する。
func TestScriptedInterviewer_FinishesAtBudget(t *testing.T) {
	si := NewScriptedInterviewer()
	pack := &model.InterviewPack{ID: "pack-1", Role: "SRE", DurationMinutes: 15} // 3問

	// 回答2件: まだ質問が返る
	turns := []*model.Turn{
		{Role: model.TurnRoleCandidate},
		{Role: model.TurnRoleInterviewer},
		{Role: model.TurnRoleCandidate},
	}
	question, done, err := si.NextQuestion(context.Background(), pack, turns)
	if err != nil {
		t.Fatalf("NextQuestion returned error: %v", err)
	}
	if done {
		t.Error("interview should not be done after 2 answers with budget 3")
	}
	if question == "" {
		t.Error("question should not be empty")
	}

	// 回答3件: 終了
	turns = append(turns, &model.Turn{Role: model.TurnRoleCandidate})
	_, done, err = si.NextQuestion(context.Background(), pack, turns)
	if err != nil {
		t.Fatalf("NextQuestion returned error: %v", err)
	}
	if !done {
		t.Error("interview should be done after 3 answers with budget 3")
	}
}
