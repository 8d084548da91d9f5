package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, entitlement, interview, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodePackNotFound      = "PACK_NOT_FOUND"
	ErrCodeInterviewNotFound = "INTERVIEW_NOT_FOUND"
	ErrCodeAttemptsExhausted = "ATTEMPTS_EXHAUSTED"
	ErrCodeInterviewFinished = "INTERVIEW_FINISHED"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeResumeTooLarge    = "RESUME_TOO_LARGE"
	ErrCodeResumeInvalidType = "RESUME_INVALID_TYPE"
	ErrCodeJDFetchBlocked    = "JD_FETCH_BLOCKED"
	ErrCodeJDFetchFailed     = "JD_FETCH_FAILED"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "管理者アカウントでログインしてください。",
	}
}

// NewPackNotFoundError はパック未検出エラーを生成する。
func NewPackNotFoundError(packID string) *APIError {
	return &APIError{
		Code:     ErrCodePackNotFound,
		Message:  fmt.Sprintf("指定された面接パックが見つかりません: %s", packID),
		Category: "entitlement",
		Action:   "パックIDを確認してください。",
	}
}

// NewInterviewNotFoundError は面接セッション未検出エラーを生成する。
// 他ユーザーのセッションへのアクセスも同じエラーとして扱う。
func NewInterviewNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeInterviewNotFound,
		Message:  fmt.Sprintf("指定された面接セッションが見つかりません: %s", sessionID),
		Category: "interview",
		Action:   "セッションIDを確認してください。",
	}
}

// NewAttemptsExhaustedError は受験回数超過エラーを生成する。
func NewAttemptsExhaustedError() *APIError {
	return &APIError{
		Code:     ErrCodeAttemptsExhausted,
		Message:  "この注文の受験回数を使い切っています。",
		Category: "entitlement",
		Action:   "新しいパックを購入してください。",
	}
}

// NewInterviewFinishedError は完了済みセッションへのターン送信エラーを生成する。
func NewInterviewFinishedError() *APIError {
	return &APIError{
		Code:     ErrCodeInterviewFinished,
		Message:  "この面接セッションは既に完了しています。",
		Category: "interview",
		Action:   "新しい受験を開始してください。",
	}
}

// NewInvalidRequestError は不正リクエストエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("不正なリクエストです: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewResumeTooLargeError は履歴書ファイルサイズ超過エラーを生成する。
func NewResumeTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeResumeTooLarge,
		Message:  fmt.Sprintf("履歴書ファイルが大きすぎます（上限: %dバイト）。", maxBytes),
		Category: "validation",
		Action:   "ファイルサイズを小さくして再度アップロードしてください。",
	}
}

// NewResumeInvalidTypeError は許可されない履歴書ファイル形式のエラーを生成する。
func NewResumeInvalidTypeError(contentType string) *APIError {
	return &APIError{
		Code:     ErrCodeResumeInvalidType,
		Message:  fmt.Sprintf("許可されないファイル形式です: %s", contentType),
		Category: "validation",
		Action:   "PDFまたはWord形式のファイルをアップロードしてください。",
	}
}

// NewJDFetchBlockedError はJDインポートURLのブロックエラーを生成する。
func NewJDFetchBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeJDFetchBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。",
	}
}

// NewJDFetchFailedError はJDインポートの取得失敗エラーを生成する。
func NewJDFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeJDFetchFailed,
		Message:  fmt.Sprintf("求人情報の取得に失敗しました: %s", reason),
		Category: "system",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
