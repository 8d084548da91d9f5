package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HTTPTranscriber は外部の音声文字起こしAPIを呼び出すTranscriber実装。
// 音声データをPOSTし、JSONレスポンスからテキストを取り出す。
type HTTPTranscriber struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewHTTPTranscriber はHTTPTranscriberの新しいインスタンスを生成する。
func NewHTTPTranscriber(httpClient *http.Client, logger *slog.Logger, endpoint string) *HTTPTranscriber {
	return &HTTPTranscriber{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
	}
}

// transcribeResponse は文字起こしAPIのレスポンス。
type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe は音声データをテキストに変換する。
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("音声データが空です")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error("文字起こしAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Error("文字起こしAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return "", fmt.Errorf("文字起こしAPIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result transcribeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	if result.Text == "" {
		return "", fmt.Errorf("文字起こし結果が空です")
	}

	return result.Text, nil
}

// compile-time interface check
var _ Transcriber = (*HTTPTranscriber)(nil)
