// Package jd は外部サイトからの求人情報（JD）インポート機能を提供する。
//
// 管理者が入力したURLから求人ページを取得し、本文テキストを抽出して
// サニタイズ済みHTMLとして返す。取得にはSSRF防止機能付きの
// HTTPクライアントを使用し、内部ネットワークへのアクセスを遮断する。
package jd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/security"
	"golang.org/x/net/html"
)

const (
	// fetchTimeout はJD取得リクエストのタイムアウト。
	fetchTimeout = 15 * time.Second
	// maxResponseSize はJD取得レスポンスの最大サイズ（1MB）。
	maxResponseSize = 1 * 1024 * 1024
	// maxTextLength は抽出後のJDテキストの最大長。
	maxTextLength = 20000
)

// Importer は求人情報のURLインポートを行う。
type Importer struct {
	guard     security.SSRFGuardService
	sanitizer security.ContentSanitizerService
	client    *http.Client
}

// NewImporter はImporterを生成する。
// HTTPクライアントはSSRF防止機能付きのものが内部で生成される。
func NewImporter(guard security.SSRFGuardService, sanitizer security.ContentSanitizerService) *Importer {
	return &Importer{
		guard:     guard,
		sanitizer: sanitizer,
		client:    guard.NewSafeClient(fetchTimeout, maxResponseSize),
	}
}

// Import は指定URLから求人ページを取得し、サニタイズ済みHTMLを返す。
// URLが安全でない場合はJDFetchBlockedエラー、取得や解析に失敗した場合は
// JDFetchFailedエラーを返す。
func (i *Importer) Import(ctx context.Context, rawURL string) (string, error) {
	// 1. 事前検証: スキーム・ホスト・IPの静的チェック
	if err := i.guard.ValidateURL(rawURL); err != nil {
		slog.Warn("JD import URL blocked",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return "", model.NewJDFetchBlockedError()
	}

	// 2. SSRF防止クライアントで取得（DNS解決後のIPも検証される）
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", model.NewJDFetchFailedError("URLの形式が不正です")
	}
	req.Header.Set("User-Agent", "intervue-jd-importer/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := i.client.Do(req)
	if err != nil {
		// safeurlのブロックはDo時点のエラーとして現れる
		if isBlockedByGuard(err) {
			slog.Warn("JD import blocked by SSRF guard",
				slog.String("url", rawURL),
				slog.String("error", err.Error()),
			)
			return "", model.NewJDFetchBlockedError()
		}
		slog.Error("JD import fetch failed",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return "", model.NewJDFetchFailedError("ページの取得に失敗しました")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewJDFetchFailedError(fmt.Sprintf("HTTPステータス %d が返されました", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return "", model.NewJDFetchFailedError(fmt.Sprintf("HTMLではないコンテンツです: %s", contentType))
	}

	// 3. 本文テキストを抽出してHTML化
	limited := io.LimitReader(resp.Body, maxResponseSize)
	extracted, err := extractContent(limited)
	if err != nil {
		return "", model.NewJDFetchFailedError("ページの解析に失敗しました")
	}
	if extracted == "" {
		return "", model.NewJDFetchFailedError("本文テキストを抽出できませんでした")
	}

	// 4. サニタイズして返す
	sanitized := i.sanitizer.Sanitize(extracted)

	slog.Info("JD imported",
		slog.String("url", rawURL),
		slog.Int("length", len(sanitized)),
	)
	return sanitized, nil
}

// isBlockedByGuard はsafeurlによるブロックエラーかを判定する。
func isBlockedByGuard(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not allowed") || strings.Contains(msg, "blocked")
}

// skipElements はテキスト抽出時にスキップする要素。
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"iframe":   true,
}

// blockElements は段落区切りとして扱う要素。
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"li": true, "br": true, "tr": true,
}

// extractContent はHTMLドキュメントから本文テキストを抽出し、
// 段落ごとに<p>タグで囲んだシンプルなHTMLを返す。
func extractContent(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var paragraphs []string
	var current strings.Builder
	totalLength := 0

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, text)
		totalLength += len(text)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if totalLength >= maxTextLength {
			return
		}
		switch n.Type {
		case html.ElementNode:
			if skipElements[n.Data] {
				return
			}
			if blockElements[n.Data] {
				flush()
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	if len(paragraphs) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(p))
		b.WriteString("</p>\n")
	}
	return b.String(), nil
}
