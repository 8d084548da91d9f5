package security

import (
	"strings"
	"testing"
)

// TestContentSanitizer_Sanitize はJD HTMLのサニタイズ動作を検証する。
func TestContentSanitizer_Sanitize(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "許可タグは保持される",
			input:    "<p>段落</p><ul><li>項目</li></ul><strong>強調</strong>",
			contains: []string{"<p>段落</p>", "<li>項目</li>", "<strong>強調</strong>"},
		},
		{
			name:        "scriptタグは除去される",
			input:       `<p>安全</p><script>alert("xss")</script>`,
			contains:    []string{"<p>安全</p>"},
			notContains: []string{"<script>", "alert"},
		},
		{
			name:        "iframeタグは除去される",
			input:       `<p>本文</p><iframe src="https://evil.example.com"></iframe>`,
			contains:    []string{"<p>本文</p>"},
			notContains: []string{"<iframe"},
		},
		{
			name:        "イベント属性は除去される",
			input:       `<p onclick="alert(1)">クリック</p>`,
			contains:    []string{"クリック"},
			notContains: []string{"onclick"},
		},
		{
			name:        "styleタグは除去される",
			input:       `<style>body{display:none}</style><p>本文</p>`,
			contains:    []string{"<p>本文</p>"},
			notContains: []string{"<style>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizer.Sanitize(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("Sanitize(%q) = %q, should contain %q", tt.input, result, want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(result, unwanted) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.input, result, unwanted)
				}
			}
		})
	}
}

// TestContentSanitizer_Sanitize_Links はリンクの属性付与ポリシーを検証する。
func TestContentSanitizer_Sanitize_Links(t *testing.T) {
	sanitizer := NewContentSanitizer()

	result := sanitizer.Sanitize(`<a href="https://example.com/jobs">求人ページ</a>`)

	if !strings.Contains(result, `href="https://example.com/jobs"`) {
		t.Errorf("https link should be preserved: %q", result)
	}
	if !strings.Contains(result, `target="_blank"`) {
		t.Errorf("target=_blank should be added: %q", result)
	}
	if !strings.Contains(result, "noreferrer") {
		t.Errorf("rel=noreferrer should be added: %q", result)
	}
}

// TestContentSanitizer_Sanitize_Idempotent は同一入力に対する冪等性を検証する。
func TestContentSanitizer_Sanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `<p>本文</p><script>alert(1)</script><ul><li>項目</li></ul>`

	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)

	if first != second {
		t.Errorf("sanitize should be idempotent: first=%q second=%q", first, second)
	}
}

// TestContentSanitizer_Sanitize_Empty は空入力の扱いを検証する。
func TestContentSanitizer_Sanitize_Empty(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}
