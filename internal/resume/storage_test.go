package resume

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFileStorage_SaveAndOpen は保存したファイルを読み戻せることを検証する。
func TestFileStorage_SaveAndOpen(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}

	path, err := fs.Save(context.Background(), "resume-1.pdf", strings.NewReader("%PDF-1.7 dummy"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	f, err := fs.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read returned error: %v", err)
	}
	if string(data) != "%PDF-1.7 dummy" {
		t.Errorf("content = %q", data)
	}
}

// TestFileStorage_Save_RejectsPathTraversal はパス区切りを含むファイル名が
// 拒否されることを検証する。
func TestFileStorage_Save_RejectsPathTraversal(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}

	names := []string{"../escape.pdf", "sub/dir.pdf", ""}
	for _, name := range names {
		if _, err := fs.Save(context.Background(), name, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) should be rejected", name)
		}
	}
}

// TestFileStorage_Open_RejectsOutsidePath は保存ディレクトリ外のパスを
// 開けないことを検証する。
func TestFileStorage_Open_RejectsOutsidePath(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}

	if _, err := fs.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Error("path outside storage directory should be rejected")
	}
}

// TestFileStorage_Delete はファイル削除と冪等性を検証する。
func TestFileStorage_Delete(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage returned error: %v", err)
	}

	path, err := fs.Save(context.Background(), "resume-1.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := fs.Delete(context.Background(), path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "resume-1.pdf")); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	// 既に存在しないファイルの削除はエラーにならない
	if err := fs.Delete(context.Background(), path); err != nil {
		t.Errorf("deleting missing file should not error: %v", err)
	}
}
