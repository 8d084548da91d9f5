package resume

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage はローカルファイルシステムへのStorage実装。
type FileStorage struct {
	baseDir string
}

// NewFileStorage はFileStorageを生成する。
// baseDirが存在しない場合は作成する。
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{baseDir: baseDir}, nil
}

// Save はファイル本体をbaseDir配下に保存する。
func (fs *FileStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	path, err := fs.resolve(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return path, nil
}

// Open は保存済みファイルを開く。
func (fs *FileStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	// baseDir配下以外のパスは開かない
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(fs.baseDir)) {
		return nil, fmt.Errorf("path outside storage directory: %s", path)
	}
	return os.Open(path)
}

// Delete は保存済みファイルを削除する。ファイルが存在しない場合はエラーを返さない。
func (fs *FileStorage) Delete(ctx context.Context, path string) error {
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(fs.baseDir)) {
		return fmt.Errorf("path outside storage directory: %s", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve はファイル名をbaseDir配下の絶対パスに解決する。
// パストラバーサルを防ぐため、ファイル名にパス区切りを含めてはならない。
func (fs *FileStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %s", name)
	}
	return filepath.Join(fs.baseDir, name), nil
}

// compile-time interface check
var _ Storage = (*FileStorage)(nil)
