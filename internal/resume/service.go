// Package resume は履歴書ファイルのアップロード・管理機能を提供する。
package resume

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/intervue/internal/model"
	"github.com/hitoshi/intervue/internal/repository"
)

// allowedContentTypes はアップロードを許可するファイル形式。
// PDFとWord形式（doc/docx）のみ許可する。
var allowedContentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// Storage は履歴書ファイル本体の保存先を抽象化する。
type Storage interface {
	// Save はファイル本体を保存する。保存先のパスを返す。
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open は保存済みファイルを読み取り用に開く。
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete は保存済みファイルを削除する。
	Delete(ctx context.Context, path string) error
}

// Service は履歴書に関するビジネスロジックを提供する。
type Service struct {
	resumeRepo repository.ResumeRepository
	storage    Storage
	maxBytes   int64
}

// NewService はServiceを生成する。
// maxBytesはアップロードを許可する最大ファイルサイズ。
func NewService(resumeRepo repository.ResumeRepository, storage Storage, maxBytes int64) *Service {
	return &Service{
		resumeRepo: resumeRepo,
		storage:    storage,
		maxBytes:   maxBytes,
	}
}

// Upload は履歴書ファイルを検証・保存し、メタデータを永続化する。
// ファイル形式はPDF/Word系のみ許可し、サイズ上限を超える場合はエラーを返す。
func (s *Service) Upload(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*model.Resume, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}
	if fileName == "" {
		return nil, model.NewInvalidRequestError("ファイル名は必須です")
	}

	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, model.NewResumeInvalidTypeError(contentType)
	}
	if size > s.maxBytes {
		return nil, model.NewResumeTooLargeError(s.maxBytes)
	}

	// Content-Length詐称対策: 上限+1バイトで読み取りを打ち切り、超過を検出する
	limited := io.LimitReader(r, s.maxBytes+1)

	resumeID := uuid.New().String()
	storageName := resumeID + ext

	storagePath, err := s.storage.Save(ctx, storageName, &sizeGuardReader{r: limited, max: s.maxBytes})
	if err != nil {
		if err == errSizeExceeded {
			// 書き込み途中のファイルは残さない
			_ = s.storage.Delete(ctx, storageName)
			return nil, model.NewResumeTooLargeError(s.maxBytes)
		}
		return nil, fmt.Errorf("履歴書ファイルの保存に失敗しました: %w", err)
	}

	resume := &model.Resume{
		ID:          resumeID,
		UserID:      userID,
		FileName:    filepath.Base(fileName),
		StoragePath: storagePath,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   time.Now(),
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		// メタデータ保存に失敗したらファイル本体も残さない
		_ = s.storage.Delete(ctx, storagePath)
		return nil, fmt.Errorf("履歴書メタデータの保存に失敗しました: %w", err)
	}

	slog.Info("resume uploaded",
		slog.String("resume_id", resume.ID),
		slog.String("user_id", userID),
		slog.Int64("size_bytes", size),
	)
	return resume, nil
}

// GetLatest はユーザーの最新の履歴書メタデータを返す。
// アップロード済みの履歴書がない場合はnilを返す。
func (s *Service) GetLatest(ctx context.Context, userID string) (*model.Resume, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}

	resume, err := s.resumeRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("履歴書の取得に失敗しました: %w", err)
	}
	return resume, nil
}

// errSizeExceeded はサイズ上限超過を示す内部エラー。
var errSizeExceeded = fmt.Errorf("file size exceeds limit")

// sizeGuardReader は読み取り量が上限を超えたらエラーを返すReader。
type sizeGuardReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (g *sizeGuardReader) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)
	g.read += int64(n)
	if g.read > g.max {
		return n, errSizeExceeded
	}
	return n, err
}
