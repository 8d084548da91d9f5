package model

import "time"

// Resume はアップロードされた履歴書ファイルのメタデータを表す。
// ファイル本体はストレージ（ファイルシステム）に保存される。
type Resume struct {
	ID          string
	UserID      string
	FileName    string
	StoragePath string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
