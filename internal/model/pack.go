package model

import "time"

// InterviewPack はカタログ上の面接パック商品を表す。
// エンタイトルメント管理の観点では読み取り専用の参照データ。
type InterviewPack struct {
	ID              string
	Title           string
	Role            string
	Level           string
	DurationMinutes int
	Price           int    // 価格（通貨最小単位）
	JobDescription  string // サニタイズ済みHTML
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
