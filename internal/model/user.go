// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 初回サインイン時に作成され、以降のサインインでIdP側の属性変更が同期される。
type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// 面接セッション（InterviewSession）とは別物。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserCredit はアカウント作成時に付与されるボーナスクレジットの台帳エントリを表す。
type UserCredit struct {
	ID        string
	UserID    string
	Amount    int
	Reason    string
	CreatedAt time.Time
}
