package model

import "time"

// OrderStatus は注文の状態を表す。
type OrderStatus string

const (
	// OrderStatusPurchased は購入済みを示す。
	// このコンポーネントが書き込む唯一のステータス。返金・キャンセルは扱わない。
	OrderStatusPurchased OrderStatus = "PURCHASED"
)

// Order はユーザーによるパック1回分の購入を表す。
// 1つの注文はAttemptsTotal回までの面接セッションの権利を与える。
// 不変条件: すべての更新後に AttemptsUsed <= AttemptsTotal が成立すること。
type Order struct {
	ID            string
	UserID        string
	PackID        string
	Amount        int
	Status        OrderStatus
	AttemptsUsed  int
	AttemptsTotal int
	CreatedAt     time.Time
}

// RemainingAttempts は残り受験回数を返す。
func (o *Order) RemainingAttempts() int {
	if o.AttemptsUsed >= o.AttemptsTotal {
		return 0
	}
	return o.AttemptsTotal - o.AttemptsUsed
}
