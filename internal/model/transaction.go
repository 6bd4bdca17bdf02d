package model

import "time"

// Transaction is an append-only audit record of a balance mutation.
// A nil ToID marks a redemption; positive amounts are awards, negative
// amounts are deductions.
type Transaction struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	FromID    int64     `json:"from_id"`
	ToID      *int64    `json:"to_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
