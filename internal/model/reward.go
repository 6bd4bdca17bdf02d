package model

import "time"

type Reward struct {
	ID               int64     `json:"id"`
	GroupID          int64     `json:"group_id"`
	Title            string    `json:"title"`
	Cost             int       `json:"cost"`
	Icon             string    `json:"icon"`
	RequiresApproval bool      `json:"requires_approval"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	RedemptionPending  = "pending"
	RedemptionApproved = "approved"
	RedemptionRejected = "rejected"
)

// Redemption is a request to exchange points for a reward. PointsDeducted
// snapshots the reward's cost at request time, so later price changes do not
// affect an in-flight request.
type Redemption struct {
	ID             int64     `json:"id"`
	RewardID       int64     `json:"reward_id"`
	GroupID        int64     `json:"group_id"`
	UserID         int64     `json:"user_id"`
	Status         string    `json:"status"`
	PointsDeducted int       `json:"points_deducted"`
	ApprovedBy     *int64    `json:"approved_by"`
	AdminNotes     *string   `json:"admin_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RedemptionDetail is a redemption joined with its reward's title and icon
// plus the requester's name, for approval queues and alert feeds.
type RedemptionDetail struct {
	Redemption
	RewardTitle string `json:"reward_title"`
	RewardIcon  string `json:"reward_icon"`
	UserName    string `json:"user_name"`
}
