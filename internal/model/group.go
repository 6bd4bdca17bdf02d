package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Group struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsPublic   bool      `json:"is_public"`
	InviteCode string    `json:"invite_code"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Member struct {
	GroupID    int64     `json:"group_id"`
	UserID     int64     `json:"user_id"`
	Role       string    `json:"role"`
	AuraPoints int       `json:"aura_points"`
	JoinedAt   time.Time `json:"joined_at"`
}

// LeaderboardEntry is a member joined with their user's display name,
// ordered by aura_points descending.
type LeaderboardEntry struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	AuraPoints int    `json:"aura_points"`
}
