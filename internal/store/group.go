package store

import (
	"database/sql"
	"fmt"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

// --- Group methods ---

func scanGroup(scanner interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	var isPublic int

	err := scanner.Scan(&g.ID, &g.Name, &isPublic, &g.InviteCode, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.IsPublic = isPublic != 0
	return &g, nil
}

const groupCols = `id, name, is_public, invite_code, created_by, created_at, updated_at`

func (s *GroupStore) Create(name string, isPublic bool, inviteCode string, createdBy int64) (*model.Group, error) {
	var p int
	if isPublic {
		p = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO groups (name, is_public, invite_code, created_by) VALUES (?, ?, ?, ?)`,
		name, p, inviteCode, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroupStore) GetByID(id int64) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (s *GroupStore) GetByInviteCode(code string) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE invite_code = ?`, code)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group by invite code: %w", err)
	}
	return g, nil
}

func (s *GroupStore) Rename(id int64, name string) (*model.Group, error) {
	_, err := s.db.Exec(
		`UPDATE groups SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename group: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the group; members, transactions, rewards, and redemptions
// go with it via foreign key cascade.
func (s *GroupStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// ListPublic returns public groups, newest first.
func (s *GroupStore) ListPublic() ([]model.Group, error) {
	rows, err := s.db.Query(`SELECT ` + groupCols + ` FROM groups WHERE is_public = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list public groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (s *GroupStore) ListForUser(userID int64) ([]model.Group, error) {
	rows, err := s.db.Query(
		`SELECT g.id, g.name, g.is_public, g.invite_code, g.created_by, g.created_at, g.updated_at
		 FROM groups g
		 JOIN members m ON g.id = m.group_id
		 WHERE m.user_id = ?
		 ORDER BY g.name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// --- Member methods ---

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(&m.GroupID, &m.UserID, &m.Role, &m.AuraPoints, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const memberCols = `group_id, user_id, role, aura_points, joined_at`

func (s *GroupStore) AddMember(groupID, userID int64, role string) (*model.Member, error) {
	_, err := s.db.Exec(
		`INSERT INTO members (group_id, user_id, role, aura_points) VALUES (?, ?, ?, 0)`,
		groupID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.GetMember(groupID, userID)
}

func (s *GroupStore) GetMember(groupID, userID int64) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *GroupStore) RemoveMember(groupID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *GroupStore) ListMembers(groupID int64) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE group_id = ? ORDER BY joined_at ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *GroupStore) UpdateMemberRole(groupID, userID int64, role string) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET role = ? WHERE group_id = ? AND user_id = ?`,
		role, groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update member role: %w", err)
	}
	return s.GetMember(groupID, userID)
}

func (s *GroupStore) CountAdmins(groupID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM members WHERE group_id = ? AND role = 'admin'`,
		groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// IncrementAura applies a signed delta to a member's balance as a single
// statement. Balances must never be updated by reading the current value and
// writing a computed one; that loses updates under concurrent writers.
// Transient lock contention is retried.
func (s *GroupStore) IncrementAura(groupID, userID int64, delta int) error {
	return withBusyRetry(func() error {
		result, err := s.db.Exec(
			`UPDATE members SET aura_points = aura_points + ? WHERE group_id = ? AND user_id = ?`,
			delta, groupID, userID,
		)
		if err != nil {
			return fmt.Errorf("increment aura: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("increment aura: member %d not in group %d", userID, groupID)
		}
		return nil
	})
}

// Leaderboard returns members joined with user names, highest balance first.
func (s *GroupStore) Leaderboard(groupID int64) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT m.user_id, u.name, m.role, m.aura_points
		 FROM members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ?
		 ORDER BY m.aura_points DESC, u.name ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Role, &e.AuraPoints); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
