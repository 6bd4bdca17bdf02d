package store

import (
	"database/sql"
	"fmt"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var requiresApproval int

	err := scanner.Scan(&r.ID, &r.GroupID, &r.Title, &r.Cost, &r.Icon, &requiresApproval, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.RequiresApproval = requiresApproval != 0
	return &r, nil
}

const rewardCols = `id, group_id, title, cost, icon, requires_approval, created_at, updated_at`

func (s *RewardStore) Create(groupID int64, title string, cost int, icon string, requiresApproval bool) (*model.Reward, error) {
	var ra int
	if requiresApproval {
		ra = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO rewards (group_id, title, cost, icon, requires_approval) VALUES (?, ?, ?, ?, ?)`,
		groupID, title, cost, icon, ra,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) GetByID(id int64) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// ListByGroup returns the group's rewards, cheapest first, then by title.
func (s *RewardStore) ListByGroup(groupID int64) ([]model.Reward, error) {
	rows, err := s.db.Query(
		`SELECT `+rewardCols+` FROM rewards WHERE group_id = ? ORDER BY cost ASC, title ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(id int64, title string, cost int, icon string, requiresApproval bool) (*model.Reward, error) {
	var ra int
	if requiresApproval {
		ra = 1
	}

	_, err := s.db.Exec(
		`UPDATE rewards SET title = ?, cost = ?, icon = ?, requires_approval = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, cost, icon, ra, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetByID(id)
}

func (s *RewardStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}
