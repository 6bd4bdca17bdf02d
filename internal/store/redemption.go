package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

type RedemptionStore struct {
	db *sql.DB
}

func NewRedemptionStore(db *sql.DB) *RedemptionStore {
	return &RedemptionStore{db: db}
}

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	var approvedBy sql.NullInt64
	var adminNotes sql.NullString

	err := scanner.Scan(
		&r.ID, &r.RewardID, &r.GroupID, &r.UserID, &r.Status,
		&r.PointsDeducted, &approvedBy, &adminNotes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		r.ApprovedBy = &approvedBy.Int64
	}
	if adminNotes.Valid {
		r.AdminNotes = &adminNotes.String
	}
	return &r, nil
}

const redemptionCols = `id, reward_id, group_id, user_id, status, points_deducted, approved_by, admin_notes, created_at, updated_at`

// Create inserts a pending redemption with the reward's cost snapshotted.
func (s *RedemptionStore) Create(rewardID, groupID, userID int64, pointsDeducted int) (*model.Redemption, error) {
	result, err := s.db.Exec(
		`INSERT INTO reward_redemptions (reward_id, group_id, user_id, status, points_deducted) VALUES (?, ?, ?, 'pending', ?)`,
		rewardID, groupID, userID, pointsDeducted,
	)
	if err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RedemptionStore) GetByID(id int64) (*model.Redemption, error) {
	row := s.db.QueryRow(`SELECT `+redemptionCols+` FROM reward_redemptions WHERE id = ?`, id)
	r, err := scanRedemption(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get redemption: %w", err)
	}
	return r, nil
}

// HasPending reports whether the user already has a pending redemption for
// the reward.
func (s *RedemptionStore) HasPending(rewardID, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM reward_redemptions WHERE reward_id = ? AND user_id = ? AND status = 'pending' LIMIT 1`,
		rewardID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check pending redemption: %w", err)
	}
	return true, nil
}

// MarkApproved flips the redemption out of pending. The status guard in the
// WHERE clause is what makes concurrent approvals exactly-once: of two racing
// callers only one statement matches the row, and the loser gets false.
func (s *RedemptionStore) MarkApproved(id, adminID int64) (bool, error) {
	var flipped bool
	err := withBusyRetry(func() error {
		result, err := s.db.Exec(
			`UPDATE reward_redemptions
			 SET status = 'approved', approved_by = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = 'pending'`,
			adminID, id,
		)
		if err != nil {
			return fmt.Errorf("approve redemption: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		flipped = n == 1
		return nil
	})
	return flipped, err
}

// MarkRejected flips the redemption to rejected under the same pending guard.
// Rejection never touches the balance.
func (s *RedemptionStore) MarkRejected(id, adminID int64, notes *string) (bool, error) {
	var n sql.NullString
	if notes != nil {
		n = sql.NullString{String: *notes, Valid: true}
	}

	var flipped bool
	err := withBusyRetry(func() error {
		result, err := s.db.Exec(
			`UPDATE reward_redemptions
			 SET status = 'rejected', approved_by = ?, admin_notes = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = 'pending'`,
			adminID, n, id,
		)
		if err != nil {
			return fmt.Errorf("reject redemption: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		flipped = rows == 1
		return nil
	})
	return flipped, err
}

// RevertApproval puts an approved redemption back to pending so it can be
// retried. Used only when the paired balance deduction failed.
func (s *RedemptionStore) RevertApproval(id int64) error {
	_, err := s.db.Exec(
		`UPDATE reward_redemptions
		 SET status = 'pending', approved_by = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'approved'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("revert approval: %w", err)
	}
	return nil
}

const redemptionDetailQuery = `
	SELECT r.id, r.reward_id, r.group_id, r.user_id, r.status, r.points_deducted,
	       r.approved_by, r.admin_notes, r.created_at, r.updated_at,
	       w.title, w.icon, u.name
	FROM reward_redemptions r
	JOIN rewards w ON w.id = r.reward_id
	JOIN users u ON u.id = r.user_id`

func (s *RedemptionStore) queryDetails(query string, args ...any) ([]model.RedemptionDetail, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var details []model.RedemptionDetail
	for rows.Next() {
		var d model.RedemptionDetail
		var approvedBy sql.NullInt64
		var adminNotes sql.NullString

		err := rows.Scan(
			&d.ID, &d.RewardID, &d.GroupID, &d.UserID, &d.Status, &d.PointsDeducted,
			&approvedBy, &adminNotes, &d.CreatedAt, &d.UpdatedAt,
			&d.RewardTitle, &d.RewardIcon, &d.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan redemption detail: %w", err)
		}

		if approvedBy.Valid {
			d.ApprovedBy = &approvedBy.Int64
		}
		if adminNotes.Valid {
			d.AdminNotes = &adminNotes.String
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListPendingByGroup returns the group's pending redemptions, newest first.
func (s *RedemptionStore) ListPendingByGroup(groupID int64) ([]model.RedemptionDetail, error) {
	return s.queryDetails(
		redemptionDetailQuery+` WHERE r.group_id = ? AND r.status = 'pending' ORDER BY r.created_at DESC, r.id DESC`,
		groupID,
	)
}

// ListByUser returns the user's redemption history in the group, newest first.
func (s *RedemptionStore) ListByUser(groupID, userID int64) ([]model.RedemptionDetail, error) {
	return s.queryDetails(
		redemptionDetailQuery+` WHERE r.group_id = ? AND r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`,
		groupID, userID,
	)
}

// ListRecentProcessed returns the user's redemptions approved or rejected
// since the cutoff, most recently updated first.
func (s *RedemptionStore) ListRecentProcessed(groupID, userID int64, since time.Time, limit int) ([]model.RedemptionDetail, error) {
	return s.queryDetails(
		redemptionDetailQuery+` WHERE r.group_id = ? AND r.user_id = ? AND r.status IN ('approved', 'rejected') AND r.updated_at >= ? ORDER BY r.updated_at DESC LIMIT ?`,
		groupID, userID, since, limit,
	)
}
