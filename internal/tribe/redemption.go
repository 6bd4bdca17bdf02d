package tribe

import (
	"time"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

// RedeemResult reports how a redeem call resolved: instantly completed, or
// parked as a pending request awaiting an admin.
type RedeemResult struct {
	Instant    bool              `json:"instant"`
	Redemption *model.Redemption `json:"redemption,omitempty"`
}

// Redeem exchanges points for a reward. Instant rewards resolve in one step;
// approval-gated rewards create a pending request and deduct nothing yet.
//
// No reserve is held on the balance while a request is pending; the
// sufficient-funds check is against the live balance at request time.
func (s *Service) Redeem(groupID, rewardID, userID int64) (*RedeemResult, error) {
	reward, err := s.rewards.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil || reward.GroupID != groupID {
		return nil, ErrRewardNotFound
	}

	member, err := s.requireMember(groupID, userID)
	if err != nil {
		return nil, err
	}

	if member.AuraPoints < reward.Cost {
		return nil, ErrInsufficientPoints
	}

	if reward.RequiresApproval {
		pending, err := s.redemptions.HasPending(rewardID, userID)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, ErrDuplicatePending
		}

		// Snapshot the cost now so later price changes can't affect
		// this request.
		redemption, err := s.redemptions.Create(rewardID, groupID, userID, reward.Cost)
		if err != nil {
			return nil, err
		}
		return &RedeemResult{Instant: false, Redemption: redemption}, nil
	}

	// Instant redemption: same ledger shape as an award, but to_id is null
	// and the amount is negative.
	txn, err := s.transactions.Create(groupID, userID, nil, -reward.Cost, "Redeemed: "+reward.Title)
	if err != nil {
		return nil, err
	}

	if err := s.groups.IncrementAura(groupID, userID, -reward.Cost); err != nil {
		s.logger.Error("balance deduction failed after redemption transaction insert",
			"transaction_id", txn.ID,
			"group_id", groupID,
			"user_id", userID,
			"amount", -reward.Cost,
			"error", err,
		)
		return nil, err
	}

	return &RedeemResult{Instant: true}, nil
}

// RedeemReward resolves the reward's own tribe and redeems against it, for
// callers that address the reward directly.
func (s *Service) RedeemReward(rewardID, userID int64) (*RedeemResult, error) {
	reward, err := s.rewards.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return s.Redeem(reward.GroupID, rewardID, userID)
}

// Approve completes a pending redemption: flip the status, deduct the
// snapshotted points, record the transaction.
//
// The status flip is an optimistic write guarded on status = pending, so of
// two racing approvers exactly one deducts. If the deduction itself fails the
// flip is reverted — an approved request with no deduction would hand out the
// reward for free, so this is the one place a compensating action is required
// rather than an accepted gap.
func (s *Service) Approve(redemptionID, adminID int64) error {
	redemption, err := s.redemptions.GetByID(redemptionID)
	if err != nil {
		return err
	}
	if redemption == nil {
		return ErrRedemptionNotFound
	}
	if redemption.Status != model.RedemptionPending {
		return ErrAlreadyProcessed
	}

	if err := s.requireAdmin(redemption.GroupID, adminID); err != nil {
		return err
	}

	flipped, err := s.redemptions.MarkApproved(redemptionID, adminID)
	if err != nil {
		return err
	}
	if !flipped {
		// Someone else won the race.
		return ErrAlreadyProcessed
	}

	if err := s.groups.IncrementAura(redemption.GroupID, redemption.UserID, -redemption.PointsDeducted); err != nil {
		s.logger.Error("balance deduction failed, reverting approval",
			"redemption_id", redemptionID,
			"group_id", redemption.GroupID,
			"user_id", redemption.UserID,
			"points", redemption.PointsDeducted,
			"error", err,
		)
		if revertErr := s.redemptions.RevertApproval(redemptionID); revertErr != nil {
			s.logger.Error("approval revert failed; redemption approved without deduction",
				"redemption_id", redemptionID,
				"error", revertErr,
			)
		}
		return err
	}

	reason := "Redeemed (Approved)"
	if reward, err := s.rewards.GetByID(redemption.RewardID); err == nil && reward != nil {
		reason = "Redeemed (Approved): " + reward.Title
	}

	if _, err := s.transactions.Create(redemption.GroupID, redemption.UserID, nil, -redemption.PointsDeducted, reason); err != nil {
		// The balance already moved; the missing audit row is left for
		// reconciliation.
		s.logger.Error("transaction insert failed after approved deduction",
			"redemption_id", redemptionID,
			"group_id", redemption.GroupID,
			"user_id", redemption.UserID,
			"points", redemption.PointsDeducted,
			"error", err,
		)
	}

	return nil
}

// Reject declines a pending redemption. No points move.
func (s *Service) Reject(redemptionID, adminID int64, notes *string) error {
	redemption, err := s.redemptions.GetByID(redemptionID)
	if err != nil {
		return err
	}
	if redemption == nil {
		return ErrRedemptionNotFound
	}
	if redemption.Status != model.RedemptionPending {
		return ErrAlreadyProcessed
	}

	if err := s.requireAdmin(redemption.GroupID, adminID); err != nil {
		return err
	}

	flipped, err := s.redemptions.MarkRejected(redemptionID, adminID, notes)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrAlreadyProcessed
	}
	return nil
}

// PendingRedemptions returns the tribe's approval queue. Admin only.
func (s *Service) PendingRedemptions(groupID, adminID int64) ([]model.RedemptionDetail, error) {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return nil, err
	}
	return s.redemptions.ListPendingByGroup(groupID)
}

// UserRedemptions returns the caller's own redemption history in the tribe.
func (s *Service) UserRedemptions(groupID, userID int64) ([]model.RedemptionDetail, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.redemptions.ListByUser(groupID, userID)
}

const (
	alertWindow = 24 * time.Hour
	alertLimit  = 5
)

// RecentRedemptionAlerts returns the caller's redemptions decided in the last
// 24 hours, for surfacing approval/rejection notices on next load.
func (s *Service) RecentRedemptionAlerts(groupID, userID int64) ([]model.RedemptionDetail, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	since := time.Now().UTC().Add(-alertWindow)
	return s.redemptions.ListRecentProcessed(groupID, userID, since, alertLimit)
}
