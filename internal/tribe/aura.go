package tribe

import (
	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

const (
	minAuraAmount = 1
	maxAuraAmount = 100
)

const defaultAuraReason = "Quick Boost"

// GiveAura awards points from one member to another. Aura is generated, not
// transferred: the sender's balance is never debited.
//
// The transaction record is written first, then the balance is bumped with a
// single atomic increment. The two writes are not one transaction; if the
// increment fails after the insert succeeded, the orphan transaction is left
// in place for reconciliation and the failure is logged and returned.
func (s *Service) GiveAura(groupID, fromUserID, toUserID int64, amount int, reason string) (*model.Transaction, error) {
	if amount < minAuraAmount || amount > maxAuraAmount {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		reason = defaultAuraReason
	}

	if _, err := s.requireMember(groupID, fromUserID); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(groupID, toUserID); err != nil {
		return nil, err
	}

	txn, err := s.transactions.Create(groupID, fromUserID, &toUserID, amount, reason)
	if err != nil {
		return nil, err
	}

	if err := s.groups.IncrementAura(groupID, toUserID, amount); err != nil {
		s.logger.Error("balance increment failed after transaction insert",
			"transaction_id", txn.ID,
			"group_id", groupID,
			"user_id", toUserID,
			"amount", amount,
			"error", err,
		)
		return nil, err
	}

	return txn, nil
}
