package tribe

import (
	"strings"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

const defaultRewardIcon = "⭐"

func validRewardTitle(title string) bool {
	n := len(strings.TrimSpace(title))
	return n >= 1 && n <= 100
}

// CreateReward adds a catalog entry to the tribe. Admin only.
func (s *Service) CreateReward(groupID, actorID int64, title string, cost int, icon string, requiresApproval bool) (*model.Reward, error) {
	if err := s.requireAdmin(groupID, actorID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if !validRewardTitle(title) {
		return nil, ErrInvalidTitle
	}
	if cost <= 0 {
		return nil, ErrInvalidCost
	}
	if icon == "" {
		icon = defaultRewardIcon
	}

	return s.rewards.Create(groupID, title, cost, icon, requiresApproval)
}

// UpdateReward edits a catalog entry. The reward is looked up first and the
// admin check runs against its resolved group, so an admin of one tribe
// cannot touch another tribe's catalog.
func (s *Service) UpdateReward(rewardID, actorID int64, title string, cost int, icon string, requiresApproval bool) (*model.Reward, error) {
	reward, err := s.rewards.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}

	if err := s.requireAdmin(reward.GroupID, actorID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if !validRewardTitle(title) {
		return nil, ErrInvalidTitle
	}
	if cost <= 0 {
		return nil, ErrInvalidCost
	}
	if icon == "" {
		icon = reward.Icon
	}

	return s.rewards.Update(rewardID, title, cost, icon, requiresApproval)
}

func (s *Service) DeleteReward(rewardID, actorID int64) error {
	reward, err := s.rewards.GetByID(rewardID)
	if err != nil {
		return err
	}
	if reward == nil {
		return ErrRewardNotFound
	}

	if err := s.requireAdmin(reward.GroupID, actorID); err != nil {
		return err
	}

	return s.rewards.Delete(rewardID)
}

// ListRewards returns the tribe's catalog. Member only.
func (s *Service) ListRewards(groupID, userID int64) ([]model.Reward, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.rewards.ListByGroup(groupID)
}
