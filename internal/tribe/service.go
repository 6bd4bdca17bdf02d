package tribe

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
	"github.com/kaushalkrsna1602/auraflow/internal/store"
)

// Service is the core of the app: the points ledger and the redemption
// workflow. Every operation takes the acting user id explicitly; there is no
// ambient identity below this layer.
type Service struct {
	groups       *store.GroupStore
	transactions *store.TransactionStore
	rewards      *store.RewardStore
	redemptions  *store.RedemptionStore
	logger       *slog.Logger
}

func NewService(
	groups *store.GroupStore,
	transactions *store.TransactionStore,
	rewards *store.RewardStore,
	redemptions *store.RedemptionStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		groups:       groups,
		transactions: transactions,
		rewards:      rewards,
		redemptions:  redemptions,
		logger:       logger,
	}
}

// --- Authorization guard ---

// requireMember returns the member row (with live balance) or ErrNotAMember.
// The store's own constraints back this up, but the guard runs first so the
// caller gets a meaningful error and no mutation is attempted.
func (s *Service) requireMember(groupID, userID int64) (*model.Member, error) {
	m, err := s.groups.GetMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotAMember
	}
	return m, nil
}

func (s *Service) requireAdmin(groupID, userID int64) error {
	m, err := s.groups.GetMember(groupID, userID)
	if err != nil {
		return err
	}
	if m == nil || m.Role != model.RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

// --- Group lifecycle ---

const inviteCodeLen = 6

var inviteCodeChars = []byte("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

func generateInviteCode() (string, error) {
	var b strings.Builder
	for i := 0; i < inviteCodeLen; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		b.WriteByte(inviteCodeChars[n.Int64()])
	}
	return b.String(), nil
}

func validGroupName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= 3 && n <= 50
}

// CreateGroup creates a tribe and enrolls the creator as its sole admin.
func (s *Service) CreateGroup(actorID int64, name string, isPublic bool) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if !validGroupName(name) {
		return nil, ErrInvalidName
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	g, err := s.groups.Create(name, isPublic, code, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.groups.AddMember(g.ID, actorID, model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("enroll creator: %w", err)
	}
	return g, nil
}

// JoinGroup adds the user as a member with zero points. Joining a tribe you
// already belong to is a conflict, not a silent no-op.
func (s *Service) JoinGroup(groupID, userID int64) (*model.Member, error) {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	existing, err := s.groups.GetMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	return s.groups.AddMember(groupID, userID, model.RoleMember)
}

// JoinByInviteCode resolves the invite code and joins that tribe.
func (s *Service) JoinByInviteCode(code string, userID int64) (*model.Member, error) {
	g, err := s.groups.GetByInviteCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return s.JoinGroup(g.ID, userID)
}

// LeaveGroup removes the member, refusing when they are the last admin so a
// tribe can never be left without one.
func (s *Service) LeaveGroup(groupID, userID int64) error {
	m, err := s.requireMember(groupID, userID)
	if err != nil {
		return err
	}

	if m.Role == model.RoleAdmin {
		count, err := s.groups.CountAdmins(groupID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}

	return s.groups.RemoveMember(groupID, userID)
}

// RemoveMember lets an admin remove another member from the tribe.
func (s *Service) RemoveMember(groupID, adminID, targetUserID int64) error {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return err
	}

	target, err := s.groups.GetMember(groupID, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}

	return s.groups.RemoveMember(groupID, targetUserID)
}

func (s *Service) RenameGroup(groupID, adminID int64, name string) (*model.Group, error) {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if !validGroupName(name) {
		return nil, ErrInvalidName
	}
	return s.groups.Rename(groupID, name)
}

// DeleteGroup removes the tribe and everything in it (store-level cascade).
func (s *Service) DeleteGroup(groupID, adminID int64) error {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return err
	}
	return s.groups.Delete(groupID)
}

// UpdateMemberRole promotes or demotes a member. Demoting the last admin is
// refused for the same reason leaving as one is.
func (s *Service) UpdateMemberRole(groupID, adminID, targetUserID int64, role string) (*model.Member, error) {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && role != model.RoleMember {
		return nil, ErrInvalidRole
	}

	target, err := s.groups.GetMember(groupID, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}

	if target.Role == model.RoleAdmin && role == model.RoleMember {
		count, err := s.groups.CountAdmins(groupID)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, ErrLastAdmin
		}
	}

	return s.groups.UpdateMemberRole(groupID, targetUserID, role)
}

// --- Reads ---

func (s *Service) GetGroup(groupID, userID int64) (*model.Group, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

func (s *Service) ListGroupsForUser(userID int64) ([]model.Group, error) {
	return s.groups.ListForUser(userID)
}

func (s *Service) ListPublicGroups() ([]model.Group, error) {
	return s.groups.ListPublic()
}

// Leaderboard returns the tribe's members by balance, highest first.
func (s *Service) Leaderboard(groupID, userID int64) ([]model.LeaderboardEntry, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.groups.Leaderboard(groupID)
}

// ActivityFeed returns the tribe's recent transactions, newest first.
func (s *Service) ActivityFeed(groupID, userID int64, limit int) ([]model.Transaction, error) {
	if _, err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.transactions.ListByGroup(groupID, limit)
}
