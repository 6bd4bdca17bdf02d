package tribe

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaushalkrsna1602/auraflow/internal/database"
	"github.com/kaushalkrsna1602/auraflow/internal/model"
	"github.com/kaushalkrsna1602/auraflow/internal/store"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testEnv struct {
	svc    *Service
	users  *store.UserStore
	groups *store.GroupStore
}

func newEnv(db *sql.DB) testEnv {
	groups := store.NewGroupStore(db)
	svc := NewService(
		groups,
		store.NewTransactionStore(db),
		store.NewRewardStore(db),
		store.NewRedemptionStore(db),
		discardLogger,
	)
	return testEnv{svc: svc, users: store.NewUserStore(db), groups: groups}
}

func newTestService(t *testing.T) testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newEnv(db)
}

// newTestServiceFile backs the service with a file database. In-memory
// databases are per-connection, so concurrency tests need a real file.
func newTestServiceFile(t *testing.T) testEnv {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newEnv(db)
}

func (e testEnv) user(t *testing.T, email, name string) *model.User {
	t.Helper()
	u, err := e.users.Create(email, name, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func TestCreateGroupEnrollsCreatorAsAdmin(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")

	g, err := e.svc.CreateGroup(alice.ID, "Morning Crew", false)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.Name != "Morning Crew" {
		t.Errorf("name = %q, want %q", g.Name, "Morning Crew")
	}
	if len(g.InviteCode) != 6 {
		t.Errorf("invite code length = %d, want 6", len(g.InviteCode))
	}

	entries, err := e.svc.Leaderboard(g.ID, alice.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 member, got %d", len(entries))
	}
	if entries[0].Role != model.RoleAdmin {
		t.Errorf("creator role = %q, want %q", entries[0].Role, model.RoleAdmin)
	}
	if entries[0].AuraPoints != 0 {
		t.Errorf("creator points = %d, want 0", entries[0].AuraPoints)
	}
}

func TestCreateGroupNameValidation(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")

	for _, name := range []string{"", "ab", "  a  ", strings.Repeat("x", 51)} {
		if _, err := e.svc.CreateGroup(alice.ID, name, false); err != ErrInvalidName {
			t.Errorf("CreateGroup(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestJoinGroup(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", true)

	m, err := e.svc.JoinGroup(g.ID, bob.ID)
	if err != nil {
		t.Fatalf("join group: %v", err)
	}
	if m.Role != model.RoleMember {
		t.Errorf("role = %q, want %q", m.Role, model.RoleMember)
	}
	if m.AuraPoints != 0 {
		t.Errorf("points = %d, want 0", m.AuraPoints)
	}

	if _, err := e.svc.JoinGroup(g.ID, bob.ID); err != ErrAlreadyMember {
		t.Errorf("second join err = %v, want ErrAlreadyMember", err)
	}

	if _, err := e.svc.JoinGroup(999, bob.ID); err != ErrGroupNotFound {
		t.Errorf("unknown group err = %v, want ErrGroupNotFound", err)
	}
}

func TestJoinByInviteCode(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)

	// Codes are matched case-insensitively, with surrounding space ignored
	m, err := e.svc.JoinByInviteCode("  "+g.InviteCode+"  ", bob.ID)
	if err != nil {
		t.Fatalf("join by code: %v", err)
	}
	if m.GroupID != g.ID {
		t.Errorf("group_id = %d, want %d", m.GroupID, g.ID)
	}

	if _, err := e.svc.JoinByInviteCode("NOSUCH", alice.ID); err != ErrGroupNotFound {
		t.Errorf("bad code err = %v, want ErrGroupNotFound", err)
	}
}

func TestLeaveGroupLastAdminGuard(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	// Alice is the only admin: she cannot leave
	if err := e.svc.LeaveGroup(g.ID, alice.ID); err != ErrLastAdmin {
		t.Fatalf("leave as last admin err = %v, want ErrLastAdmin", err)
	}

	// Promote Bob, then leaving works
	if _, err := e.svc.UpdateMemberRole(g.ID, alice.ID, bob.ID, model.RoleAdmin); err != nil {
		t.Fatalf("promote bob: %v", err)
	}
	if err := e.svc.LeaveGroup(g.ID, alice.ID); err != nil {
		t.Fatalf("leave after promote: %v", err)
	}

	if _, err := e.svc.Leaderboard(g.ID, alice.ID); err != ErrNotAMember {
		t.Errorf("read after leave err = %v, want ErrNotAMember", err)
	}
}

func TestLeaveGroupAsMember(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	if err := e.svc.LeaveGroup(g.ID, bob.ID); err != nil {
		t.Fatalf("leave as member: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	// Non-admin cannot remove anyone
	if err := e.svc.RemoveMember(g.ID, bob.ID, alice.ID); err != ErrUnauthorized {
		t.Errorf("remove by member err = %v, want ErrUnauthorized", err)
	}

	if err := e.svc.RemoveMember(g.ID, alice.ID, bob.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	if err := e.svc.RemoveMember(g.ID, alice.ID, bob.ID); err != ErrMemberNotFound {
		t.Errorf("remove again err = %v, want ErrMemberNotFound", err)
	}
}

func TestUpdateMemberRoleLastAdminGuard(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	// Demoting the sole admin is refused, even self-inflicted
	if _, err := e.svc.UpdateMemberRole(g.ID, alice.ID, alice.ID, model.RoleMember); err != ErrLastAdmin {
		t.Errorf("demote last admin err = %v, want ErrLastAdmin", err)
	}

	if _, err := e.svc.UpdateMemberRole(g.ID, alice.ID, bob.ID, "owner"); err != ErrInvalidRole {
		t.Errorf("bad role err = %v, want ErrInvalidRole", err)
	}

	m, err := e.svc.UpdateMemberRole(g.ID, alice.ID, bob.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if m.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", m.Role, model.RoleAdmin)
	}

	// With two admins, a demotion goes through
	if _, err := e.svc.UpdateMemberRole(g.ID, alice.ID, alice.ID, model.RoleMember); err != nil {
		t.Fatalf("demote with two admins: %v", err)
	}
}

func TestRenameGroup(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	if _, err := e.svc.RenameGroup(g.ID, bob.ID, "New Name"); err != ErrUnauthorized {
		t.Errorf("rename by member err = %v, want ErrUnauthorized", err)
	}

	renamed, err := e.svc.RenameGroup(g.ID, alice.ID, "  New Name  ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("name = %q, want trimmed %q", renamed.Name, "New Name")
	}
}

func TestDeleteGroup(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	if err := e.svc.DeleteGroup(g.ID, bob.ID); err != ErrUnauthorized {
		t.Errorf("delete by member err = %v, want ErrUnauthorized", err)
	}

	if err := e.svc.DeleteGroup(g.ID, alice.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	if _, err := e.svc.GetGroup(g.ID, alice.ID); err != ErrNotAMember {
		t.Errorf("get deleted group err = %v, want ErrNotAMember", err)
	}
}

func TestActivityFeedRequiresMembership(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	mallory := e.user(t, "mallory@example.com", "Mallory")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)

	if _, err := e.svc.ActivityFeed(g.ID, mallory.ID, 10); err != ErrNotAMember {
		t.Errorf("feed for outsider err = %v, want ErrNotAMember", err)
	}
	if _, err := e.svc.Leaderboard(g.ID, mallory.ID); err != ErrNotAMember {
		t.Errorf("leaderboard for outsider err = %v, want ErrNotAMember", err)
	}
}

func TestInviteCodeAlphabet(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateInviteCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != inviteCodeLen {
			t.Fatalf("len = %d, want %d", len(code), inviteCodeLen)
		}
		for _, c := range []byte(code) {
			// 0, 1, I, L, O are excluded to avoid transcription mistakes
			switch c {
			case '0', '1', 'I', 'L', 'O':
				t.Errorf("code %q contains ambiguous character %q", code, c)
			}
		}
	}
}
