package tribe

import (
	"strings"
	"testing"
)

func TestCreateRewardAdminOnly(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	bob := e.user(t, "bob@example.com", "Bob")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.JoinGroup(g.ID, bob.ID)

	if _, err := e.svc.CreateReward(g.ID, bob.ID, "Treat", 25, "", false); err != ErrUnauthorized {
		t.Errorf("create by member err = %v, want ErrUnauthorized", err)
	}

	reward, err := e.svc.CreateReward(g.ID, alice.ID, "  Treat  ", 25, "", false)
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if reward.Title != "Treat" {
		t.Errorf("title = %q, want trimmed %q", reward.Title, "Treat")
	}
	if reward.Icon != "⭐" {
		t.Errorf("icon = %q, want default star", reward.Icon)
	}
}

func TestCreateRewardValidation(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)

	if _, err := e.svc.CreateReward(g.ID, alice.ID, "   ", 25, "", false); err != ErrInvalidTitle {
		t.Errorf("blank title err = %v, want ErrInvalidTitle", err)
	}
	if _, err := e.svc.CreateReward(g.ID, alice.ID, strings.Repeat("x", 101), 25, "", false); err != ErrInvalidTitle {
		t.Errorf("long title err = %v, want ErrInvalidTitle", err)
	}
	if _, err := e.svc.CreateReward(g.ID, alice.ID, "Treat", 0, "", false); err != ErrInvalidCost {
		t.Errorf("zero cost err = %v, want ErrInvalidCost", err)
	}
	if _, err := e.svc.CreateReward(g.ID, alice.ID, "Treat", -5, "", false); err != ErrInvalidCost {
		t.Errorf("negative cost err = %v, want ErrInvalidCost", err)
	}
}

func TestUpdateRewardCrossGroupGuard(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	mallory := e.user(t, "mallory@example.com", "Mallory")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	reward, _ := e.svc.CreateReward(g.ID, alice.ID, "Treat", 25, "", false)

	// Mallory is an admin, but of a different tribe
	e.svc.CreateGroup(mallory.ID, "Other Crew", false)

	if _, err := e.svc.UpdateReward(reward.ID, mallory.ID, "Hijacked", 1, "", false); err != ErrUnauthorized {
		t.Errorf("cross-group update err = %v, want ErrUnauthorized", err)
	}
	if err := e.svc.DeleteReward(reward.ID, mallory.ID); err != ErrUnauthorized {
		t.Errorf("cross-group delete err = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateReward(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	reward, _ := e.svc.CreateReward(g.ID, alice.ID, "Treat", 25, "🍦", true)

	updated, err := e.svc.UpdateReward(reward.ID, alice.ID, "Big Treat", 50, "", false)
	if err != nil {
		t.Fatalf("update reward: %v", err)
	}
	if updated.Title != "Big Treat" {
		t.Errorf("title = %q, want %q", updated.Title, "Big Treat")
	}
	if updated.Cost != 50 {
		t.Errorf("cost = %d, want 50", updated.Cost)
	}
	// Empty icon keeps the existing one
	if updated.Icon != "🍦" {
		t.Errorf("icon = %q, want %q", updated.Icon, "🍦")
	}
	if updated.RequiresApproval {
		t.Error("expected requires_approval false")
	}

	if _, err := e.svc.UpdateReward(999, alice.ID, "X", 1, "", false); err != ErrRewardNotFound {
		t.Errorf("unknown reward err = %v, want ErrRewardNotFound", err)
	}
}

func TestDeleteReward(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	reward, _ := e.svc.CreateReward(g.ID, alice.ID, "Treat", 25, "", false)

	if err := e.svc.DeleteReward(reward.ID, alice.ID); err != nil {
		t.Fatalf("delete reward: %v", err)
	}
	if err := e.svc.DeleteReward(reward.ID, alice.ID); err != ErrRewardNotFound {
		t.Errorf("delete again err = %v, want ErrRewardNotFound", err)
	}
}

func TestListRewardsMemberOnly(t *testing.T) {
	e := newTestService(t)
	alice := e.user(t, "alice@example.com", "Alice")
	outsider := e.user(t, "eve@example.com", "Eve")

	g, _ := e.svc.CreateGroup(alice.ID, "Crew", false)
	e.svc.CreateReward(g.ID, alice.ID, "Cheap", 5, "", false)
	e.svc.CreateReward(g.ID, alice.ID, "Dear", 95, "", false)

	if _, err := e.svc.ListRewards(g.ID, outsider.ID); err != ErrNotAMember {
		t.Errorf("list for outsider err = %v, want ErrNotAMember", err)
	}

	rewards, err := e.svc.ListRewards(g.ID, alice.ID)
	if err != nil {
		t.Fatalf("list rewards: %v", err)
	}
	if len(rewards) != 2 {
		t.Fatalf("expected 2 rewards, got %d", len(rewards))
	}
	if rewards[0].Title != "Cheap" {
		t.Errorf("rewards[0].Title = %q, want cheapest first", rewards[0].Title)
	}
}
