package store

import (
	"testing"

	"github.com/dukerupert/taskly/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *ProfileStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewProfileStore(db)
}

func TestSessionLifecycle(t *testing.T) {
	ss, ps := setupSessionTestDB(t)
	p := createTestProfile(t, ps, "demo_rosa")

	sess, err := ss.Create(p.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected a token")
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.UserID != p.ID {
		t.Fatalf("lookup = %+v", got)
	}

	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Error("deleted session still resolves")
	}
}

func TestGetByTokenUnknown(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	sess, err := ss.GetByToken("not-a-token")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestExpiredSessionsIgnoredAndPruned(t *testing.T) {
	ss, ps := setupSessionTestDB(t)
	p := createTestProfile(t, ps, "demo_sven")

	sess, err := ss.Create(p.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := ss.db.Exec(
		`UPDATE sessions SET expires_at = datetime('now', '-1 day') WHERE id = ?`,
		sess.ID,
	); err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("expired session should not resolve")
	}

	pruned, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
}
