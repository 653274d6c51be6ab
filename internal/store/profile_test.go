package store

import (
	"testing"

	"github.com/dukerupert/taskly/internal/database"
)

func setupProfileTestDB(t *testing.T) *ProfileStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db)
}

func TestUpsertCreatesWithDefaults(t *testing.T) {
	ps := setupProfileTestDB(t)

	p, err := ps.Upsert("demo_ana_example_com", "ana@example.com", "Ana", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p == nil {
		t.Fatal("expected profile")
	}
	if p.UID != "demo_ana_example_com" {
		t.Errorf("uid = %q", p.UID)
	}
	if p.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", p.Timezone)
	}
	if p.DailyResetHour != 0 {
		t.Errorf("daily_reset_hour = %d, want 0", p.DailyResetHour)
	}
	if p.WeekStartsOn != 1 {
		t.Errorf("week_starts_on = %d, want 1", p.WeekStartsOn)
	}
	if !p.NotificationEnabled {
		t.Error("notifications should default on")
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	ps := setupProfileTestDB(t)

	first, err := ps.Upsert("demo_bob", "bob@example.com", "Bob", "")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := ps.Upsert("demo_bob", "bob@example.com", "Bobby", "https://example.com/b.png")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a second row: %d != %d", second.ID, first.ID)
	}
	if second.DisplayName != "Bobby" {
		t.Errorf("display_name = %q, want %q", second.DisplayName, "Bobby")
	}
	if second.AvatarURL != "https://example.com/b.png" {
		t.Errorf("avatar_url = %q", second.AvatarURL)
	}
}

func TestGetByUIDNotFound(t *testing.T) {
	ps := setupProfileTestDB(t)

	p, err := ps.GetByUID("demo_nobody")
	if err != nil {
		t.Fatalf("get by uid: %v", err)
	}
	if p != nil {
		t.Error("expected nil for unknown uid")
	}
}

func TestUpdateSettings(t *testing.T) {
	ps := setupProfileTestDB(t)

	p, _ := ps.Upsert("demo_carla", "carla@example.com", "Carla", "")

	updated, err := ps.UpdateSettings(p.ID, "Carla M", "Europe/Madrid", 4, 0, false)
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.DisplayName != "Carla M" {
		t.Errorf("display_name = %q", updated.DisplayName)
	}
	if updated.Timezone != "Europe/Madrid" {
		t.Errorf("timezone = %q", updated.Timezone)
	}
	if updated.DailyResetHour != 4 {
		t.Errorf("daily_reset_hour = %d", updated.DailyResetHour)
	}
	if updated.WeekStartsOn != 0 {
		t.Errorf("week_starts_on = %d", updated.WeekStartsOn)
	}
	if updated.NotificationEnabled {
		t.Error("notifications should be off")
	}
}
