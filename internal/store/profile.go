package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/taskly/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var notif int

	err := scanner.Scan(
		&p.ID, &p.UID, &p.Email, &p.DisplayName, &p.AvatarURL,
		&p.Timezone, &p.DailyResetHour, &p.WeekStartsOn, &notif,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.NotificationEnabled = notif != 0
	return &p, nil
}

const profileCols = `id, uid, email, display_name, avatar_url, timezone, daily_reset_hour, week_starts_on, notification_enabled, created_at, updated_at`

func (s *ProfileStore) GetByID(id int64) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetByUID looks up a profile by its external identity string. Missing
// profiles are a valid "no data" case, not an error.
func (s *ProfileStore) GetByUID(uid string) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE uid = ?`, uid)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by uid: %w", err)
	}
	return p, nil
}

// Upsert updates the profile for uid if one exists, otherwise inserts a new
// row with default preferences. Exactly one row per uid ends up existing.
func (s *ProfileStore) Upsert(uid, email, displayName, avatarURL string) (*model.Profile, error) {
	existing, err := s.GetByUID(uid)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		_, err := s.db.Exec(
			`UPDATE profiles SET email = ?, display_name = ?, avatar_url = ?, updated_at = datetime('now') WHERE uid = ?`,
			email, displayName, avatarURL, uid,
		)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return s.GetByUID(uid)
	}

	_, err = s.db.Exec(
		`INSERT INTO profiles (uid, email, display_name, avatar_url, timezone, daily_reset_hour, week_starts_on, notification_enabled)
		 VALUES (?, ?, ?, ?, 'UTC', 0, 1, 1)`,
		uid, email, displayName, avatarURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return s.GetByUID(uid)
}

func (s *ProfileStore) UpdateSettings(id int64, displayName, timezone string, dailyResetHour, weekStartsOn int, notificationEnabled bool) (*model.Profile, error) {
	var notif int
	if notificationEnabled {
		notif = 1
	}

	_, err := s.db.Exec(
		`UPDATE profiles SET display_name = ?, timezone = ?, daily_reset_hour = ?, week_starts_on = ?, notification_enabled = ?, updated_at = datetime('now') WHERE id = ?`,
		displayName, timezone, dailyResetHour, weekStartsOn, notif, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.GetByID(id)
}
