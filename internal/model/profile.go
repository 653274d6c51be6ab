package model

import "time"

type Profile struct {
	ID                  int64     `json:"id"`
	UID                 string    `json:"uid"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	AvatarURL           string    `json:"avatar_url"`
	Timezone            string    `json:"timezone"`
	DailyResetHour      int       `json:"daily_reset_hour"`
	WeekStartsOn        int       `json:"week_starts_on"`
	NotificationEnabled bool      `json:"notification_enabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UTCToday returns today's date in UTC, for callers with no profile to
// consult.
func UTCToday() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Today returns the current calendar date in the profile's timezone,
// formatted YYYY-MM-DD. Falls back to UTC if the zone string is invalid.
func (p *Profile) Today() string {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("2006-01-02")
}
