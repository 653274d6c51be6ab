package model

import "time"

type ChallengeType string

const (
	ChallengeCompletion ChallengeType = "completion"
	ChallengeStreak     ChallengeType = "streak"
	ChallengePerfectDay ChallengeType = "perfect_day"
)

const (
	VisibilityPublic    = "public"
	VisibilityHousehold = "household"
)

type Challenge struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Emoji       string        `json:"emoji"`
	Type        ChallengeType `json:"challenge_type"`
	TargetValue int           `json:"target_value"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Visibility  string        `json:"visibility"`
	InviteCode  string        `json:"invite_code"`
	CreatedBy   *int64        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ChallengeParticipant struct {
	ID           int64     `json:"id"`
	ChallengeID  int64     `json:"challenge_id"`
	UserID       int64     `json:"user_id"`
	CurrentScore int       `json:"current_score"`
	BestStreak   int       `json:"best_streak"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Participation is a participant row joined with its challenge, the shape
// the challenges page works with.
type Participation struct {
	ChallengeParticipant
	Challenge Challenge `json:"challenge"`
}

// LeaderboardEntry is one ranked row of a challenge leaderboard.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	CurrentScore int    `json:"current_score"`
	BestStreak   int    `json:"best_streak"`
}

// ChallengeStats summarizes a user's challenge activity.
type ChallengeStats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
