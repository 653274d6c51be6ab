package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/taskly/internal/model"
)

type ChallengeStore struct {
	db *sql.DB
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db}
}

type ChallengeParams struct {
	Title       string
	Emoji       string
	Type        model.ChallengeType
	TargetValue int
	StartDate   string
	EndDate     string
	Visibility  string
}

func scanChallenge(scanner interface{ Scan(...any) error }) (*model.Challenge, error) {
	var c model.Challenge
	var createdBy sql.NullInt64

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Emoji, &c.Type, &c.TargetValue,
		&c.StartDate, &c.EndDate, &c.Visibility, &c.InviteCode,
		&createdBy, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		c.CreatedBy = &createdBy.Int64
	}
	return &c, nil
}

const challengeCols = `id, title, emoji, challenge_type, target_value, start_date, end_date, visibility, invite_code, created_by, created_at`

// Create inserts the challenge and auto-joins the creator with a zero score
// in one transaction, so every challenge has at least its creator on the
// board.
func (s *ChallengeStore) Create(p ChallengeParams, createdBy int64) (*model.Challenge, error) {
	if p.Type == "" {
		p.Type = model.ChallengeCompletion
	}
	if p.Visibility == "" {
		p.Visibility = model.VisibilityPublic
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO challenges (title, emoji, challenge_type, target_value, start_date, end_date, visibility, invite_code, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Emoji, p.Type, p.TargetValue, p.StartDate, p.EndDate, p.Visibility, code, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO challenge_participants (challenge_id, user_id) VALUES (?, ?)`,
		id, createdBy,
	); err != nil {
		return nil, fmt.Errorf("auto-join creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChallengeStore) GetByID(id int64) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE id = ?`, id)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeStore) GetByInviteCode(code string) (*model.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeCols+` FROM challenges WHERE invite_code = ?`, code)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge by invite code: %w", err)
	}
	return c, nil
}

// Join adds the user as a participant. Idempotent: a second join leaves the
// existing row (and its score) untouched.
func (s *ChallengeStore) Join(challengeID, userID int64) (*model.ChallengeParticipant, error) {
	_, err := s.db.Exec(
		`INSERT INTO challenge_participants (challenge_id, user_id) VALUES (?, ?)
		 ON CONFLICT (challenge_id, user_id) DO NOTHING`,
		challengeID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("join challenge: %w", err)
	}
	return s.GetParticipant(challengeID, userID)
}

// JoinByCode joins the challenge matching the invite code, nil for an
// unknown code.
func (s *ChallengeStore) JoinByCode(code string, userID int64) (*model.Challenge, error) {
	c, err := s.GetByInviteCode(code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if _, err := s.Join(c.ID, userID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChallengeStore) GetParticipant(challengeID, userID int64) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := s.db.QueryRow(
		`SELECT id, challenge_id, user_id, current_score, best_streak, joined_at FROM challenge_participants WHERE challenge_id = ? AND user_id = ?`,
		challengeID, userID,
	).Scan(&p.ID, &p.ChallengeID, &p.UserID, &p.CurrentScore, &p.BestStreak, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &p, nil
}

// ListMine returns the user's participations with their challenges, most
// recently joined first.
func (s *ChallengeStore) ListMine(userID int64) ([]model.Participation, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.challenge_id, p.user_id, p.current_score, p.best_streak, p.joined_at,
		        c.id, c.title, c.emoji, c.challenge_type, c.target_value, c.start_date, c.end_date, c.visibility, c.invite_code, c.created_by, c.created_at
		 FROM challenge_participants p
		 JOIN challenges c ON c.id = p.challenge_id
		 WHERE p.user_id = ?
		 ORDER BY p.joined_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list my challenges: %w", err)
	}
	defer rows.Close()

	var participations []model.Participation
	for rows.Next() {
		var p model.Participation
		var createdBy sql.NullInt64
		err := rows.Scan(
			&p.ID, &p.ChallengeID, &p.UserID, &p.CurrentScore, &p.BestStreak, &p.JoinedAt,
			&p.Challenge.ID, &p.Challenge.Title, &p.Challenge.Emoji, &p.Challenge.Type,
			&p.Challenge.TargetValue, &p.Challenge.StartDate, &p.Challenge.EndDate,
			&p.Challenge.Visibility, &p.Challenge.InviteCode, &createdBy, &p.Challenge.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		if createdBy.Valid {
			p.Challenge.CreatedBy = &createdBy.Int64
		}
		participations = append(participations, p)
	}
	return participations, rows.Err()
}

// ListAvailable returns public challenges still running on the given date
// that the user has not joined yet.
func (s *ChallengeStore) ListAvailable(userID int64, today string) ([]model.Challenge, error) {
	rows, err := s.db.Query(
		`SELECT `+challengeCols+` FROM challenges
		 WHERE visibility = 'public' AND end_date >= ?
		   AND id NOT IN (SELECT challenge_id FROM challenge_participants WHERE user_id = ?)
		 ORDER BY start_date ASC, id ASC`,
		today, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list available challenges: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

// Leaderboard returns participants ranked by score, best streak breaking
// ties, capped at 50 rows with ranks ascending from 1.
func (s *ChallengeStore) Leaderboard(challengeID int64) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT p.user_id, pr.display_name, p.current_score, p.best_streak
		 FROM challenge_participants p
		 JOIN profiles pr ON pr.id = p.user_id
		 WHERE p.challenge_id = ?
		 ORDER BY p.current_score DESC, p.best_streak DESC, p.joined_at ASC
		 LIMIT 50`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.CurrentScore, &e.BestStreak); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts the user's running and finished challenges as of today.
func (s *ChallengeStore) Stats(userID int64, today string) (*model.ChallengeStats, error) {
	var st model.ChallengeStats
	err := s.db.QueryRow(
		`SELECT
		   COUNT(CASE WHEN c.end_date >= ? THEN 1 END),
		   COUNT(CASE WHEN c.end_date < ? THEN 1 END)
		 FROM challenge_participants p
		 JOIN challenges c ON c.id = p.challenge_id
		 WHERE p.user_id = ?`,
		today, today, userID,
	).Scan(&st.Active, &st.Completed)
	if err != nil {
		return nil, fmt.Errorf("challenge stats: %w", err)
	}
	return &st, nil
}

// BumpScores advances the running score on every completion-type challenge
// the user is participating in that is live on the given date. delta is +1
// when a task flips to completed and -1 when that completion is undone.
func (s *ChallengeStore) BumpScores(userID int64, date string, delta int) error {
	_, err := s.db.Exec(
		`UPDATE challenge_participants
		 SET current_score = MAX(current_score + ?, 0)
		 WHERE user_id = ?
		   AND challenge_id IN (
		     SELECT id FROM challenges WHERE challenge_type = 'completion' AND start_date <= ? AND end_date >= ?
		   )`,
		delta, userID, date, date,
	)
	if err != nil {
		return fmt.Errorf("bump scores: %w", err)
	}
	return nil
}
