package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/dukerupert/taskly/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateInviteCode returns an 8-character code from an alphabet without
// the easily confused characters (0/O, 1/I/L).
func generateInviteCode() (string, error) {
	code := make([]byte, 8)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	var createdBy sql.NullInt64

	err := scanner.Scan(&h.ID, &h.Name, &h.Description, &h.InviteCode, &createdBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		h.CreatedBy = &createdBy.Int64
	}
	return &h, nil
}

const householdCols = `id, name, description, invite_code, created_by, created_at, updated_at`

// Create inserts the household and its owner membership in one transaction,
// so a failed membership write cannot leave an orphaned household.
func (s *HouseholdStore) Create(name, description string, createdBy int64) (*model.Household, error) {
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
		`INSERT INTO households (name, description, invite_code, created_by) VALUES (?, ?, ?, ?)`,
		name, description, code, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO household_members (household_id, user_id, role) VALUES (?, ?, ?)`,
		id, createdBy, model.RoleOwner,
	); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) GetByInviteCode(code string) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE invite_code = ?`, code)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household by invite code: %w", err)
	}
	return h, nil
}

// Join adds the user to the household matching the invite code. An unknown
// code returns nil without creating anything; joining twice is a no-op
// thanks to the membership uniqueness constraint.
func (s *HouseholdStore) Join(code string, userID int64) (*model.Household, error) {
	h, err := s.GetByInviteCode(code)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO household_members (household_id, user_id, role) VALUES (?, ?, ?)
		 ON CONFLICT (household_id, user_id) DO NOTHING`,
		h.ID, userID, model.RoleMember,
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) ListForProfile(userID int64) ([]model.Household, error) {
	rows, err := s.db.Query(
		`SELECT h.id, h.name, h.description, h.invite_code, h.created_by, h.created_at, h.updated_at
		 FROM households h
		 JOIN household_members m ON h.id = m.household_id
		 WHERE m.user_id = ?
		 ORDER BY h.name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list households for profile: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

func (s *HouseholdStore) GetMember(householdID, userID int64) (*model.HouseholdMember, error) {
	var m model.HouseholdMember
	err := s.db.QueryRow(
		`SELECT id, household_id, user_id, role, nickname, joined_at FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, userID,
	).Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.Role, &m.Nickname, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// ListMembers returns memberships joined with profile display fields,
// owner first, then by join time.
func (s *HouseholdStore) ListMembers(householdID int64) ([]model.MemberWithProfile, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.household_id, m.user_id, m.role, m.nickname, m.joined_at, p.display_name, p.email, p.avatar_url
		 FROM household_members m
		 JOIN profiles p ON p.id = m.user_id
		 WHERE m.household_id = ?
		 ORDER BY CASE m.role WHEN 'owner' THEN 0 WHEN 'admin' THEN 1 ELSE 2 END, m.joined_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.MemberWithProfile
	for rows.Next() {
		var m model.MemberWithProfile
		err := rows.Scan(
			&m.ID, &m.HouseholdID, &m.UserID, &m.Role, &m.Nickname, &m.JoinedAt,
			&m.DisplayName, &m.Email, &m.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
