package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/taskly/internal/model"
	"github.com/dukerupert/taskly/internal/recurrence"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskParams carries the writable task columns. Zero-valued optional fields
// fall back to the same defaults the create path always used: type "task",
// recurrence "once", interval 1.
type TaskParams struct {
	UserID             *int64
	HouseholdID        *int64
	Title              string
	Description        string
	Icon               string
	Color              string
	TaskType           model.TaskType
	Recurrence         string
	RecurrenceDays     []int
	RecurrenceInterval int
	HasProgress        bool
	ProgressUnit       string
	ProgressTarget     *int
	StartDate          string
	EndDate            *string
	SortOrder          int
}

func (p *TaskParams) normalize(today string) {
	if p.TaskType == "" {
		p.TaskType = model.TaskTypeTask
	}
	if p.Recurrence == "" {
		p.Recurrence = string(recurrence.Once)
	}
	if p.RecurrenceInterval < 1 {
		p.RecurrenceInterval = 1
	}
	if p.StartDate == "" {
		p.StartDate = today
	}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var userID, householdID sql.NullInt64
	var progressTarget sql.NullInt64
	var endDate sql.NullString
	var days string
	var hasProgress, isActive, isArchived int

	err := scanner.Scan(
		&t.ID, &userID, &householdID, &t.Title, &t.Description, &t.Icon, &t.Color,
		&t.TaskType, &t.Recurrence, &days, &t.RecurrenceInterval,
		&hasProgress, &t.ProgressUnit, &progressTarget,
		&t.StartDate, &endDate, &isActive, &isArchived, &t.SortOrder,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		t.UserID = &userID.Int64
	}
	if householdID.Valid {
		t.HouseholdID = &householdID.Int64
	}
	if progressTarget.Valid {
		target := int(progressTarget.Int64)
		t.ProgressTarget = &target
	}
	if endDate.Valid {
		t.EndDate = &endDate.String
	}
	t.RecurrenceDays = recurrence.DecodeDays(days)
	t.HasProgress = hasProgress != 0
	t.IsActive = isActive != 0
	t.IsArchived = isArchived != 0
	return &t, nil
}

const taskCols = `id, user_id, household_id, title, description, icon, color, task_type, recurrence, recurrence_days, recurrence_interval, has_progress, progress_unit, progress_target, start_date, end_date, is_active, is_archived, sort_order, created_at, updated_at`

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullIntFromPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *TaskStore) Create(p TaskParams, today string) (*model.Task, error) {
	p.normalize(today)

	result, err := s.db.Exec(
		`INSERT INTO tasks (user_id, household_id, title, description, icon, color, task_type, recurrence, recurrence_days, recurrence_interval, has_progress, progress_unit, progress_target, start_date, end_date, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt(p.UserID), nullInt(p.HouseholdID), p.Title, p.Description, p.Icon, p.Color,
		p.TaskType, p.Recurrence, recurrence.EncodeDays(p.RecurrenceDays), p.RecurrenceInterval,
		boolInt(p.HasProgress), p.ProgressUnit, nullIntFromPtr(p.ProgressTarget),
		p.StartDate, nullString(p.EndDate), p.SortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListActive returns the user's non-archived tasks ordered by sort order.
// The full active set is loaded every call; task lists are small.
func (s *TaskStore) ListActive(userID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE user_id = ? AND is_archived = 0 ORDER BY sort_order ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListForHousehold returns a household's non-archived shared tasks.
func (s *TaskStore) ListForHousehold(householdID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? AND is_archived = 0 ORDER BY sort_order ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list household tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, p TaskParams) (*model.Task, error) {
	p.normalize("")

	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, icon = ?, color = ?, task_type = ?, recurrence = ?, recurrence_days = ?, recurrence_interval = ?, has_progress = ?, progress_unit = ?, progress_target = ?, end_date = ?, sort_order = ?, updated_at = datetime('now') WHERE id = ?`,
		p.Title, p.Description, p.Icon, p.Color, p.TaskType,
		p.Recurrence, recurrence.EncodeDays(p.RecurrenceDays), p.RecurrenceInterval,
		boolInt(p.HasProgress), p.ProgressUnit, nullIntFromPtr(p.ProgressTarget),
		nullString(p.EndDate), p.SortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// Archive soft-deletes a task: the flag flips, the row and its completion
// history persist.
func (s *TaskStore) Archive(id int64) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET is_archived = 1, updated_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("archive task: %w", err)
	}
	return nil
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.TaskCompletion, error) {
	var c model.TaskCompletion
	var progressValue sql.NullInt64

	err := scanner.Scan(
		&c.ID, &c.TaskID, &c.CompletedBy, &c.CompletionDate,
		&c.Status, &progressValue, &c.Notes, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if progressValue.Valid {
		v := int(progressValue.Int64)
		c.ProgressValue = &v
	}
	return &c, nil
}

const completionCols = `id, task_id, completed_by, completion_date, status, progress_value, notes, completed_at`

// UpsertCompletion writes the completion row keyed by (task, date, user).
// Calling it twice for the same key leaves exactly one row whose fields
// reflect the second call.
func (s *TaskStore) UpsertCompletion(taskID, userID int64, date string, status model.CompletionStatus, progressValue *int, notes string) (*model.TaskCompletion, error) {
	if status == "" {
		status = model.StatusCompleted
	}

	_, err := s.db.Exec(
		`INSERT INTO task_completions (task_id, completed_by, completion_date, status, progress_value, notes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (task_id, completion_date, completed_by)
		 DO UPDATE SET status = excluded.status, progress_value = excluded.progress_value, notes = excluded.notes, completed_at = datetime('now')`,
		taskID, userID, date, status, nullIntFromPtr(progressValue), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert completion: %w", err)
	}
	return s.GetCompletion(taskID, userID, date)
}

func (s *TaskStore) GetCompletion(taskID, userID int64, date string) (*model.TaskCompletion, error) {
	row := s.db.QueryRow(
		`SELECT `+completionCols+` FROM task_completions WHERE task_id = ? AND completed_by = ? AND completion_date = ?`,
		taskID, userID, date,
	)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

// DeleteCompletion removes the row outright. Uncompleting is a delete, not
// a status change.
func (s *TaskStore) DeleteCompletion(taskID, userID int64, date string) error {
	_, err := s.db.Exec(
		`DELETE FROM task_completions WHERE task_id = ? AND completed_by = ? AND completion_date = ?`,
		taskID, userID, date,
	)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// ListWithTodayCompletion returns the user's active tasks merged with their
// completions for the given date, nil where a task hasn't been touched.
func (s *TaskStore) ListWithTodayCompletion(userID int64, date string) ([]model.TaskWithCompletion, error) {
	tasks, err := s.ListActive(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM task_completions WHERE completed_by = ? AND completion_date = ?`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list today completions: %w", err)
	}
	defer rows.Close()

	byTask := make(map[int64]*model.TaskCompletion)
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		byTask[c.TaskID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	merged := make([]model.TaskWithCompletion, len(tasks))
	for i, t := range tasks {
		merged[i] = model.TaskWithCompletion{Task: t, Completion: byTask[t.ID]}
	}
	return merged, nil
}

// ListCompletionsSince returns the user's completions dated on or after
// fromDate, for stats bucketing.
func (s *TaskStore) ListCompletionsSince(userID int64, fromDate string) ([]model.TaskCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM task_completions WHERE completed_by = ? AND completion_date >= ? ORDER BY completion_date DESC`,
		userID, fromDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions since: %w", err)
	}
	defer rows.Close()

	var completions []model.TaskCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// ListHistory returns completions joined with task display fields, newest
// first, for the stats page's history list.
func (s *TaskStore) ListHistory(userID int64, fromDate string) ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.task_id, c.completed_by, c.completion_date, c.status, c.progress_value, c.notes, c.completed_at, t.title, t.icon
		 FROM task_completions c
		 JOIN tasks t ON t.id = c.task_id
		 WHERE c.completed_by = ? AND c.completion_date >= ?
		 ORDER BY c.completion_date DESC, c.completed_at DESC`,
		userID, fromDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		var progressValue sql.NullInt64
		err := rows.Scan(
			&e.ID, &e.TaskID, &e.CompletedBy, &e.CompletionDate,
			&e.Status, &progressValue, &e.Notes, &e.CompletedAt,
			&e.TaskTitle, &e.TaskIcon,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if progressValue.Valid {
			v := int(progressValue.Int64)
			e.ProgressValue = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
