package model

import "time"

type TaskType string

const (
	TaskTypeGoal  TaskType = "goal"
	TaskTypeTask  TaskType = "task"
	TaskTypeChore TaskType = "chore"
)

type CompletionStatus string

const (
	StatusPending   CompletionStatus = "pending"
	StatusPartial   CompletionStatus = "partial"
	StatusCompleted CompletionStatus = "completed"
	StatusSkipped   CompletionStatus = "skipped"
)

type Task struct {
	ID                 int64     `json:"id"`
	UserID             *int64    `json:"user_id"`
	HouseholdID        *int64    `json:"household_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Icon               string    `json:"icon"`
	Color              string    `json:"color"`
	TaskType           TaskType  `json:"task_type"`
	Recurrence         string    `json:"recurrence"`
	RecurrenceDays     []int     `json:"recurrence_days"`
	RecurrenceInterval int       `json:"recurrence_interval"`
	HasProgress        bool      `json:"has_progress"`
	ProgressUnit       string    `json:"progress_unit"`
	ProgressTarget     *int      `json:"progress_target"`
	StartDate          string    `json:"start_date"`
	EndDate            *string   `json:"end_date"`
	IsActive           bool      `json:"is_active"`
	IsArchived         bool      `json:"is_archived"`
	SortOrder          int       `json:"sort_order"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TaskCompletion struct {
	ID             int64            `json:"id"`
	TaskID         int64            `json:"task_id"`
	CompletedBy    int64            `json:"completed_by"`
	CompletionDate string           `json:"completion_date"`
	Status         CompletionStatus `json:"status"`
	ProgressValue  *int             `json:"progress_value"`
	Notes          string           `json:"notes"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// TaskWithCompletion pairs a task with the caller's completion for today,
// nil when the task has not been touched today.
type TaskWithCompletion struct {
	Task
	Completion *TaskCompletion `json:"completion"`
}
