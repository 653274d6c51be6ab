package model

// CompletionStats is the payload behind the stats page: totals over a
// trailing window plus the current streak.
type CompletionStats struct {
	CurrentStreak     int            `json:"current_streak"`
	TotalCompletions  int            `json:"total_completions"`
	CompletionsByDate map[string]int `json:"completions_by_date"`
}

// HistoryEntry is a completion joined with its task's display fields.
type HistoryEntry struct {
	TaskCompletion
	TaskTitle string `json:"task_title"`
	TaskIcon  string `json:"task_icon"`
}
