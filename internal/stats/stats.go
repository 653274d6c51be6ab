// Package stats computes completion statistics over a trailing window:
// per-day buckets, the current streak, and progress percentages.
package stats

import (
	"math"
	"time"

	"github.com/dukerupert/taskly/internal/model"
)

const dateLayout = "2006-01-02"

// CompletionsByDate buckets completions by their completion date, counting
// only rows whose status is completed.
func CompletionsByDate(completions []model.TaskCompletion) map[string]int {
	byDate := make(map[string]int)
	for _, c := range completions {
		if c.Status != model.StatusCompleted {
			continue
		}
		byDate[c.CompletionDate]++
	}
	return byDate
}

// CurrentStreak walks backward from today counting consecutive days with at
// least one completed entry, stopping at the first gap. Today itself does
// not break the streak when still empty, the day isn't over yet.
func CurrentStreak(byDate map[string]int, today time.Time) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	streak := 0
	for i := 0; ; i++ {
		key := day.AddDate(0, 0, -i).Format(dateLayout)
		if byDate[key] > 0 {
			streak++
			continue
		}
		if i == 0 {
			continue // empty today is not a gap
		}
		break
	}
	return streak
}

// Summarize builds the stats payload the stats page renders.
func Summarize(completions []model.TaskCompletion, today time.Time) model.CompletionStats {
	byDate := CompletionsByDate(completions)
	total := 0
	for _, n := range byDate {
		total += n
	}
	return model.CompletionStats{
		CurrentStreak:     CurrentStreak(byDate, today),
		TotalCompletions:  total,
		CompletionsByDate: byDate,
	}
}

// ProgressPercent returns value/target as a rounded percentage, clamped to
// 0-100. A zero or negative target yields 0.
func ProgressPercent(value, target int) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(float64(value) / float64(target) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
