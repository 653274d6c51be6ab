package handler

import (
	"testing"

	"github.com/dukerupert/taskly/internal/model"
)

func dueTask(title, recur, start string, days []int) model.TaskWithCompletion {
	return model.TaskWithCompletion{Task: model.Task{
		Title:              title,
		Recurrence:         recur,
		RecurrenceDays:     days,
		RecurrenceInterval: 1,
		StartDate:          start,
	}}
}

func TestFilterDueToday(t *testing.T) {
	// 2026-09-01 is a Tuesday.
	tasks := []model.TaskWithCompletion{
		dueTask("daily", "daily", "2026-08-01", nil),
		dueTask("weekly tue", "weekly", "2026-08-04", []int{2}),
		dueTask("weekly mon", "weekly", "2026-08-03", []int{1}),
		dueTask("not started", "daily", "2026-09-02", nil),
	}

	got := filterDueToday(tasks, "2026-09-01")
	if len(got) != 2 {
		t.Fatalf("expected 2 due tasks, got %d", len(got))
	}
	if got[0].Title != "daily" || got[1].Title != "weekly tue" {
		t.Errorf("unexpected due set: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestFilterDueTodayBadDatePassesThrough(t *testing.T) {
	tasks := []model.TaskWithCompletion{dueTask("a", "daily", "2026-08-01", nil)}
	if got := filterDueToday(tasks, "not-a-date"); len(got) != 1 {
		t.Errorf("malformed today should leave the list untouched, got %d", len(got))
	}
}

func TestTaskRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  taskRequest
		want string
	}{
		{"ok", taskRequest{Title: "Read", Recurrence: "daily"}, ""},
		{"no recurrence ok", taskRequest{Title: "Read"}, ""},
		{"blank title", taskRequest{Title: "  "}, "title is required"},
		{"bad recurrence", taskRequest{Title: "Read", Recurrence: "hourly"}, "unknown recurrence"},
	}
	for _, c := range cases {
		if got := c.req.validate(); got != c.want {
			t.Errorf("%s: validate() = %q, want %q", c.name, got, c.want)
		}
	}
}
