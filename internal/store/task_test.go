package store

import (
	"testing"

	"github.com/dukerupert/taskly/internal/database"
	"github.com/dukerupert/taskly/internal/model"
)

func setupTaskTestDB(t *testing.T) (*TaskStore, *ProfileStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db), NewProfileStore(db)
}

func createTestProfile(t *testing.T, ps *ProfileStore, uid string) *model.Profile {
	t.Helper()
	p, err := ps.Upsert(uid, uid+"@example.com", uid, "")
	if err != nil {
		t.Fatalf("create test profile: %v", err)
	}
	return p
}

func TestCreateTaskDefaults(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_dana")

	task, err := ts.Create(TaskParams{UserID: &p.ID, Title: "Read"}, "2026-09-01")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.TaskType != model.TaskTypeTask {
		t.Errorf("task_type = %q, want task", task.TaskType)
	}
	if task.Recurrence != "once" {
		t.Errorf("recurrence = %q, want once", task.Recurrence)
	}
	if task.RecurrenceInterval != 1 {
		t.Errorf("recurrence_interval = %d, want 1", task.RecurrenceInterval)
	}
	if task.StartDate != "2026-09-01" {
		t.Errorf("start_date = %q", task.StartDate)
	}
	if !task.IsActive || task.IsArchived {
		t.Errorf("flags: active=%v archived=%v", task.IsActive, task.IsArchived)
	}
}

func TestTaskOwnershipConstraint(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	createTestProfile(t, ps, "demo_erik")

	_, err := ts.Create(TaskParams{Title: "Orphan"}, "2026-09-01")
	if err == nil {
		t.Fatal("expected error for task with no owner")
	}
}

func TestListActiveUnknownUser(t *testing.T) {
	ts, _ := setupTaskTestDB(t)

	tasks, err := ts.ListActive(999)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d", len(tasks))
	}
}

func TestDoubleCompleteYieldsOneRow(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_fay")
	task, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Water plants"}, "2026-09-01")

	first, err := ts.UpsertCompletion(task.ID, p.ID, "2026-09-01", model.StatusCompleted, nil, "")
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}

	ten := 10
	second, err := ts.UpsertCompletion(task.ID, p.ID, "2026-09-01", model.StatusPartial, &ten, "halfway")
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected one row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Status != model.StatusPartial {
		t.Errorf("status = %q, want partial", second.Status)
	}
	if second.ProgressValue == nil || *second.ProgressValue != 10 {
		t.Errorf("progress_value = %v, want 10", second.ProgressValue)
	}
	if second.Notes != "halfway" {
		t.Errorf("notes = %q", second.Notes)
	}
}

func TestUncompleteRemovesRow(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_gil")
	task, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Stretch"}, "2026-09-01")

	if _, err := ts.UpsertCompletion(task.ID, p.ID, "2026-09-01", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := ts.DeleteCompletion(task.ID, p.ID, "2026-09-01"); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}

	c, err := ts.GetCompletion(task.ID, p.ID, "2026-09-01")
	if err != nil {
		t.Fatalf("get completion: %v", err)
	}
	if c != nil {
		t.Error("completion row should be gone")
	}

	merged, err := ts.ListWithTodayCompletion(p.ID, "2026-09-01")
	if err != nil {
		t.Fatalf("list with today: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 task, got %d", len(merged))
	}
	if merged[0].Completion != nil {
		t.Error("merged completion should be nil after uncomplete")
	}
}

func TestListWithTodayCompletionMerge(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_hana")

	done, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Done one", SortOrder: 0}, "2026-09-01")
	if _, err := ts.Create(TaskParams{UserID: &p.ID, Title: "Open one", SortOrder: 1}, "2026-09-01"); err != nil {
		t.Fatalf("create second task: %v", err)
	}
	if _, err := ts.UpsertCompletion(done.ID, p.ID, "2026-09-01", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	// Yesterday's completion must not leak into today's merge.
	if _, err := ts.UpsertCompletion(done.ID, p.ID, "2026-08-31", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete yesterday: %v", err)
	}

	merged, err := ts.ListWithTodayCompletion(p.ID, "2026-09-01")
	if err != nil {
		t.Fatalf("list with today: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(merged))
	}
	if merged[0].Completion == nil {
		t.Error("first task should carry today's completion")
	} else if merged[0].Completion.CompletionDate != "2026-09-01" {
		t.Errorf("completion date = %q", merged[0].Completion.CompletionDate)
	}
	if merged[1].Completion != nil {
		t.Error("second task should have nil completion")
	}
}

func TestArchiveHidesTaskKeepsHistory(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_ivo")
	task, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Old habit"}, "2026-09-01")

	if _, err := ts.UpsertCompletion(task.ID, p.ID, "2026-08-30", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := ts.Archive(task.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	tasks, err := ts.ListActive(p.ID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("archived task still listed")
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || !got.IsArchived {
		t.Error("task row should persist with archived flag set")
	}

	completions, err := ts.ListCompletionsSince(p.ID, "2026-08-01")
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(completions) != 1 {
		t.Errorf("completion history lost on archive: got %d rows", len(completions))
	}
}

func TestListHistoryJoinsTaskFields(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_jun")
	task, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Run", Icon: "🏃"}, "2026-09-01")

	if _, err := ts.UpsertCompletion(task.ID, p.ID, "2026-08-30", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete old: %v", err)
	}
	if _, err := ts.UpsertCompletion(task.ID, p.ID, "2026-09-01", model.StatusCompleted, nil, ""); err != nil {
		t.Fatalf("complete new: %v", err)
	}

	entries, err := ts.ListHistory(p.ID, "2026-08-01")
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].CompletionDate != "2026-09-01" {
		t.Errorf("history not newest first: %q", entries[0].CompletionDate)
	}
	if entries[0].TaskTitle != "Run" || entries[0].TaskIcon != "🏃" {
		t.Errorf("task fields = %q %q", entries[0].TaskTitle, entries[0].TaskIcon)
	}
}

func TestUpdateTask(t *testing.T) {
	ts, ps := setupTaskTestDB(t)
	p := createTestProfile(t, ps, "demo_kai")
	task, _ := ts.Create(TaskParams{UserID: &p.ID, Title: "Draft"}, "2026-09-01")

	target := 30
	updated, err := ts.Update(task.ID, TaskParams{
		Title:          "Read 30 pages",
		TaskType:       model.TaskTypeGoal,
		Recurrence:     "weekly",
		RecurrenceDays: []int{1, 3, 5},
		HasProgress:    true,
		ProgressUnit:   "pages",
		ProgressTarget: &target,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Read 30 pages" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.TaskType != model.TaskTypeGoal {
		t.Errorf("task_type = %q", updated.TaskType)
	}
	if len(updated.RecurrenceDays) != 3 || updated.RecurrenceDays[1] != 3 {
		t.Errorf("recurrence_days = %v", updated.RecurrenceDays)
	}
	if !updated.HasProgress || updated.ProgressTarget == nil || *updated.ProgressTarget != 30 {
		t.Errorf("progress fields: has=%v target=%v", updated.HasProgress, updated.ProgressTarget)
	}
}
