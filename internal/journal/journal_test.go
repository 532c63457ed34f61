package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/db"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
)

func TestRolloverFirstPageCarriesNothing(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")

	result, err := engine.CreatePageWithRollover(ctx, diary.ID, date(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if result.Carried != 0 {
		t.Fatalf("expected nothing carried, got %d", result.Carried)
	}
	if result.SourceDate != nil {
		t.Fatalf("expected no source date, got %v", result.SourceDate)
	}
	if model.FormatDate(result.Page.Date) != "2024-03-01" {
		t.Fatalf("unexpected page date %s", model.FormatDate(result.Page.Date))
	}
}

func TestRolloverCarriesOnlyOpenTasks(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-02")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	first := mustRollover(t, engine, diary.ID, "2024-03-01")

	for _, task := range []struct{ title, status string }{
		{"Write report", "pending"},
		{"Pay rent", "Completed"},
		{"Old idea", "DELETED"},
		{"Read book", "in-progress"},
	} {
		mustCreateTask(t, store, first.Page.ID, task.title, task.status)
	}

	second, err := engine.CreatePageWithRollover(ctx, diary.ID, date(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if second.Carried != 2 {
		t.Fatalf("expected 2 carried tasks, got %d", second.Carried)
	}
	if second.SourceDate == nil || model.FormatDate(*second.SourceDate) != "2024-03-01" {
		t.Fatalf("expected source date 2024-03-01, got %v", second.SourceDate)
	}

	carried := pageTasks(t, store, second.Page.ID)
	source := pageTasks(t, store, first.Page.ID)
	byTitle := map[string]model.TaskInstance{}
	for _, instance := range source {
		byTitle[instance.Title] = instance
	}
	for _, instance := range carried {
		if model.IsTerminalStatus(instance.Status) {
			t.Fatalf("terminal task carried: %+v", instance)
		}
		original, ok := byTitle[instance.Title]
		if !ok {
			t.Fatalf("carried task %q has no source", instance.Title)
		}
		if original.LineageID != instance.LineageID || original.Status != instance.Status {
			t.Fatalf("carried task lost lineage or status: %+v vs %+v", instance, original)
		}
		if original.ID == instance.ID {
			t.Fatalf("expected a new instance, got the source instance %d", instance.ID)
		}
	}
	if len(source) != 4 {
		t.Fatalf("expected source page untouched with 4 tasks, got %d", len(source))
	}
}

func TestRolloverDuplicateDateIsConflict(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	mustRollover(t, engine, diary.ID, "2024-03-01")

	_, err := engine.CreatePageWithRollover(ctx, diary.ID, date(t, "2024-03-01"))
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	pages, err := store.ListPagesByDiary(ctx, diary.ID)
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}

func TestRolloverMissingDiaryIsNotFound(t *testing.T) {
	_, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()

	_, err := engine.CreatePageWithRollover(context.Background(), 42, date(t, "2024-03-01"))
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRolloverChainKeepsLineage(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-03")
	defer cleanup()

	diary := mustCreateDiary(t, store, "Alice")
	first := mustRollover(t, engine, diary.ID, "2024-03-01")
	lineage, _ := mustCreateTask(t, store, first.Page.ID, "Long task", "pending")

	second := mustRollover(t, engine, diary.ID, "2024-03-02")
	third := mustRollover(t, engine, diary.ID, "2024-03-03")
	if second.Carried != 1 || third.Carried != 1 {
		t.Fatalf("expected one task carried each day, got %d and %d", second.Carried, third.Carried)
	}

	history, err := engine.GetHistoryByLineage(context.Background(), lineage.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	if len(history) != len(want) {
		t.Fatalf("expected %d history entries, got %d", len(want), len(history))
	}
	for i, entry := range history {
		if got := model.FormatDate(entry.PageDate); got != want[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, want[i], got)
		}
		if entry.LineageID != lineage.ID {
			t.Fatalf("entry %d: expected lineage %d, got %d", i, lineage.ID, entry.LineageID)
		}
	}
}

func TestRolloverCarriesFromMostRecentEarlierPage(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-10")
	defer cleanup()

	diary := mustCreateDiary(t, store, "Alice")
	older := mustRollover(t, engine, diary.ID, "2024-03-01")
	mustCreateTask(t, store, older.Page.ID, "Stale", "pending")
	recent := mustRollover(t, engine, diary.ID, "2024-03-05")
	mustCreateTask(t, store, recent.Page.ID, "Fresh", "pending")

	// A page after the new date is never a source.
	later := mustRollover(t, engine, diary.ID, "2024-03-20")
	mustCreateTask(t, store, later.Page.ID, "Future", "pending")

	result := mustRollover(t, engine, diary.ID, "2024-03-10")
	if result.SourceDate == nil || model.FormatDate(*result.SourceDate) != "2024-03-05" {
		t.Fatalf("expected source 2024-03-05, got %v", result.SourceDate)
	}

	titles := map[string]bool{}
	for _, instance := range pageTasks(t, store, result.Page.ID) {
		titles[instance.Title] = true
	}
	if !titles["Stale"] || !titles["Fresh"] || titles["Future"] || len(titles) != 2 {
		t.Fatalf("unexpected carried titles: %v", titles)
	}
}

func TestMigrateStatusOnTodayUpdatesInPlace(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	page := mustRollover(t, engine, diary.ID, "2024-03-01")
	_, instance := mustCreateTask(t, store, page.Page.ID, "Today task", "pending")
	mustCreateTask(t, store, page.Page.ID, "Other", "pending")
	before := len(pageTasks(t, store, page.Page.ID))

	result, err := engine.MigrateStatus(ctx, instance.ID, "completed")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Relocated || result.InstanceID != instance.ID {
		t.Fatalf("expected in-place update of %d, got %+v", instance.ID, result)
	}
	if after := len(pageTasks(t, store, page.Page.ID)); after != before {
		t.Fatalf("expected %d instances on the page, got %d", before, after)
	}

	reloaded, err := store.GetInstance(ctx, instance.ID)
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if reloaded.Status != "completed" {
		t.Fatalf("expected status completed, got %q", reloaded.Status)
	}
}

func TestMigrateStatusOnFuturePageUpdatesInPlace(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	page := mustRollover(t, engine, diary.ID, "2024-03-15")
	_, instance := mustCreateTask(t, store, page.Page.ID, "Planned", "pending")
	before := len(pageTasks(t, store, page.Page.ID))

	result, err := engine.MigrateStatus(ctx, instance.ID, "in-progress")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Relocated || result.InstanceID != instance.ID {
		t.Fatalf("expected in-place update, got %+v", result)
	}
	if after := len(pageTasks(t, store, page.Page.ID)); after != before {
		t.Fatalf("expected %d instances on the page, got %d", before, after)
	}
	if _, err := store.GetPageByDate(ctx, diary.ID, date(t, "2024-03-01")); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected no page for today, got %v", err)
	}
}

func TestMigrateStatusOnPastPageRelocates(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-05")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	past := mustRollover(t, engine, diary.ID, "2024-03-01")
	lineage, stale := mustCreateTask(t, store, past.Page.ID, "Report", "pending")

	first, err := engine.MigrateStatus(ctx, stale.ID, "in-progress")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !first.Relocated || first.InstanceID == stale.ID {
		t.Fatalf("expected relocation to a new instance, got %+v", first)
	}

	todayPage, err := store.GetPageByDate(ctx, diary.ID, date(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("expected today's page to be created: %v", err)
	}
	current, err := store.GetInstance(ctx, first.InstanceID)
	if err != nil {
		t.Fatalf("get current instance: %v", err)
	}
	if current.PageID != todayPage.ID || current.LineageID != lineage.ID || current.Status != "in-progress" || current.Title != "Report" {
		t.Fatalf("unexpected relocated instance: %+v", current)
	}

	untouched, err := store.GetInstance(ctx, stale.ID)
	if err != nil {
		t.Fatalf("get stale instance: %v", err)
	}
	if untouched.Status != "pending" {
		t.Fatalf("expected past instance to keep 'pending', got %q", untouched.Status)
	}

	second, err := engine.MigrateStatus(ctx, stale.ID, "completed")
	if err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	if second.InstanceID != first.InstanceID {
		t.Fatalf("expected the same today instance %d, got %d", first.InstanceID, second.InstanceID)
	}
	if tasks := pageTasks(t, store, todayPage.ID); len(tasks) != 1 || tasks[0].Status != "completed" {
		t.Fatalf("expected one completed task today, got %+v", tasks)
	}
}

func TestMigrateStatusValidation(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	page := mustRollover(t, engine, diary.ID, "2024-03-01")
	_, instance := mustCreateTask(t, store, page.Page.ID, "Task", "pending")

	if _, err := engine.MigrateStatus(ctx, instance.ID, "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := engine.MigrateStatus(ctx, 999, "completed"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryByInstanceIsOrderedByDate(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-10")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	early := mustRollover(t, engine, diary.ID, "2024-03-01")
	lineage, origin := mustCreateTask(t, store, early.Page.ID, "Essay", "pending")

	// Copying back in time puts a later instance id on an earlier date.
	late := mustRollover(t, engine, diary.ID, "2024-03-08")
	if late.Carried != 1 {
		t.Fatalf("expected the essay to carry, got %d", late.Carried)
	}
	if _, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-08"), date(t, "2024-03-04")); err != nil {
		t.Fatalf("copy: %v", err)
	}

	history, err := engine.GetHistoryByInstance(ctx, origin.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []string{"2024-03-01", "2024-03-04", "2024-03-08"}
	if len(history) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(history))
	}
	for i, entry := range history {
		if got := model.FormatDate(entry.PageDate); got != want[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, want[i], got)
		}
		if entry.LineageID != lineage.ID {
			t.Fatalf("entry %d: wrong lineage %d", i, entry.LineageID)
		}
	}
}

func TestHistoryNotFound(t *testing.T) {
	_, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	if _, err := engine.GetHistoryByLineage(ctx, 77); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found for lineage, got %v", err)
	}
	if _, err := engine.GetHistoryByInstance(ctx, 77); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found for instance, got %v", err)
	}
}

func TestCopyOpenTasksCreatesTargetAndSkipsDuplicates(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	source := mustRollover(t, engine, diary.ID, "2024-03-01")
	mustCreateTask(t, store, source.Page.ID, "Open A", "pending")
	mustCreateTask(t, store, source.Page.ID, "Open B", "in-progress")
	mustCreateTask(t, store, source.Page.ID, "Done", "completed")

	first, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-09"))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if first.Copied != 2 || !first.TargetCreated || first.NothingToCopy {
		t.Fatalf("unexpected first copy result: %+v", first)
	}

	second, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-09"))
	if err != nil {
		t.Fatalf("copy again: %v", err)
	}
	if second.Copied != 0 || second.TargetCreated || second.TargetPageID != first.TargetPageID {
		t.Fatalf("unexpected second copy result: %+v", second)
	}
	if tasks := pageTasks(t, store, first.TargetPageID); len(tasks) != 2 {
		t.Fatalf("expected 2 tasks on target, got %d", len(tasks))
	}
}

func TestCopyOpenTasksDedupsByTitleAndStatus(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	source := mustRollover(t, engine, diary.ID, "2024-03-01")
	mustCreateTask(t, store, source.Page.ID, "Shared", "pending")
	mustCreateTask(t, store, source.Page.ID, "Shared", "pending")
	mustCreateTask(t, store, source.Page.ID, "Other", "pending")

	target := mustRollover(t, engine, diary.ID, "2024-03-09")
	// The rollover already brought everything over, under the same keys.
	if target.Carried != 3 {
		t.Fatalf("expected 3 carried, got %d", target.Carried)
	}
	// An unrelated lineage with a matching title and status blocks the copy.
	mustCreateTask(t, store, target.Page.ID, "Fresh", "pending")
	mustCreateTask(t, store, source.Page.ID, "Fresh", "pending")

	result, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-09"))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if result.Copied != 0 {
		t.Fatalf("expected nothing copied, got %d", result.Copied)
	}

	mustRollover(t, engine, diary.ID, "2024-02-01")
	fresh, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("copy to empty page: %v", err)
	}
	if fresh.Copied != 3 {
		t.Fatalf("expected duplicate candidates collapsed to 3 copies, got %d", fresh.Copied)
	}
}

func TestCopyOpenTasksNothingToCopy(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	source := mustRollover(t, engine, diary.ID, "2024-03-01")
	mustCreateTask(t, store, source.Page.ID, "Done", "Completed")

	result, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !result.NothingToCopy || result.Copied != 0 {
		t.Fatalf("expected nothing to copy, got %+v", result)
	}
	if !result.TargetCreated {
		t.Fatalf("expected the target page to be created")
	}
}

func TestCopyOpenTasksMissingSourceIsNotFound(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")

	_, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-01-01"), date(t, "2024-03-01"))
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.GetPageByDate(ctx, diary.ID, date(t, "2024-03-01")); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected no target page after a failed copy, got %v", err)
	}
}

func TestCopyChainKeepsOneInstancePerLineage(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	day1 := mustRollover(t, engine, diary.ID, "2024-03-01")
	first, _ := mustCreateTask(t, store, day1.Page.ID, "Read", "pending")
	second, _ := mustCreateTask(t, store, day1.Page.ID, "Write", "in-progress")

	day2, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("copy to day 2: %v", err)
	}
	day3, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-02"), date(t, "2024-03-03"))
	if err != nil {
		t.Fatalf("copy to day 3: %v", err)
	}
	// Repeating a copy adds nothing.
	if again, err := engine.CopyOpenTasks(ctx, diary.ID, date(t, "2024-03-01"), date(t, "2024-03-02")); err != nil || again.Copied != 0 {
		t.Fatalf("expected repeated copy to add nothing, got %+v, %v", again, err)
	}

	for _, pageID := range []int64{day1.Page.ID, day2.TargetPageID, day3.TargetPageID} {
		perLineage := make(map[int64]int)
		for _, instance := range pageTasks(t, store, pageID) {
			perLineage[instance.LineageID]++
		}
		if len(perLineage) != 2 || perLineage[first.ID] != 1 || perLineage[second.ID] != 1 {
			t.Fatalf("page %d: expected one instance per lineage, got %v", pageID, perLineage)
		}
	}

	for _, lineageID := range []int64{first.ID, second.ID} {
		history, err := engine.GetHistoryByLineage(ctx, lineageID)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != 3 {
			t.Fatalf("lineage %d: expected 3 history entries, got %d", lineageID, len(history))
		}
	}
}

func TestRolloverFailureCommitsNothing(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-02")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	day1 := mustRollover(t, engine, diary.ID, "2024-03-01")
	mustCreateTask(t, store, day1.Page.ID, "One", "pending")
	mustCreateTask(t, store, day1.Page.ID, "Two", "pending")

	failing := journal.New(&failingTransactor{store: store, failAfter: 1},
		journal.WithClock(func() time.Time { return date(t, "2024-03-02") }))
	if _, err := failing.CreatePageWithRollover(ctx, diary.ID, date(t, "2024-03-02")); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	if _, err := store.GetPageByDate(ctx, diary.ID, date(t, "2024-03-02")); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected no page after a failed rollover, got %v", err)
	}
	rows, err := store.SearchInstances(ctx, model.SearchFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected only the 2 original instances, got %d", len(rows))
	}

	// The same rollover succeeds once nothing interferes.
	result := mustRollover(t, engine, diary.ID, "2024-03-02")
	if result.Carried != 2 {
		t.Fatalf("expected 2 carried, got %d", result.Carried)
	}
}

func TestEditTaskOnPastPageLandsOnToday(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-05")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	past := mustRollover(t, engine, diary.ID, "2024-03-01")
	_, stale := mustCreateTask(t, store, past.Page.ID, "Report", "pending")
	today := mustRollover(t, engine, diary.ID, "2024-03-05")

	result, err := engine.EditTask(ctx, stale.ID, "Report v2", "in-progress")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !result.Relocated || result.InstanceID == stale.ID {
		t.Fatalf("expected the edit to land on today's instance, got %+v", result)
	}

	untouched, err := store.GetInstance(ctx, stale.ID)
	if err != nil {
		t.Fatalf("get stale instance: %v", err)
	}
	if untouched.Title != "Report" || untouched.Status != "pending" {
		t.Fatalf("expected past instance untouched, got %+v", untouched)
	}

	tasks := pageTasks(t, store, today.Page.ID)
	if len(tasks) != 1 || tasks[0].ID != result.InstanceID || tasks[0].Title != "Report v2" || tasks[0].Status != "in-progress" {
		t.Fatalf("unexpected today tasks: %+v", tasks)
	}
}

func TestEditTaskInPlaceAndValidation(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-03-01")
	defer cleanup()
	ctx := context.Background()

	diary := mustCreateDiary(t, store, "Alice")
	page := mustRollover(t, engine, diary.ID, "2024-03-01")
	_, instance := mustCreateTask(t, store, page.Page.ID, "Draft", "pending")

	result, err := engine.EditTask(ctx, instance.ID, "  Final  ", "pending")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if result.Relocated || result.InstanceID != instance.ID {
		t.Fatalf("expected in-place edit, got %+v", result)
	}
	reloaded, err := store.GetInstance(ctx, instance.ID)
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if reloaded.Title != "Final" || reloaded.Status != "pending" {
		t.Fatalf("unexpected instance after edit: %+v", reloaded)
	}

	if _, err := engine.EditTask(ctx, instance.ID, " ", "pending"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error for blank title, got %v", err)
	}
	if _, err := engine.EditTask(ctx, instance.ID, "Final", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error for blank status, got %v", err)
	}
	if _, err := engine.EditTask(ctx, 999, "Ghost", "pending"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAliceScenario(t *testing.T) {
	store, engine, cleanup := newTestEngine(t, "2024-01-03")
	defer cleanup()
	ctx := context.Background()

	alice := mustCreateDiary(t, store, "Alice")
	day1 := mustRollover(t, engine, alice.ID, "2024-01-01")
	_, milk := mustCreateTask(t, store, day1.Page.ID, "Buy milk", "pending")
	mustCreateTask(t, store, day1.Page.ID, "Call bank", "pending")

	day2 := mustRollover(t, engine, alice.ID, "2024-01-02")
	if day2.Carried != 2 {
		t.Fatalf("expected 2 carried into day 2, got %d", day2.Carried)
	}

	var milkDay2 model.TaskInstance
	for _, instance := range pageTasks(t, store, day2.Page.ID) {
		if instance.Title == "Buy milk" {
			milkDay2 = instance
		}
	}
	if _, err := store.UpdateInstanceTitle(ctx, milkDay2.ID, "Buy oat milk"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	// Completing yesterday's milk lands on today's page.
	result, err := engine.MigrateStatus(ctx, milkDay2.ID, "completed")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !result.Relocated {
		t.Fatalf("expected relocation to today")
	}

	day3, err := store.GetPageByDate(ctx, alice.ID, date(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("expected day 3 page: %v", err)
	}
	tasks := pageTasks(t, store, day3.ID)
	if len(tasks) != 1 || tasks[0].Title != "Buy oat milk" || tasks[0].Status != "completed" {
		t.Fatalf("unexpected day 3 tasks: %+v", tasks)
	}

	// Day 3 already exists, so a rollover for it conflicts.
	if _, err := engine.CreatePageWithRollover(ctx, alice.ID, date(t, "2024-01-03")); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	history, err := engine.GetHistoryByInstance(ctx, milk.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(history))
	}
	if history[0].Title != "Buy milk" || history[2].Status != "completed" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestEngineToday(t *testing.T) {
	clock := time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)
	engine := journal.New(nil, journal.WithClock(func() time.Time { return clock }))

	if got := model.FormatDate(engine.Today()); got != "2024-06-30" {
		t.Fatalf("expected 2024-06-30, got %s", got)
	}
	if engine.Today().Hour() != 0 {
		t.Fatalf("expected today to have no time of day")
	}
}

func newTestEngine(t *testing.T, today string) (*db.Store, *journal.Engine, func()) {
	t.Helper()
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := db.NewStore(conn)
	clock := date(t, today).Add(15 * time.Hour)
	engine := journal.New(store, journal.WithClock(func() time.Time { return clock }))
	return store, engine, func() {
		_ = conn.Close()
	}
}

func mustCreateDiary(t *testing.T, store *db.Store, owner string) model.Diary {
	t.Helper()
	diary, err := store.CreateDiary(context.Background(), owner)
	if err != nil {
		t.Fatalf("create diary: %v", err)
	}
	return diary
}

func mustRollover(t *testing.T, engine *journal.Engine, diaryID int64, day string) journal.RolloverResult {
	t.Helper()
	result, err := engine.CreatePageWithRollover(context.Background(), diaryID, date(t, day))
	if err != nil {
		t.Fatalf("rollover %s: %v", day, err)
	}
	return result
}

func mustCreateTask(t *testing.T, store *db.Store, pageID int64, title, status string) (model.TaskLineage, model.TaskInstance) {
	t.Helper()
	lineage, instance, err := store.CreateTask(context.Background(), pageID, title, status)
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return lineage, instance
}

func pageTasks(t *testing.T, store *db.Store, pageID int64) []model.TaskInstance {
	t.Helper()
	tasks, err := store.ListPageTasks(context.Background(), pageID)
	if err != nil {
		t.Fatalf("list page tasks: %v", err)
	}
	return tasks
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(model.DateLayout, value)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return parsed
}

var errInjected = errors.New("injected failure")

// failingTransactor runs transactions on a real store but fails the
// instance insert after failAfter successful ones.
type failingTransactor struct {
	store     *db.Store
	failAfter int
}

func (f *failingTransactor) RunInTx(ctx context.Context, fn func(journal.Repository) error) error {
	return f.store.RunInTx(ctx, func(repo journal.Repository) error {
		return fn(&failingRepository{Repository: repo, remaining: f.failAfter})
	})
}

type failingRepository struct {
	journal.Repository
	remaining int
}

func (r *failingRepository) CreateInstance(ctx context.Context, instance model.TaskInstance) (model.TaskInstance, error) {
	if r.remaining == 0 {
		return model.TaskInstance{}, errInjected
	}
	r.remaining--
	return r.Repository.CreateInstance(ctx, instance)
}
