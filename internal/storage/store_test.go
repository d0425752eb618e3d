package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/timeblock/timeblock/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTask(title string) model.Task {
	return model.Task{
		Title:     title,
		StartDate: "2025-03-14", StartTime: "10:00",
		EndDate: "2025-03-14", EndTime: "11:00",
	}
}

func TestSaveTaskCreateAndUpdate(t *testing.T) {
	s := testStore(t)

	id, err := s.SaveTask("alice", sampleTask("Write spec"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" {
		t.Fatal("create returned empty id")
	}

	updated := sampleTask("Write spec v2")
	updated.ID = id
	updated.Description = "now with edits"
	id2, err := s.SaveTask("alice", updated)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if id2 != id {
		t.Errorf("update changed id: %s -> %s", id, id2)
	}

	tasks, err := s.ListTasks("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Write spec v2" || tasks[0].Description != "now with edits" {
		t.Errorf("update not persisted: %+v", tasks[0])
	}
}

func TestTaskOwnership(t *testing.T) {
	s := testStore(t)
	id, err := s.SaveTask("alice", sampleTask("Alice's task"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	foreign := sampleTask("hijack")
	foreign.ID = id
	if _, err := s.SaveTask("bob", foreign); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign update, got %v", err)
	}
	if err := s.DeleteTask("bob", id); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign delete, got %v", err)
	}
	if _, err := s.GetTask("bob", id); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner on foreign get, got %v", err)
	}
	if _, err := s.GetTask("alice", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing task, got %v", err)
	}

	tasks, err := s.ListTasks("bob")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("bob should see no tasks, got %d", len(tasks))
	}
}

func TestDeleteTaskCascadesTimeLogs(t *testing.T) {
	s := testStore(t)
	id, err := s.SaveTask("alice", sampleTask("Tracked"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.AddTimeLog("alice", id, 300, "first"); err != nil {
		t.Fatalf("add log failed: %v", err)
	}
	if _, err := s.AddTimeLog("alice", id, 120, "second"); err != nil {
		t.Fatalf("add log failed: %v", err)
	}

	if err := s.DeleteTask("alice", id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	counts, err := s.Counts("alice")
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts.Tasks != 0 || counts.TimeLogs != 0 {
		t.Errorf("cascade left data behind: %+v", counts)
	}
}

func TestTimeLogs(t *testing.T) {
	s := testStore(t)
	id, err := s.SaveTask("alice", sampleTask("Tracked"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	entry, err := s.AddTimeLog("alice", id, 300, "")
	if err != nil {
		t.Fatalf("add log failed: %v", err)
	}
	if entry.ID == "" || entry.Duration != 300 {
		t.Errorf("bad entry: %+v", entry)
	}

	if _, err := s.AddTimeLog("alice", id, -5, ""); err == nil {
		t.Error("expected error for negative duration")
	}
	if _, err := s.AddTimeLog("bob", id, 10, ""); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	if err := s.UpdateTimeLogNote("alice", id, entry.ID, "annotated"); err != nil {
		t.Fatalf("update note failed: %v", err)
	}
	logs, err := s.ListTimeLogs("alice", id)
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Note != "annotated" {
		t.Errorf("note not persisted: %+v", logs)
	}

	if err := s.UpdateTimeLogNote("alice", id, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing log, got %v", err)
	}

	if err := s.DeleteTimeLog("alice", id, entry.ID); err != nil {
		t.Fatalf("delete log failed: %v", err)
	}
	logs, _ = s.ListTimeLogs("alice", id)
	if len(logs) != 0 {
		t.Errorf("log not deleted: %+v", logs)
	}
}

func TestCategoryUniquenessPerOwner(t *testing.T) {
	s := testStore(t)

	if _, err := s.SaveCategory("alice", model.Category{Name: "Work", Color: "#ff0000"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.SaveCategory("alice", model.Category{Name: "Work", Color: "#00ff00"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	// Same name under a different owner is fine.
	if _, err := s.SaveCategory("bob", model.Category{Name: "Work", Color: "#00ff00"}); err != nil {
		t.Errorf("cross-owner name should be allowed: %v", err)
	}
}

func TestCategoryDefaultsAndUpdate(t *testing.T) {
	s := testStore(t)

	id, err := s.SaveCategory("alice", model.Category{Name: "Deep", Color: "#112233"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	cats, err := s.ListCategories("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if cats[0].TextColor != model.DefaultTextColor {
		t.Errorf("missing text color should default, got %q", cats[0].TextColor)
	}

	if err := s.UpdateCategory("alice", model.Category{ID: id, Name: "Deeper", Color: "#112233", TextColor: "#000000"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := s.UpdateCategory("bob", model.Category{ID: id, Name: "X", Color: "#fff", TextColor: "#000"}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := s.DeleteCategory("alice", id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestSeedDefaultCategoriesOnlyWhenEmpty(t *testing.T) {
	s := testStore(t)
	defaults := []model.Category{
		{Name: "Work", Color: "#ff0000"},
		{Name: "Personal", Color: "#00ff00"},
	}

	if err := s.SeedDefaultCategories("alice", defaults); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	cats, _ := s.ListCategories("alice")
	if len(cats) != 2 {
		t.Fatalf("expected 2 seeded categories, got %d", len(cats))
	}

	// Second startup must not duplicate.
	if err := s.SeedDefaultCategories("alice", defaults); err != nil {
		t.Fatalf("re-seed failed: %v", err)
	}
	cats, _ = s.ListCategories("alice")
	if len(cats) != 2 {
		t.Errorf("re-seed duplicated categories: got %d", len(cats))
	}
}

func TestTodosInsertAtHead(t *testing.T) {
	s := testStore(t)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.AddTodo("alice", text, "", ""); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	todos, err := s.ListTodos("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"third", "second", "first"}
	for i, w := range want {
		if todos[i].Text != w {
			t.Errorf("position %d: got %q, want %q", i, todos[i].Text, w)
		}
	}
}

func TestReorderTodosDropsMissingIDs(t *testing.T) {
	s := testStore(t)

	a, _ := s.AddTodo("alice", "a", "", "")
	b, _ := s.AddTodo("alice", "b", "", "")
	c, _ := s.AddTodo("alice", "c", "", "")

	// Submit only two of three: the third is dropped, order is exactly
	// what was submitted.
	if err := s.ReorderTodos("alice", []string{c.ID, a.ID}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	todos, err := s.ListTodos("alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos after reorder, got %d", len(todos))
	}
	if todos[0].ID != c.ID || todos[1].ID != a.ID {
		t.Errorf("wrong order: got %q, %q", todos[0].Text, todos[1].Text)
	}
	for _, item := range todos {
		if item.ID == b.ID {
			t.Error("dropped todo still present")
		}
	}
}

func TestReorderTodosIgnoresForeignIDs(t *testing.T) {
	s := testStore(t)
	mine, _ := s.AddTodo("alice", "mine", "", "")
	theirs, _ := s.AddTodo("bob", "theirs", "", "")

	if err := s.ReorderTodos("alice", []string{theirs.ID, mine.ID}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	bobs, _ := s.ListTodos("bob")
	if len(bobs) != 1 {
		t.Errorf("bob's list was touched: %+v", bobs)
	}
}

func TestUpdateTodoPartial(t *testing.T) {
	s := testStore(t)
	item, err := s.AddTodo("alice", "task", "", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	done := true
	if err := s.UpdateTodo("alice", item.ID, model.TodoUpdate{Completed: &done}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	todos, _ := s.ListTodos("alice")
	if !todos[0].Completed {
		t.Error("completed flag not persisted")
	}
	if todos[0].Text != "task" {
		t.Errorf("text changed by partial update: %q", todos[0].Text)
	}

	if err := s.UpdateTodo("bob", item.ID, model.TodoUpdate{Completed: &done}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := testStore(t)

	catID, err := s.SaveCategory("alice", model.Category{Name: "Work", Color: "#ff0000", TextColor: "#ffffff"})
	if err != nil {
		t.Fatalf("category failed: %v", err)
	}
	task := sampleTask("Tracked")
	task.Category = catID
	taskID, err := s.SaveTask("alice", task)
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if _, err := s.AddTimeLog("alice", taskID, 600, "roundtrip"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if _, err := s.AddTodo("alice", "remember", "", ""); err != nil {
		t.Fatalf("todo failed: %v", err)
	}

	snap, err := s.Export("alice")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// Import into a fresh database under a different owner.
	s2 := testStore(t)
	if err := s2.Import("carol", snap); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	counts, err := s2.Counts("carol")
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts.Tasks != 1 || counts.Categories != 1 || counts.TimeLogs != 1 || counts.Todos != 1 {
		t.Errorf("import incomplete: %+v", counts)
	}

	tasks, _ := s2.ListTasks("carol")
	if tasks[0].Category != catID {
		t.Errorf("category reference not preserved: %q != %q", tasks[0].Category, catID)
	}
	logs, _ := s2.ListTimeLogs("carol", taskID)
	if len(logs) != 1 || logs[0].Note != "roundtrip" {
		t.Errorf("logs not preserved: %+v", logs)
	}
}

func TestClearOwnerDataScopedToOwner(t *testing.T) {
	s := testStore(t)
	if _, err := s.SaveTask("alice", sampleTask("mine")); err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if _, err := s.SaveTask("bob", sampleTask("theirs")); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if err := s.ClearOwnerData("alice"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	aliceCounts, _ := s.Counts("alice")
	bobCounts, _ := s.Counts("bob")
	if aliceCounts.Tasks != 0 {
		t.Errorf("alice's data not cleared: %+v", aliceCounts)
	}
	if bobCounts.Tasks != 1 {
		t.Errorf("bob's data was cleared too: %+v", bobCounts)
	}
}
