package client

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/timeblock/timeblock/internal/config"
	"github.com/timeblock/timeblock/internal/model"
	"github.com/timeblock/timeblock/internal/server"
	"github.com/timeblock/timeblock/internal/session"
	"github.com/timeblock/timeblock/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSetup(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Users = []config.User{
		{Name: "alice", Token: "tok-alice"},
		{Name: "bob", Token: "tok-bob"},
	}
	ts := httptest.NewServer(server.New(store, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sampleTask(title string) model.Task {
	return model.Task{
		Title:     title,
		StartDate: "2025-03-14", StartTime: "10:00",
		EndDate: "2025-03-14", EndTime: "11:00",
	}
}

func TestTaskRoundTrip(t *testing.T) {
	ts := testSetup(t)
	c := New(ts.URL, "tok-alice")

	id, err := c.SaveTask(sampleTask("Write spec"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" {
		t.Fatal("empty id from create")
	}

	updated := sampleTask("Write spec v2")
	updated.ID = id
	if _, err := c.SaveTask(updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	tasks, err := c.ListTasks()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Write spec v2" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}

	if err := c.DeleteTask(id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	tasks, _ = c.ListTasks()
	if len(tasks) != 0 {
		t.Errorf("task survived delete: %+v", tasks)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := testSetup(t)

	// Unknown token maps to ErrNotAuthenticated.
	bad := New(ts.URL, "wrong-token")
	if _, err := bad.ListTasks(); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	// Foreign records map to ErrNotOwner.
	alice := New(ts.URL, "tok-alice")
	bob := New(ts.URL, "tok-bob")
	id, err := alice.SaveTask(sampleTask("Alice's"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := bob.DeleteTask(id); !errors.Is(err, session.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	// A dead server maps to TransportError.
	deadURL := ts.URL
	ts.Close()
	dead := New(deadURL, "tok-alice")
	_, err = dead.ListTasks()
	var te *session.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %v", err)
	}
}

func TestCategoryAndLogFlow(t *testing.T) {
	ts := testSetup(t)
	c := New(ts.URL, "tok-alice")

	catID, err := c.SaveCategory(model.Category{Name: "Work", Color: "#ff0000", TextColor: "#ffffff"})
	if err != nil {
		t.Fatalf("category failed: %v", err)
	}
	if err := c.UpdateCategory(model.Category{ID: catID, Name: "Deep Work", Color: "#0000ff", TextColor: "#ffffff"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	cats, err := c.ListCategories()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Deep Work" {
		t.Errorf("unexpected categories: %+v", cats)
	}

	task := sampleTask("Tracked")
	task.Category = catID
	taskID, err := c.SaveTask(task)
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}

	logID, err := c.SaveTimeLog(taskID, 300, "")
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := c.UpdateTimeLogNote(taskID, logID, "annotated"); err != nil {
		t.Fatalf("note failed: %v", err)
	}
	logs, err := c.ListTimeLogs(taskID)
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Note != "annotated" || logs[0].Duration != 300 {
		t.Errorf("unexpected logs: %+v", logs)
	}
	if err := c.DeleteTimeLog(taskID, logID); err != nil {
		t.Fatalf("delete log failed: %v", err)
	}

	if err := c.DeleteCategory(catID); err != nil {
		t.Fatalf("delete category failed: %v", err)
	}
}

func TestTodoFlow(t *testing.T) {
	ts := testSetup(t)
	c := New(ts.URL, "tok-alice")

	first, err := c.SaveTodo("first", "", "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	second, err := c.SaveTodo("second", "2025-03-14", "2025-03-15")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	todos, err := c.ListTodos()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != second.ID {
		t.Errorf("newest-first order violated: %+v", todos)
	}
	if todos[0].StartDate != "2025-03-14" {
		t.Errorf("dates not persisted: %+v", todos[0])
	}

	done := true
	if err := c.UpdateTodo(first.ID, model.TodoUpdate{Completed: &done}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := c.ReorderTodos([]string{first.ID, second.ID}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	todos, _ = c.ListTodos()
	if todos[0].ID != first.ID || !todos[0].Completed {
		t.Errorf("reorder/update not applied: %+v", todos)
	}

	if err := c.DeleteTodo(second.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	todos, _ = c.ListTodos()
	if len(todos) != 1 {
		t.Errorf("delete not applied: %+v", todos)
	}
}

// TestSessionOverClient drives the editor session through the HTTP client
// against a live server, end to end.
func TestSessionOverClient(t *testing.T) {
	ts := testSetup(t)
	c := New(ts.URL, "tok-alice")
	sess := session.New(session.Options{Backend: c})

	if err := sess.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	start, err := model.CombineDateTime("2025-03-14", "10:00")
	if err != nil {
		t.Fatalf("bad instant: %v", err)
	}
	end, _ := model.CombineDateTime("2025-03-14", "11:00")
	sess.HandleSelect(start, end)
	sess.EditDraft(func(tk *model.Task) { tk.Title = "Write spec" })
	if err := sess.SaveDraft(false); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if sess.Draft().ID == "" {
		t.Fatal("draft did not adopt server id")
	}

	if err := sess.AddTodo("Ship it", "", ""); err != nil {
		t.Fatalf("todo failed: %v", err)
	}
	todos := sess.Todos()
	if len(todos) != 1 || todos[0].Text != "Ship it" {
		t.Errorf("todo not visible through session: %+v", todos)
	}
}

func TestExportImport(t *testing.T) {
	ts := testSetup(t)
	alice := New(ts.URL, "tok-alice")
	bob := New(ts.URL, "tok-bob")

	taskID, err := alice.SaveTask(sampleTask("Tracked"))
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if _, err := alice.SaveTimeLog(taskID, 120, "exported"); err != nil {
		t.Fatalf("log failed: %v", err)
	}

	snap, err := alice.Export()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(snap.Tasks) != 1 || len(snap.Tasks[0].TimeLogs) != 1 {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}

	// Ids are preserved, so drop the snapshot ids to copy rather than move.
	snap.Tasks[0].ID = ""
	snap.Tasks[0].TimeLogs[0].ID = ""
	if err := bob.Import(snap); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	tasks, err := bob.ListTasks()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Tracked" {
		t.Errorf("import incomplete: %+v", tasks)
	}
}
