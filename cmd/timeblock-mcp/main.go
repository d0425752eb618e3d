// timeblock-mcp exposes a timeblock editor session as MCP tools over
// stdio, so an MCP client can schedule tasks, run the timer, and manage
// the TO-DO list.
//
// With TIMEBLOCK_URL and TIMEBLOCK_TOKEN set the session talks to a
// running timeblock server; otherwise it opens the local database named
// by TIMEBLOCK_DB directly for the owner named by TIMEBLOCK_OWNER.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/timeblock/timeblock/internal/client"
	"github.com/timeblock/timeblock/internal/model"
	"github.com/timeblock/timeblock/internal/session"
	"github.com/timeblock/timeblock/internal/storage"
)

// noteCollector gathers session notifications so tool results can relay
// them to the MCP client.
type noteCollector struct {
	mu    sync.Mutex
	notes []string
}

func (n *noteCollector) Notify(level session.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, fmt.Sprintf("[%s] %s", level, message))
}

func (n *noteCollector) drain() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := strings.Join(n.notes, "\n")
	n.notes = nil
	return out
}

func main() {
	_ = godotenv.Load()

	notes := &noteCollector{}
	backend, cleanup, err := buildBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeblock-mcp: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	sess := session.New(session.Options{
		Backend:  backend,
		Notifier: notes,
	})
	if err := sess.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "timeblock-mcp: initial load failed: %v\n", err)
	}
	notes.drain()

	s := server.NewMCPServer(
		"timeblock-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, sess, notes)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func buildBackend() (session.Backend, func(), error) {
	if url := os.Getenv("TIMEBLOCK_URL"); url != "" {
		token := os.Getenv("TIMEBLOCK_TOKEN")
		if token == "" {
			return nil, nil, fmt.Errorf("TIMEBLOCK_TOKEN required with TIMEBLOCK_URL")
		}
		return client.New(url, token), func() {}, nil
	}

	dbPath := os.Getenv("TIMEBLOCK_DB")
	if dbPath == "" {
		dbPath = "state/timeblock.db"
	}
	ownerName := os.Getenv("TIMEBLOCK_OWNER")
	if ownerName == "" {
		return nil, nil, fmt.Errorf("TIMEBLOCK_OWNER required for direct database access")
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store.ViewFor(ownerName), func() { store.Close() }, nil
}

// result renders a payload as JSON plus any pending session notifications.
func result(notes *noteCollector, payload any) *mcp.CallToolResult {
	var parts []string
	if payload != nil {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
		}
		parts = append(parts, string(data))
	}
	if msgs := notes.drain(); msgs != "" {
		parts = append(parts, msgs)
	}
	if len(parts) == 0 {
		parts = append(parts, "ok")
	}
	return mcp.NewToolResultText(strings.Join(parts, "\n"))
}

func failure(notes *noteCollector, err error) *mcp.CallToolResult {
	msg := err.Error()
	if msgs := notes.drain(); msgs != "" {
		msg += "\n" + msgs
	}
	return mcp.NewToolResultError(msg)
}

func registerTools(s *server.MCPServer, sess *session.Session, notes *noteCollector) {
	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List all scheduled tasks with their time ranges and categories."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.Refresh(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Tasks()), nil
	})

	s.AddTool(mcp.NewTool("open_task",
		mcp.WithDescription("Open an existing task for editing. Loads its time logs and resets the timer."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task to open")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		taskID, _ := args["task_id"].(string)
		sess.HandleEventClick(taskID)
		draft := sess.Draft()
		if draft.ID != taskID {
			return failure(notes, fmt.Errorf("task not found: %s", taskID)), nil
		}
		return result(notes, map[string]any{"draft": draft, "time_logs": sess.TimeLogs()}), nil
	})

	s.AddTool(mcp.NewTool("new_task",
		mcp.WithDescription("Start a new task draft for a time range, like drag-selecting on the calendar. Follow with edit_task and save_task."),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start instant, format 2006-01-02T15:04")),
		mcp.WithString("end", mcp.Required(), mcp.Description("End instant, format 2006-01-02T15:04")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		start, err := parseInstant(args["start"])
		if err != nil {
			return failure(notes, err), nil
		}
		end, err := parseInstant(args["end"])
		if err != nil {
			return failure(notes, err), nil
		}
		sess.HandleSelect(start, end)
		return result(notes, sess.Draft()), nil
	})

	s.AddTool(mcp.NewTool("edit_task",
		mcp.WithDescription("Edit fields of the open task draft. Only provided fields change. Call save_task to persist."),
		mcp.WithString("title", mcp.Description("Task title")),
		mcp.WithString("description", mcp.Description("Free-text description")),
		mcp.WithString("category", mcp.Description("Primary category ID, empty to clear")),
		mcp.WithString("secondary_categories", mcp.Description("Comma-separated secondary category IDs")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		sess.EditDraft(func(t *model.Task) {
			if v, ok := args["title"].(string); ok {
				t.Title = v
			}
			if v, ok := args["description"].(string); ok {
				t.Description = v
			}
			if v, ok := args["category"].(string); ok {
				t.Category = v
			}
			if v, ok := args["secondary_categories"].(string); ok {
				t.SecondaryCategories = splitIDs(v)
			}
		})
		return result(notes, sess.Draft()), nil
	})

	s.AddTool(mcp.NewTool("save_task",
		mcp.WithDescription("Persist the open task draft. Creates the task if it has no ID yet."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.SaveDraft(false); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Draft()), nil
	})

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete the open task and all of its time logs."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.DeleteDraft(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, nil), nil
	})

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the user's categories with their colors."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.LoadCategories(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Categories()), nil
	})

	s.AddTool(mcp.NewTool("add_category",
		mcp.WithDescription("Create a category."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name, unique per user")),
		mcp.WithString("color", mcp.Description("Background hex color, default "+model.DefaultColor)),
		mcp.WithString("text_color", mcp.Description("Text hex color, default "+model.DefaultTextColor)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		name, _ := args["name"].(string)
		color, _ := args["color"].(string)
		textColor, _ := args["text_color"].(string)
		if err := sess.CreateCategory(name, color, textColor); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Categories()), nil
	})

	s.AddTool(mcp.NewTool("start_timer",
		mcp.WithDescription("Start the stopwatch against the open task. The task must be saved first."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.StartTimer(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, map[string]any{"running": true}), nil
	})

	s.AddTool(mcp.NewTool("stop_timer",
		mcp.WithDescription("Stop the stopwatch; nonzero elapsed time is committed as a time log on the open task."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.StopTimer(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, map[string]any{"running": false, "time_logs": sess.TimeLogs()}), nil
	})

	s.AddTool(mcp.NewTool("timer_status",
		mcp.WithDescription("Report whether the stopwatch is running and its elapsed time."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		elapsed := sess.TimerElapsed()
		return result(notes, map[string]any{
			"running": sess.TimerRunning(),
			"elapsed": model.FormatDuration(elapsed),
			"seconds": elapsed,
		}), nil
	})

	s.AddTool(mcp.NewTool("update_log_note",
		mcp.WithDescription("Annotate a time log entry of the open task."),
		mcp.WithString("log_id", mcp.Required(), mcp.Description("ID of the log entry")),
		mcp.WithString("note", mcp.Required(), mcp.Description("New note text")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		logID, _ := args["log_id"].(string)
		note, _ := args["note"].(string)
		if err := sess.UpdateTimeLogNote(logID, note); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.TimeLogs()), nil
	})

	s.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List the TO-DO items in their current order."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sess.LoadTodos(); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Todos()), nil
	})

	s.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a TO-DO item at the head of the list."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Item text")),
		mcp.WithString("start_date", mcp.Description("Optional start date, YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("Optional end date, YYYY-MM-DD")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		text, _ := args["text"].(string)
		startDate, _ := args["start_date"].(string)
		endDate, _ := args["end_date"].(string)
		if err := sess.AddTodo(text, startDate, endDate); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Todos()), nil
	})

	s.AddTool(mcp.NewTool("complete_todo",
		mcp.WithDescription("Set or clear the completed flag on a TO-DO item."),
		mcp.WithString("todo_id", mcp.Required(), mcp.Description("ID of the item")),
		mcp.WithBoolean("completed", mcp.Description("New completed state, default true")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		todoID, _ := args["todo_id"].(string)
		completed := true
		if v, ok := args["completed"].(bool); ok {
			completed = v
		}
		if err := sess.ToggleTodo(todoID, completed); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Todos()), nil
	})

	s.AddTool(mcp.NewTool("reorder_todos",
		mcp.WithDescription("Replace the TO-DO order with the given id order. Items left out are removed."),
		mcp.WithString("ids", mcp.Required(), mcp.Description("Comma-separated item IDs in the new order")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)
		raw, _ := args["ids"].(string)
		if err := sess.HandleTodoReorder(splitIDs(raw)); err != nil {
			return failure(notes, err), nil
		}
		return result(notes, sess.Todos()), nil
	})
}

func parseInstant(arg any) (time.Time, error) {
	s, _ := arg.(string)
	ts, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q, want 2006-01-02T15:04", s)
	}
	return ts, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
