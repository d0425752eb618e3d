// Package session implements the editor session: the in-memory state that
// keeps the task list, the calendar projection, the stopwatch, the
// time-log list, and the TO-DO list consistent while persisting every
// change through a Backend.
//
// A Session is an explicit object owned by the UI layer; there is no
// ambient global state. Exactly one task draft is open at any time, the
// timer is bound to that draft, and the time-log list always corresponds
// to the open task.
package session

import (
	"sync"
	"time"

	"github.com/timeblock/timeblock/internal/model"
)

// Default draft times for a fresh, unselected draft.
const (
	defaultStartClock = "10:00"
	defaultEndClock   = "11:00"
)

// Options configures a Session. Backend is required; everything else is
// optional.
type Options struct {
	Backend  Backend
	Notifier Notifier
	Calendar Calendar
	// Confirm gates destructive operations. Nil means "always confirmed",
	// for headless embedders.
	Confirm ConfirmFunc
	// Now overrides the clock, for tests.
	Now func() time.Time
	// TickInterval is the display-refresh period while the timer runs.
	// Zero disables the ticker; elapsed time is still computed on demand.
	TickInterval time.Duration
	// OnTick receives the current elapsed seconds on every tick. Display
	// only; no I/O happens on the tick path.
	OnTick func(seconds int)
}

// Session owns the editor state. Methods are safe for concurrent use, but
// the intended model is one round trip per user action applied to the
// then-current state.
type Session struct {
	backend  Backend
	notify   Notifier
	calendar Calendar
	confirm  ConfirmFunc
	now      func() time.Time

	tickInterval time.Duration
	onTick       func(int)

	mu         sync.Mutex
	tasks      []model.Task
	categories []model.Category
	draft      model.Task
	logs       []model.TimeLog
	todos      []model.TodoItem

	timerRunning bool
	timerSeconds int       // accumulated seconds while stopped
	timerStart   time.Time // start instant while running
	tickStop     chan struct{}
}

// New creates a session. It performs no I/O; call Init to load data.
func New(opts Options) *Session {
	s := &Session{
		backend:      opts.Backend,
		notify:       opts.Notifier,
		calendar:     opts.Calendar,
		confirm:      opts.Confirm,
		now:          opts.Now,
		tickInterval: opts.TickInterval,
		onTick:       opts.OnTick,
	}
	if s.notify == nil {
		s.notify = nopNotifier{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.draft = emptyDraft()
	return s
}

// Init loads categories, tasks, and todos, then renders the calendar.
func (s *Session) Init() error {
	if err := s.LoadCategories(); err != nil {
		return err
	}
	if err := s.Refresh(); err != nil {
		return err
	}
	if err := s.LoadTodos(); err != nil {
		return err
	}
	s.notify.Notify(LevelSuccess, "Calendar loaded")
	return nil
}

func emptyDraft() model.Task {
	return model.Task{
		StartTime:           defaultStartClock,
		EndTime:             defaultEndClock,
		SecondaryCategories: []string{},
	}
}

// Draft returns a copy of the currently open task draft.
func (s *Session) Draft() model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// EditDraft applies a form edit to the open draft. The draft's identity
// cannot be changed this way.
func (s *Session) EditDraft(edit func(*model.Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.draft.ID
	edit(&s.draft)
	s.draft.ID = id
}

// Tasks returns a copy of the in-memory task list.
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Categories returns a copy of the in-memory category list.
func (s *Session) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// TimeLogs returns the time-log list for the open task, newest first.
func (s *Session) TimeLogs() []model.TimeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TimeLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// Todos returns a copy of the TO-DO list in stored order.
func (s *Session) Todos() []model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TodoItem, len(s.todos))
	copy(out, s.todos)
	return out
}

// HandleSelect is the calendar's drag-select callback: it opens a fresh
// draft for the selected range.
func (s *Session) HandleSelect(start, end time.Time) {
	s.OpenForCreate(start, end)
}

// HandleEventClick is the calendar's event-click callback: it opens the
// clicked task for editing. Unknown ids are ignored.
func (s *Session) HandleEventClick(taskID string) {
	s.mu.Lock()
	var found *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			t := s.tasks[i].Clone()
			found = &t
			break
		}
	}
	s.mu.Unlock()
	if found != nil {
		s.OpenForEdit(*found)
	}
}

// HandleEventMove is the calendar's drag/resize callback.
func (s *Session) HandleEventMove(taskID string, newStart, newEnd time.Time) error {
	return s.ApplyExternalMove(taskID, newStart, newEnd)
}

// HandleTodoReorder is the drag list's drop callback.
func (s *Session) HandleTodoReorder(orderedIDs []string) error {
	return s.ReorderTodos(orderedIDs)
}

// render projects the current task list onto the calendar. The widget
// call happens outside the lock; the lock is never held across backend or
// widget calls anywhere in this package.
func (s *Session) render() {
	if s.calendar == nil {
		return
	}
	s.mu.Lock()
	events := BuildEvents(s.tasks, s.categories)
	s.mu.Unlock()
	s.calendar.ReplaceEvents(events)
}

func (s *Session) confirmed(prompt string) bool {
	if s.confirm == nil {
		return true
	}
	return s.confirm(prompt)
}
