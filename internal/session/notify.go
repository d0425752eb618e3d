package session

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives fire-and-forget user notifications. Implementations
// must not block; notifications are advisory and never gate an operation.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}

// ConfirmFunc gates destructive operations. Returning false aborts the
// operation before any request is issued.
type ConfirmFunc func(prompt string) bool
