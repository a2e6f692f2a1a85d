// Package notify is the notification collaborator: fire-and-forget,
// user-facing messages with a severity and a display duration.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Severity indicates how a notification is rendered.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// DefaultDuration is how long transient notifications stay visible.
const DefaultDuration = 2000 * time.Millisecond

// Notifier shows a message to the user. Implementations must not block.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// Func adapts a function to Notifier.
type Func func(message string, severity Severity, duration time.Duration)

// Notify calls f.
func (f Func) Notify(message string, severity Severity, duration time.Duration) {
	f(message, severity, duration)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, Severity, time.Duration) {})

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Console renders notifications as styled lines on a terminal. The duration
// is ignored; a terminal line does not expire.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes a single styled line.
func (c *Console) Notify(message string, severity Severity, _ time.Duration) {
	style := infoStyle
	prefix := "info"
	if severity == SeverityError {
		style = errorStyle
		prefix = "error"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, style.Render(prefix+": "+message))
}

// Log forwards notifications to a slog.Logger.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs the message at a level matching its severity.
func (l *Log) Notify(message string, severity Severity, duration time.Duration) {
	level := slog.LevelInfo
	if severity == SeverityError {
		level = slog.LevelError
	}
	l.logger.Log(context.Background(), level, "notification", "message", message, "severity", string(severity), "duration", duration)
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

// Notify calls every notifier.
func (m Multi) Notify(message string, severity Severity, duration time.Duration) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity, duration)
		}
	}
}
