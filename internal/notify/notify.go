package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Level classifies a notification the way a toast would be styled.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one user-facing message.
type Notification struct {
	ID       string    `json:"id"`
	Level    Level     `json:"level"`
	Message  string    `json:"message"`
	Source   string    `json:"source,omitempty"`
	CourseID string    `json:"course_id,omitempty"`
	Time     time.Time `json:"time"`
}

// Notifier delivers notifications to whatever surface the user is looking at.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// New builds a notification stamped with an ID and the current time.
func New(level Level, source, courseID, message string) Notification {
	return Notification{
		ID:       uuid.New().String(),
		Level:    level,
		Message:  message,
		Source:   source,
		CourseID: courseID,
		Time:     time.Now().UTC(),
	}
}

// ─── Log ────────────────────────────────────────────────────────────

// LogNotifier renders notifications as log lines on the terminal.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

// Notify writes n at a level matching its severity.
func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	ev := l.log.Info()
	if n.Level == LevelError {
		ev = l.log.Error()
	}
	ev.Str("level_hint", string(n.Level)).
		Str("source", n.Source).
		Str("course_id", n.CourseID).
		Msg(n.Message)
}

// ─── Fan-out ────────────────────────────────────────────────────────

// Multi delivers each notification to every wrapped notifier in order.
type Multi []Notifier

// Notify forwards n to each notifier.
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}

// ─── Recorder ───────────────────────────────────────────────────────

// Recorder keeps every notification in memory. Useful in tests and for
// rendering a notification history.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify stores n.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	for i, n := range r.items {
		out[i] = n.Message
	}
	return out
}

// Last returns the most recent notification and whether one exists.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
