package agents

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one session log line, shown in the UI log tab.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
}

// SessionLog is the append-only log for one orchestrated run. It is safe for
// the sequential agents of a run; a mutex guards against callers reading
// concurrently with a running agent.
type SessionLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Append adds one entry and mirrors it to the structured log.
func (l *SessionLog) Append(agent, message string) {
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{
		Timestamp: time.Now(),
		Agent:     agent,
		Message:   message,
	})
	l.mu.Unlock()
	slog.Info("session: "+message, "agent", agent)
}

// Appendf formats and appends one entry.
func (l *SessionLog) Appendf(agent, format string, args ...any) {
	l.Append(agent, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the entries in arrival order.
func (l *SessionLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Restore replaces the entries, used when resuming a persisted run.
func (l *SessionLog) Restore(entries []LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]LogEntry(nil), entries...)
}
