package importer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Entry is one line of a run's log
type Entry struct {
	Time    time.Time `json:"time" yaml:"time"`
	Level   Level     `json:"level" yaml:"level"`
	Message string    `json:"message" yaml:"message"`
}

// String renders the entry as "[15:04:05] message"
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// Reporter is an append-only audit log with a (current, total) progress pair.
// It is safe for concurrent readers while the run writes.
type Reporter struct {
	mu      sync.RWMutex
	entries []Entry
	current int
	total   int
	now     func() time.Time
	sink    func(Entry)
}

func NewReporter() *Reporter {
	return &Reporter{now: time.Now}
}

// OnEntry registers a callback invoked synchronously for each new entry
func (r *Reporter) OnEntry(fn func(Entry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = fn
}

func (r *Reporter) Info(format string, args ...any)    { r.add(LevelInfo, format, args...) }
func (r *Reporter) Success(format string, args ...any) { r.add(LevelSuccess, format, args...) }
func (r *Reporter) Warn(format string, args ...any)    { r.add(LevelWarn, format, args...) }
func (r *Reporter) Error(format string, args ...any)   { r.add(LevelError, format, args...) }

func (r *Reporter) add(level Level, format string, args ...any) {
	r.mu.Lock()
	e := Entry{Time: r.now(), Level: level, Message: fmt.Sprintf(format, args...)}
	r.entries = append(r.entries, e)
	sink := r.sink
	r.mu.Unlock()

	slog.Debug("import log", "level", string(level), "msg", e.Message)
	if sink != nil {
		sink(e)
	}
}

func (r *Reporter) SetProgress(current, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current, r.total = current, total
}

func (r *Reporter) Progress() (current, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.total
}

// Entries returns a copy of the log
func (r *Reporter) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lines returns the log rendered as strings
func (r *Reporter) Lines() []string {
	entries := r.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}
