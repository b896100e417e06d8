package importer

import (
	"sync"
	"time"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/models"
	"github.com/google/uuid"
)

// State is the stage an import run has reached
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateDispatching          State = "dispatching"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateCommitted            State = "committed"
	StateDiscarded            State = "discarded"
	StateFailed               State = "failed"
)

// Outcome summarizes the dispatch phase of a run
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
)

// ChunkResult records what happened to one chunk
type ChunkResult struct {
	Index        int      `json:"index" yaml:"index"`
	Records      int      `json:"records" yaml:"records"`
	Universities int      `json:"universities" yaml:"universities"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run is one import from raw input to commit or discard
type Run struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Reporter  *Reporter

	source Source

	mu        sync.RWMutex
	state     State
	outcome   Outcome
	chunks    []ChunkResult
	result    []models.University
	commit    *catalog.UpsertResult
	persisted bool
	err       string
}

// Snapshot is a consistent copy of a run for display
type Snapshot struct {
	ID           string                `json:"id"`
	CreatedAt    time.Time             `json:"createdAt"`
	Source       string                `json:"source"`
	State        State                 `json:"state"`
	Outcome      Outcome               `json:"outcome,omitempty"`
	Current      int                   `json:"current"`
	Total        int                   `json:"total"`
	Chunks       []ChunkResult         `json:"chunks"`
	Universities int                   `json:"universities"`
	Commit       *catalog.UpsertResult `json:"commit,omitempty"`
	Persisted    bool                  `json:"persisted"`
	Error        string                `json:"error,omitempty"`
	Log          []string              `json:"log"`
}

func newRun(source Source) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Source:    source.Describe(),
		Reporter:  NewReporter(),
		source:    source,
		state:     StateIdle,
	}
}

func (r *Run) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Result returns the merged universities awaiting confirmation
func (r *Run) Result() []models.University {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.University, len(r.result))
	copy(out, r.result)
	return out
}

func (r *Run) Chunks() []ChunkResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChunkResult, len(r.chunks))
	copy(out, r.chunks)
	return out
}

func (r *Run) Outcome() Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outcome
}

func (r *Run) Snapshot() Snapshot {
	current, total := r.Reporter.Progress()
	r.mu.RLock()
	defer r.mu.RUnlock()

	chunks := make([]ChunkResult, len(r.chunks))
	copy(chunks, r.chunks)

	return Snapshot{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Source:       r.Source,
		State:        r.state,
		Outcome:      r.outcome,
		Current:      current,
		Total:        total,
		Chunks:       chunks,
		Universities: len(r.result),
		Commit:       r.commit,
		Persisted:    r.persisted,
		Error:        r.err,
		Log:          r.Reporter.Lines(),
	}
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateFailed
	r.err = err.Error()
}

func (r *Run) addChunk(c ChunkResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, c)
}

func (r *Run) await(result []models.University) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = result
	r.outcome = OutcomeSuccess
	for _, c := range r.chunks {
		if c.Error != "" {
			r.outcome = OutcomePartialFailure
			break
		}
	}
	r.state = StateAwaitingConfirmation
}
