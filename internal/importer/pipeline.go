package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/models"
	"github.com/dadao-education/unicatalog/internal/storage"
)

var (
	// ErrEmptyResult means every chunk failed or yielded nothing usable
	ErrEmptyResult    = errors.New("no universities recognized")
	ErrRunNotAwaiting = errors.New("run is not awaiting confirmation")
	ErrRunActive      = errors.New("another import run is in progress")
)

// Pipeline drives import runs: chunk, normalize sequentially, merge, then wait
// for an explicit commit or discard.
type Pipeline struct {
	normalizer *Normalizer
	catalog    *catalog.Repository
	runs       *storage.Store[*Run]
	chunkSize  int
	delay      time.Duration

	// sleep waits between provider calls; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	active *Run

	// serializes commit and discard
	decideMu sync.Mutex
}

func NewPipeline(normalizer *Normalizer, repo *catalog.Repository, chunkSize int, delay time.Duration) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline{
		normalizer: normalizer,
		catalog:    repo,
		runs:       storage.New[*Run](),
		chunkSize:  chunkSize,
		delay:      delay,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run looks up a run by id
func (p *Pipeline) Run(id string) (*Run, bool) {
	return p.runs.Get(id)
}

// Runs returns all runs in creation order
func (p *Pipeline) Runs() []*Run {
	return p.runs.GetAll()
}

// Active returns the run that holds the pipeline, if any
func (p *Pipeline) Active() (*Run, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active, p.active != nil
}

// Start registers a new idle run. Only one run may be open at a time; a run
// stays open until it is committed, discarded or fails.
func (p *Pipeline) Start(source Source) (*Run, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunActive, p.active.ID)
	}

	run := newRun(source)
	p.runs.Set(run.ID, run)
	p.active = run
	slog.Info("Import run created", "run", run.ID, "source", run.Source)
	return run, nil
}

func (p *Pipeline) release(run *Run) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == run {
		p.active = nil
	}
}

// Import starts a run for source and executes it
func (p *Pipeline) Import(ctx context.Context, source Source) (*Run, error) {
	run, err := p.Start(source)
	if err != nil {
		return nil, err
	}
	return run, p.Execute(ctx, run)
}

// Execute validates the run's input and dispatches its chunks one at a time.
// A failed chunk is logged and skipped. On success the run waits for
// confirmation with the merged result; the catalog is not touched.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	if run.State() != StateIdle {
		return fmt.Errorf("run %s already started", run.ID)
	}

	run.setState(StateValidating)
	records, err := run.source.Records()
	if err == nil && len(records) == 0 {
		err = fmt.Errorf("%w: no records", ErrInvalidInput)
	}
	if err != nil {
		run.Reporter.Error("Failed to read input: %v", err)
		return p.failRun(run, err)
	}

	chunks := Chunk(records, p.chunkSize)
	run.Reporter.Info("Read %d records, split into %d chunks", len(records), len(chunks))
	run.Reporter.SetProgress(0, len(chunks))
	run.setState(StateDispatching)

	var merged []models.University
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			run.Reporter.Error("Import cancelled before chunk %d", i+1)
			return p.failRun(run, err)
		}

		run.Reporter.Info("Processing chunk %d/%d", i+1, len(chunks))
		cr := ChunkResult{Index: i + 1, Records: len(chunk)}

		res, err := p.normalizer.Normalize(ctx, chunk)
		if err != nil {
			cr.Error = err.Error()
			run.Reporter.Error("Chunk %d failed: %v", i+1, err)
			slog.Warn("Chunk failed", "run", run.ID, "chunk", i+1, "err", err)
		} else {
			cr.Universities = len(res.Universities)
			cr.Warnings = res.Warnings
			for _, w := range res.Warnings {
				run.Reporter.Warn("Chunk %d: %s", i+1, w)
			}
			merged = Merge(merged, res.Universities)
			run.Reporter.Success("Chunk %d done, %d universities", i+1, len(res.Universities))
		}
		run.addChunk(cr)
		run.Reporter.SetProgress(i+1, len(chunks))

		if err := p.sleep(ctx, p.delay); err != nil {
			run.Reporter.Error("Import cancelled after chunk %d", i+1)
			return p.failRun(run, err)
		}
	}

	if len(merged) == 0 {
		run.Reporter.Error("No universities were recognized")
		return p.failRun(run, ErrEmptyResult)
	}

	for _, u := range merged {
		for _, m := range p.catalog.Similar(u) {
			run.Reporter.Warn("%s resembles existing %s (%s, %.2f) and will not be merged with it", u.NameCN, m.University.NameCN, m.University.ID, m.Score)
		}
	}

	run.await(merged)
	run.Reporter.Success("Recognized %d universities, awaiting confirmation", len(merged))
	slog.Info("Import run awaiting confirmation", "run", run.ID, "universities", len(merged), "outcome", run.Outcome())
	return nil
}

func (p *Pipeline) failRun(run *Run, err error) error {
	run.fail(err)
	p.release(run)
	slog.Error("Import run failed", "run", run.ID, "err", err)
	return err
}

// Commit upserts the run's result into the catalog. A persistence failure
// still commits the run in memory; the returned error wraps catalog.ErrPersist.
func (p *Pipeline) Commit(ctx context.Context, run *Run) (catalog.UpsertResult, error) {
	p.decideMu.Lock()
	defer p.decideMu.Unlock()

	if run.State() != StateAwaitingConfirmation {
		return catalog.UpsertResult{}, ErrRunNotAwaiting
	}

	result, err := p.catalog.Upsert(ctx, run.Result())

	run.mu.Lock()
	run.commit = &result
	run.persisted = err == nil
	run.state = StateCommitted
	if err != nil {
		run.err = err.Error()
	}
	run.mu.Unlock()
	p.release(run)

	if err != nil {
		run.Reporter.Error("Catalog updated but not saved: %v", err)
		return result, err
	}
	run.Reporter.Success("Committed: %d added, %d updated", result.Added, result.Updated)
	return result, nil
}

// Discard drops the run's result without touching the catalog
func (p *Pipeline) Discard(run *Run) error {
	p.decideMu.Lock()
	defer p.decideMu.Unlock()

	if run.State() != StateAwaitingConfirmation {
		return ErrRunNotAwaiting
	}
	run.setState(StateDiscarded)
	p.release(run)
	run.Reporter.Info("Import discarded")
	slog.Info("Import run discarded", "run", run.ID)
	return nil
}
