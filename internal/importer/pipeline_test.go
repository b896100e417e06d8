package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/models"
	"github.com/dadao-education/unicatalog/internal/providers"
	"github.com/dadao-education/unicatalog/internal/storage"
)

type testEnv struct {
	pipeline *Pipeline
	repo     *catalog.Repository
	kv       *storage.MemoryKV
	provider *fakeProvider
	sleeps   []time.Duration
}

func newTestEnv(t *testing.T, chunkSize int, respond func(int, providers.Config) (string, error)) *testEnv {
	t.Helper()
	env := &testEnv{
		kv:       storage.NewMemoryKV(),
		provider: &fakeProvider{respond: respond},
	}
	env.repo = catalog.NewRepository(env.kv, "test")
	if err := env.repo.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	env.pipeline = NewPipeline(NewNormalizer(env.provider.factory(), "test-model", 0.1), env.repo, chunkSize, 800*time.Millisecond)
	env.pipeline.sleep = func(ctx context.Context, d time.Duration) error {
		env.sleeps = append(env.sleeps, d)
		return ctx.Err()
	}
	return env
}

func records(n int) TextSource {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"text":"page %d"}`, i)
	}
	return TextSource("[" + strings.Join(parts, ",") + "]")
}

func findUniversity(universities []models.University, name string) (models.University, bool) {
	for _, u := range universities {
		if u.NameCN == name {
			return u, true
		}
	}
	return models.University{}, false
}

func TestImportSingleUniversity(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"Test U","departments":[{"name":"Eng","programs":[{"nameCN":"CS"}]}]}]`))
	before := env.repo.Len()

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if run.State() != StateAwaitingConfirmation {
		t.Fatalf("Expected awaiting_confirmation, got %s", run.State())
	}
	if run.Outcome() != OutcomeSuccess {
		t.Errorf("Expected success outcome, got %s", run.Outcome())
	}
	if env.repo.Len() != before {
		t.Fatal("Catalog changed before confirmation")
	}

	result, err := env.pipeline.Commit(context.Background(), run)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Expected 1 added, got %+v", result)
	}
	if run.State() != StateCommitted {
		t.Errorf("Expected committed, got %s", run.State())
	}

	u, ok := findUniversity(env.repo.All(), "Test U")
	if !ok {
		t.Fatal("Test U not in catalog")
	}
	if u.QSRanking != catalog.DefaultRanking || !catalog.IsCustom(u.ID) {
		t.Errorf("Defaults not applied: %+v", u)
	}
	p := u.Departments[0].Programs[0]
	if p.DegreeType != "Master" || p.ID == "" {
		t.Errorf("Program defaults not applied: %+v", p)
	}
	if _, err := env.kv.Get(context.Background(), "test"); err != nil {
		t.Errorf("Expected snapshot to be persisted: %v", err)
	}
}

func TestImportMergesAcrossChunks(t *testing.T) {
	env := newTestEnv(t, 1, respondSequence(
		`[{"nameCN":"Test U","departments":[{"name":"Eng","programs":[{"nameCN":"CS"}]}]}]`,
		`[{"nameCN":"Test U","departments":[{"name":"Eng","programs":[{"nameCN":"EE"}]}]}]`,
	))

	run, err := env.pipeline.Import(context.Background(), records(2))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	result := run.Result()
	if len(result) != 1 || len(result[0].Departments) != 1 {
		t.Fatalf("Expected one university with one department, got %+v", result)
	}
	if got := programNames(result[0].Departments[0]); strings.Join(got, ",") != "CS,EE" {
		t.Errorf("Expected CS,EE, got %v", got)
	}
	if env.provider.callCount() != 2 {
		t.Errorf("Expected 2 provider calls, got %d", env.provider.callCount())
	}
}

func TestImportPartialFailure(t *testing.T) {
	env := newTestEnv(t, 10, respondSequence(
		`[{"nameCN":"A"}]`,
		"",
		`[{"nameCN":"C"}]`,
	))

	run, err := env.pipeline.Import(context.Background(), records(25))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if run.Outcome() != OutcomePartialFailure {
		t.Errorf("Expected partial_failure, got %s", run.Outcome())
	}

	chunks := run.Chunks()
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunk results, got %d", len(chunks))
	}
	if chunks[1].Error == "" || chunks[0].Error != "" || chunks[2].Error != "" {
		t.Errorf("Expected only chunk 2 to fail: %+v", chunks)
	}
	if chunks[2].Records != 5 {
		t.Errorf("Expected last chunk of 5 records, got %d", chunks[2].Records)
	}

	var names []string
	for _, u := range run.Result() {
		names = append(names, u.NameCN)
	}
	if strings.Join(names, ",") != "A,C" {
		t.Errorf("Expected A,C, got %v", names)
	}

	found := false
	for _, line := range run.Reporter.Lines() {
		if strings.Contains(line, "Chunk 2 failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected failure of chunk 2 in log: %v", run.Reporter.Lines())
	}

	if cur, total := run.Reporter.Progress(); cur != 3 || total != 3 {
		t.Errorf("Expected progress 3/3, got %d/%d", cur, total)
	}
}

func TestImportDelaysAfterEveryCall(t *testing.T) {
	env := newTestEnv(t, 2, respondAlways(`[{"nameCN":"A"}]`))

	if _, err := env.pipeline.Import(context.Background(), records(5)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(env.sleeps) != 3 {
		t.Fatalf("Expected 3 delays, got %d", len(env.sleeps))
	}
	for _, d := range env.sleeps {
		if d != 800*time.Millisecond {
			t.Errorf("Expected 800ms delay, got %s", d)
		}
	}
}

func TestImportEmptyResult(t *testing.T) {
	env := newTestEnv(t, 10, respondSequence())
	before := env.repo.All()

	run, err := env.pipeline.Import(context.Background(), records(3))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("Expected ErrEmptyResult, got %v", err)
	}
	if run.State() != StateFailed {
		t.Errorf("Expected failed, got %s", run.State())
	}
	if _, err := env.pipeline.Commit(context.Background(), run); !errors.Is(err, ErrRunNotAwaiting) {
		t.Errorf("Expected ErrRunNotAwaiting, got %v", err)
	}
	if len(env.repo.All()) != len(before) {
		t.Error("Catalog changed after empty result")
	}
	if _, ok := env.pipeline.Active(); ok {
		t.Error("Failed run still holds the pipeline")
	}
}

func TestImportInvalidInputCallsNothing(t *testing.T) {
	tests := []struct {
		name   string
		source Source
	}{
		{name: "malformed json", source: TextSource("{not json")},
		{name: "blank", source: TextSource("  ")},
		{name: "empty array", source: TextSource("[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"A"}]`))
			run, err := env.pipeline.Import(context.Background(), tt.source)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if run.State() != StateFailed {
				t.Errorf("Expected failed, got %s", run.State())
			}
			if env.provider.callCount() != 0 {
				t.Errorf("Expected no provider calls, got %d", env.provider.callCount())
			}
		})
	}
}

func TestDiscardLeavesCatalog(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"Test U"}]`))
	before := env.repo.All()

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if err := env.pipeline.Discard(run); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if run.State() != StateDiscarded {
		t.Errorf("Expected discarded, got %s", run.State())
	}
	if _, ok := findUniversity(env.repo.All(), "Test U"); ok || len(env.repo.All()) != len(before) {
		t.Error("Discard changed the catalog")
	}

	if err := env.pipeline.Discard(run); !errors.Is(err, ErrRunNotAwaiting) {
		t.Errorf("Expected ErrRunNotAwaiting on second discard, got %v", err)
	}
	if _, err := env.pipeline.Commit(context.Background(), run); !errors.Is(err, ErrRunNotAwaiting) {
		t.Errorf("Expected ErrRunNotAwaiting on commit after discard, got %v", err)
	}
}

func TestSingleActiveRun(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"Test U"}]`))

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if _, err := env.pipeline.Start(records(1)); !errors.Is(err, ErrRunActive) {
		t.Fatalf("Expected ErrRunActive while awaiting confirmation, got %v", err)
	}

	if _, err := env.pipeline.Commit(context.Background(), run); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if _, err := env.pipeline.Start(records(1)); err != nil {
		t.Errorf("Expected a new run after commit, got %v", err)
	}

	if got, ok := env.pipeline.Run(run.ID); !ok || got != run {
		t.Error("Committed run not retrievable by id")
	}
	if len(env.pipeline.Runs()) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(env.pipeline.Runs()))
	}
}

func TestCommitPersistFailure(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"Test U"}]`))

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	env.kv.MaxValueSize = 10
	_, err = env.pipeline.Commit(context.Background(), run)
	if !errors.Is(err, catalog.ErrPersist) {
		t.Fatalf("Expected ErrPersist, got %v", err)
	}

	snap := run.Snapshot()
	if snap.State != StateCommitted || snap.Persisted {
		t.Errorf("Expected committed but not persisted, got %s persisted=%v", snap.State, snap.Persisted)
	}
	if _, ok := findUniversity(env.repo.All(), "Test U"); !ok {
		t.Error("In-memory catalog should hold the committed entry")
	}
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	env := newTestEnv(t, 1, func(call int, _ providers.Config) (string, error) {
		if call == 0 {
			cancel()
		}
		return `[{"nameCN":"A"}]`, nil
	})

	run, err := env.pipeline.Import(ctx, records(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if run.State() != StateFailed {
		t.Errorf("Expected failed, got %s", run.State())
	}
	if env.provider.callCount() != 1 {
		t.Errorf("Expected dispatch to stop after 1 call, got %d", env.provider.callCount())
	}
}

func TestImportWarnsOnSimilarName(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"牛津大學"}]`))

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	warned := false
	for _, e := range run.Reporter.Entries() {
		if e.Level == LevelWarn && strings.Contains(e.Message, "牛津大学") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Expected a near-duplicate warning, got %v", run.Reporter.Lines())
	}

	result, err := env.pipeline.Commit(context.Background(), run)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Similar name must be added as a new entry, got %+v", result)
	}
}

func TestImportLenientRankingFallsBackToDefault(t *testing.T) {
	env := newTestEnv(t, 10, respondAlways(`[{"nameCN":"Test U","qsRanking":"unranked","departments":[{"name":"Eng","programs":[{"nameCN":"CS","tuition":42000}]}]}]`))

	run, err := env.pipeline.Import(context.Background(), records(1))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if _, err := env.pipeline.Commit(context.Background(), run); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	u, ok := findUniversity(env.repo.All(), "Test U")
	if !ok {
		t.Fatal("Test U not in catalog")
	}
	if u.QSRanking != catalog.DefaultRanking {
		t.Errorf("Expected default ranking, got %d", u.QSRanking)
	}
	if got := u.Departments[0].Programs[0].Tuition; got != "42000" {
		t.Errorf("Expected tuition 42000, got %q", got)
	}
}
