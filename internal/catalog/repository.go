package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dadao-education/unicatalog/internal/models"
	"github.com/dadao-education/unicatalog/internal/storage"
)

// ErrPersist marks a durable save failure. The in-memory catalog has already
// been updated when it is returned.
var ErrPersist = errors.New("catalog snapshot could not be saved")

// Repository owns the catalog and its persisted snapshot
type Repository struct {
	kv           storage.KV
	key          string
	mu           sync.RWMutex
	universities []models.University
}

// UpsertResult counts what an Upsert did
type UpsertResult struct {
	Added   int `json:"added" yaml:"added"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// NewRepository returns a repository holding the bundled default catalog.
// Call Load to read the persisted snapshot.
func NewRepository(kv storage.KV, key string) *Repository {
	return &Repository{
		kv:           kv,
		key:          key,
		universities: Bundled(),
	}
}

// Load reads the persisted snapshot, falling back to the bundled default when
// no snapshot exists or it cannot be parsed.
func (r *Repository) Load(ctx context.Context) error {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("No catalog snapshot, using bundled default", "key", r.key)
		r.replace(Bundled())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	var universities []models.University
	if err := json.Unmarshal(data, &universities); err != nil {
		slog.Warn("Catalog snapshot is unreadable, using bundled default", "key", r.key, "err", err)
		r.replace(Bundled())
		return nil
	}

	slog.Debug("Loaded catalog snapshot", "key", r.key, "universities", len(universities))
	r.replace(universities)
	return nil
}

// Save serializes the whole catalog and replaces the persisted snapshot
func (r *Repository) Save(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saveLocked(ctx)
}

func (r *Repository) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(r.universities)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal catalog: %v", ErrPersist, err)
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Reset removes the persisted snapshot and restores the bundled default.
// The in-memory catalog is reset even if the delete fails.
func (r *Repository) Reset(ctx context.Context) error {
	r.replace(Bundled())
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear catalog snapshot: %w", err)
	}
	slog.Info("Catalog reset to bundled default", "key", r.key)
	return nil
}

// Upsert integrates incoming universities by exact nameCN match. A matched entry
// has its content replaced and keeps its id; an unmatched entry is appended with
// a new id. The catalog is then sorted by ranking and persisted. On a persistence
// failure the returned error wraps ErrPersist and the in-memory update stands.
func (r *Repository) Upsert(ctx context.Context, incoming []models.University) (UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result UpsertResult
	next := make([]models.University, len(r.universities), len(r.universities)+len(incoming))
	copy(next, r.universities)

	used := make(map[string]bool, len(next))
	for _, u := range next {
		used[u.ID] = true
	}

	for _, item := range incoming {
		if item.NameCN == "" {
			result.Skipped++
			continue
		}

		full := WithDefaults(item)
		idx := indexByName(next, full.NameCN)
		if idx == -1 {
			if full.ID == "" || used[full.ID] {
				full.ID = newUniversityID()
			}
			used[full.ID] = true
			next = append(next, full)
			result.Added++
			continue
		}

		full.ID = next[idx].ID
		next[idx] = full
		result.Updated++
	}

	sortByRanking(next)
	r.universities = next

	if err := r.saveLocked(ctx); err != nil {
		slog.Error("Catalog updated in session but not saved", "err", err)
		return result, err
	}

	slog.Info("Catalog committed", "added", result.Added, "updated", result.Updated, "total", len(next))
	return result, nil
}

// All returns the catalog sorted by ranking
func (r *Repository) All() []models.University {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.University, len(r.universities))
	copy(out, r.universities)
	return out
}

// Len returns the number of universities
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.universities)
}

// Get returns the university with id
func (r *Repository) Get(id string) (models.University, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.universities {
		if u.ID == id {
			return u, true
		}
	}
	return models.University{}, false
}

// Program finds a program by id within a university
func (r *Repository) Program(universityID, programID string) (models.University, models.Program, bool) {
	u, ok := r.Get(universityID)
	if !ok {
		return models.University{}, models.Program{}, false
	}
	for _, d := range u.Departments {
		for _, p := range d.Programs {
			if p.ID == programID {
				return u, p, true
			}
		}
	}
	return models.University{}, models.Program{}, false
}

// Department finds a department by id within a university
func (r *Repository) Department(universityID, departmentID string) (models.Department, bool) {
	u, ok := r.Get(universityID)
	if !ok {
		return models.Department{}, false
	}
	for _, d := range u.Departments {
		if d.ID == departmentID {
			return d, true
		}
	}
	return models.Department{}, false
}

func (r *Repository) replace(universities []models.University) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.universities = universities
}

func indexByName(universities []models.University, nameCN string) int {
	for i, u := range universities {
		if u.NameCN == nameCN {
			return i
		}
	}
	return -1
}

func sortByRanking(universities []models.University) {
	sort.SliceStable(universities, func(i, j int) bool {
		return universities[i].QSRanking < universities[j].QSRanking
	})
}
