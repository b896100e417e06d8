package plan

import (
	"sync"

	"github.com/dadao-education/unicatalog/internal/models"
)

// Plan is the user's application plan. A program id appears at most once.
type Plan struct {
	mu    sync.RWMutex
	items []models.PlanItem
}

func New() *Plan {
	return &Plan{}
}

// Add appends the pair unless the program is already planned. It reports
// whether the item was added.
func (p *Plan) Add(uni models.University, prog models.Program) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if item.Program.ID == prog.ID {
			return false
		}
	}
	p.items = append(p.items, models.PlanItem{University: uni, Program: prog})
	return true
}

// Remove drops the item for programID; an absent id is a no-op
func (p *Plan) Remove(programID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, item := range p.items {
		if item.Program.ID == programID {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether programID is already planned
func (p *Plan) Contains(programID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, item := range p.items {
		if item.Program.ID == programID {
			return true
		}
	}
	return false
}

// Items returns the planned items in insertion order
func (p *Plan) Items() []models.PlanItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.PlanItem, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Plan) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}
