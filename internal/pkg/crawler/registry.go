package crawler

import (
	"slices"
	"sync"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
)

// Registry maps airline keys to their adapters. It is filled at startup and
// read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	adapters map[award.Airline]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{
		adapters: make(map[award.Airline]Adapter),
	}

	for _, a := range adapters {
		r.Register(a)
	}

	return r
}

// Register adds or replaces the adapter for a.Airline().
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[a.Airline()] = a
}

func (r *Registry) Get(airline award.Airline) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[airline]
	return a, ok
}

// Airlines lists the registered airline keys in sorted order.
func (r *Registry) Airlines() []award.Airline {
	r.mu.RLock()
	defer r.mu.RUnlock()

	airlines := make([]award.Airline, 0, len(r.adapters))
	for a := range r.adapters {
		airlines = append(airlines, a)
	}
	slices.Sort(airlines)

	return airlines
}
