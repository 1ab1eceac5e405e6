package joinmark

import (
	"github.com/leapstack-labs/ansijoin/pkg/core"
)

// Registry is an insertion-ordered map from table identity to join.
type Registry struct {
	keys  []string
	joins map[string]*core.Join
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{joins: make(map[string]*core.Join)}
}

// Register adds j under key. When key is already registered, j's condition
// is AND-ed onto the existing join's condition and j's kind is discarded;
// conflict reports whether the two kinds differed.
func (r *Registry) Register(key string, j *core.Join) (conflict bool) {
	if existing, ok := r.joins[key]; ok {
		existing.Condition = core.And(existing.Condition, j.Condition)
		return existing.Type != j.Type
	}
	r.keys = append(r.keys, key)
	r.joins[key] = j
	return false
}

// Get returns the join registered under key, or nil.
func (r *Registry) Get(key string) *core.Join {
	return r.joins[key]
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.joins[key]
	return ok
}

// Delete removes key, keeping the order of the remaining entries.
func (r *Registry) Delete(key string) {
	if _, ok := r.joins[key]; !ok {
		return
	}
	delete(r.joins, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the registered identities in insertion order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.keys)
}
