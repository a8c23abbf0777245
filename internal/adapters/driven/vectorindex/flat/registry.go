package flat

import (
	"sort"
	"sync"

	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.IndexRegistry = (*Registry)(nil)

// Registry maps contract IDs to their published indices.
//
// It is an explicit injected object rather than package state, so every
// test constructs its own. One coarse lock guards the map; indices
// themselves are immutable after construction, so Put is a copy-then-swap
// publication and readers never observe a half-built index.
type Registry struct {
	mu      sync.RWMutex
	indices map[string]driven.ContractIndex
}

// NewRegistry creates an empty index registry.
func NewRegistry() *Registry {
	return &Registry{
		indices: make(map[string]driven.ContractIndex),
	}
}

// Put publishes an index for the contract, replacing any previous one.
func (r *Registry) Put(contractID string, index driven.ContractIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indices[contractID] = index
}

// Get returns the index for the contract, or false when none is built.
func (r *Registry) Get(contractID string) (driven.ContractIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index, ok := r.indices[contractID]
	return index, ok
}

// Remove deletes the contract's index. Reports whether an index existed.
func (r *Registry) Remove(contractID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.indices[contractID]
	delete(r.indices, contractID)
	return ok
}

// IDs returns the contract IDs with a published index, sorted for
// deterministic iteration.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.indices))
	for id := range r.indices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of published indices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.indices)
}
