package variables

import (
	"fmt"
	"sort"
	"sync"
)

// Set is the resolved value set: the live mapping from variable name to
// scalar value for one generation run. It grows monotonically; a key is
// never removed once added, though hooks may overwrite entries between
// pipeline stages. The mutex guards the handoff between the pipeline
// and the hook runner.
type Set struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewSet returns an empty value set.
func NewSet() *Set {
	return &Set{values: make(map[string]any)}
}

// Has reports whether a value has been resolved for name.
func (s *Set) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[name]
	return ok
}

// Get returns the resolved value for name.
func (s *Set) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// PutString inserts or overwrites a string value.
func (s *Set) PutString(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// PutBool inserts or overwrites a boolean value.
func (s *Set) PutBool(name string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// Put inserts or overwrites a scalar value. Anything other than a
// string or a boolean is rejected.
func (s *Set) Put(name string, value any) error {
	switch value.(type) {
	case string, bool:
	default:
		return fmt.Errorf("value for %q must be a string or a boolean, got %T", name, value)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	return nil
}

// Bindings returns a snapshot copy of the set for template rendering
// and expression evaluation. Mutating the snapshot does not affect the
// set.
func (s *Set) Bindings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]any, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}

// Names returns the resolved variable names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of resolved values.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
