// Package seed supplies observed sample values to the functional payload
// synthesizer, from a user-provided file and/or a live database. Strictly
// best-effort realism: any failure here leaves generation fully
// deterministic.
package seed

import (
	"strings"
	"sync"
)

// Source holds sampled values keyed by lower-cased field name. Immutable
// after construction aside from Merge, which is synchronized.
type Source struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewSource creates an empty source.
func NewSource() *Source {
	return &Source{values: make(map[string]interface{})}
}

// Lookup implements generator.ValueSource.
func (s *Source) Lookup(field string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[strings.ToLower(field)]
	return v, ok
}

// Merge adds values, keeping existing entries on conflict so file-provided
// values win over sampled ones when loaded first.
func (s *Source) Merge(values map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		key := strings.ToLower(k)
		if _, exists := s.values[key]; !exists && v != nil {
			s.values[key] = v
		}
	}
}

// Len returns the number of known fields.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
