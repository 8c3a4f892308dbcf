package stats

import (
	"sort"
	"sync"
	"time"
)

// Operation names recorded by the converters.
const (
	OpLinearize = "linearize"
	OpBuild     = "build"
)

// Set groups windows by operation name.
type Set struct {
	mu     sync.Mutex
	maxAge time.Duration
	ops    map[string]*Window
}

func NewSet(maxAge time.Duration) *Set {
	return &Set{maxAge: maxAge, ops: make(map[string]*Window)}
}

// Observe records one conversion under op. A nil Set ignores observations.
func (s *Set) Observe(op string, c Conversion) {
	if s == nil {
		return
	}
	s.window(op).Add(c)
}

// Snapshot returns a snapshot per operation seen so far.
func (s *Set) Snapshot() map[string]Snapshot {
	if s == nil {
		return map[string]Snapshot{}
	}
	s.mu.Lock()
	names := make([]string, 0, len(s.ops))
	for name := range s.ops {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	out := make(map[string]Snapshot, len(names))
	for _, name := range names {
		out[name] = s.window(name).Snapshot()
	}
	return out
}

func (s *Set) window(op string) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.ops[op]
	if !ok {
		w = NewWindow(s.maxAge)
		s.ops[op] = w
	}
	return w
}
