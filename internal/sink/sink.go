// Package sink implements the append-only, concurrency-safe result
// collection shared across every scheduler worker. Results are only read
// back via Snapshot once every worker has been joined.
package sink

import (
	"sync"

	"github.com/kadekeh/volley/internal/model"
)

// Sink is a mutex-guarded, append-only slice of results.
type Sink struct {
	mu      sync.Mutex
	results []model.HttpResult
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// Append adds one result. Safe for concurrent use.
func (s *Sink) Append(result model.HttpResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// Snapshot returns every appended result. Callers must only call this
// after every writer has stopped appending (e.g. once all workers have
// been joined) — it takes no further synchronization on the returned
// slice's contents.
func (s *Sink) Snapshot() []model.HttpResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.HttpResult, len(s.results))
	copy(out, s.results)
	return out
}
