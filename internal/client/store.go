package client

import "sync"

// Store is a single source-of-truth cache for one record type. Derived views
// are registered as named predicates and computed on read, so every view
// always reflects the current cache contents. A per-record gate serializes
// mutations on the same record; a second mutation waits for the first to
// settle before taking its snapshot.
type Store[R any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	records  map[int64]R
	idOf     func(R) int64
	views    map[string]func(R) bool
	inflight map[int64]bool
}

// NewStore creates a store keyed by idOf
func NewStore[R any](idOf func(R) int64) *Store[R] {
	s := &Store[R]{
		records:  make(map[int64]R),
		idOf:     idOf,
		views:    make(map[string]func(R) bool),
		inflight: make(map[int64]bool),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// RegisterView names a predicate over cached records
func (s *Store[R]) RegisterView(name string, pred func(R) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[name] = pred
}

// Put inserts or replaces records
func (s *Store[R]) Put(records ...R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[s.idOf(r)] = r
	}
}

// Get returns the cached record for id
func (s *Store[R]) Get(id int64) (R, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return r, ok
}

// Remove drops a record from the cache
func (s *Store[R]) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// View returns the records matching a registered predicate
func (s *Store[R]) View(name string) []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	pred, ok := s.views[name]
	if !ok {
		return nil
	}
	var out []R
	for _, r := range s.records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot copies the full cache contents
func (s *Store[R]) Snapshot() map[int64]R {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[int64]R, len(s.records))
	for id, r := range s.records {
		snap[id] = r
	}
	return snap
}

// Restore replaces the cache contents with a snapshot verbatim
func (s *Store[R]) Restore(snap map[int64]R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[int64]R, len(snap))
	for id, r := range snap {
		s.records[id] = r
	}
}

// Begin claims the mutation gate for a record, blocking while another
// mutation on the same record is in flight. Callers must End with the same id.
func (s *Store[R]) Begin(id int64) {
	s.mu.Lock()
	for s.inflight[id] {
		s.cond.Wait()
	}
	s.inflight[id] = true
	s.mu.Unlock()
}

// End releases the mutation gate for a record
func (s *Store[R]) End(id int64) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
	s.cond.Broadcast()
}
