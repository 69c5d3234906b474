package varstore

import (
	"slices"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// MaxWeight is the implicit upper bound of every scope's weights.
const MaxWeight = 100.0

type entry struct {
	handle document.Handle
	name   string
}

// Store maps names to records and keeps the per-scope declaration order.
// It is not safe for concurrent use; the validator owns it exclusively.
type Store struct {
	records map[string]*Record
	order   [model.NumScopes][]entry
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Lookup returns the record for name.
func (s *Store) Lookup(name string) (*Record, bool) {
	r, ok := s.records[name]
	return r, ok
}

// Ensure returns the record for name, creating a bare one if needed.
func (s *Store) Ensure(name string) *Record {
	if r, ok := s.records[name]; ok {
		return r
	}
	r := newRecord(name)
	s.records[name] = r
	return r
}

// Delete drops the record for name.
func (s *Store) Delete(name string) {
	delete(s.records, name)
}

// Len returns the number of records, including bare undefined ones kept
// alive by their dependents.
func (s *Store) Len() int {
	return len(s.records)
}

// Names returns every record name, sorted.
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.records))
	for name := range s.records {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Order returns the definitions of scope in declaration order.
func (s *Store) Order(scope model.Scope) []document.Handle {
	out := make([]document.Handle, len(s.order[scope]))
	for i, e := range s.order[scope] {
		out[i] = e.handle
	}
	return out
}

// Next returns the definition following h in scope, or NoHandle when h is
// last or absent.
func (s *Store) Next(scope model.Scope, h document.Handle) document.Handle {
	idx := s.index(scope, h)
	if idx < 0 || idx+1 >= len(s.order[scope]) {
		return document.NoHandle
	}
	return s.order[scope][idx+1].handle
}

// InsertOrder places h in scope immediately before `before`, or at the end
// when before is NoHandle or unknown, and records the resulting weight on
// the record of name.
func (s *Store) InsertOrder(scope model.Scope, h document.Handle, name string, before document.Handle) float64 {
	idx := len(s.order[scope])
	if before != document.NoHandle {
		if i := s.index(scope, before); i >= 0 {
			idx = i
		}
	}
	return s.insertAt(scope, idx, entry{handle: h, name: name})
}

// InsertAfter places h in scope immediately after pivot. An unknown pivot
// places h first.
func (s *Store) InsertAfter(scope model.Scope, h document.Handle, name string, pivot document.Handle) float64 {
	idx := s.index(scope, pivot) + 1
	return s.insertAt(scope, idx, entry{handle: h, name: name})
}

// RemoveOrder drops h from the order of scope.
func (s *Store) RemoveOrder(scope model.Scope, h document.Handle) {
	if i := s.index(scope, h); i >= 0 {
		s.order[scope] = slices.Delete(s.order[scope], i, i+1)
	}
}

// ResetScope forgets the order of one scope. Records are left untouched.
func (s *Store) ResetScope(scope model.Scope) {
	s.order[scope] = nil
}

func (s *Store) index(scope model.Scope, h document.Handle) int {
	return slices.IndexFunc(s.order[scope], func(e entry) bool { return e.handle == h })
}

func (s *Store) insertAt(scope model.Scope, idx int, e entry) float64 {
	lower, upper := 0.0, MaxWeight
	if idx > 0 {
		lower = s.weightOf(scope, s.order[scope][idx-1])
	}
	if idx < len(s.order[scope]) {
		upper = s.weightOf(scope, s.order[scope][idx])
	}
	s.order[scope] = slices.Insert(s.order[scope], idx, e)

	w := lower + (upper-lower)/2
	if w <= lower || w >= upper {
		s.rebalance(scope)
		return s.weightOf(scope, e)
	}
	s.Ensure(e.name).Weights[scope] = w
	return w
}

func (s *Store) weightOf(scope model.Scope, e entry) float64 {
	if r, ok := s.records[e.name]; ok {
		return r.Weights[scope]
	}
	return 0
}

// rebalance respaces every weight of scope evenly inside (0, MaxWeight).
func (s *Store) rebalance(scope model.Scope) {
	n := len(s.order[scope])
	for i, e := range s.order[scope] {
		s.Ensure(e.name).Weights[scope] = MaxWeight * float64(i+1) / float64(n+1)
	}
}
