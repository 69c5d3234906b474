package inmemorydoc

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// ErrUnknownHandle is returned when an operation names a parameter or
// document the store does not hold.
var ErrUnknownHandle = errors.New("unknown handle")

type param struct {
	name     string
	value    string
	typ      model.VarType
	doc      document.DocID
	dict     bool
	required bool

	loop  bool
	step  string
	count string
}

type doc struct {
	scope   model.Scope
	title   string
	dict    []document.Handle
	program []document.Handle
}

// Store implements the document.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu        sync.RWMutex
	params    map[document.Handle]*param
	docs      map[document.DocID]*doc
	nextParam document.Handle
	nextDoc   document.DocID
}

var _ document.Store = (*Store)(nil)

// New creates a new, empty in-memory document store.
func New() *Store {
	return &Store{
		params: make(map[document.Handle]*param),
		docs:   make(map[document.DocID]*doc),
	}
}

// NewDocument creates an empty document of the given scope.
func (s *Store) NewDocument(scope model.Scope, title string) document.DocID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDoc++
	s.docs[s.nextDoc] = &doc{scope: scope, title: title}
	return s.nextDoc
}

// Title returns the title a document was created with.
func (s *Store) Title(id document.DocID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.docs[id]; ok {
		return d.title
	}
	return ""
}

// DocumentScope returns the scope of a document.
func (s *Store) DocumentScope(id document.DocID) (model.Scope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return model.ScopeFlow, false
	}
	return d.scope, true
}

// AddParameter appends an ordinary (non-dictionary) program parameter to a
// flow document.
func (s *Store) AddParameter(id document.DocID, typ model.VarType, keyword, value string, required bool) (document.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return document.NoHandle, fmt.Errorf("document %d: %w", id, ErrUnknownHandle)
	}
	s.nextParam++
	s.params[s.nextParam] = &param{name: keyword, value: value, typ: typ, doc: id, required: required}
	d.program = append(d.program, s.nextParam)
	return s.nextParam, nil
}

// ProgramParameters returns the ordinary parameters of a document in order.
func (s *Store) ProgramParameters(id document.DocID) []document.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.docs[id]; ok {
		return slices.Clone(d.program)
	}
	return nil
}

// SetIteration attaches loop bounds to a parameter, turning it into a loop
// variable.
func (s *Store) SetIteration(h document.Handle, step, count string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[h]
	if !ok {
		return fmt.Errorf("parameter %d: %w", h, ErrUnknownHandle)
	}
	p.loop, p.step, p.count = true, step, count
	return nil
}

// Delete removes a parameter from its document. The handle becomes invalid.
func (s *Store) Delete(h document.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[h]
	if !ok {
		return fmt.Errorf("parameter %d: %w", h, ErrUnknownHandle)
	}
	if d, ok := s.docs[p.doc]; ok {
		d.dict = slices.DeleteFunc(d.dict, func(x document.Handle) bool { return x == h })
		d.program = slices.DeleteFunc(d.program, func(x document.Handle) bool { return x == h })
	}
	delete(s.params, h)
	return nil
}

func (s *Store) Name(h document.Handle) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[h]; ok {
		return p.name
	}
	return ""
}

func (s *Store) SetName(h document.Handle, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.params[h]; ok {
		p.name = name
	}
}

func (s *Store) Value(h document.Handle) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[h]; ok {
		return p.value
	}
	return ""
}

func (s *Store) SetValue(h document.Handle, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.params[h]; ok {
		p.value = value
	}
}

func (s *Store) Type(h document.Handle) model.VarType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[h]; ok {
		return p.typ
	}
	return model.TypeString
}

func (s *Store) Scope(h document.Handle) model.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[h]; ok {
		if d, ok := s.docs[p.doc]; ok {
			return d.scope
		}
	}
	return model.ScopeFlow
}

func (s *Store) Document(h document.Handle) document.DocID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.params[h]; ok {
		return p.doc
	}
	return document.NoDoc
}

func (s *Store) IsDictionary(h document.Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[h]
	return ok && p.dict
}

func (s *Store) Required(h document.Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[h]
	return ok && p.required
}

func (s *Store) Iteration(h document.Handle) (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[h]
	if !ok || !p.loop {
		return "", "", false
	}
	return p.step, p.count, true
}

func (s *Store) DictionaryParameters(id document.DocID) []document.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.docs[id]; ok {
		return slices.Clone(d.dict)
	}
	return nil
}

func (s *Store) AppendDictionaryEntry(id document.DocID, typ model.VarType, name, value string) (document.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return document.NoHandle, fmt.Errorf("document %d: %w", id, ErrUnknownHandle)
	}
	s.nextParam++
	s.params[s.nextParam] = &param{name: name, value: value, typ: typ, doc: id, dict: true}
	d.dict = append(d.dict, s.nextParam)
	return s.nextParam, nil
}

// MoveAfter relocates the dictionary entry h right after pivot. When pivot
// belongs to another document the entry changes owner.
func (s *Store) MoveAfter(h, pivot document.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[h]
	if !ok || !p.dict {
		return fmt.Errorf("dictionary entry %d: %w", h, ErrUnknownHandle)
	}
	pv, ok := s.params[pivot]
	if !ok || !pv.dict {
		return fmt.Errorf("pivot %d: %w", pivot, ErrUnknownHandle)
	}
	if h == pivot {
		return nil
	}

	src := s.docs[p.doc]
	src.dict = slices.DeleteFunc(src.dict, func(x document.Handle) bool { return x == h })

	dst := s.docs[pv.doc]
	idx := slices.Index(dst.dict, pivot)
	dst.dict = slices.Insert(dst.dict, idx+1, h)
	p.doc = pv.doc
	return nil
}
