package varstore

import (
	"slices"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// Record is the per-name state shared by every scope defining the name.
type Record struct {
	Name string

	// Params holds the definition at each scope, NoHandle when undefined.
	Params [model.NumScopes]document.Handle
	// Weights orders the definition among same-scope siblings.
	Weights [model.NumScopes]float64
	// Deps holds the names referenced by the expression at each scope.
	Deps [model.NumScopes]map[string]struct{}
	// Dependents holds the names of variables referencing this one.
	Dependents map[string]struct{}
	// Errs caches the validation result at each scope; nil means valid.
	Errs [model.NumScopes]*model.ValidationError
}

func newRecord(name string) *Record {
	r := &Record{Name: name, Dependents: make(map[string]struct{})}
	for i := range r.Deps {
		r.Deps[i] = make(map[string]struct{})
	}
	return r
}

// Defined reports whether the record has a definition at scope.
func (r *Record) Defined(scope model.Scope) bool {
	return r.Params[scope] != document.NoHandle
}

// HasDefinition reports whether any scope defines the record.
func (r *Record) HasDefinition() bool {
	for _, h := range r.Params {
		if h != document.NoHandle {
			return true
		}
	}
	return false
}

// Orphan reports whether the record has neither a definition nor a
// dependent and can be dropped.
func (r *Record) Orphan() bool {
	return !r.HasDefinition() && len(r.Dependents) == 0
}

// DependsOn reports whether any scope of r lists name as a dependency.
func (r *Record) DependsOn(name string) bool {
	for _, deps := range r.Deps {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}

// DepNames returns the dependencies at scope, sorted.
func (r *Record) DepNames(scope model.Scope) []string {
	return sortedKeys(r.Deps[scope])
}

// DependentNames returns the dependents, sorted.
func (r *Record) DependentNames() []string {
	return sortedKeys(r.Dependents)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
