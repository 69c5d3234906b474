package validator

import (
	"cmp"
	"slices"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/varstore"
)

// Documents returns the bound document triple.
func (v *Validator) Documents() document.Triple {
	return v.triple
}

// Update rebinds the validator to triple. Swapping the project rebuilds
// everything; otherwise only the swapped line or flow is re-registered.
func (v *Validator) Update(triple document.Triple) {
	old := v.triple
	v.triple = triple

	if old.Project != triple.Project {
		v.logger.Debug("Project changed, rebuilding all variables.", "old", old.Project, "new", triple.Project)
		v.reset()
		v.insertScopes(model.ScopeProject, model.ScopeLine, model.ScopeFlow)
		return
	}

	var changed []model.Scope
	for _, s := range []model.Scope{model.ScopeLine, model.ScopeFlow} {
		if old.For(s) != triple.For(s) {
			changed = append(changed, s)
		}
	}
	if len(changed) == 0 {
		return
	}
	v.logger.Debug("Rebuilding swapped scopes.", "scopes", changed)

	for _, s := range changed {
		v.removeScope(s)
	}
	v.insertScopes(changed...)
}

// removeScope unregisters every definition of scope, last declared first.
// It relies on the validator's own records only, so the swapped out
// document may already be gone.
func (v *Validator) removeScope(scope model.Scope) {
	var recs []*varstore.Record
	for _, name := range v.vars.Names() {
		if rec, ok := v.vars.Lookup(name); ok && rec.Defined(scope) {
			recs = append(recs, rec)
		}
	}
	slices.SortFunc(recs, func(a, b *varstore.Record) int {
		return cmp.Compare(b.Weights[scope], a.Weights[scope])
	})
	for _, rec := range recs {
		v.unregister(rec, scope)
	}
	v.vars.ResetScope(scope)
}
