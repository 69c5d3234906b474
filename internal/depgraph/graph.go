package depgraph

import (
	"math"
	"slices"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/varstore"
)

// Anywhere is the weight of a referrer that sees every definition of its
// own scope, such as an anonymous expression or a program parameter.
var Anywhere = math.Inf(1)

// TypeOf reports the declared type of a definition.
type TypeOf func(h document.Handle) model.VarType

// Graph manages dependency edges on top of a varstore.Store.
type Graph struct {
	vars   *varstore.Store
	typeOf TypeOf
}

// New creates a graph over vars. typeOf is used by type checks.
func New(vars *varstore.Store, typeOf TypeOf) *Graph {
	return &Graph{vars: vars, typeOf: typeOf}
}

// SetDependencies replaces the dependencies of name at scope with deps and
// keeps the reverse edges consistent. Dependencies that end up with neither
// a definition nor a dependent are deleted.
func (g *Graph) SetDependencies(name string, scope model.Scope, deps []string) {
	rec := g.vars.Ensure(name)

	next := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		next[d] = struct{}{}
	}

	old := rec.Deps[scope]
	rec.Deps[scope] = next

	for d := range old {
		if _, kept := next[d]; kept {
			continue
		}
		if rec.DependsOn(d) {
			// Another scope of name still references d.
			continue
		}
		dep, ok := g.vars.Lookup(d)
		if !ok {
			continue
		}
		delete(dep.Dependents, name)
		if dep.Orphan() {
			g.vars.Delete(d)
		}
	}

	for d := range next {
		g.vars.Ensure(d).Dependents[name] = struct{}{}
	}

	if rec.Orphan() {
		g.vars.Delete(name)
	}
}

// Resolve returns the scope of the definition of rec visible from a
// referrer at scope with the given weight: the narrowest scope not narrower
// than the referrer's holding a definition. At the referrer's own scope only
// definitions declared before it (lower weight) are visible.
func Resolve(rec *varstore.Record, scope model.Scope, weight float64) (model.Scope, bool) {
	for s := scope; s <= model.ScopeProject; s++ {
		if !rec.Defined(s) {
			continue
		}
		if s == scope && rec.Weights[s] >= weight {
			continue
		}
		return s, true
	}
	return scope, false
}

// Affected returns every variable transitively depending on name, ordered
// so that a variable comes after the variables it depends on. Members of a
// cycle, which have no such order, come last in name order.
func (g *Graph) Affected(name string) []string {
	seen := map[string]struct{}{}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		rec, ok := g.vars.Lookup(cur)
		if !ok {
			continue
		}
		for _, d := range rec.DependentNames() {
			if _, dup := seen[d]; dup || d == name {
				continue
			}
			seen[d] = struct{}{}
			queue = append(queue, d)
		}
	}

	// Kahn ordering restricted to the affected set.
	indegree := make(map[string]int, len(seen))
	for n := range seen {
		indegree[n] = 0
	}
	for n := range seen {
		rec, _ := g.vars.Lookup(n)
		for _, d := range rec.DependentNames() {
			if _, ok := seen[d]; ok {
				indegree[d]++
			}
		}
	}

	var ready []string
	for n, deg := range indegree {
		if deg == 0 {
			ready = append(ready, n)
		}
	}
	slices.Sort(ready)

	out := make([]string, 0, len(seen))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		delete(indegree, n)

		rec, _ := g.vars.Lookup(n)
		var unlocked []string
		for _, d := range rec.DependentNames() {
			if _, ok := indegree[d]; !ok {
				continue
			}
			indegree[d]--
			if indegree[d] == 0 {
				unlocked = append(unlocked, d)
			}
		}
		ready = append(ready, unlocked...)
		slices.Sort(ready)
	}

	rest := make([]string, 0, len(indegree))
	for n := range indegree {
		rest = append(rest, n)
	}
	slices.Sort(rest)
	return append(out, rest...)
}
