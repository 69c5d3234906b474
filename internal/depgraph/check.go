package depgraph

import (
	"slices"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/varstore"
)

type defKey struct {
	name  string
	scope model.Scope
}

// checker is the state of one CheckTransitive call.
type checker struct {
	g *Graph
	// verified holds definitions whose dependencies were already found
	// well defined during this call.
	verified map[defKey]struct{}
	onPath   map[defKey]struct{}
}

// CheckTransitive verifies that every name in deps, referenced by the
// variable name of type typ declared at scope with the given weight, is
// defined, visible, type compatible and itself well defined.
//
// The returned error is a *model.ValidationError about name, or nil.
func (g *Graph) CheckTransitive(deps []string, name string, typ model.VarType, scope model.Scope, weight float64) error {
	c := &checker{
		g:        g,
		verified: make(map[defKey]struct{}),
		onPath:   make(map[defKey]struct{}),
	}

	deps = slices.Clone(deps)
	slices.Sort(deps)
	deps = slices.Compact(deps)

	for _, dep := range deps {
		if name != "" && dep == name {
			return model.Errorf(model.KindSelfReference, name,
				"variable %q references itself", name)
		}

		rec, s, err := c.resolve(dep, name, scope, weight)
		if err != nil {
			return err
		}

		if err := g.checkTypes(name, typ, dep, rec, s); err != nil {
			return err
		}

		if cached := rec.Errs[s]; cached != nil {
			return badReference(name, dep, cached)
		}
		if err := c.walk(dep, s); err != nil {
			return badReference(name, dep, err)
		}
	}
	return nil
}

// walk checks the dependencies of the definition of name at scope.
func (c *checker) walk(name string, scope model.Scope) error {
	key := defKey{name, scope}
	if _, ok := c.verified[key]; ok {
		return nil
	}
	if _, ok := c.onPath[key]; ok {
		return model.Errorf(model.KindCycle, name,
			"variable %q is part of a reference cycle", name)
	}
	c.onPath[key] = struct{}{}
	defer delete(c.onPath, key)

	rec, ok := c.g.vars.Lookup(name)
	if !ok || !rec.Defined(scope) {
		return model.Errorf(model.KindUndefinedVariable, name,
			"variable %q is not defined", name)
	}
	typ := c.g.typeOf(rec.Params[scope])
	weight := rec.Weights[scope]

	for _, dep := range rec.DepNames(scope) {
		if dep == name {
			return model.Errorf(model.KindSelfReference, name,
				"variable %q references itself", name)
		}
		drec, s, err := c.resolve(dep, name, scope, weight)
		if err != nil {
			return err
		}
		if err := c.g.checkTypes(name, typ, dep, drec, s); err != nil {
			return err
		}
		if cached := drec.Errs[s]; cached != nil {
			return badReference(name, dep, cached)
		}
		if err := c.walk(dep, s); err != nil {
			if model.KindOf(err) == model.KindCycle {
				return err
			}
			return badReference(name, dep, err)
		}
	}

	c.verified[key] = struct{}{}
	return nil
}

// resolve finds the definition of dep visible from referrer.
func (c *checker) resolve(dep, referrer string, scope model.Scope, weight float64) (*varstore.Record, model.Scope, error) {
	rec, ok := c.g.vars.Lookup(dep)
	if !ok || !rec.HasDefinition() {
		return nil, scope, c.g.undefined(referrer, dep, "is not defined")
	}
	s, ok := Resolve(rec, scope, weight)
	if !ok {
		return nil, scope, c.g.undefined(referrer, dep, "is not yet defined")
	}
	return rec, s, nil
}

func (g *Graph) checkTypes(referrer string, typ model.VarType, dep string, rec *varstore.Record, s model.Scope) error {
	depType := g.typeOf(rec.Params[s])
	if typ.IsNumeric() && depType.IsText() {
		return model.Errorf(model.KindTypeMismatch, referrer,
			"numeric expression cannot use %s variable %q", depType, dep)
	}
	return nil
}

func badReference(referrer, dep string, cause error) error {
	return model.Errorf(model.KindBadReference, referrer,
		"dependency %q is not well defined", dep).Wrap(cause)
}

func (g *Graph) undefined(referrer, dep, what string) error {
	if hint := g.closestName(dep); hint != "" {
		return model.Errorf(model.KindUndefinedVariable, referrer,
			"variable %q %s, did you mean %q?", dep, what, hint)
	}
	return model.Errorf(model.KindUndefinedVariable, referrer,
		"variable %q %s", dep, what)
}

// closestName finds the defined name with the smallest edit distance from
// name, skipping candidates that would need a complete rewrite.
func (g *Graph) closestName(name string) (closest string) {
	nameRunes := []rune(name)
	closestDistance := len(name)

	for _, candidate := range g.vars.Names() {
		if candidate == name {
			continue
		}
		rec, _ := g.vars.Lookup(candidate)
		if !rec.HasDefinition() {
			continue
		}
		distance := levenshtein.DistanceForStrings(
			nameRunes,
			[]rune(candidate),
			levenshtein.DefaultOptions,
		)
		if distance < closestDistance && distance < len(candidate) {
			closest = candidate
			closestDistance = distance
		}
	}
	return
}

// CheckUsing reports whether source is target or its expression at scope
// references target, directly or through other variables.
func (g *Graph) CheckUsing(source string, scope model.Scope, target string) bool {
	if source == target {
		return true
	}
	rec, ok := g.vars.Lookup(source)
	if !ok {
		return false
	}
	return g.using(rec.DepNames(scope), scope, rec.Weights[scope], target, map[defKey]struct{}{})
}

// CheckUsingNames reports whether any of deps, referenced from scope, is or
// uses target. Anonymous expressions see the whole scope.
func (g *Graph) CheckUsingNames(deps []string, scope model.Scope, target string) bool {
	return g.using(deps, scope, Anywhere, target, map[defKey]struct{}{})
}

func (g *Graph) using(deps []string, scope model.Scope, weight float64, target string, seen map[defKey]struct{}) bool {
	for _, dep := range deps {
		if dep == target {
			return true
		}
		rec, ok := g.vars.Lookup(dep)
		if !ok {
			continue
		}
		s, ok := Resolve(rec, scope, weight)
		if !ok {
			continue
		}
		key := defKey{dep, s}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if g.using(rec.DepNames(s), s, rec.Weights[s], target, seen) {
			return true
		}
	}
	return false
}
