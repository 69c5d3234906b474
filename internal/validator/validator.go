package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/dictcheck/internal/ctxlog"
	"github.com/specialistvlad/dictcheck/internal/depgraph"
	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/expr"
	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/varstore"
)

var (
	// ErrSameName is returned by Rename when the name does not change.
	ErrSameName = errors.New("new name equals the current name")
	// ErrNotRegistered is returned for dictionary parameters the validator
	// does not track, such as entries of documents outside the bound triple.
	ErrNotRegistered = errors.New("parameter is not registered")
)

// Validator tracks the dictionary variables of a document triple.
type Validator struct {
	logger *slog.Logger
	docs   document.Store
	triple document.Triple
	exprs  *expr.Adapter

	vars  *varstore.Store
	graph *depgraph.Graph
}

// Option configures a Validator.
type Option func(*Validator)

// WithExpressions replaces the default expression adapter.
func WithExpressions(a *expr.Adapter) Option {
	return func(v *Validator) {
		v.exprs = a
	}
}

// New creates a validator bound to triple and registers every dictionary
// variable of its documents, broadest scope first. Invalid variables are
// registered with their error cached; see ValidateParam.
func New(ctx context.Context, docs document.Store, triple document.Triple, opts ...Option) *Validator {
	v := &Validator{
		logger: ctxlog.FromContext(ctx),
		docs:   docs,
		triple: triple,
		exprs:  expr.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.reset()
	v.insertScopes(model.ScopeProject, model.ScopeLine, model.ScopeFlow)
	return v
}

func (v *Validator) reset() {
	v.vars = varstore.New()
	v.graph = depgraph.New(v.vars, v.docs.Type)
}

func (v *Validator) insertScopes(scopes ...model.Scope) {
	for _, s := range scopes {
		doc := v.triple.For(s)
		if doc == document.NoDoc {
			continue
		}
		for _, h := range v.docs.DictionaryParameters(doc) {
			if err := v.Insert(h); err != nil {
				v.logger.Debug("Registered invalid variable.", "scope", s, "name", v.docs.Name(h), "error", err)
			}
		}
	}
}

// Len returns the number of tracked names, including undefined names kept
// alive by the variables referencing them.
func (v *Validator) Len() int {
	return v.vars.Len()
}

// Insert registers the dictionary variable h at the end of its scope and
// validates its current value.
func (v *Validator) Insert(h document.Handle) error {
	return v.insert(h, document.NoHandle)
}

func (v *Validator) insert(h, before document.Handle) error {
	name, scope := v.docs.Name(h), v.docs.Scope(h)
	rec := v.vars.Ensure(name)

	if old := rec.Params[scope]; old != document.NoHandle && old != h {
		v.logger.Warn("Duplicate variable definition replaces the earlier one.",
			"name", name, "scope", scope, "previous", old, "handle", h)
	}
	if old := rec.Params[scope]; old != document.NoHandle {
		v.vars.RemoveOrder(scope, old)
	}

	rec.Params[scope] = h
	v.vars.InsertOrder(scope, h, name, before)
	v.logger.Debug("Inserted variable.", "name", name, "scope", scope, "weight", rec.Weights[scope])

	return v.ChangeValue(h, v.docs.Value(h))
}

// Remove unregisters the dictionary variable h. Variables referencing it
// are revalidated. Unknown handles are ignored.
func (v *Validator) Remove(h document.Handle) {
	name, scope := v.docs.Name(h), v.docs.Scope(h)
	rec, ok := v.vars.Lookup(name)
	if !ok || rec.Params[scope] != h {
		v.logger.Debug("Ignoring removal of unregistered parameter.", "name", name, "handle", h)
		return
	}

	v.unregister(rec, scope)
}

// unregister drops the definition of rec at scope and revalidates the
// variables referencing it.
func (v *Validator) unregister(rec *varstore.Record, scope model.Scope) {
	name := rec.Name
	v.vars.RemoveOrder(scope, rec.Params[scope])
	rec.Params[scope] = document.NoHandle
	rec.Weights[scope] = 0
	rec.Errs[scope] = nil
	v.graph.SetDependencies(name, scope, nil)
	v.logger.Debug("Removed variable.", "name", name, "scope", scope)

	v.refreshDependents(name)
}

// Rename relabels the dictionary variable h, keeping its position among
// its siblings.
func (v *Validator) Rename(h document.Handle, newName string) error {
	name, scope := v.docs.Name(h), v.docs.Scope(h)
	if name == newName {
		return ErrSameName
	}
	if rec, ok := v.vars.Lookup(name); !ok || rec.Params[scope] != h {
		v.docs.SetName(h, newName)
		return fmt.Errorf("rename %q: %w", name, ErrNotRegistered)
	}

	next := v.vars.Next(scope, h)
	v.Remove(h)
	v.docs.SetName(h, newName)
	v.logger.Debug("Renamed variable.", "from", name, "to", newName, "scope", scope)
	return v.insert(h, next)
}

// ChangeValue stores text as the value of h and validates it. The value is
// stored even when it is invalid. Variables depending on h are
// revalidated.
func (v *Validator) ChangeValue(h document.Handle, text string) error {
	v.docs.SetValue(h, text)

	name, scope := v.docs.Name(h), v.docs.Scope(h)
	rec, ok := v.vars.Lookup(name)
	if !ok || rec.Params[scope] != h {
		return fmt.Errorf("change value of %q: %w", name, ErrNotRegistered)
	}

	err := v.revalidate(rec, scope)
	v.refreshDependents(name)
	return err
}

// revalidate recomputes the dependencies and the cached error of the
// definition of rec at scope.
func (v *Validator) revalidate(rec *varstore.Record, scope model.Scope) error {
	h := rec.Params[scope]
	name, text, typ := rec.Name, v.docs.Value(h), v.docs.Type(h)

	if !model.ValidName(name) {
		v.graph.SetDependencies(name, scope, nil)
		return v.cache(rec, scope, model.Errorf(model.KindInvalidName, name,
			"invalid variable name %q: use lowercase letters, digits and underscores, starting with a letter", name))
	}

	deps := v.exprs.VariableNames(text, typ)
	v.graph.SetDependencies(name, scope, deps)

	if text == "" {
		return v.cache(rec, scope, model.Errorf(model.KindEmptyRequiredValue, name,
			"variable %q has no value", name))
	}
	if err := v.exprs.Validate(text, typ); err != nil {
		return v.cache(rec, scope, syntaxError(name, err))
	}
	return v.cache(rec, scope, v.graph.CheckTransitive(deps, name, typ, scope, rec.Weights[scope]))
}

func (v *Validator) cache(rec *varstore.Record, scope model.Scope, err error) error {
	rec.Errs[scope] = nil
	if err == nil {
		return nil
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		rec.Errs[scope] = ve
	}
	return err
}

// refreshDependents revalidates the other definitions of name and every
// variable transitively depending on it. A definition can reach another
// definition of its own name through a third variable, so passes repeat
// until no cached error changes.
func (v *Validator) refreshDependents(name string) {
	names := append([]string{name}, v.graph.Affected(name)...)

	for pass := 0; pass <= len(names)*model.NumScopes; pass++ {
		changed := false
		for _, n := range names {
			rec, ok := v.vars.Lookup(n)
			if !ok {
				continue
			}
			for _, s := range model.Scopes() {
				if !rec.Defined(s) {
					continue
				}
				before := rec.Errs[s]
				err := v.revalidate(rec, s)
				if sameError(before, rec.Errs[s]) {
					continue
				}
				changed = true
				if err != nil {
					v.logger.Debug("Dependent variable became invalid.", "name", n, "scope", s, "cause", name, "error", err)
				}
			}
		}
		if !changed {
			return
		}
	}
	v.logger.Warn("Dependent variables did not settle.", "name", name)
}

// sameError compares two cached errors down their cause chains.
func sameError(a, b *model.ValidationError) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Error() == b.Error() && fmt.Sprint(a.Err) == fmt.Sprint(b.Err)
}

func syntaxError(name string, err error) error {
	if name == "" {
		return model.Errorf(model.KindSyntax, "", "invalid expression: %s", err).Wrap(err)
	}
	return model.Errorf(model.KindSyntax, name, "invalid expression for %q: %s", name, err).Wrap(err)
}

// ValidateParam returns the validation result of h. Dictionary variables
// report their cached error, or recheck their dependencies when it is
// clear. Ordinary parameters are validated as anonymous flow expressions.
func (v *Validator) ValidateParam(h document.Handle) error {
	if !v.docs.IsDictionary(h) {
		text := v.docs.Value(h)
		if text == "" {
			if v.docs.Required(h) {
				name := v.docs.Name(h)
				return model.Errorf(model.KindEmptyRequiredValue, name,
					"required parameter %q has no value", name)
			}
			return nil
		}
		return v.validateAnonymous(text, v.docs.Type(h), model.ScopeFlow)
	}

	name, scope := v.docs.Name(h), v.docs.Scope(h)
	rec, ok := v.vars.Lookup(name)
	if !ok || rec.Params[scope] != h {
		return fmt.Errorf("validate %q: %w", name, ErrNotRegistered)
	}
	if cached := rec.Errs[scope]; cached != nil {
		return cached
	}
	err := v.graph.CheckTransitive(rec.DepNames(scope), name, v.docs.Type(h), scope, rec.Weights[scope])
	return v.cache(rec, scope, err)
}

// ValidateExpr validates text as an anonymous expression of type typ at
// flow scope. Nothing is registered.
func (v *Validator) ValidateExpr(text string, typ model.VarType) error {
	return v.validateAnonymous(text, typ, model.ScopeFlow)
}

func (v *Validator) validateAnonymous(text string, typ model.VarType, scope model.Scope) error {
	if text == "" {
		return nil
	}
	if err := v.exprs.Validate(text, typ); err != nil {
		return syntaxError("", err)
	}
	deps := v.exprs.VariableNames(text, typ)
	return v.graph.CheckTransitive(deps, "", typ, scope, depgraph.Anywhere)
}

// CheckUsingVar reports whether source, as defined at scope, is target or
// uses it directly or transitively.
func (v *Validator) CheckUsingVar(source string, scope model.Scope, target string) bool {
	return v.graph.CheckUsing(source, scope, target)
}

// ExpressionCheckUsingVar reports whether text, evaluated at scope, uses
// target directly or transitively.
func (v *Validator) ExpressionCheckUsingVar(text string, typ model.VarType, scope model.Scope, target string) bool {
	return v.graph.CheckUsingNames(v.exprs.VariableNames(text, typ), scope, target)
}

// Affected returns the definitions of every variable transitively depending
// on the variable defined by h, dependencies first.
func (v *Validator) Affected(h document.Handle) []document.Handle {
	var out []document.Handle
	for _, name := range v.graph.Affected(v.docs.Name(h)) {
		rec, ok := v.vars.Lookup(name)
		if !ok {
			continue
		}
		for _, s := range model.Scopes() {
			if rec.Defined(s) {
				out = append(out, rec.Params[s])
			}
		}
	}
	return out
}
