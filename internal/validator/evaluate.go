package validator

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/dictcheck/internal/depgraph"
	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/expr"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// target describes what is being evaluated.
type target struct {
	text  string
	typ   model.VarType
	scope model.Scope
	// weight bounds the visible siblings of the target's own scope.
	weight float64
	// name is the variable being evaluated, empty for anonymous text.
	name string
	// h is the evaluated parameter, NoHandle for anonymous text.
	h document.Handle
}

// Evaluate returns the printable value of parameter h. bindings supplies
// extra variables and overrides variables of the same name.
func (v *Validator) Evaluate(h document.Handle, bindings map[string]any) (string, error) {
	t := target{
		text:   v.docs.Value(h),
		typ:    v.docs.Type(h),
		scope:  model.ScopeFlow,
		weight: depgraph.Anywhere,
		h:      h,
	}
	if v.docs.IsDictionary(h) {
		t.name = v.docs.Name(h)
		t.scope = v.docs.Scope(h)
		if rec, ok := v.vars.Lookup(t.name); ok && rec.Params[t.scope] == h {
			t.weight = rec.Weights[t.scope]
		}
	}
	if t.text == "" {
		return "", nil
	}
	return v.evaluate(t, bindings)
}

// EvaluateExpr returns the printable value of text as an anonymous
// expression of type typ at scope.
func (v *Validator) EvaluateExpr(text string, typ model.VarType, scope model.Scope, bindings map[string]any) (string, error) {
	if text == "" {
		return "", nil
	}
	return v.evaluate(target{text: text, typ: typ, scope: scope, weight: depgraph.Anywhere}, bindings)
}

func (v *Validator) evaluate(t target, bindings map[string]any) (string, error) {
	extra, err := expr.Bindings(bindings)
	if err != nil {
		return "", err
	}
	if err := v.validateTarget(t, extra); err != nil {
		return "", err
	}

	first, err := v.evaluatePass(t, extra, nil)
	if err != nil {
		return "", err
	}

	loop, ok, err := v.iterBounds(t, extra)
	if err != nil {
		return "", err
	}
	if !ok {
		return first.text, nil
	}

	var last string
	if t.name == model.IterName {
		var val cty.Value
		if val, err = loop.last(first.value); err == nil {
			last, err = expr.Format(val, t.typ)
		}
	} else {
		initial, found := first.env[model.IterName]
		if !found {
			return first.text, nil
		}
		var val cty.Value
		if val, err = loop.last(initial); err == nil {
			var res passResult
			res, err = v.evaluatePass(t, extra, map[string]cty.Value{model.IterName: val})
			last = res.text
		}
	}
	if err != nil {
		return "", err
	}

	if first.text == last {
		return first.text, nil
	}
	return fmt.Sprintf("[%s, ..., %s]", first.text, last), nil
}

// validateTarget validates t, treating bound names as defined.
func (v *Validator) validateTarget(t target, extra map[string]cty.Value) error {
	if len(extra) == 0 {
		if t.h != document.NoHandle {
			return v.ValidateParam(t.h)
		}
		return v.validateAnonymous(t.text, t.typ, t.scope)
	}

	if err := v.exprs.Validate(t.text, t.typ); err != nil {
		return syntaxError(t.name, err)
	}
	var deps []string
	for _, dep := range v.exprs.VariableNames(t.text, t.typ) {
		if _, bound := extra[dep]; !bound {
			deps = append(deps, dep)
		}
	}
	return v.graph.CheckTransitive(deps, t.name, t.typ, t.scope, t.weight)
}

type passResult struct {
	text  string
	value cty.Value
	env   map[string]cty.Value
}

// evaluatePass builds the environment visible from t, with overrides
// replacing computed variables, and evaluates t in it.
func (v *Validator) evaluatePass(t target, extra, overrides map[string]cty.Value) (passResult, error) {
	p := v.preamble(t.scope, t.weight, overrides)
	for name, val := range extra {
		p.env[name] = val
		delete(p.failed, name)
	}

	for _, dep := range v.exprs.VariableNames(t.text, t.typ) {
		if err, ok := p.failed[dep]; ok {
			return passResult{}, fmt.Errorf("variable %q cannot be evaluated: %w", dep, err)
		}
	}

	val, err := v.exprs.Value(t.text, t.typ, p.env)
	if err != nil {
		return passResult{}, fmt.Errorf("evaluate: %w", err)
	}
	text, err := expr.Format(val, t.typ)
	if err != nil {
		return passResult{}, err
	}
	return passResult{text: text, value: val, env: p.env}, nil
}

// loopBounds are the evaluated step and count of the loop variable.
type loopBounds struct {
	typ   model.VarType
	step  cty.Value
	count cty.Value
}

// last returns the value of the loop variable at the final iteration.
func (b loopBounds) last(initial cty.Value) (cty.Value, error) {
	n, err := expr.Coerce(initial, model.TypeFloat)
	if err != nil {
		return cty.NilVal, fmt.Errorf("loop variable: %w", err)
	}
	if n.IsNull() || !n.IsKnown() {
		return cty.NilVal, fmt.Errorf("loop variable has no value")
	}
	return expr.Coerce(n.Add(b.step.Multiply(b.count.Subtract(cty.NumberIntVal(1)))), b.typ)
}

// iterBounds reports whether t must be evaluated as a range: the flow
// defines the loop variable, t sits at flow scope and uses it.
func (v *Validator) iterBounds(t target, extra map[string]cty.Value) (loopBounds, bool, error) {
	if t.scope != model.ScopeFlow {
		return loopBounds{}, false, nil
	}
	if _, overridden := extra[model.IterName]; overridden {
		return loopBounds{}, false, nil
	}
	rec, ok := v.vars.Lookup(model.IterName)
	if !ok || !rec.Defined(model.ScopeFlow) {
		return loopBounds{}, false, nil
	}
	if t.name != model.IterName {
		if rec.Weights[model.ScopeFlow] >= t.weight {
			return loopBounds{}, false, nil
		}
		if !v.graph.CheckUsingNames(v.exprs.VariableNames(t.text, t.typ), model.ScopeFlow, model.IterName) {
			return loopBounds{}, false, nil
		}
	}

	stepText, countText, ok := v.docs.Iteration(rec.Params[model.ScopeFlow])
	if !ok {
		return loopBounds{}, false, nil
	}

	// Bounds see what the loop variable itself sees.
	env := v.preamble(model.ScopeFlow, rec.Weights[model.ScopeFlow], nil).env
	for name, val := range extra {
		env[name] = val
	}
	step, err := v.exprs.Value(stepText, model.TypeFloat, env)
	if err != nil {
		return loopBounds{}, false, fmt.Errorf("loop step: %w", err)
	}
	count, err := v.exprs.Value(countText, model.TypeInt, env)
	if err != nil {
		return loopBounds{}, false, fmt.Errorf("loop count: %w", err)
	}
	if count.AsBigFloat().Sign() <= 0 {
		return loopBounds{}, false, nil
	}
	return loopBounds{typ: v.docs.Type(rec.Params[model.ScopeFlow]), step: step, count: count}, true, nil
}

// entry is one evaluated preamble assignment.
type entry struct {
	scope model.Scope
	name  string
	value cty.Value
	err   error
}

type preamble struct {
	entries []entry
	env     map[string]cty.Value
	failed  map[string]error
}

// preamble evaluates every variable visible from a referrer at scope with
// the given weight, broadest scope first and in declaration order.
func (v *Validator) preamble(scope model.Scope, weight float64, overrides map[string]cty.Value) preamble {
	p := preamble{
		env:    make(map[string]cty.Value),
		failed: make(map[string]error),
	}

	for s := model.ScopeProject; s >= scope; s-- {
		for _, h := range v.vars.Order(s) {
			name := v.docs.Name(h)
			rec, ok := v.vars.Lookup(name)
			if !ok || rec.Params[s] != h {
				continue
			}
			if s == scope && rec.Weights[s] >= weight {
				break
			}

			e := entry{scope: s, name: name}
			if val, ok := overrides[name]; ok {
				e.value = val
			} else if cached := rec.Errs[s]; cached != nil {
				e.err = cached
			} else {
				e.value, e.err = v.exprs.Value(v.docs.Value(h), v.docs.Type(h), p.env)
			}

			p.entries = append(p.entries, e)
			if e.err != nil {
				delete(p.env, name)
				p.failed[name] = e.err
				continue
			}
			p.env[name] = e.value
			delete(p.failed, name)
		}
	}
	return p
}

// Preamble renders the evaluated variables visible from scope as HCL, one
// block per scope from project down to scope. Variables that fail to
// evaluate are rendered as comments.
func (v *Validator) Preamble(scope model.Scope) ([]byte, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("invalid scope %d", scope)
	}
	return renderPreamble(v.preamble(scope, depgraph.Anywhere, nil), scope), nil
}
