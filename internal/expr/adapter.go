package expr

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/dictcheck/internal/model"
)

// Adapter dispatches expressions to the evaluator of their kind.
type Adapter struct {
	arithmetic Evaluator
	template   Evaluator
}

// NewAdapter creates an adapter over the given evaluators.
func NewAdapter(arithmetic, template Evaluator) *Adapter {
	return &Adapter{arithmetic: arithmetic, template: template}
}

// Default returns an adapter over the HCL arithmetic and bracket template
// evaluators.
func Default() *Adapter {
	return NewAdapter(NewArithmetic(), NewTemplate())
}

func (a *Adapter) evaluator(typ model.VarType) Evaluator {
	switch Select(typ) {
	case KindArithmetic:
		return a.arithmetic
	case KindString:
		return a.template
	}
	return nil
}

// Validate checks text as a value of type typ.
func (a *Adapter) Validate(text string, typ model.VarType) error {
	if e := a.evaluator(typ); e != nil {
		return e.Validate(text)
	}
	return nil
}

// VariableNames returns the names text references as a value of type typ.
func (a *Adapter) VariableNames(text string, typ model.VarType) []string {
	if e := a.evaluator(typ); e != nil {
		return e.Variables(text)
	}
	return nil
}

// Value computes text as a value of type typ and coerces the result to
// that type. Types without expression semantics evaluate to their text.
func (a *Adapter) Value(text string, typ model.VarType, vars map[string]cty.Value) (cty.Value, error) {
	e := a.evaluator(typ)
	if e == nil {
		return cty.StringVal(text), nil
	}
	v, err := e.Evaluate(text, vars)
	if err != nil {
		return cty.NilVal, err
	}
	return Coerce(v, typ)
}

// Evaluate computes text as a value of type typ and returns its printable
// form.
func (a *Adapter) Evaluate(text string, typ model.VarType, vars map[string]cty.Value) (string, error) {
	v, err := a.Value(text, typ, vars)
	if err != nil {
		return "", err
	}
	return Format(v, typ)
}
