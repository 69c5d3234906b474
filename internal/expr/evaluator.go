package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Evaluator compiles and evaluates expressions of one kind.
type Evaluator interface {
	// Validate checks syntax and function usage. Unknown variables are not
	// an error here.
	Validate(text string) error
	// Variables returns every variable name text references, sorted. It is
	// best effort: invalid text yields the names of whatever parsed.
	Variables(text string) []string
	// Evaluate computes text against vars.
	Evaluate(text string, vars map[string]cty.Value) (cty.Value, error)
}

// compiler turns text into an hclsyntax AST.
type compiler func(text string) (hclsyntax.Expression, hcl.Diagnostics)

// hclEvaluator implements Evaluator on top of a compiler.
type hclEvaluator struct {
	compile   compiler
	functions map[string]function.Function
}

func (e *hclEvaluator) Validate(text string) error {
	ast, diags := e.compile(text)
	if diags.HasErrors() {
		return diags
	}
	if diags := checkExpression(ast, e.functions); diags.HasErrors() {
		return diags
	}
	return nil
}

func (e *hclEvaluator) Variables(text string) []string {
	ast, _ := e.compile(text)
	if ast == nil {
		return nil
	}
	return variableNames(ast)
}

func (e *hclEvaluator) Evaluate(text string, vars map[string]cty.Value) (cty.Value, error) {
	if err := e.Validate(text); err != nil {
		return cty.NilVal, err
	}
	ast, _ := e.compile(text)
	if vars == nil {
		vars = map[string]cty.Value{}
	}
	val, diags := ast.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: e.functions,
	})
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}
