package expr

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

const filename = "expression"

// NewArithmetic returns the evaluator of numeric variables. Expressions use
// HCL syntax with the functions of Functions.
func NewArithmetic() Evaluator {
	return &hclEvaluator{compile: parseArithmetic, functions: Functions()}
}

func parseArithmetic(text string) (hclsyntax.Expression, hcl.Diagnostics) {
	return hclsyntax.ParseExpression([]byte(text), filename, hcl.InitialPos)
}
