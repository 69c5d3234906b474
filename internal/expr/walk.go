package expr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty/function"
)

// traversalKey renders a traversal back to source form, e.g. a.b[0].
func traversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// variableNames returns the root names referenced by e, sorted and unique.
func variableNames(e hclsyntax.Expression) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, t := range e.Variables() {
		root := t.RootName()
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		names = append(names, root)
	}
	slices.Sort(names)
	return names
}

// checkExpression rejects what parses as HCL but is not a valid variable
// expression: calls to unknown functions, attribute or index access on a
// variable, and names that HCL lexed together across a minus sign.
func checkExpression(e hclsyntax.Expression, funcs map[string]function.Function) hcl.Diagnostics {
	var diags hcl.Diagnostics

	calls := map[string]hcl.Range{}
	walkForFunctions(e, calls)
	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, ok := funcs[name]; ok {
			continue
		}
		rng := calls[name]
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Call to unknown function",
			Detail: fmt.Sprintf("There is no function named %q. Available functions: %s.",
				name, strings.Join(FunctionNames(), ", ")),
			Subject: &rng,
		})
	}

	for _, t := range e.Variables() {
		rng := t.SourceRange()
		if len(t) > 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid reference",
				Detail:   fmt.Sprintf("%q must be a plain variable name.", traversalKey(t)),
				Subject:  &rng,
			})
			continue
		}
		if root := t.RootName(); strings.Contains(root, "-") {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid variable name",
				Detail: fmt.Sprintf("%q is not a variable name. Add spaces around the minus sign to subtract: %q.",
					root, strings.ReplaceAll(root, "-", " - ")),
				Subject: &rng,
			})
		}
	}
	return diags
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]hcl.Range) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if _, ok := functions[e.Name]; !ok {
			functions[e.Name] = e.NameRange
		}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, functions)
			walkForFunctions(item.ValueExpr, functions)
		}
	case *hclsyntax.ForExpr:
		walkForFunctions(e.CollExpr, functions)
		walkForFunctions(e.KeyExpr, functions)
		walkForFunctions(e.ValExpr, functions)
		walkForFunctions(e.CondExpr, functions)
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.SplatExpr:
		walkForFunctions(e.Source, functions)
		walkForFunctions(e.Each, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}
