// Package expr is the uniform interface over the two expression kinds a
// variable value can hold.
//
// Numeric variables (int, float, range) hold arithmetic expressions in HCL
// expression syntax, such as `width * 2 + max(a, b)`. Textual variables
// (string, file) hold bracket templates, where `[expr]` interpolates an
// arithmetic expression into literal text and `[[` stands for a literal
// bracket. Other types (flag, enum, group) have no expression semantics:
// they always validate and reference nothing.
//
// Both kinds compile to hclsyntax ASTs and evaluate against an
// hcl.EvalContext whose variables are cty values and whose functions come
// from go-cty's stdlib.
package expr
