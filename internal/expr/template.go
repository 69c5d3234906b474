package expr

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// NewTemplate returns the evaluator of textual variables. Text is literal
// except for `[expr]` interpolations, whose expressions follow the
// arithmetic syntax; `[[` is a literal `[`.
func NewTemplate() Evaluator {
	return &hclEvaluator{compile: parseTemplate, functions: Functions()}
}

// parseTemplate builds a TemplateExpr whose parts alternate between
// literal text and the parsed bracket expressions.
func parseTemplate(text string) (hclsyntax.Expression, hcl.Diagnostics) {
	var (
		diags    hcl.Diagnostics
		parts    []hclsyntax.Expression
		lit      strings.Builder
		litStart int
	)

	flush := func(end int) {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, &hclsyntax.LiteralValueExpr{
			Val:      cty.StringVal(lit.String()),
			SrcRange: rangeOf(text, litStart, end),
		})
		lit.Reset()
	}
	appendLit := func(at int, s string) {
		if lit.Len() == 0 {
			litStart = at
		}
		lit.WriteString(s)
	}

	for i := 0; i < len(text); {
		if text[i] != '[' {
			appendLit(i, text[i:i+1])
			i++
			continue
		}
		if i+1 < len(text) && text[i+1] == '[' {
			appendLit(i, "[")
			i += 2
			continue
		}

		depth, j := 1, i+1
		for ; j < len(text) && depth > 0; j++ {
			switch text[j] {
			case '[':
				depth++
			case ']':
				depth--
			}
		}
		if depth > 0 {
			rng := rangeOf(text, i, i+1)
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unclosed interpolation",
				Detail:   "An opening bracket has no matching closing bracket. Use [[ for a literal bracket.",
				Subject:  &rng,
			})
			break
		}

		inner := text[i+1 : j-1]
		if strings.TrimSpace(inner) == "" {
			rng := rangeOf(text, i, j)
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Empty interpolation",
				Detail:   "Brackets must contain an expression. Use [[ for a literal bracket.",
				Subject:  &rng,
			})
			i = j
			continue
		}

		flush(i)
		e, exprDiags := hclsyntax.ParseExpression([]byte(inner), filename, posAt(text, i+1))
		diags = append(diags, exprDiags...)
		if e != nil {
			parts = append(parts, e)
		}
		i = j
	}
	flush(len(text))

	return &hclsyntax.TemplateExpr{
		Parts:    parts,
		SrcRange: rangeOf(text, 0, len(text)),
	}, diags
}

// posAt converts a byte offset of text into a source position.
func posAt(text string, offset int) hcl.Pos {
	pos := hcl.InitialPos
	for _, r := range text[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Byte = offset
	return pos
}

func rangeOf(text string, start, end int) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    posAt(text, start),
		End:      posAt(text, end),
	}
}
