package expr

import "github.com/specialistvlad/dictcheck/internal/model"

// Kind selects the evaluator responsible for a value.
type Kind int

const (
	// KindNone values are opaque: always valid and without references.
	KindNone Kind = iota
	KindArithmetic
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindArithmetic:
		return "arithmetic"
	case KindString:
		return "string"
	}
	return "none"
}

// Select returns the expression kind of a variable type.
func Select(typ model.VarType) Kind {
	switch {
	case typ.IsNumeric():
		return KindArithmetic
	case typ.IsText():
		return KindString
	}
	return KindNone
}
