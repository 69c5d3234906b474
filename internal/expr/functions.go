package expr

import (
	"fmt"
	"math"
	"slices"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// SqrtFunc returns the square root of a non-negative number.
var SqrtFunc = function.New(&function.Spec{
	Description: `Returns the square root of the given number.`,
	Params: []function.Parameter{
		{
			Name: "num",
			Type: cty.Number,
		},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		f, _ := args[0].AsBigFloat().Float64()
		if f < 0 {
			return cty.UnknownVal(cty.Number), fmt.Errorf("cannot take the square root of negative number %g", f)
		}
		return cty.NumberFloatVal(math.Sqrt(f)), nil
	},
})

// Functions returns the function table available to every expression.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":       stdlib.AbsoluteFunc,
		"ceil":      stdlib.CeilFunc,
		"floor":     stdlib.FloorFunc,
		"format":    stdlib.FormatFunc,
		"int":       stdlib.IntFunc,
		"join":      stdlib.JoinFunc,
		"log":       stdlib.LogFunc,
		"lower":     stdlib.LowerFunc,
		"max":       stdlib.MaxFunc,
		"min":       stdlib.MinFunc,
		"pow":       stdlib.PowFunc,
		"replace":   stdlib.ReplaceFunc,
		"signum":    stdlib.SignumFunc,
		"sqrt":      SqrtFunc,
		"strlen":    stdlib.StrlenFunc,
		"substr":    stdlib.SubstrFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"upper":     stdlib.UpperFunc,
	}
}

// FunctionNames returns the names of Functions, sorted.
func FunctionNames() []string {
	names := make([]string, 0, len(Functions()))
	for name := range Functions() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
