package expr

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/dictcheck/internal/model"
)

// Format returns the printable form of a value computed for a variable of
// type typ. Int values are truncated toward zero; other numbers print
// integral values without a fraction and everything else in the shortest
// exact form.
func Format(v cty.Value, typ model.VarType) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}

	if v.Type() == cty.Number {
		return formatNumber(v.AsBigFloat(), typ), nil
	}

	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot print %s value: %w", v.Type().FriendlyName(), err)
	}
	return s.AsString(), nil
}

func formatNumber(bf *big.Float, typ model.VarType) string {
	if bf.IsInf() {
		return bf.String()
	}
	if typ == model.TypeInt {
		i, _ := bf.Int(nil)
		return i.String()
	}
	if bf.IsInt() {
		return bf.Text('f', 0)
	}
	f, _ := bf.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Coerce converts a computed value to the representation bound for a
// variable of type typ: numbers for numeric types (truncated for Int),
// strings for textual types. Other values are returned as is.
func Coerce(v cty.Value, typ model.VarType) (cty.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return v, nil
	}
	switch {
	case typ.IsNumeric():
		n, err := convert.Convert(v, cty.Number)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s variable needs a number: %w", typ, err)
		}
		if typ == model.TypeInt && !n.AsBigFloat().IsInf() {
			i, _ := n.AsBigFloat().Int(nil)
			return cty.NumberVal(new(big.Float).SetInt(i)), nil
		}
		return n, nil
	case typ.IsText():
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s variable needs text: %w", typ, err)
		}
		return s, nil
	}
	return v, nil
}
