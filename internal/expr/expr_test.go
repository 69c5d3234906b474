package expr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/dictcheck/internal/model"
)

func TestSelect(t *testing.T) {
	tests := map[model.VarType]Kind{
		model.TypeInt:    KindArithmetic,
		model.TypeFloat:  KindArithmetic,
		model.TypeRange:  KindArithmetic,
		model.TypeString: KindString,
		model.TypeFile:   KindString,
		model.TypeFlag:   KindNone,
		model.TypeEnum:   KindNone,
		model.TypeGroup:  KindNone,
	}
	for typ, want := range tests {
		assert.Equal(t, want, Select(typ), typ.String())
	}
}

func TestArithmetic_Validate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{name: "plain arithmetic", text: "1 + 2 * (3 - 4)"},
		{name: "functions", text: "max(a, b) + sqrt(c) + abs(-1)"},
		{name: "undefined names are fine", text: "nobody_defined_this * 2"},
		{name: "dangling operator", text: "a +", wantErr: "expression"},
		{name: "unknown function", text: "launch(1)", wantErr: `no function named "launch"`},
		{name: "attribute access", text: "a.b + 1", wantErr: `"a.b" must be a plain variable name`},
		{name: "minus without spaces", text: "a-b", wantErr: `"a - b"`},
	}

	arith := NewArithmetic()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := arith.Validate(tc.text)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestArithmetic_Variables(t *testing.T) {
	arith := NewArithmetic()
	assert.Equal(t, []string{"a", "b", "c"}, arith.Variables("a + b * max(a, c)"))
	assert.Empty(t, arith.Variables("1 + 2"))
}

func TestAdapter_Evaluate(t *testing.T) {
	vars := map[string]cty.Value{
		"x":    cty.NumberIntVal(2),
		"name": cty.StringVal("bob"),
	}
	tests := []struct {
		name string
		text string
		typ  model.VarType
		want string
	}{
		{name: "int truncates", text: "7 / 2", typ: model.TypeInt, want: "3"},
		{name: "negative int truncates toward zero", text: "-7 / 2", typ: model.TypeInt, want: "-3"},
		{name: "float keeps fraction", text: "7 / 2", typ: model.TypeFloat, want: "3.5"},
		{name: "integral float", text: "2 * 3", typ: model.TypeFloat, want: "6"},
		{name: "sqrt", text: "sqrt(16)", typ: model.TypeFloat, want: "4"},
		{name: "binding", text: "x * 10", typ: model.TypeRange, want: "20"},
		{name: "template", text: "Total: [x + 1] units", typ: model.TypeString, want: "Total: 3 units"},
		{name: "template function", text: "[upper(name)]!", typ: model.TypeString, want: "BOB!"},
		{name: "escaped bracket", text: "[[x] and [x]", typ: model.TypeFile, want: "[x] and 2"},
		{name: "lone closing bracket", text: "a]b", typ: model.TypeString, want: "a]b"},
		{name: "fractional template", text: "[x / 8]", typ: model.TypeString, want: "0.25"},
		{name: "opaque type", text: "yes", typ: model.TypeFlag, want: "yes"},
	}

	a := Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Evaluate(tc.text, tc.typ, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAdapter_EvaluateUnknownVariable(t *testing.T) {
	_, err := Default().Evaluate("ghost + 1", model.TypeInt, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown variable")
}

func TestTemplate_Validate(t *testing.T) {
	tmpl := NewTemplate()

	require.NoError(t, tmpl.Validate("no brackets at all"))
	require.NoError(t, tmpl.Validate("[[literal]"))
	require.NoError(t, tmpl.Validate("[a] [b + 1]"))

	err := tmpl.Validate("value [a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unclosed interpolation")

	err = tmpl.Validate("value [ ]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Empty interpolation")

	err = tmpl.Validate("[nope(1)]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown function")
}

func TestTemplate_Variables(t *testing.T) {
	tmpl := NewTemplate()
	assert.Equal(t, []string{"n", "name"}, tmpl.Variables("Hi [name], [upper(name)] [n*2] [[skip]"))
	assert.Equal(t, []string{"a"}, tmpl.Variables("[a] [b"), "names before a syntax error are still reported")
}

func TestAdapter_OpaqueTypes(t *testing.T) {
	a := Default()
	assert.NoError(t, a.Validate("][ not an expression", model.TypeEnum))
	assert.Empty(t, a.VariableNames("a + b", model.TypeGroup))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    cty.Value
		typ  model.VarType
		want string
	}{
		{name: "int truncation", v: cty.NumberFloatVal(-2.7), typ: model.TypeInt, want: "-2"},
		{name: "float", v: cty.NumberFloatVal(2.5), typ: model.TypeFloat, want: "2.5"},
		{name: "large integral float", v: cty.NumberFloatVal(1e21), typ: model.TypeFloat, want: "1000000000000000000000"},
		{name: "infinity", v: cty.PositiveInfinity, typ: model.TypeInt, want: "+Inf"},
		{name: "string", v: cty.StringVal("abc"), typ: model.TypeString, want: "abc"},
		{name: "bool", v: cty.True, typ: model.TypeString, want: "true"},
		{name: "null", v: cty.NullVal(cty.Number), typ: model.TypeInt, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Format(tc.v, tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(cty.NumberFloatVal(2.9), model.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, 0, v.AsBigFloat().Cmp(big.NewFloat(2)))

	v, err = Coerce(cty.StringVal("4.5"), model.TypeFloat)
	require.NoError(t, err)
	assert.True(t, v.Equals(cty.NumberFloatVal(4.5)).True())

	v, err = Coerce(cty.NumberIntVal(7), model.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "7", v.AsString())

	_, err = Coerce(cty.StringVal("seven"), model.TypeInt)
	assert.Error(t, err)
}

func TestBindings(t *testing.T) {
	vars, err := Bindings(map[string]any{
		"n":    3,
		"s":    "text",
		"f":    1.5,
		"none": nil,
	})
	require.NoError(t, err)
	assert.True(t, vars["n"].Equals(cty.NumberIntVal(3)).True())
	assert.Equal(t, "text", vars["s"].AsString())
	assert.True(t, vars["none"].IsNull())

	got, err := Default().Evaluate("n * f", model.TypeFloat, vars)
	require.NoError(t, err)
	assert.Equal(t, "4.5", got)

	_, err = Bindings(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
