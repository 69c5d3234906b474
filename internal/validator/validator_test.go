package validator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/testutil"
)

// setup binds a fresh validator to the documents built by fill.
func setup(t *testing.T, fill func(d *testutil.Documents)) (*Validator, *testutil.Documents) {
	t.Helper()
	d := testutil.NewDocuments(t)
	if fill != nil {
		fill(d)
	}
	ctx, _ := testutil.Context(t)
	return New(ctx, d.Store, d.Triple), d
}

func TestInsertRemove_RoundTrip(t *testing.T) {
	v, d := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeInt, "base", "10")
	})
	before := v.Len()

	h := d.Var(model.ScopeFlow, model.TypeInt, "x", "base + other")
	require.Equal(t, model.KindUndefinedVariable, model.KindOf(v.Insert(h)))
	assert.Equal(t, before+2, v.Len(), "x and the bare record of other")

	v.Remove(h)
	assert.Equal(t, before, v.Len())
}

func TestChangeValue_SelfReference(t *testing.T) {
	for _, tc := range []struct {
		name string
		typ  model.VarType
		text string
	}{
		{name: "x", typ: model.TypeInt, text: "x + 1"},
		{name: "y_1", typ: model.TypeFloat, text: "max(1, y_1)"},
		{name: "label", typ: model.TypeString, text: "[label]!"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, d := setup(t, nil)
			h := d.Var(model.ScopeFlow, tc.typ, tc.name, "1")
			require.NoError(t, v.Insert(h))

			err := v.ChangeValue(h, tc.text)
			require.Equal(t, model.KindSelfReference, model.KindOf(err))
			assert.Equal(t, model.KindSelfReference, model.KindOf(v.ValidateParam(h)))
			assert.Equal(t, tc.text, d.Store.Value(h), "invalid values are still stored")
		})
	}
}

func TestShadowing(t *testing.T) {
	var flowY, lineZ document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeInt, "x", "1")
		lineZ = d.Var(model.ScopeLine, model.TypeInt, "z", "x")
		d.Var(model.ScopeFlow, model.TypeInt, "x", "2")
		flowY = d.Var(model.ScopeFlow, model.TypeInt, "y", "x * 10")
	})

	got, err := v.Evaluate(flowY, nil)
	require.NoError(t, err)
	assert.Equal(t, "20", got)

	got, err = v.Evaluate(lineZ, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", got, "line scope does not see the flow definition")
}

func TestIndirectBreakage(t *testing.T) {
	var a, b document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		b = d.Var(model.ScopeFlow, model.TypeInt, "b", "1")
		a = d.Var(model.ScopeFlow, model.TypeInt, "a", "b + 1")
	})
	require.NoError(t, v.ValidateParam(a))

	require.Equal(t, model.KindSyntax, model.KindOf(v.ChangeValue(b, "1 +")))

	err := v.ValidateParam(a)
	require.Equal(t, model.KindBadReference, model.KindOf(err))
	assert.ErrorIs(t, err, model.ErrSyntax, "root cause is kept in the chain")
	assert.Equal(t, "b + 1", d.Store.Value(a))
	assert.Equal(t, model.KindSyntax, model.KindOf(v.ValidateParam(b)), "b keeps its own error")

	require.NoError(t, v.ChangeValue(b, "2"))
	assert.NoError(t, v.ValidateParam(a), "fixing b repairs a")
}

func TestTypeMismatch(t *testing.T) {
	for _, typ := range []model.VarType{model.TypeInt, model.TypeFloat} {
		t.Run(typ.String(), func(t *testing.T) {
			var n document.Handle
			v, _ := setup(t, func(d *testutil.Documents) {
				d.Var(model.ScopeProject, model.TypeString, "s", "hello")
				n = d.Var(model.ScopeFlow, typ, "n", "s + 1")
			})
			assert.Equal(t, model.KindTypeMismatch, model.KindOf(v.ValidateParam(n)))
		})
	}
}

func TestUndefinedReference(t *testing.T) {
	var x document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		x = d.Var(model.ScopeFlow, model.TypeInt, "x", "nope * 2")
	})
	err := v.ValidateParam(x)
	require.Error(t, err)
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(err))
	assert.Contains(t, err.Error(), `"nope"`)

	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "x", ve.Variable)
}

func TestDefinitionFixesDependents(t *testing.T) {
	var a document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		a = d.Var(model.ScopeFlow, model.TypeInt, "a", "b * 2")
	})
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(a)))

	b := d.Var(model.ScopeProject, model.TypeInt, "b", "4")
	require.NoError(t, v.Insert(b))
	assert.NoError(t, v.ValidateParam(a))

	v.Remove(b)
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(a)))
}

func TestChangeValue_RefreshesSameNameAtOtherScope(t *testing.T) {
	var projectA, flowA document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		projectA = d.Var(model.ScopeProject, model.TypeInt, "a", "1")
		d.Var(model.ScopeProject, model.TypeInt, "b", "a + 1")
		flowA = d.Var(model.ScopeFlow, model.TypeInt, "a", "b * 2")
	})
	require.NoError(t, v.ValidateParam(flowA))

	require.Error(t, v.ChangeValue(projectA, "1 +"))
	assert.Equal(t, model.KindBadReference, model.KindOf(v.ValidateParam(flowA)), "flow a reaches project a through b")

	require.NoError(t, v.ChangeValue(projectA, "1"))
	require.NoError(t, v.ValidateParam(flowA))
	got, err := v.Evaluate(flowA, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", got)
}

func TestForwardReference(t *testing.T) {
	var a, b document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		a = d.Var(model.ScopeFlow, model.TypeInt, "a", "b")
		b = d.Var(model.ScopeFlow, model.TypeInt, "b", "1")
	})
	err := v.ValidateParam(a)
	require.Equal(t, model.KindUndefinedVariable, model.KindOf(err))
	assert.Contains(t, err.Error(), "not yet defined")
	assert.NoError(t, v.ValidateParam(b))
}

func TestMutualReferenceTerminates(t *testing.T) {
	var a, b document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		a = d.Var(model.ScopeFlow, model.TypeInt, "a", "b")
		b = d.Var(model.ScopeFlow, model.TypeInt, "b", "a")
	})
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(a)))
	assert.Equal(t, model.KindBadReference, model.KindOf(v.ValidateParam(b)))
	assert.True(t, v.CheckUsingVar("a", model.ScopeFlow, "b"))
}

func TestChangeValue_Idempotent(t *testing.T) {
	var x document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeString, "s", "text")
		x = d.Var(model.ScopeFlow, model.TypeInt, "x", "1")
	})

	type state struct {
		Err  string
		Deps []string
		Len  int
	}
	snapshot := func(err error) state {
		rec, _ := v.vars.Lookup("x")
		st := state{Deps: rec.DepNames(model.ScopeFlow), Len: v.Len()}
		if err != nil {
			st.Err = err.Error()
		}
		return st
	}

	for _, text := range []string{"s + ghost", "2 * 3", "1 +"} {
		first := snapshot(v.ChangeValue(x, text))
		second := snapshot(v.ChangeValue(x, text))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("state drifted for %q (-first +second):\n%s", text, diff)
		}
	}
}

func TestRemove_ReferencedRecordSurvives(t *testing.T) {
	var y, z document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		y = d.Var(model.ScopeFlow, model.TypeInt, "y", "1")
		z = d.Var(model.ScopeFlow, model.TypeInt, "z", "y + 1")
	})

	v.Remove(y)
	_, ok := v.vars.Lookup("y")
	require.True(t, ok, "y is kept alive by z")
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(z)))

	require.NoError(t, v.ChangeValue(z, "2"))
	_, ok = v.vars.Lookup("y")
	assert.False(t, ok, "y goes away once nothing references it")
}

func TestInsert_InvalidName(t *testing.T) {
	for _, name := range []string{"Foo", "1x", "a-b", ""} {
		t.Run(name, func(t *testing.T) {
			v, d := setup(t, nil)
			h := d.Var(model.ScopeFlow, model.TypeInt, name, "1")
			assert.Equal(t, model.KindInvalidName, model.KindOf(v.Insert(h)))
			assert.Equal(t, model.KindInvalidName, model.KindOf(v.ValidateParam(h)))
		})
	}
}

func TestInsert_EmptyValue(t *testing.T) {
	v, d := setup(t, nil)
	h := d.Var(model.ScopeFlow, model.TypeInt, "x", "")
	assert.Equal(t, model.KindEmptyRequiredValue, model.KindOf(v.Insert(h)))

	got, err := v.Evaluate(h, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsert_DuplicateReplaces(t *testing.T) {
	v, d := setup(t, nil)
	first := d.Var(model.ScopeFlow, model.TypeInt, "x", "1")
	require.NoError(t, v.Insert(first))
	second := d.Var(model.ScopeFlow, model.TypeInt, "x", "2")
	require.NoError(t, v.Insert(second))

	assert.Equal(t, []document.Handle{second}, v.vars.Order(model.ScopeFlow))
	got, err := v.EvaluateExpr("x", model.TypeInt, model.ScopeFlow, nil)
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	v.Remove(first)
	assert.Equal(t, []document.Handle{second}, v.vars.Order(model.ScopeFlow), "stale handle is ignored")
}

func TestRename(t *testing.T) {
	var a, b, c document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		a = d.Var(model.ScopeFlow, model.TypeInt, "a", "1")
		b = d.Var(model.ScopeFlow, model.TypeInt, "b", "2")
		c = d.Var(model.ScopeFlow, model.TypeInt, "c", "a + b")
	})
	weightOf := func(name string) float64 {
		rec, _ := v.vars.Lookup(name)
		return rec.Weights[model.ScopeFlow]
	}

	require.ErrorIs(t, v.Rename(a, "a"), ErrSameName)

	require.NoError(t, v.Rename(a, "first"))
	assert.Equal(t, "first", d.Store.Name(a))
	assert.Equal(t, []document.Handle{a, b, c}, v.vars.Order(model.ScopeFlow), "rename keeps the position")
	assert.Less(t, weightOf("first"), weightOf("b"))
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(c)))

	require.NoError(t, v.Rename(a, "a"))
	assert.NoError(t, v.ValidateParam(c))
}

func TestValidateParam_ProgramParameters(t *testing.T) {
	var ok, broken, empty, optional document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeFlow, model.TypeInt, "x", "3")
		ok = d.Param(model.TypeInt, "-n", "x * 2", true)
		broken = d.Param(model.TypeInt, "-m", "y * 2", false)
		empty = d.Param(model.TypeString, "-o", "", true)
		optional = d.Param(model.TypeString, "-q", "", false)
	})

	assert.NoError(t, v.ValidateParam(ok))
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(broken)))
	assert.Equal(t, model.KindEmptyRequiredValue, model.KindOf(v.ValidateParam(empty)))
	assert.NoError(t, v.ValidateParam(optional))

	got, err := v.Evaluate(ok, nil)
	require.NoError(t, err)
	assert.Equal(t, "6", got)
}

func TestValidateExpr(t *testing.T) {
	v, _ := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeString, "name", "bob")
		d.Var(model.ScopeFlow, model.TypeInt, "n", "3")
	})

	assert.NoError(t, v.ValidateExpr("n * 2", model.TypeInt))
	assert.NoError(t, v.ValidateExpr("Hi [name], [n] times", model.TypeString))
	assert.NoError(t, v.ValidateExpr("", model.TypeInt))
	assert.Equal(t, model.KindSyntax, model.KindOf(v.ValidateExpr("n *", model.TypeInt)))
	assert.Equal(t, model.KindTypeMismatch, model.KindOf(v.ValidateExpr("name + 1", model.TypeInt)))
	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateExpr("[ghost]", model.TypeString)))
	assert.NoError(t, v.ValidateExpr("anything ][", model.TypeEnum))
}

func TestCheckUsing(t *testing.T) {
	v, _ := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeInt, "a", "1")
		d.Var(model.ScopeLine, model.TypeInt, "b", "a * 2")
		d.Var(model.ScopeFlow, model.TypeInt, "c", "b + 1")
	})

	assert.True(t, v.CheckUsingVar("c", model.ScopeFlow, "a"))
	assert.True(t, v.CheckUsingVar("a", model.ScopeProject, "a"))
	assert.False(t, v.CheckUsingVar("a", model.ScopeProject, "c"))
	assert.True(t, v.ExpressionCheckUsingVar("c * 2", model.TypeInt, model.ScopeFlow, "a"))
	assert.True(t, v.ExpressionCheckUsingVar("[b]", model.TypeString, model.ScopeFlow, "a"))
	assert.False(t, v.ExpressionCheckUsingVar("7", model.TypeInt, model.ScopeFlow, "a"))
}

func TestAffected(t *testing.T) {
	var a, b, c, other document.Handle
	v, _ := setup(t, func(d *testutil.Documents) {
		a = d.Var(model.ScopeProject, model.TypeInt, "a", "1")
		b = d.Var(model.ScopeLine, model.TypeInt, "b", "a * 2")
		c = d.Var(model.ScopeFlow, model.TypeInt, "c", "b + a")
		other = d.Var(model.ScopeFlow, model.TypeInt, "other", "5")
	})
	assert.Equal(t, []document.Handle{b, c}, v.Affected(a))
	assert.Empty(t, v.Affected(other))
}
