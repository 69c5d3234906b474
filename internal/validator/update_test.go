package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/specialistvlad/dictcheck/internal/testutil"
)

func TestUpdate_SwapFlow(t *testing.T) {
	var lineY document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeInt, "base", "1")
		d.Var(model.ScopeFlow, model.TypeInt, "speed", "base * 2")
		lineY = d.Var(model.ScopeLine, model.TypeInt, "y", "base")
	})

	flow2 := d.Store.NewDocument(model.ScopeFlow, "flow two")
	h, err := d.Store.AppendDictionaryEntry(flow2, model.TypeInt, "size", "base + 10")
	require.NoError(t, err)

	triple := d.Triple
	triple.Flow = flow2
	v.Update(triple)

	assert.Equal(t, triple, v.Documents())
	_, ok := v.vars.Lookup("speed")
	assert.False(t, ok, "old flow variables are gone")
	assert.Equal(t, []document.Handle{h}, v.vars.Order(model.ScopeFlow))
	assert.Equal(t, []document.Handle{lineY}, v.vars.Order(model.ScopeLine), "line is untouched")

	got, err := v.Evaluate(h, nil)
	require.NoError(t, err)
	assert.Equal(t, "11", got)
}

func TestUpdate_SwapProjectRebuilds(t *testing.T) {
	var flowX document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeProject, model.TypeInt, "base", "1")
		flowX = d.Var(model.ScopeFlow, model.TypeInt, "x", "base * 3")
	})

	project2 := d.Store.NewDocument(model.ScopeProject, "project two")
	_, err := d.Store.AppendDictionaryEntry(project2, model.TypeInt, "base", "5")
	require.NoError(t, err)

	triple := d.Triple
	triple.Project = project2
	v.Update(triple)

	got, err := v.Evaluate(flowX, nil)
	require.NoError(t, err)
	assert.Equal(t, "15", got)
}

func TestUpdate_UnbindLine(t *testing.T) {
	var flowX document.Handle
	v, d := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeLine, model.TypeInt, "base", "1")
		flowX = d.Var(model.ScopeFlow, model.TypeInt, "x", "base * 3")
	})
	require.NoError(t, v.ValidateParam(flowX))

	triple := d.Triple
	triple.Line = document.NoDoc
	v.Update(triple)

	assert.Equal(t, model.KindUndefinedVariable, model.KindOf(v.ValidateParam(flowX)))
	assert.Empty(t, v.vars.Order(model.ScopeLine))
}

func TestUpdate_NoChange(t *testing.T) {
	v, d := setup(t, func(d *testutil.Documents) {
		d.Var(model.ScopeFlow, model.TypeInt, "x", "1")
	})
	before := v.vars.Order(model.ScopeFlow)
	v.Update(d.Triple)
	assert.Equal(t, before, v.vars.Order(model.ScopeFlow))
}
