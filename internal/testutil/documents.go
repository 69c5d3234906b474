package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/inmemorydoc"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// Documents is an in-memory project, line and flow ready to be bound to a
// validator.
type Documents struct {
	t      *testing.T
	Store  *inmemorydoc.Store
	Triple document.Triple
}

// NewDocuments creates one empty document per scope.
func NewDocuments(t *testing.T) *Documents {
	t.Helper()

	s := inmemorydoc.New()
	return &Documents{
		t:     t,
		Store: s,
		Triple: document.Triple{
			Flow:    s.NewDocument(model.ScopeFlow, "flow"),
			Line:    s.NewDocument(model.ScopeLine, "line"),
			Project: s.NewDocument(model.ScopeProject, "project"),
		},
	}
}

// Var appends a dictionary variable to the document bound at scope.
func (d *Documents) Var(scope model.Scope, typ model.VarType, name, value string) document.Handle {
	d.t.Helper()
	h, err := d.Store.AppendDictionaryEntry(d.Triple.For(scope), typ, name, value)
	require.NoError(d.t, err)
	return h
}

// Iter appends the loop variable to the flow.
func (d *Documents) Iter(value, step, count string) document.Handle {
	d.t.Helper()
	h := d.Var(model.ScopeFlow, model.TypeInt, model.IterName, value)
	require.NoError(d.t, d.Store.SetIteration(h, step, count))
	return h
}

// Param appends an ordinary program parameter to the flow.
func (d *Documents) Param(typ model.VarType, keyword, value string, required bool) document.Handle {
	d.t.Helper()
	h, err := d.Store.AddParameter(d.Triple.Flow, typ, keyword, value, required)
	require.NoError(d.t, err)
	return h
}
