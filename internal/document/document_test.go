package document

import (
	"testing"

	"github.com/specialistvlad/dictcheck/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestTriple_For(t *testing.T) {
	tr := Triple{Flow: 1, Line: 2, Project: 3}
	assert.Equal(t, DocID(1), tr.For(model.ScopeFlow))
	assert.Equal(t, DocID(2), tr.For(model.ScopeLine))
	assert.Equal(t, DocID(3), tr.For(model.ScopeProject))
	assert.Equal(t, NoDoc, tr.For(model.Scope(7)))
}
