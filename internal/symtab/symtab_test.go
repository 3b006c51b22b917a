package symtab_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Intern_AssignsSequentialIndices(t *testing.T) {
	tbl := symtab.New()

	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	aAgain := tbl.Intern("foo")

	assert.Equal(t, 1, a.Index)
	assert.Equal(t, 2, b.Index)
	assert.Equal(t, a, aAgain)
	assert.Equal(t, 2, tbl.Len())
}

func Test_Intern_ReservedWordCategory(t *testing.T) {
	tbl := symtab.New(symtab.WithCategoryOverrides(map[string]string{"if": "PR"}))

	e := tbl.Intern("if")
	assert.Equal(t, "PR", e.Category)

	id := tbl.Intern("x")
	assert.Equal(t, symtab.DefaultIdentifierCategory, id.Category)
}

func Test_Lookup_MissingLexeme(t *testing.T) {
	tbl := symtab.New()
	_, ok := tbl.Lookup("nope")
	assert.False(t, ok)
}

func Test_String_ListsInInsertionOrder(t *testing.T) {
	tbl := symtab.New()
	tbl.Intern("b")
	tbl.Intern("a")

	out := tbl.String()
	require.Contains(t, out, "1: b")
	require.Contains(t, out, "2: a")
}
