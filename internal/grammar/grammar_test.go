package grammar_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprGrammar = `
E ::= E + T | T
T ::= T * F | F
F ::= ( E ) | id
`

func Test_Load_InfersTerminalsAndStart(t *testing.T) {
	g, err := grammar.Load(exprGrammar)
	require.NoError(t, err)

	assert.Equal(t, "E", g.StartSymbol)
	assert.True(t, g.IsTerminal("+"))
	assert.True(t, g.IsTerminal("id"))
	assert.True(t, g.IsNonTerminal("T"))
	assert.False(t, g.IsNonTerminal("id"))
}

func Test_Load_MissingSeparator(t *testing.T) {
	_, err := grammar.Load("E E")
	assert.Error(t, err)
}

func Test_Validate_UndefinedSymbol(t *testing.T) {
	g := grammar.New()
	g.AddRule("S", [][]string{{"a", "B"}})
	g.AddTerm("a")
	// B is referenced but never defined as a non-terminal or terminal
	err := g.Validate()
	assert.Error(t, err)
}

func Test_First_ClassicExpr(t *testing.T) {
	g, err := grammar.Load(exprGrammar)
	require.NoError(t, err)

	first := grammar.First(g)
	assert.True(t, first["F"].Has("("))
	assert.True(t, first["F"].Has("id"))
	assert.True(t, first["E"].Has("("))
	assert.True(t, first["E"].Has("id"))
	assert.False(t, first["E"].Has(grammar.Epsilon))
}

func Test_Follow_ClassicExpr(t *testing.T) {
	g, err := grammar.Load(exprGrammar)
	require.NoError(t, err)

	first := grammar.First(g)
	follow := grammar.Follow(g, first)

	assert.True(t, follow["E"].Has(grammar.EndOfInput))
	assert.True(t, follow["E"].Has(")"))
	assert.True(t, follow["E"].Has("+"))
	assert.True(t, follow["T"].Has("+"))
	assert.True(t, follow["T"].Has("*"))
	assert.True(t, follow["F"].Has("*"))
}

func Test_BuildCanonicalCollection_HasAugmentedStart(t *testing.T) {
	g, err := grammar.Load(exprGrammar)
	require.NoError(t, err)

	cc := grammar.BuildCanonicalCollection(g)
	assert.Equal(t, "E'", cc.Augmented.StartSymbol)
	assert.GreaterOrEqual(t, len(cc.States), 1)
	assert.NotEmpty(t, cc.Transitions[0])
}
