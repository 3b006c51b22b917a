package parse_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/grammar"
	"github.com/corvidlab/frontendforge/internal/lexrun"
	"github.com/corvidlab/frontendforge/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprGrammar = `
E ::= E + T | T
T ::= T * F | F
F ::= ( E ) | id
`

func mustTable(t *testing.T) *parse.Table {
	t.Helper()
	g, err := grammar.Load(exprGrammar)
	require.NoError(t, err)
	table, err := parse.NewTable(g, parse.Options{})
	require.NoError(t, err)
	return table
}

func tok(lexeme, kind string) lexrun.Token {
	return lexrun.Token{Lexeme: lexeme, Kind: kind}
}

func Test_NewTable_ClassicExprIsSLR1(t *testing.T) {
	table := mustTable(t)
	assert.Empty(t, table.Conflicts)
}

func Test_Driver_AcceptsValidExpression(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table)

	tokens := []lexrun.Token{
		tok("a", "id"), tok("+", "+"), tok("b", "id"), tok("*", "*"), tok("c", "id"),
	}
	result, err := driver.Run(tokens)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
}

func Test_Driver_RejectsInvalidExpression(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table)

	tokens := []lexrun.Token{tok("+", "+"), tok("a", "id")}
	_, err := driver.Run(tokens)
	assert.ErrorIs(t, err, fferrors.ErrParse)
}

func Test_Driver_LexicalErrorAbortsBeforeParsing(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table)

	tokens := []lexrun.Token{tok("?", lexrun.ErrorToken)}
	_, err := driver.Run(tokens)
	assert.ErrorIs(t, err, fferrors.ErrLexical)
}

func Test_Driver_PopulatesSymbolTable(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table)

	tokens := []lexrun.Token{tok("a", "id"), tok("+", "+"), tok("a", "id")}
	_, err := driver.Run(tokens)
	require.NoError(t, err)

	assert.Equal(t, 2, driver.SymbolTable().Len()) // "a" and "+" are distinct lexemes
}

func Test_NewTable_AmbiguousGrammarFailsByDefault(t *testing.T) {
	// the classic dangling-else style ambiguity: S -> if E then S | if E then S else S | other
	src := `
S ::= if E then S | if E then S else S | other
E ::= id
`
	g, err := grammar.Load(src)
	require.NoError(t, err)

	_, err = parse.NewTable(g, parse.Options{})
	assert.ErrorIs(t, err, fferrors.ErrAmbiguousGrammar)
}

func Test_NewTable_AmbiguousGrammarToleratedWhenAllowed(t *testing.T) {
	src := `
S ::= if E then S | if E then S else S | other
E ::= id
`
	g, err := grammar.Load(src)
	require.NoError(t, err)

	table, err := parse.NewTable(g, parse.Options{AllowAmbiguous: true})
	require.NoError(t, err)
	assert.NotEmpty(t, table.Conflicts)
}

// Test_Driver_AppliesLexerKindToGrammarTerminalAliasTable proves the driver
// bridges lexer-style kind names ("plus", "times", "lpar", "rpar") to the
// grammar's literal-symbol terminals before every ACTION/GOTO lookup, rather
// than relying on the grammar and lexer agreeing on names (see
// internal/parse/alias.go).
func Test_Driver_AppliesLexerKindToGrammarTerminalAliasTable(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table)

	tokens := []lexrun.Token{
		tok("a", "id"), tok("+", "plus"), tok("b", "id"), tok("*", "times"), tok("c", "id"),
	}
	result, err := driver.Run(tokens)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
}

func Test_WithParseTree_BuildsTree(t *testing.T) {
	table := mustTable(t)
	driver := parse.NewDriver(table, parse.WithParseTree())

	tokens := []lexrun.Token{tok("a", "id")}
	result, err := driver.Run(tokens)
	require.NoError(t, err)
	require.NotNil(t, result.Tree)
}
