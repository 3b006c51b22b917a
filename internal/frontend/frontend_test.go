package frontend_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/frontend"
	"github.com/corvidlab/frontendforge/internal/lexrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regexDefs names its operator patterns after what they match ("plus",
// "times", "lpar", "rpar"), while exprGrammar is written with the literal
// symbols as terminals — the mismatch the driver's alias table exists to
// bridge (see internal/parse/alias.go).
const regexDefs = `
id: [a-z][a-z0-9]*
plus: \+
times: \*
lpar: \(
rpar: \)
`

const exprGrammar = `
E ::= E + T | T
T ::= T * F | F
F ::= ( E ) | id
`

func Test_Frontend_CompileTokenizeParse_EndToEnd(t *testing.T) {
	fe := frontend.New(regexDefs, exprGrammar, frontend.Options{})

	result, err := fe.Compile()
	require.NoError(t, err)
	assert.Empty(t, result.AmbiguityWarnings)
	assert.Greater(t, result.DFA.NumStates, 1)
	assert.NotEmpty(t, result.TraceID)

	tokens, err := fe.Tokenize("a1+b*c")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "id", tokens[0].Kind)
	assert.Equal(t, "plus", tokens[1].Kind)

	parseResult, symbols, err := fe.Run("a1+b*c")
	require.NoError(t, err)
	assert.True(t, parseResult.Accepted)
	assert.Equal(t, 5, symbols.Len())
}

// Test_Frontend_AliasTableBridgesLexerKindsToGrammarTerminals is the spec's
// S1/S3/S4 scenario verbatim: S1's regexes named plus/times/lpar/rpar
// tokenizing against S3's grammar of literal +/*/(/) terminals.
func Test_Frontend_AliasTableBridgesLexerKindsToGrammarTerminals(t *testing.T) {
	fe := frontend.New(regexDefs, exprGrammar, frontend.Options{})

	tokens, err := fe.Tokenize("a1+b*(c)")
	require.NoError(t, err)
	require.Len(t, tokens, 7)
	assert.Equal(t, []string{"id", "plus", "id", "times", "lpar", "id", "rpar"}, kindsOf(tokens))

	result, symbols, err := fe.Run("a1+b*(c)")
	require.NoError(t, err)
	assert.True(t, result.Accepted)

	for _, lexeme := range []string{"a1", "b", "c"} {
		entry, ok := symbols.Lookup(lexeme)
		require.True(t, ok, "expected %q to be interned", lexeme)
		assert.Equal(t, "ID", entry.Category)
	}
}

func kindsOf(tokens []lexrun.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func Test_Frontend_RejectsLexicalError(t *testing.T) {
	fe := frontend.New(regexDefs, exprGrammar, frontend.Options{})

	_, _, err := fe.Run("a1#b")
	assert.Error(t, err)
}

func Test_Frontend_CompileIsCachedAndConcurrencySafe(t *testing.T) {
	fe := frontend.New(regexDefs, exprGrammar, frontend.Options{})

	first, err := fe.Compile()
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			r, err := fe.Compile()
			assert.NoError(t, err)
			assert.Same(t, first, r)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
