package regex_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseDefinitionLine(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		expect  regex.Definition
		wantErr bool
	}{
		{
			name:   "simple",
			line:   "id: [a-z][a-z0-9]*",
			expect: regex.Definition{Name: "id", Pattern: "[a-z][a-z0-9]*"},
		},
		{
			name:    "missing colon",
			line:    "id [a-z]*",
			wantErr: true,
		},
		{
			name:    "empty pattern",
			line:    "id:",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := regex.ParseDefinitionLine(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func Test_Tokenize_InsertsConcatenation(t *testing.T) {
	toks, err := regex.Tokenize("ab")
	require.NoError(t, err)

	require.Len(t, toks, 3)
	assert.Equal(t, regex.KindChar, toks[0].Kind)
	assert.Equal(t, regex.KindOperator, toks[1].Kind)
	assert.Equal(t, '.', toks[1].Value)
	assert.Equal(t, regex.KindChar, toks[2].Kind)
}

func Test_Tokenize_NoConcatBeforeUnary(t *testing.T) {
	toks, err := regex.Tokenize("a*")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, '*', toks[1].Value)
}

func Test_ToPostfix_SplicesEndMarker(t *testing.T) {
	toks, err := regex.Tokenize("a")
	require.NoError(t, err)
	postfix, err := regex.ToPostfix(toks)
	require.NoError(t, err)

	require.Len(t, postfix, 3)
	assert.Equal(t, regex.KindChar, postfix[0].Kind)
	assert.Equal(t, regex.KindEndMarker, postfix[1].Kind)
	assert.Equal(t, '.', postfix[2].Value)
}

func Test_ToPostfix_UnbalancedParens(t *testing.T) {
	toks, err := regex.Tokenize("(a")
	require.NoError(t, err)
	_, err = regex.ToPostfix(toks)
	assert.Error(t, err)
}

// Test_ToPostfix_OnlyStarGetsThePostfixTieBreak matches the original's
// to_postfix, which special-cases only '*' when an operator of equal
// precedence is already on top of the stack ("token != '*'" still pops for
// '+'/'?'). Adjacent postfix unary operators of different kinds therefore
// combine left-to-right like ordinary same-precedence operators, while a
// trailing '*' defers to the operator already on the stack.
func Test_ToPostfix_OnlyStarGetsThePostfixTieBreak(t *testing.T) {
	toks, err := regex.Tokenize("a?+")
	require.NoError(t, err)
	postfix, err := regex.ToPostfix(toks)
	require.NoError(t, err)

	// "a?+" pops '?' before pushing '+': postfix "a ? +" = (a?)+
	require.GreaterOrEqual(t, len(postfix), 3)
	assert.Equal(t, regex.KindChar, postfix[0].Kind)
	assert.Equal(t, '?', postfix[1].Value)
	assert.Equal(t, '+', postfix[2].Value)
}

func Test_ToPostfix_TrailingStarDefersToOperatorOnStack(t *testing.T) {
	toks, err := regex.Tokenize("a+*")
	require.NoError(t, err)
	postfix, err := regex.ToPostfix(toks)
	require.NoError(t, err)

	// "a+*" leaves '+' on the stack when '*' arrives: postfix "a * +" = (a*)+
	require.GreaterOrEqual(t, len(postfix), 3)
	assert.Equal(t, regex.KindChar, postfix[0].Kind)
	assert.Equal(t, '*', postfix[1].Value)
	assert.Equal(t, '+', postfix[2].Value)
}

func Test_Compile_CharacterClass(t *testing.T) {
	postfix, err := regex.Compile("[ab]")
	require.NoError(t, err)
	// expect a|b . #, i.e. 5 tokens: 'a' 'b' '|' '#' '.'
	assert.Equal(t, regex.KindChar, postfix[0].Kind)
	assert.Equal(t, regex.KindChar, postfix[1].Kind)
	assert.Equal(t, '|', postfix[2].Value)
	assert.Equal(t, regex.KindEndMarker, postfix[3].Kind)
	assert.Equal(t, '.', postfix[4].Value)
}
