package lexrun_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/automaton"
	"github.com/corvidlab/frontendforge/internal/lexrun"
	"github.com/corvidlab/frontendforge/internal/regex"
	"github.com/corvidlab/frontendforge/internal/synt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCombinedDFA(t *testing.T, defs map[string]string) *automaton.DFA {
	t.Helper()

	var unioned *automaton.NFA
	for _, name := range []string{"id", "plus"} {
		pattern, ok := defs[name]
		if !ok {
			continue
		}
		postfix, err := regex.Compile(pattern)
		require.NoError(t, err)
		tree, err := synt.BuildTree(postfix)
		require.NoError(t, err)
		tagged := tree.BuildDFA().ToTaggedNFA(name)
		if unioned == nil {
			unioned = tagged
		} else {
			unioned = unioned.Union(tagged)
		}
	}
	return unioned.ToDFA()
}

func Test_Scan_LongestMatch(t *testing.T) {
	dfa := buildCombinedDFA(t, map[string]string{
		"id":   "[a-z][a-z0-9]*",
		"plus": "\\+",
	})

	tokens := lexrun.Scan(dfa, "abc+d12")
	require.Len(t, tokens, 3)
	assert.Equal(t, lexrun.Token{Lexeme: "abc", Kind: "id"}, tokens[0])
	assert.Equal(t, lexrun.Token{Lexeme: "+", Kind: "plus"}, tokens[1])
	assert.Equal(t, lexrun.Token{Lexeme: "d12", Kind: "id"}, tokens[2])
}

func Test_Scan_ErrorRecovery(t *testing.T) {
	dfa := buildCombinedDFA(t, map[string]string{
		"id": "[a-z]+",
	})

	tokens := lexrun.Scan(dfa, "ab#cd")
	require.Len(t, tokens, 3)
	assert.Equal(t, "ab", tokens[0].Lexeme)
	assert.Equal(t, lexrun.ErrorToken, tokens[1].Kind)
	assert.Equal(t, "#", tokens[1].Lexeme)
	assert.Equal(t, "cd", tokens[2].Lexeme)
	assert.True(t, lexrun.HasErrors(tokens))
}
