package automaton_test

import (
	"bytes"
	"testing"

	"github.com/corvidlab/frontendforge/internal/automaton"
	"github.com/corvidlab/frontendforge/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleNFA() *automaton.NFA {
	n := automaton.NewNFA()
	n.Start = 0
	n.AddTransition(0, 'a', 1)
	n.Finals.Add(1)
	n.TokenTypes[1] = "letter_a"
	return n
}

func Test_EpsilonClosure_NoEpsilons(t *testing.T) {
	n := simpleNFA()
	closure := n.EpsilonClosure(util.SetOf([]int{0}))
	assert.True(t, closure.Equal(util.SetOf([]int{0})))
}

func Test_ToDFA_SimpleNFA(t *testing.T) {
	n := simpleNFA()
	dfa := n.ToDFA()

	assert.Equal(t, 0, dfa.Start)
	require.Contains(t, dfa.Trans[0], rune('a'))
	next := dfa.Trans[0]['a']
	assert.True(t, dfa.Accept.Has(next))

	token, ok := dfa.ResolveToken(next)
	require.True(t, ok)
	assert.Equal(t, "letter_a", token)
}

func Test_Union_EarlierPatternWinsTies(t *testing.T) {
	first := automaton.NewNFA()
	first.Start = 0
	first.AddTransition(0, 'x', 1)
	first.Finals.Add(1)
	first.TokenTypes[1] = "keyword"

	second := automaton.NewNFA()
	second.Start = 0
	second.AddTransition(0, 'x', 1)
	second.Finals.Add(1)
	second.TokenTypes[1] = "identifier"

	merged := first.Union(second)
	dfa := merged.ToDFA()

	startClosure := dfa.Start
	next := dfa.Trans[startClosure]['x']
	token, ok := dfa.ResolveToken(next)
	require.True(t, ok)
	assert.Equal(t, "keyword", token, "earlier-listed pattern should win the tie")
}

func Test_MarshalParseText_RoundTrip(t *testing.T) {
	n := simpleNFA()
	dfa := n.ToDFA()

	var buf bytes.Buffer
	require.NoError(t, dfa.MarshalText(&buf))

	reloaded, err := automaton.ParseText(&buf)
	require.NoError(t, err)

	assert.Equal(t, dfa.NumStates, reloaded.NumStates)
	assert.Equal(t, dfa.Start, reloaded.Start)
	assert.True(t, dfa.Accept.Equal(reloaded.Accept))
}

func Test_ToTaggedNFA(t *testing.T) {
	n := simpleNFA()
	dfa := n.ToDFA()

	var buf bytes.Buffer
	require.NoError(t, dfa.MarshalText(&buf))
	reloaded, err := automaton.ParseText(&buf)
	require.NoError(t, err)

	tagged := reloaded.ToTaggedNFA("letter_a")
	assert.Equal(t, "letter_a", tagged.TokenTypes[reloaded.Accept.Elements()[0]])
}
