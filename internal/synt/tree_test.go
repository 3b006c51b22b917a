package synt_test

import (
	"testing"

	"github.com/corvidlab/frontendforge/internal/regex"
	"github.com/corvidlab/frontendforge/internal/synt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildTree_SingleChar(t *testing.T) {
	postfix, err := regex.Compile("a")
	require.NoError(t, err)

	tree, err := synt.BuildTree(postfix)
	require.NoError(t, err)

	assert.Len(t, tree.LeafPositions, 2) // 'a' and the end marker
	assert.False(t, tree.Root.Nullable())
	assert.Equal(t, 1, tree.Followpos[1].Len()) // followpos('a') = {endmarker position}
}

func Test_BuildTree_MalformedPostfix(t *testing.T) {
	// a lone binary operator with no operands is malformed
	bad := []regex.Token{{Kind: regex.KindOperator, Value: '.'}}
	_, err := synt.BuildTree(bad)
	assert.Error(t, err)
}

func Test_Followpos_StarSelfLoop(t *testing.T) {
	// (a)* should have followpos(pos of 'a') include itself
	postfix, err := regex.Compile("a*")
	require.NoError(t, err)

	tree, err := synt.BuildTree(postfix)
	require.NoError(t, err)

	var aPos int
	for pos, leaf := range tree.LeafPositions {
		if !leaf.IsEnd {
			aPos = pos
		}
	}
	assert.True(t, tree.Followpos[aPos].Has(aPos))
}

func Test_BuildDFA_AcceptsExpectedStrings(t *testing.T) {
	// classic dragon book example: (a|b)*abb
	postfix, err := regex.Compile("(a|b)*abb")
	require.NoError(t, err)

	tree, err := synt.BuildTree(postfix)
	require.NoError(t, err)

	dfa := tree.BuildDFA()
	assert.Greater(t, dfa.NumStates, 1)
	assert.False(t, dfa.Accept.Empty())
}
