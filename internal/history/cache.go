package history

import (
	"os"
	"path/filepath"

	"github.com/corvidlab/frontendforge/internal/automaton"
	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/util"
	"github.com/dekarrin/rezi"
)

// ArtifactCache is an on-disk rezi-encoded cache of compiled DFA
// transition tables, each stored under a key chosen by the caller. No
// command in this module uses it.
type ArtifactCache struct {
	dir string
}

// cachedDFA is the serializable snapshot of an automaton.DFA cached to
// disk; only exported, rezi-friendly fields are kept. Origins and
// TokenTypes are dropped, so a restored DFA cannot resolve which token
// an accepting state stands for.
type cachedDFA struct {
	NumStates int
	Start     int
	Accept    []int
	Alphabet  []int32
	Trans     []cachedTransition
}

type cachedTransition struct {
	Src, Dst int
	Symbol   int32
}

// NewArtifactCache returns a cache rooted at dir, creating it if missing.
func NewArtifactCache(dir string) (*ArtifactCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fferrors.New("creating artifact cache directory", err)
	}
	return &ArtifactCache{dir: dir}, nil
}

func (c *ArtifactCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".dfa.rezi")
}

// StoreDFA encodes a snapshot of dfa under key.
func (c *ArtifactCache) StoreDFA(key string, dfa *automaton.DFA) error {
	snap := toCachedDFA(dfa)
	data := rezi.EncBinary(snap)
	if err := os.WriteFile(c.pathFor(key), data, 0o644); err != nil {
		return fferrors.New("writing cached artifact", err)
	}
	return nil
}

// LoadDFA decodes a previously stored DFA snapshot, returning
// fferrors.ErrNotFound if key has no cache entry. The returned DFA has no
// Origins/TokenTypes: its ResolveToken always reports false, so
// lexrun.Scan over it finds lexeme boundaries but gives every lexeme the
// kind lexrun.ErrorToken.
func (c *ArtifactCache) LoadDFA(key string) (*automaton.DFA, error) {
	data, readErr := os.ReadFile(c.pathFor(key))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, fferrors.New("no cached artifact for key", fferrors.ErrNotFound)
		}
		return nil, fferrors.New("reading cached artifact", readErr)
	}

	var snap cachedDFA
	if _, decErr := rezi.DecBinary(data, &snap); decErr != nil {
		return nil, fferrors.New("decoding cached artifact", decErr)
	}
	return fromCachedDFA(snap), nil
}

func toCachedDFA(dfa *automaton.DFA) cachedDFA {
	snap := cachedDFA{
		NumStates: dfa.NumStates,
		Start:     dfa.Start,
		Accept:    dfa.Accept.Elements(),
	}
	for r := range dfa.Alphabet {
		snap.Alphabet = append(snap.Alphabet, int32(r))
	}
	for src, bySym := range dfa.Trans {
		for sym, dst := range bySym {
			snap.Trans = append(snap.Trans, cachedTransition{Src: src, Dst: dst, Symbol: int32(sym)})
		}
	}
	return snap
}

func fromCachedDFA(snap cachedDFA) *automaton.DFA {
	dfa := &automaton.DFA{
		NumStates: snap.NumStates,
		Start:     snap.Start,
		Accept:    util.SetOf(snap.Accept),
		Alphabet:  util.Set[rune]{},
		Trans:     map[int]map[rune]int{},
	}
	for _, r := range snap.Alphabet {
		dfa.Alphabet.Add(rune(r))
	}
	for _, t := range snap.Trans {
		if dfa.Trans[t.Src] == nil {
			dfa.Trans[t.Src] = map[rune]int{}
		}
		dfa.Trans[t.Src][rune(t.Symbol)] = t.Dst
	}
	return dfa
}
