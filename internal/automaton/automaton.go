// Package automaton holds the NFA and DFA data structures shared by the
// lexical analysis pipeline: the direct DFA produced per-pattern by
// internal/synt, the ε-free NFA produced by reloading that DFA and tagging
// it with a token kind, the ε-NFA union of all patterns, and the final DFA
// produced from that union by subset construction.
package automaton

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/util"
)

// Epsilon is the reserved transition symbol used for ε-moves in an NFA.
const Epsilon rune = 0

// NFA is a (possibly ε-) non-deterministic finite automaton over states
// numbered 0..N-1. Trans maps a state and input symbol to the set of
// states reachable on that symbol; Epsilon-keyed entries are ε-moves.
type NFA struct {
	States   util.Set[int]
	Start    int
	Finals   util.Set[int]
	Trans    map[int]map[rune]util.Set[int]
	Alphabet util.Set[rune]
	// TokenTypes maps a final state to the name of the pattern it accepts.
	TokenTypes map[int]string
}

// NewNFA returns an empty NFA ready to have states and transitions added.
func NewNFA() *NFA {
	return &NFA{
		States:     util.Set[int]{},
		Finals:     util.Set[int]{},
		Trans:      map[int]map[rune]util.Set[int]{},
		Alphabet:   util.Set[rune]{},
		TokenTypes: map[int]string{},
	}
}

// AddTransition records a move from src to dst on symbol.
func (n *NFA) AddTransition(src int, symbol rune, dst int) {
	n.States.Add(src)
	n.States.Add(dst)
	if symbol != Epsilon {
		n.Alphabet.Add(symbol)
	}
	if n.Trans[src] == nil {
		n.Trans[src] = map[rune]util.Set[int]{}
	}
	if n.Trans[src][symbol] == nil {
		n.Trans[src][symbol] = util.Set[int]{}
	}
	n.Trans[src][symbol].Add(dst)
}

// Offset returns a copy of n with every state ID shifted up by delta. Used
// to make two NFAs' state spaces disjoint before merging them.
func (n *NFA) Offset(delta int) *NFA {
	out := NewNFA()
	out.Alphabet = n.Alphabet.Copy()
	out.Start = n.Start + delta
	for s := range n.States {
		out.States.Add(s + delta)
	}
	for s := range n.Finals {
		out.Finals.Add(s + delta)
	}
	for src, bySym := range n.Trans {
		for sym, dsts := range bySym {
			for dst := range dsts {
				out.AddTransition(src+delta, sym, dst+delta)
			}
		}
	}
	for s, t := range n.TokenTypes {
		out.TokenTypes[s+delta] = t
	}
	return out
}

// EpsilonClosure returns the set of states reachable from states using
// only ε-moves (including states itself).
func (n *NFA) EpsilonClosure(states util.Set[int]) util.Set[int] {
	closure := states.Copy()
	var stack util.Stack[int]
	for s := range states {
		stack.Push(s)
	}
	for !stack.Empty() {
		s := stack.Pop()
		for dst := range n.Trans[s][Epsilon] {
			if !closure.Has(dst) {
				closure.Add(dst)
				stack.Push(dst)
			}
		}
	}
	return closure
}

// Move returns the set of states reachable from states on symbol, with no
// epsilon-closure applied.
func (n *NFA) Move(states util.Set[int], symbol rune) util.Set[int] {
	out := util.Set[int]{}
	for s := range states {
		out.AddAll(n.Trans[s][symbol])
	}
	return out
}

// Union merges n and other into a single NFA: other's states are offset to
// avoid collision with n's, a fresh start state is added with ε-moves to
// both original start states, and the two TokenTypes maps are merged. n's
// states keep their original (smaller) IDs, matching the priority rule
// that the earlier-listed pattern in a union chain wins ties during lexer
// resolution (see internal/lexrun).
func (n *NFA) Union(other *NFA) *NFA {
	maxN := -1
	for s := range n.States {
		if s > maxN {
			maxN = s
		}
	}
	shifted := other.Offset(maxN + 1)

	maxAll := maxN
	for s := range shifted.States {
		if s > maxAll {
			maxAll = s
		}
	}
	newStart := maxAll + 1

	out := NewNFA()
	out.Alphabet = n.Alphabet.Union(shifted.Alphabet)
	out.Start = newStart
	out.States = n.States.Union(shifted.States)
	out.States.Add(newStart)
	out.Finals = n.Finals.Union(shifted.Finals)

	for src, bySym := range n.Trans {
		for sym, dsts := range bySym {
			for dst := range dsts {
				out.AddTransition(src, sym, dst)
			}
		}
	}
	for src, bySym := range shifted.Trans {
		for sym, dsts := range bySym {
			for dst := range dsts {
				out.AddTransition(src, sym, dst)
			}
		}
	}
	out.AddTransition(newStart, Epsilon, n.Start)
	out.AddTransition(newStart, Epsilon, shifted.Start)

	for s, t := range n.TokenTypes {
		out.TokenTypes[s] = t
	}
	for s, t := range shifted.TokenTypes {
		if _, exists := out.TokenTypes[s]; !exists {
			out.TokenTypes[s] = t
		}
	}

	return out
}

// DFA is a deterministic finite automaton whose states are identified by
// small integer IDs assigned in discovery order during subset
// construction (or loaded directly from the text format).
type DFA struct {
	NumStates    int
	Start        int
	Accept       util.Set[int]
	Trans        map[int]map[rune]int
	Alphabet     util.Set[rune]
	// Origins records, for each DFA state, the set of NFA state IDs it
	// corresponds to — needed to resolve which token an accepting state
	// represents when multiple patterns' final states are merged.
	Origins map[int]util.Set[int]
	// TokenTypes maps an NFA state ID (as found in Origins) to its token
	// name, carried over from the source NFA.
	TokenTypes map[int]string
}

// ToDFA performs subset construction (the Rabin-Scott algorithm) on n,
// producing an equivalent DFA. State IDs are assigned in BFS discovery
// order starting from the ε-closure of the start state, which becomes
// state 0.
func (n *NFA) ToDFA() *DFA {
	startSet := n.EpsilonClosure(util.SetOf([]int{n.Start}))
	startKey := setKey(startSet)

	idOf := map[string]int{startKey: 0}
	originOf := map[int]util.Set[int]{0: startSet}
	nextID := 1

	queue := []util.Set[int]{startSet}
	trans := map[int]map[rune]int{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := idOf[setKey(cur)]
		trans[curID] = map[rune]int{}

		alphaList := n.Alphabet.Elements()
		sort.Slice(alphaList, func(i, j int) bool { return alphaList[i] < alphaList[j] })
		for _, sym := range alphaList {
			target := n.EpsilonClosure(n.Move(cur, sym))
			if target.Empty() {
				continue
			}
			key := setKey(target)
			id, seen := idOf[key]
			if !seen {
				id = nextID
				nextID++
				idOf[key] = id
				originOf[id] = target
				queue = append(queue, target)
			}
			trans[curID][sym] = id
		}
	}

	accept := util.Set[int]{}
	for id, origin := range originOf {
		if !origin.Intersection(n.Finals).Empty() {
			accept.Add(id)
		}
	}

	return &DFA{
		NumStates:  nextID,
		Start:      0,
		Accept:     accept,
		Trans:      trans,
		Alphabet:   n.Alphabet.Copy(),
		Origins:    originOf,
		TokenTypes: copyTokenTypes(n.TokenTypes),
	}
}

func copyTokenTypes(in map[int]string) map[int]string {
	out := make(map[int]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func setKey(s util.Set[int]) string {
	elems := s.Elements()
	sort.Ints(elems)
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", e)
	}
	return b.String()
}

// ResolveToken returns the token name an accepting DFA state represents,
// by scanning its Origins (the merged NFA states) in ascending order and
// returning the first one present in TokenTypes. This is the "earlier
// pattern wins" tie-break: patterns listed earlier were offset with
// smaller NFA state IDs during Union, so they sort first.
func (d *DFA) ResolveToken(state int) (string, bool) {
	origin := d.Origins[state]
	ids := origin.Elements()
	sort.Ints(ids)
	for _, id := range ids {
		if t, ok := d.TokenTypes[id]; ok {
			return t, true
		}
	}
	return "", false
}

// MarshalText writes d in the line-oriented DFA serialization format:
// state count, start state, comma-separated accepting states, comma-
// separated alphabet, then one "src,symbol,dst" line per transition.
func (d *DFA) MarshalText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, d.NumStates)
	fmt.Fprintln(bw, d.Start)

	accepts := d.Accept.Elements()
	sort.Ints(accepts)
	strs := make([]string, len(accepts))
	for i, a := range accepts {
		strs[i] = strconv.Itoa(a)
	}
	fmt.Fprintln(bw, strings.Join(strs, ","))

	alpha := d.Alphabet.Elements()
	sort.Slice(alpha, func(i, j int) bool { return alpha[i] < alpha[j] })
	alphaStrs := make([]string, len(alpha))
	for i, r := range alpha {
		alphaStrs[i] = string(r)
	}
	fmt.Fprintln(bw, strings.Join(alphaStrs, ","))

	srcs := make([]int, 0, len(d.Trans))
	for s := range d.Trans {
		srcs = append(srcs, s)
	}
	sort.Ints(srcs)
	for _, src := range srcs {
		syms := make([]rune, 0, len(d.Trans[src]))
		for sym := range d.Trans[src] {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			fmt.Fprintf(bw, "%d,%s,%d\n", src, string(sym), d.Trans[src][sym])
		}
	}
	return bw.Flush()
}

// ParseText reads the format written by MarshalText and reconstructs a DFA
// suitable for reloading as a tagged NFA (see ToTaggedNFA).
func ParseText(r io.Reader) (*DFA, error) {
	sc := bufio.NewScanner(r)
	lines := make([]string, 0, 8)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fferrors.New("reading DFA text format", err)
	}
	if len(lines) < 4 {
		return nil, fferrors.New("DFA text format truncated", fferrors.ErrSyntax)
	}

	numStates, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fferrors.New("invalid state count", fferrors.ErrSyntax)
	}
	start, err := strconv.Atoi(lines[1])
	if err != nil {
		return nil, fferrors.New("invalid start state", fferrors.ErrSyntax)
	}

	accept := util.Set[int]{}
	for _, tok := range strings.Split(lines[2], ",") {
		if tok == "" {
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fferrors.New("invalid accepting state id", fferrors.ErrSyntax)
		}
		accept.Add(id)
	}

	alphabet := util.Set[rune]{}
	for _, tok := range strings.Split(lines[3], ",") {
		if tok == "" {
			continue
		}
		alphabet.Add([]rune(tok)[0])
	}

	trans := map[int]map[rune]int{}
	for _, line := range lines[4:] {
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			return nil, fferrors.New(fmt.Sprintf("malformed transition line %q", line), fferrors.ErrSyntax)
		}
		src, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fferrors.New("invalid transition source", fferrors.ErrSyntax)
		}
		dst, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fferrors.New("invalid transition destination", fferrors.ErrSyntax)
		}
		sym := []rune(parts[1])[0]
		if trans[src] == nil {
			trans[src] = map[rune]int{}
		}
		trans[src][sym] = dst
	}

	return &DFA{
		NumStates: numStates,
		Start:     start,
		Accept:    accept,
		Trans:     trans,
		Alphabet:  alphabet,
	}, nil
}

// ToTaggedNFA reloads d as a (deterministic, so ε-free) NFA whose final
// states are all tagged with tokenName. This mirrors loading a previously
// exported per-pattern DFA back in as an NFA ready for Union.
func (d *DFA) ToTaggedNFA(tokenName string) *NFA {
	n := NewNFA()
	n.Start = d.Start
	n.Alphabet = d.Alphabet.Copy()
	for src, bySym := range d.Trans {
		for sym, dst := range bySym {
			n.AddTransition(src, sym, dst)
		}
	}
	for s := 0; s < d.NumStates; s++ {
		n.States.Add(s)
	}
	for s := range d.Accept {
		n.Finals.Add(s)
		n.TokenTypes[s] = tokenName
	}
	return n
}
