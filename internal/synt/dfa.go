package synt

import (
	"sort"
	"strconv"
	"strings"

	"github.com/corvidlab/frontendforge/internal/automaton"
	"github.com/corvidlab/frontendforge/internal/util"
)

// BuildDFA runs the direct DFA construction algorithm (Dragon Book
// algorithm 3.23) over t: starting from firstpos(root), it repeatedly
// computes, for each unmarked state and each input symbol, the union of
// followpos(p) for every position p in the state that matches that
// symbol, assigning new states sequential IDs in discovery order. A state
// is accepting iff it contains the end marker's leaf position.
func (t *Tree) BuildDFA() *automaton.DFA {
	start := t.Root.FirstPos()
	startKey := positionSetKey(start)

	idOf := map[string]int{startKey: 0}
	origins := map[int]util.Set[int]{0: start}
	nextID := 1

	queue := []util.Set[int]{start}
	trans := map[int]map[rune]int{}
	alphabet := util.Set[rune]{}

	symbolOf := func(pos int) (rune, bool) {
		leaf := t.LeafPositions[pos]
		if leaf.IsEnd {
			return 0, false
		}
		return leaf.Char, true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := idOf[positionSetKey(cur)]
		trans[curID] = map[rune]int{}

		bySymbol := map[rune]util.Set[int]{}
		for pos := range cur {
			sym, ok := symbolOf(pos)
			if !ok {
				continue
			}
			alphabet.Add(sym)
			if bySymbol[sym] == nil {
				bySymbol[sym] = util.Set[int]{}
			}
			bySymbol[sym].AddAll(t.Followpos[pos])
		}

		symList := make([]rune, 0, len(bySymbol))
		for sym := range bySymbol {
			symList = append(symList, sym)
		}
		sort.Slice(symList, func(i, j int) bool { return symList[i] < symList[j] })

		for _, sym := range symList {
			target := bySymbol[sym]
			if target.Empty() {
				continue
			}
			key := positionSetKey(target)
			id, seen := idOf[key]
			if !seen {
				id = nextID
				nextID++
				idOf[key] = id
				origins[id] = target
				queue = append(queue, target)
			}
			trans[curID][sym] = id
		}
	}

	accept := util.Set[int]{}
	for id, origin := range origins {
		if origin.Has(t.EndPosition) {
			accept.Add(id)
		}
	}

	return &automaton.DFA{
		NumStates: nextID,
		Start:     0,
		Accept:    accept,
		Trans:     trans,
		Alphabet:  alphabet,
		Origins:   origins,
	}
}

func positionSetKey(s util.Set[int]) string {
	elems := s.Elements()
	sort.Ints(elems)
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(e))
	}
	return b.String()
}
