package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corvidlab/frontendforge/internal/util"
)

// LR0Item is a single LR(0) item: NonTerminal -> RHS with a dot before
// RHS[Dot]. RHS is stored as a space-joined string so that Item values are
// comparable and can key a Go map/util.Set directly.
type LR0Item struct {
	NonTerminal string
	RHS         string
	Dot         int
}

// NewLR0Item builds an item from a symbol slice.
func NewLR0Item(nonTerminal string, rhs []string, dot int) LR0Item {
	return LR0Item{NonTerminal: nonTerminal, RHS: strings.Join(rhs, " "), Dot: dot}
}

// Symbols returns the RHS as a symbol slice.
func (it LR0Item) Symbols() []string {
	if it.RHS == "" {
		return nil
	}
	return strings.Fields(it.RHS)
}

// AtEnd returns whether the dot has reached the end of the production.
func (it LR0Item) AtEnd() bool {
	return it.Dot >= len(it.Symbols())
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists.
func (it LR0Item) NextSymbol() (string, bool) {
	syms := it.Symbols()
	if it.Dot >= len(syms) {
		return "", false
	}
	return syms[it.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
func (it LR0Item) Advance() LR0Item {
	return LR0Item{NonTerminal: it.NonTerminal, RHS: it.RHS, Dot: it.Dot + 1}
}

func (it LR0Item) String() string {
	syms := it.Symbols()
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> ", it.NonTerminal)
	for i := 0; i <= len(syms); i++ {
		if i == it.Dot {
			b.WriteString("• ")
		}
		if i < len(syms) {
			b.WriteString(syms[i])
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// ItemSet is a set of LR(0) items — one state of the canonical collection.
type ItemSet = util.Set[LR0Item]

// Closure computes the closure of a set of items under g: repeatedly, for
// every item with the dot before a non-terminal, the productions of that
// non-terminal are added (with the dot at position 0) until no more items
// can be added.
func Closure(items ItemSet, g *Grammar) ItemSet {
	closure := items.Copy()

	changed := true
	for changed {
		changed = false
		var toAdd []LR0Item

		for item := range closure {
			sym, ok := item.NextSymbol()
			if !ok || !g.IsNonTerminal(sym) {
				continue
			}
			for _, p := range g.Productions {
				if p.NonTerminal != sym {
					continue
				}
				newItem := NewLR0Item(p.NonTerminal, p.RHS, 0)
				if !closure.Has(newItem) {
					toAdd = append(toAdd, newItem)
				}
			}
		}

		if len(toAdd) > 0 {
			for _, it := range toAdd {
				closure.Add(it)
			}
			changed = true
		}
	}

	return closure
}

// Goto computes the item set reached from items on symbol: every item with
// the dot immediately before symbol has its dot advanced, and the result
// is closed.
func Goto(items ItemSet, symbol string, g *Grammar) ItemSet {
	moved := util.Set[LR0Item]{}
	for item := range items {
		sym, ok := item.NextSymbol()
		if ok && sym == symbol {
			moved.Add(item.Advance())
		}
	}
	if moved.Empty() {
		return util.Set[LR0Item]{}
	}
	return Closure(moved, g)
}

// CanonicalCollection is the canonical LR(0) collection of item sets
// together with the goto transitions between them, indexed by state
// number. State 0 is always the closure of the augmented start item.
type CanonicalCollection struct {
	States      []ItemSet
	Transitions map[int]map[string]int
	// Augmented is the grammar with its augmented production (S' -> S)
	// prepended; callers should use this grammar (not the original) for
	// all subsequent SLR table construction.
	Augmented *Grammar
}

// Augment returns a copy of g with a fresh start production S' -> S
// prepended, where S' is g.AugmentedStartSymbol().
func Augment(g *Grammar) *Grammar {
	aug := New()
	aug.Terminals = g.Terminals.Copy()
	aug.NonTerminals = g.NonTerminals.Copy()

	augStart := g.AugmentedStartSymbol()
	aug.NonTerminals.Add(augStart)
	aug.StartSymbol = augStart

	aug.Productions = append(aug.Productions, Production{NonTerminal: augStart, RHS: []string{g.StartSymbol}})
	aug.Productions = append(aug.Productions, g.Productions...)

	return aug
}

// BuildCanonicalCollection constructs the canonical LR(0) collection for
// g, augmenting it first.
func BuildCanonicalCollection(g *Grammar) *CanonicalCollection {
	augmented := Augment(g)
	startProd := augmented.Productions[0]
	startItem := NewLR0Item(startProd.NonTerminal, startProd.RHS, 0)
	startState := Closure(util.SetOf([]LR0Item{startItem}), augmented)

	cc := &CanonicalCollection{
		States:      []ItemSet{startState},
		Transitions: map[int]map[string]int{},
		Augmented:   augmented,
	}

	stateIndex := map[string]int{canonicalKey(startState): 0}

	changed := true
	for changed {
		changed = false

		for i := 0; i < len(cc.States); i++ {
			state := cc.States[i]
			symbols := util.Set[string]{}
			for item := range state {
				if sym, ok := item.NextSymbol(); ok {
					symbols.Add(sym)
				}
			}

			symList := symbols.Elements()
			sort.Strings(symList)
			for _, sym := range symList {
				target := Goto(state, sym, augmented)
				if target.Empty() {
					continue
				}
				key := canonicalKey(target)
				idx, exists := stateIndex[key]
				if !exists {
					idx = len(cc.States)
					cc.States = append(cc.States, target)
					stateIndex[key] = idx
					changed = true
				}
				if cc.Transitions[i] == nil {
					cc.Transitions[i] = map[string]int{}
				}
				cc.Transitions[i][sym] = idx
			}
		}
	}

	return cc
}

func canonicalKey(items ItemSet) string {
	elems := items.Elements()
	strs := make([]string, len(elems))
	for i, it := range elems {
		strs[i] = fmt.Sprintf("%s|%s|%d", it.NonTerminal, it.RHS, it.Dot)
	}
	// sort for determinism
	for i := 1; i < len(strs); i++ {
		for j := i; j > 0 && strs[j] < strs[j-1]; j-- {
			strs[j], strs[j-1] = strs[j-1], strs[j]
		}
	}
	return strings.Join(strs, ";")
}
