package grammar

import "github.com/corvidlab/frontendforge/internal/util"

// FirstSets maps every terminal and non-terminal of a grammar to its
// FIRST set; Epsilon is a member of FIRST(X) when X can derive the empty
// string.
type FirstSets map[string]util.Set[string]

// FollowSets maps every non-terminal to its FOLLOW set.
type FollowSets map[string]util.Set[string]

// First computes FIRST(X) for every terminal and non-terminal of g via
// fixed-point iteration: a terminal's FIRST set is itself; a
// non-terminal's FIRST set accumulates FIRST of each RHS symbol in turn
// until a non-nullable symbol is hit, and gains ε only if the whole RHS
// (or an empty RHS) is nullable.
func First(g *Grammar) FirstSets {
	first := FirstSets{}
	for t := range g.Terminals {
		first[t] = util.SetOf([]string{t})
	}
	for nt := range g.NonTerminals {
		first[nt] = util.Set[string]{}
	}

	changed := true
	for changed {
		changed = false

		for _, p := range g.Productions {
			before := first[p.NonTerminal].Len()

			if len(p.RHS) == 0 || (len(p.RHS) == 1 && p.RHS[0] == Epsilon) {
				first[p.NonTerminal].Add(Epsilon)
			} else {
				nullablePrefix := true
				for _, sym := range p.RHS {
					symFirst := first[sym]
					for x := range symFirst {
						if x != Epsilon {
							first[p.NonTerminal].Add(x)
						}
					}
					if !symFirst.Has(Epsilon) {
						nullablePrefix = false
						break
					}
				}
				if nullablePrefix {
					first[p.NonTerminal].Add(Epsilon)
				}
			}

			if first[p.NonTerminal].Len() > before {
				changed = true
			}
		}
	}

	return first
}

// FirstOfSequence computes FIRST of a sequence of grammar symbols, using
// the same left-to-right nullable-prefix rule as First.
func FirstOfSequence(first FirstSets, seq []string) util.Set[string] {
	out := util.Set[string]{}
	if len(seq) == 0 {
		out.Add(Epsilon)
		return out
	}
	nullablePrefix := true
	for _, sym := range seq {
		for x := range first[sym] {
			if x != Epsilon {
				out.Add(x)
			}
		}
		if !first[sym].Has(Epsilon) {
			nullablePrefix = false
			break
		}
	}
	if nullablePrefix {
		out.Add(Epsilon)
	}
	return out
}

// Follow computes FOLLOW(A) for every non-terminal A of g, given its
// FIRST sets. FOLLOW(start) always contains EndOfInput. The sweep walks
// each production's RHS right to left, tracking a "trailer" set of
// symbols that can follow the position currently being examined.
func Follow(g *Grammar, first FirstSets) FollowSets {
	follow := FollowSets{}
	for nt := range g.NonTerminals {
		follow[nt] = util.Set[string]{}
	}
	follow[g.StartSymbol].Add(EndOfInput)

	changed := true
	for changed {
		changed = false

		for _, p := range g.Productions {
			trailer := follow[p.NonTerminal].Copy()

			for i := len(p.RHS) - 1; i >= 0; i-- {
				sym := p.RHS[i]
				if sym == Epsilon {
					continue
				}
				if g.IsNonTerminal(sym) {
					before := follow[sym].Len()
					follow[sym].AddAll(trailer)
					if follow[sym].Len() > before {
						changed = true
					}

					if first[sym].Has(Epsilon) {
						addition := util.Set[string]{}
						for x := range first[sym] {
							if x != Epsilon {
								addition.Add(x)
							}
						}
						trailer.AddAll(addition)
					} else {
						trailer = first[sym].Copy()
					}
				} else {
					trailer = util.SetOf([]string{sym})
				}
			}
		}
	}

	return follow
}
