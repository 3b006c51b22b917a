package parse

import (
	"sort"
	"strconv"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/grammar"
	"github.com/dekarrin/rosed"
)

// Table is a constructed SLR(1) ACTION/GOTO table, ready to drive a Driver.
type Table struct {
	cc        *grammar.CanonicalCollection
	action    map[int]map[string]Action
	goTo      map[int]map[string]int
	Conflicts []Conflict
}

// Options controls NewTable's tolerance for grammar ambiguity.
type Options struct {
	// AllowAmbiguous, when true, resolves shift/reduce conflicts in favor
	// of the shift and records the collision in Table.Conflicts instead of
	// failing. Reduce/reduce conflicts always keep the reduction by the
	// production with the lowest index in the augmented grammar under
	// this mode. The default
	// (false) is spec-accurate: any conflict is a fatal
	// fferrors.ErrAmbiguousGrammar.
	AllowAmbiguous bool
}

// NewTable constructs the SLR(1) ACTION/GOTO table for g. It builds the
// canonical LR(0) collection, computes FIRST/FOLLOW, and for every item in
// every state: a terminal-shift for items with the dot before a terminal,
// a non-terminal goto for items with the dot before a non-terminal, a
// FOLLOW-set reduce for completed items (except the augmented start
// production), and an accept action for the completed augmented start
// production on EndOfInput.
func NewTable(g *grammar.Grammar, opts Options) (*Table, error) {
	cc := grammar.BuildCanonicalCollection(g)
	first := grammar.First(cc.Augmented)
	follow := grammar.Follow(cc.Augmented, first)

	t := &Table{
		cc:     cc,
		action: map[int]map[string]Action{},
		goTo:   map[int]map[string]int{},
	}

	augStart := cc.Augmented.Productions[0]

	productionIndex := func(p grammar.Production) int {
		for idx, q := range cc.Augmented.Productions {
			if q.NonTerminal == p.NonTerminal && joinRHS(q.RHS) == joinRHS(p.RHS) {
				return idx
			}
		}
		return len(cc.Augmented.Productions)
	}

	setAction := func(state int, symbol string, a Action) error {
		if t.action[state] == nil {
			t.action[state] = map[string]Action{}
		}
		if existing, ok := t.action[state][symbol]; ok && !actionsEqual(existing, a) {
			conflict := Conflict{State: state, Symbol: symbol, Existing: existing, New: a}
			t.Conflicts = append(t.Conflicts, conflict)
			if !opts.AllowAmbiguous {
				return fferrors.New(conflict.String(), fferrors.ErrAmbiguousGrammar)
			}
			// shift wins on shift/reduce; lowest production index wins on
			// reduce/reduce
			if existing.Type == ActionShift {
				return nil
			}
			if existing.Type == ActionReduce && a.Type == ActionReduce && productionIndex(existing.Production) <= productionIndex(a.Production) {
				return nil
			}
		}
		t.action[state][symbol] = a
		return nil
	}

	for i, state := range cc.States {
		for item := range state {
			if sym, ok := item.NextSymbol(); ok {
				target, hasTarget := cc.Transitions[i][sym]
				if !hasTarget {
					continue
				}
				if cc.Augmented.IsTerminal(sym) {
					if err := setAction(i, sym, Action{Type: ActionShift, State: target}); err != nil {
						return nil, err
					}
				} else if cc.Augmented.IsNonTerminal(sym) {
					if t.goTo[i] == nil {
						t.goTo[i] = map[string]int{}
					}
					t.goTo[i][sym] = target
				}
				continue
			}

			// dot at end: reduce, unless this is the augmented start
			// production, in which case it is accept.
			if item.NonTerminal == augStart.NonTerminal && item.RHS == joinRHS(augStart.RHS) {
				if err := setAction(i, grammar.EndOfInput, Action{Type: ActionAccept}); err != nil {
					return nil, err
				}
				continue
			}

			prod := grammar.Production{NonTerminal: item.NonTerminal, RHS: item.Symbols()}
			for term := range follow[item.NonTerminal] {
				if err := setAction(i, term, Action{Type: ActionReduce, Production: prod}); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

func actionsEqual(a, b Action) bool {
	if a.Type != b.Type || a.State != b.State {
		return false
	}
	if a.Type != ActionReduce {
		return true
	}
	if a.Production.NonTerminal != b.Production.NonTerminal || len(a.Production.RHS) != len(b.Production.RHS) {
		return false
	}
	for i := range a.Production.RHS {
		if a.Production.RHS[i] != b.Production.RHS[i] {
			return false
		}
	}
	return true
}

// Action returns the ACTION table entry for (state, symbol), or
// ActionError if none exists.
func (t *Table) Action(state int, symbol string) Action {
	if row, ok := t.action[state]; ok {
		if a, ok := row[symbol]; ok {
			return a
		}
	}
	return Action{Type: ActionError}
}

// Goto returns the GOTO table entry for (state, nonTerminal), and whether
// one exists.
func (t *Table) Goto(state int, nonTerminal string) (int, bool) {
	if row, ok := t.goTo[state]; ok {
		if s, ok := row[nonTerminal]; ok {
			return s, true
		}
	}
	return 0, false
}

// StartState is the state the driver begins in (always 0, the closure of
// the augmented start item).
func (t *Table) StartState() int { return 0 }

// String renders the ACTION/GOTO table as a bordered text table, in the
// same style as the teacher's slrTable.String().
func (t *Table) String() string {
	terms := t.cc.Augmented.Terminals.Elements()
	sort.Strings(terms)
	terms = append(terms, grammar.EndOfInput)
	nonTerms := t.cc.Augmented.NonTerminals.Elements()
	sort.Strings(nonTerms)

	header := []string{"state", "|"}
	header = append(header, terms...)
	header = append(header, "|")
	header = append(header, nonTerms...)

	data := [][]string{header}

	for i := range t.cc.States {
		row := []string{itoa(i), "|"}
		for _, term := range terms {
			row = append(row, t.Action(i, term).String())
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			if s, ok := t.Goto(i, nt); ok {
				row = append(row, itoa(s))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
