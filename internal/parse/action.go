// Package parse builds an SLR(1) ACTION/GOTO table from a grammar's
// canonical LR(0) collection and FOLLOW sets, and drives a stack machine
// over a token stream against that table (Dragon Book algorithm 4.44).
package parse

import (
	"fmt"

	"github.com/corvidlab/frontendforge/internal/grammar"
)

// ActionType identifies the kind of entry found in the ACTION table.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is a single ACTION table cell.
type Action struct {
	Type ActionType
	// State is the target state for a shift.
	State int
	// Production is the production reduced by for a reduce.
	Production grammar.Production
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("s%d", a.State)
	case ActionReduce:
		return fmt.Sprintf("r(%s -> %s)", a.Production.NonTerminal, joinRHS(a.Production.RHS))
	case ActionAccept:
		return "acc"
	default:
		return ""
	}
}

func joinRHS(rhs []string) string {
	out := ""
	for i, s := range rhs {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

// Conflict records a shift/reduce or reduce/reduce collision found while
// building the ACTION table.
type Conflict struct {
	State    int
	Symbol   string
	Existing Action
	New      Action
}

func (c Conflict) String() string {
	return fmt.Sprintf("conflict in state %d on %q: %s vs %s", c.State, c.Symbol, c.Existing, c.New)
}
