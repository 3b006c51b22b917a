// Package grammar parses a context-free grammar definition, infers its
// terminal alphabet, augments it with a fresh start symbol, and computes
// FIRST/FOLLOW sets — the input to SLR(1) table construction in
// internal/parse.
package grammar

import (
	"fmt"
	"strings"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/util"
)

// Epsilon is the symbol used in a production's RHS to denote the empty
// string.
const Epsilon = "ε"

// EndOfInput is the end-of-input marker used in FOLLOW sets and by the
// parse driver.
const EndOfInput = "$"

// Rule is a single production: NonTerminal -> one of Alternatives, each
// alternative a sequence of grammar symbols (or [Epsilon] for an empty
// production).
type Rule struct {
	NonTerminal string
	Alternatives [][]string
}

// Production is a single NonTerminal -> RHS pair, the unit the rest of the
// package (FIRST/FOLLOW, LR(0) items) operates over.
type Production struct {
	NonTerminal string
	RHS         []string
}

// Grammar is a context-free grammar: its terminal and non-terminal
// alphabets, its start symbol, and its flattened productions.
type Grammar struct {
	NonTerminals util.Set[string]
	Terminals    util.Set[string]
	StartSymbol  string
	Productions  []Production
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		NonTerminals: util.Set[string]{},
		Terminals:    util.Set[string]{},
	}
}

// AddRule registers a rule. The first non-terminal added via AddRule
// becomes the grammar's start symbol, matching the "start symbol is the
// LHS of the first rule" convention of the source grammar format.
func (g *Grammar) AddRule(lhs string, alternatives [][]string) {
	if g.StartSymbol == "" {
		g.StartSymbol = lhs
	}
	g.NonTerminals.Add(lhs)
	for _, rhs := range alternatives {
		g.Productions = append(g.Productions, Production{NonTerminal: lhs, RHS: rhs})
	}
}

// AddTerm explicitly registers name as a terminal symbol. Load infers
// terminals automatically; AddTerm exists for callers building a Grammar
// programmatically (as the teacher's tests do) rather than from text.
func (g *Grammar) AddTerm(name string) {
	g.Terminals.Add(name)
}

// inferTerminals marks every RHS symbol that is not a known non-terminal
// (and not ε) as a terminal.
func (g *Grammar) inferTerminals() {
	for _, p := range g.Productions {
		for _, sym := range p.RHS {
			if sym == Epsilon {
				continue
			}
			if !g.NonTerminals.Has(sym) {
				g.Terminals.Add(sym)
			}
		}
	}
}

// Load parses a grammar definition of the form:
//
//	LHS ::= alt1sym1 alt1sym2 | alt2sym1 | ε
//
// one rule per line; blank lines and lines starting with '#' are skipped.
// The first LHS encountered becomes the start symbol. Terminals are
// inferred as every RHS symbol that is never used as an LHS.
func Load(src string) (*Grammar, error) {
	g := New()
	lines := strings.Split(src, "\n")

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "::=")
		if idx < 0 {
			return nil, fferrors.New(fmt.Sprintf("line %d: missing '::=' in rule %q", lineNo+1, line), fferrors.ErrSyntax)
		}
		lhs := strings.TrimSpace(line[:idx])
		if lhs == "" {
			return nil, fferrors.New(fmt.Sprintf("line %d: empty left-hand side", lineNo+1), fferrors.ErrSyntax)
		}

		rhsPart := strings.TrimSpace(line[idx+3:])
		altStrs := strings.Split(rhsPart, "|")
		var alternatives [][]string
		for _, alt := range altStrs {
			fields := strings.Fields(alt)
			if len(fields) == 0 {
				return nil, fferrors.New(fmt.Sprintf("line %d: empty alternative", lineNo+1), fferrors.ErrSyntax)
			}
			alternatives = append(alternatives, fields)
		}

		g.AddRule(lhs, alternatives)
	}

	if len(g.Productions) == 0 {
		return nil, fferrors.New("grammar source contains no rules", fferrors.ErrSyntax)
	}

	g.inferTerminals()
	return g, nil
}

// Validate checks that every non-ε symbol appearing in some production's
// RHS is a known terminal or non-terminal, and that the grammar has a
// start symbol.
func (g *Grammar) Validate() error {
	if g.StartSymbol == "" {
		return fferrors.New("grammar has no start symbol", fferrors.ErrSyntax)
	}
	for _, p := range g.Productions {
		for _, sym := range p.RHS {
			if sym == Epsilon {
				continue
			}
			if !g.NonTerminals.Has(sym) && !g.Terminals.Has(sym) {
				return fferrors.New(fmt.Sprintf("symbol %q used in production for %q is neither a terminal nor a non-terminal", sym, p.NonTerminal), fferrors.ErrUndefinedSymbol)
			}
		}
	}
	return nil
}

// IsTerminal returns whether sym is a terminal symbol of g.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.Terminals.Has(sym)
}

// IsNonTerminal returns whether sym is a non-terminal symbol of g.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.NonTerminals.Has(sym)
}

// AugmentedStartSymbol returns the fresh start symbol used by the
// canonical LR(0) collection: StartSymbol with as many trailing "'"
// appended as needed to avoid colliding with an existing non-terminal.
func (g *Grammar) AugmentedStartSymbol() string {
	aug := g.StartSymbol + "'"
	for g.NonTerminals.Has(aug) {
		aug += "'"
	}
	return aug
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.Productions {
		fmt.Fprintf(&b, "%s -> %s\n", p.NonTerminal, strings.Join(p.RHS, " "))
	}
	return b.String()
}
