package parse

import (
	"fmt"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/grammar"
	"github.com/corvidlab/frontendforge/internal/lexrun"
	"github.com/corvidlab/frontendforge/internal/symtab"
)

// TraceEvent is reported to a trace listener at every step of the parse:
// a shift, a reduce, or the final accept.
type TraceEvent struct {
	Kind   string // "shift", "reduce", "accept"
	State  int
	Detail string
}

// TraceListener receives TraceEvents as the driver runs, e.g. for a CLI's
// --trace flag.
type TraceListener func(TraceEvent)

// TreeNode is an optional parse tree node built during reduction, gated
// behind the WithParseTree driver option. It is not part of the spec-required
// accept/reject verdict.
type TreeNode struct {
	Symbol   string
	Lexeme   string // set only for leaf (terminal) nodes
	Children []*TreeNode
}

// Driver executes the SLR(1) stack machine (Dragon Book algorithm 4.44)
// over a token stream against a Table.
type Driver struct {
	table        *Table
	symbols      *symtab.Table
	listeners    []TraceListener
	buildTree    bool
}

// DriverOption configures a Driver at construction.
type DriverOption func(*Driver)

// WithSymbolTable supplies the symtab.Table the driver interns every
// shifted lexeme into. If omitted, a fresh table with no reserved words is
// created.
func WithSymbolTable(t *symtab.Table) DriverOption {
	return func(d *Driver) { d.symbols = t }
}

// WithTraceListener registers fn to be called on every shift/reduce/accept
// step.
func WithTraceListener(fn TraceListener) DriverOption {
	return func(d *Driver) { d.listeners = append(d.listeners, fn) }
}

// WithParseTree enables building and returning a parse tree alongside the
// accept/reject verdict.
func WithParseTree() DriverOption {
	return func(d *Driver) { d.buildTree = true }
}

// NewDriver constructs a Driver for table.
func NewDriver(table *Table, opts ...DriverOption) *Driver {
	d := &Driver{table: table}
	for _, o := range opts {
		o(d)
	}
	if d.symbols == nil {
		d.symbols = symtab.New()
	}
	return d
}

// SymbolTable returns the driver's symbol table, populated as Run
// executes.
func (d *Driver) SymbolTable() *symtab.Table {
	return d.symbols
}

func (d *Driver) emit(ev TraceEvent) {
	for _, l := range d.listeners {
		l(ev)
	}
}

// Result is the outcome of a Run: whether the input was accepted, and
// (when Driver was built WithParseTree) the resulting parse tree.
type Result struct {
	Accepted bool
	Tree     *TreeNode
}

// Run drives the stack machine over tokens (a stream of (lexeme, kind)
// pairs already terminated, or not, by an end marker — Run appends one if
// missing). A lexrun.ErrorToken anywhere in tokens is a hard lexical
// rejection: Run returns immediately with fferrors.ErrLexical and never
// touches the parse table, matching the teacher's "lexical errors abort
// before parsing begins" behavior.
func (d *Driver) Run(tokens []lexrun.Token) (Result, error) {
	for _, t := range tokens {
		if t.Kind == lexrun.ErrorToken {
			return Result{}, fferrors.New(fmt.Sprintf("lexical error on %q", t.Lexeme), fferrors.ErrLexical)
		}
	}

	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != grammar.EndOfInput {
		tokens = append(tokens, lexrun.Token{Lexeme: grammar.EndOfInput, Kind: grammar.EndOfInput})
	}

	var stateStack []int
	var symbolStack []string
	var treeStack []*TreeNode

	stateStack = append(stateStack, d.table.StartState())
	pointer := 0

	for {
		state := stateStack[len(stateStack)-1]
		tok := tokens[pointer]
		kind := resolveAlias(tok.Kind)

		action := d.table.Action(state, kind)

		switch action.Type {
		case ActionShift:
			entry := d.symbols.Intern(tok.Lexeme)
			d.emit(TraceEvent{Kind: "shift", State: action.State, Detail: fmt.Sprintf("<%s, %s(%d)>", tok.Lexeme, entry.Category, entry.Index)})

			symbolStack = append(symbolStack, kind)
			stateStack = append(stateStack, action.State)
			if d.buildTree {
				treeStack = append(treeStack, &TreeNode{Symbol: kind, Lexeme: tok.Lexeme})
			}
			pointer++

		case ActionReduce:
			prod := action.Production
			popLen := len(prod.RHS)
			if popLen == 1 && prod.RHS[0] == grammar.Epsilon {
				popLen = 0
			}

			var children []*TreeNode
			if popLen > 0 {
				stateStack = stateStack[:len(stateStack)-popLen]
				symbolStack = symbolStack[:len(symbolStack)-popLen]
				if d.buildTree {
					children = append(children, treeStack[len(treeStack)-popLen:]...)
					treeStack = treeStack[:len(treeStack)-popLen]
				}
			}

			top := stateStack[len(stateStack)-1]
			gotoState, ok := d.table.Goto(top, prod.NonTerminal)
			if !ok {
				return Result{}, fferrors.New(fmt.Sprintf("no GOTO for (state %d, %q)", top, prod.NonTerminal), fferrors.ErrParse)
			}

			symbolStack = append(symbolStack, prod.NonTerminal)
			stateStack = append(stateStack, gotoState)
			if d.buildTree {
				treeStack = append(treeStack, &TreeNode{Symbol: prod.NonTerminal, Children: children})
			}

			d.emit(TraceEvent{Kind: "reduce", State: gotoState, Detail: fmt.Sprintf("%s -> %s", prod.NonTerminal, joinRHS(prod.RHS))})

		case ActionAccept:
			d.emit(TraceEvent{Kind: "accept", State: state})
			res := Result{Accepted: true}
			if d.buildTree && len(treeStack) > 0 {
				res.Tree = treeStack[len(treeStack)-1]
			}
			return res, nil

		default:
			return Result{}, fferrors.New(fmt.Sprintf("no action for (state %d, %q)", state, kind), fferrors.ErrParse)
		}
	}
}
