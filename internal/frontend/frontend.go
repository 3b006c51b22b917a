// Package frontend assembles internal/regex, internal/synt,
// internal/automaton, internal/lexrun, internal/grammar, and
// internal/parse into the single object the CLI, REPL, HTTP API, and test
// suite build against: construct a Frontend from a regex definitions
// source and a grammar source, Compile it once, then Tokenize and Parse
// any number of input texts against the cached result.
package frontend

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/corvidlab/frontendforge/internal/automaton"
	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/grammar"
	"github.com/corvidlab/frontendforge/internal/lexrun"
	"github.com/corvidlab/frontendforge/internal/parse"
	"github.com/corvidlab/frontendforge/internal/regex"
	"github.com/corvidlab/frontendforge/internal/symtab"
	"github.com/corvidlab/frontendforge/internal/synt"
	"github.com/google/uuid"
)

// CompileResult is the aggregate artifact produced by Compile: the
// combined lexical DFA, the SLR(1) parse table, and any ambiguity
// warnings tolerated under Options.AllowAmbiguousGrammar.
type CompileResult struct {
	DFA              *automaton.DFA
	Table            *parse.Table
	AmbiguityWarnings []parse.Conflict
	// TraceID identifies this compile invocation. It is not passed to the
	// history store or to trace listeners.
	TraceID string
}

// Options configures Frontend construction.
type Options struct {
	AllowAmbiguousGrammar bool
	ReservedWords         map[string]string
}

// Frontend is a compiled regex+grammar pair, ready to tokenize and parse
// input text.
type Frontend struct {
	regexSource   string
	grammarSource string
	opts          Options

	mu     sync.RWMutex
	result *CompileResult
	grmr   *grammar.Grammar
}

// New constructs a Frontend from regex definition source (one "name:
// pattern" per line) and grammar source ("LHS ::= alt1 | alt2" per line).
// Compilation is deferred until the first call to Compile, Tokenize, Parse,
// or Run.
func New(regexSource, grammarSource string, opts Options) *Frontend {
	return &Frontend{regexSource: regexSource, grammarSource: grammarSource, opts: opts}
}

// Compile runs the full pipeline (regex parsing through SLR table
// construction) exactly once, caching the result for subsequent calls. It
// is safe to call concurrently; only the first caller pays the compile
// cost.
func (f *Frontend) Compile() (*CompileResult, error) {
	f.mu.RLock()
	if f.result != nil {
		r := f.result
		f.mu.RUnlock()
		return r, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result != nil {
		return f.result, nil
	}

	defs, err := parseDefinitions(f.regexSource)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fferrors.New("no regular expression definitions supplied", fferrors.ErrSyntax)
	}

	var unioned *automaton.NFA
	for _, def := range defs {
		postfix, err := regex.Compile(def.Pattern)
		if err != nil {
			return nil, fferrors.New(fmt.Sprintf("pattern %q", def.Name), err)
		}
		tree, err := synt.BuildTree(postfix)
		if err != nil {
			return nil, fferrors.New(fmt.Sprintf("pattern %q", def.Name), err)
		}
		dfa := tree.BuildDFA()
		tagged := dfa.ToTaggedNFA(def.Name)

		if unioned == nil {
			unioned = tagged
		} else {
			unioned = unioned.Union(tagged)
		}
	}

	combined := unioned.ToDFA()

	g, err := grammar.Load(f.grammarSource)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	table, err := parse.NewTable(g, parse.Options{AllowAmbiguous: f.opts.AllowAmbiguousGrammar})
	if err != nil {
		return nil, err
	}

	result := &CompileResult{
		DFA:               combined,
		Table:             table,
		AmbiguityWarnings: table.Conflicts,
		TraceID:           uuid.NewString(),
	}

	f.result = result
	f.grmr = g
	return result, nil
}

// Tokenize runs the longest-match lexer over text using the compiled DFA.
func (f *Frontend) Tokenize(text string) ([]lexrun.Token, error) {
	result, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return lexrun.Scan(result.DFA, text), nil
}

// Parse drives the SLR(1) parser over tokens, returning the accept/reject
// verdict (and populating opts' driver options, e.g. a shared symbol
// table or trace listener).
func (f *Frontend) Parse(tokens []lexrun.Token, opts ...parse.DriverOption) (parse.Result, error) {
	result, err := f.Compile()
	if err != nil {
		return parse.Result{}, err
	}
	driver := parse.NewDriver(result.Table, opts...)
	return driver.Run(tokens)
}

// Run is the combined Tokenize+Parse convenience entry point used by the
// CLI and HTTP API: it tokenizes text, fails fast on any lexical error,
// then parses the resulting token stream with a fresh symbol table
// (seeded with f.opts.ReservedWords) and returns both the parse verdict
// and the populated table.
func (f *Frontend) Run(text string) (parse.Result, *symtab.Table, error) {
	tokens, err := f.Tokenize(text)
	if err != nil {
		return parse.Result{}, nil, err
	}
	table := symtab.New(symtab.WithCategoryOverrides(f.opts.ReservedWords))
	res, err := f.Parse(tokens, parse.WithSymbolTable(table))
	return res, table, err
}

func parseDefinitions(src string) ([]regex.Definition, error) {
	var defs []regex.Definition
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		def, err := regex.ParseDefinitionLine(line)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := sc.Err(); err != nil {
		return nil, fferrors.New("reading regex definitions", err)
	}
	return defs, nil
}
