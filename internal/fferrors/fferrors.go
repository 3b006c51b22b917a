// Package fferrors holds the error sentinels and wrapped-cause Error type
// shared across frontendforge's pipeline stages. Every stage (regex, syntax
// tree, automaton, grammar, parse) returns one of the sentinels below,
// optionally wrapped with positional or contextual detail via New.
package fferrors

import "errors"

var (
	// ErrSyntax marks a malformed regular expression or grammar source.
	ErrSyntax = errors.New("malformed source")
	// ErrUndefinedSymbol marks a reference to a grammar symbol that was
	// never defined by a production.
	ErrUndefinedSymbol = errors.New("undefined symbol")
	// ErrAmbiguousGrammar marks a shift/reduce or reduce/reduce conflict
	// found while constructing an SLR(1) parse table.
	ErrAmbiguousGrammar = errors.New("grammar is not SLR(1)")
	// ErrLexical marks a run of input text with no matching token pattern.
	ErrLexical = errors.New("no lexical pattern matches input")
	// ErrParse marks a token sequence rejected by the parse table.
	ErrParse = errors.New("input rejected by parser")
	// ErrNotFound marks a lookup (state, item, history run) that produced
	// no result.
	ErrNotFound = errors.New("not found")
	// ErrConfig marks a malformed or incomplete configuration file.
	ErrConfig = errors.New("invalid configuration")
)

// Error is a typed error used throughout frontendforge. It carries a
// message plus zero or more causes; calling errors.Is on an Error with any
// of its causes (including the sentinels above) as target returns true.
//
// Error should not be constructed directly; call New.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and causes. cause is usually
// one of the sentinels in this package, optionally along with the
// underlying error that triggered it.
func New(msg string, cause ...error) Error {
	e := Error{msg: msg}
	if len(cause) > 0 {
		e.cause = make([]error, len(cause))
		copy(e.cause, cause)
	}
	return e
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of e, for use with errors.Is/errors.As.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is reports whether target is e itself or one of its causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg != errTarget.msg || len(e.cause) != len(errTarget.cause) {
			return false
		}
		for i := range e.cause {
			if e.cause[i] != errTarget.cause[i] {
				return false
			}
		}
		return true
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}
