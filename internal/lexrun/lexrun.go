// Package lexrun implements the longest-match ("maximal munch") lexer
// runtime that scans input text against a combined DFA produced by
// internal/automaton's subset construction.
package lexrun

import (
	"github.com/corvidlab/frontendforge/internal/automaton"
)

// ErrorToken is the sentinel token kind emitted for a run of input with no
// matching pattern, matching the original's "erro!" marker.
const ErrorToken = "erro!"

// EndToken is the sentinel token kind used for the end-of-input marker fed
// to the parser.
const EndToken = "$"

// Token is a single recognized lexeme and the name of the pattern that
// matched it (or ErrorToken if none did).
type Token struct {
	Lexeme string
	Kind   string
}

// Scan runs the longest-match algorithm over text using dfa, returning one
// Token per recognized (or rejected) run. On a run with no accepting
// state reached, a single-character ErrorToken is emitted and the scan
// resumes at the next character (the lexer's only error-recovery
// mechanism).
func Scan(dfa *automaton.DFA, text string) []Token {
	runes := []rune(text)
	var tokens []Token

	i := 0
	for i < len(runes) {
		state := dfa.Start
		lastAccept := -1
		lastAcceptEnd := i
		cur := i

		for cur < len(runes) {
			next, ok := dfa.Trans[state][runes[cur]]
			if !ok {
				break
			}
			state = next
			cur++
			if dfa.Accept.Has(state) {
				lastAccept = state
				lastAcceptEnd = cur
			}
		}

		if lastAccept >= 0 {
			lexeme := string(runes[i:lastAcceptEnd])
			kind, ok := dfa.ResolveToken(lastAccept)
			if !ok {
				kind = ErrorToken
			}
			tokens = append(tokens, Token{Lexeme: lexeme, Kind: kind})
			i = lastAcceptEnd
		} else {
			tokens = append(tokens, Token{Lexeme: string(runes[i]), Kind: ErrorToken})
			i++
		}
	}

	return tokens
}

// HasErrors returns whether any token in tokens is an ErrorToken.
func HasErrors(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind == ErrorToken {
			return true
		}
	}
	return false
}
