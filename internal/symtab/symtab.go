// Package symtab implements the append-only symbol table populated by
// internal/parse's Driver as it shifts terminals: every distinct lexeme
// seen is assigned a first-seen-order index and a category (a reserved
// word's static category, or "ID" otherwise).
package symtab

import (
	"fmt"
	"strings"
)

// DefaultIdentifierCategory is the category assigned to a lexeme that is
// not one of the table's reserved words.
const DefaultIdentifierCategory = "ID"

// Entry is one symbol table row.
type Entry struct {
	Index    int
	Category string
}

// Table is an append-only, insertion-ordered symbol table.
type Table struct {
	entries  map[string]Entry
	order    []string
	reserved map[string]string
	counter  int
}

// Option configures a Table at construction time.
type Option func(*Table)

// WithCategoryOverrides seeds the table with a static reserved-word ->
// category map (e.g. {"if": "PR", "while": "PR"}), consulted by Intern
// before falling back to DefaultIdentifierCategory.
func WithCategoryOverrides(reserved map[string]string) Option {
	return func(t *Table) {
		for k, v := range reserved {
			t.reserved[k] = v
		}
	}
}

// New creates an empty Table, with indices starting at 1.
func New(opts ...Option) *Table {
	t := &Table{
		entries:  map[string]Entry{},
		reserved: map[string]string{},
		counter:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Intern records lexeme if it has not been seen before, assigning it the
// next available index and its reserved-word category (or
// DefaultIdentifierCategory). It returns the (possibly pre-existing)
// entry.
func (t *Table) Intern(lexeme string) Entry {
	if e, ok := t.entries[lexeme]; ok {
		return e
	}
	category := DefaultIdentifierCategory
	if cat, ok := t.reserved[lexeme]; ok {
		category = cat
	}
	e := Entry{Index: t.counter, Category: category}
	t.entries[lexeme] = e
	t.order = append(t.order, lexeme)
	t.counter++
	return e
}

// Lookup returns the entry for lexeme, if interned.
func (t *Table) Lookup(lexeme string) (Entry, bool) {
	e, ok := t.entries[lexeme]
	return e, ok
}

// Len returns the number of distinct lexemes interned.
func (t *Table) Len() int {
	return len(t.order)
}

// String renders the table in insertion order as "index: lexeme (category)"
// lines, preceded by a header, matching the format printed on parser
// termination.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("------ Symbol Table ------\n")
	for _, lexeme := range t.order {
		e := t.entries[lexeme]
		fmt.Fprintf(&b, "%d: %s (%s)\n", e.Index, lexeme, e.Category)
	}
	return b.String()
}
