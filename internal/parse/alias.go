package parse

// tokenAlias is the fixed lexer-kind-to-grammar-terminal alias table: lexer
// patterns are conventionally named after what they match (so a scanner
// reports kind "plus" for a "+" lexeme), while grammars are conventionally
// written with the literal symbol as the terminal. The driver bridges the
// two before every ACTION/GOTO lookup, matching the original's TOKEN_REMAP
// applied to the token stream before parsing begins.
var tokenAlias = map[string]string{
	"plus":  "+",
	"times": "*",
	"lpar":  "(",
	"rpar":  ")",
	"minus": "-",
	"div":   "/",
}

// resolveAlias translates a lexer kind name to its grammar terminal name via
// the fixed alias table, returning kind unchanged if it has no alias.
func resolveAlias(kind string) string {
	if alias, ok := tokenAlias[kind]; ok {
		return alias
	}
	return kind
}
