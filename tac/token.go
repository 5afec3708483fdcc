package tac

// Kind identifies the lexical category of a token.
type Kind string

const (
	KindKeyword       Kind = "KEYWORD"
	KindIdentifier    Kind = "IDENTIFIER"
	KindNumber        Kind = "NUMBER"
	KindOperator      Kind = "OPERATOR"
	KindSymbol        Kind = "SYMBOL"
	KindStringLiteral Kind = "STRING_LITERAL"
	KindUnknown       Kind = "UNKNOWN"
)

// Token is a single lexical unit. Tokens are created once by the lexer and
// shared read-only by the validator and the generator.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	return string(t.Kind) + " " + t.Text
}

func (t Token) is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// SymbolEntry records an identifier declared right after a type keyword.
// Re-declarations append a second entry; names are not deduplicated.
type SymbolEntry struct {
	Name string
	Type string
}

// SetType corrects the recorded type of the entry.
func (s *SymbolEntry) SetType(typ string) {
	s.Type = typ
}

var declarableTypes = map[string]struct{}{
	"int":     {},
	"float":   {},
	"double":  {},
	"char":    {},
	"boolean": {},
}

var controlKeywords = map[string]struct{}{
	"if":     {},
	"while":  {},
	"for":    {},
	"switch": {},
}

func isDeclarableType(text string) bool {
	_, ok := declarableTypes[text]
	return ok
}

func isControlKeyword(tok Token) bool {
	if tok.Kind != KindKeyword {
		return false
	}
	_, ok := controlKeywords[tok.Text]
	return ok
}
