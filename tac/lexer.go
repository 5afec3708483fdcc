package tac

import (
	"fmt"
	"regexp"
	"strings"
)

// Alternatives are tried left to right at each position, so keywords win over
// identifiers and identifiers over numbers.
var tokenPattern = regexp.MustCompile(strings.Join([]string{
	`(\b(?:int|float|double|char|boolean|if|else|while|for|switch|case|default)\b)`,
	`(\b[a-zA-Z_][a-zA-Z0-9_]*\b)`,
	`(\b[0-9]+(?:\.[0-9]+)?\b)`,
	`([+\-*/=><!]=?)`,
	`([;(){}\[\]:])`,
	`("[^"]*")`,
}, "|"))

// patternKinds is indexed by capture group, matching tokenPattern's order.
var patternKinds = [...]Kind{
	KindKeyword,
	KindIdentifier,
	KindNumber,
	KindOperator,
	KindSymbol,
	KindStringLiteral,
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// ScanResult is everything one lexing pass produces.
type ScanResult struct {
	Tokens  []Token
	Symbols []SymbolEntry
	// Preview is the quick preview: a textual TAC sketch of simple
	// assignments (a = b, a = b op c) built while scanning. It is not the
	// generator's output and may disagree with it on anything longer.
	Preview []string
}

// Tokenize splits source into tokens and collects declared symbols in
// declaration order.
func Tokenize(source string) ([]Token, []SymbolEntry) {
	res := Scan(source)
	return res.Tokens, res.Symbols
}

// Scan is Tokenize plus the quick preview.
func Scan(source string) *ScanResult {
	res := &ScanResult{}
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(source, " "))
	if normalized == "" {
		return res
	}

	l := &lexer{res: res}
	last := 0
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(normalized, -1) {
		l.unknown(normalized[last:m[0]])
		l.emit(Token{Kind: matchKind(m), Text: normalized[m[0]:m[1]]})
		last = m[1]
	}
	l.unknown(normalized[last:])
	l.preview.flush()
	res.Preview = l.preview.lines
	return res
}

func matchKind(m []int) Kind {
	for group := range patternKinds {
		if m[2*(group+1)] >= 0 {
			return patternKinds[group]
		}
	}
	return KindUnknown
}

type lexer struct {
	res     *ScanResult
	decl    declTracker
	preview previewer
	prev    Token
}

func (l *lexer) emit(tok Token) {
	l.res.Tokens = append(l.res.Tokens, tok)
	if sym, ok := l.decl.observe(tok); ok {
		l.res.Symbols = append(l.res.Symbols, sym)
	}
	l.preview.observe(l.prev, tok)
	l.prev = tok
}

// unknown emits one UNKNOWN token per non-space chunk of text the pattern
// skipped over.
func (l *lexer) unknown(gap string) {
	for _, chunk := range strings.Fields(gap) {
		l.emit(Token{Kind: KindUnknown, Text: chunk})
	}
}

type declState int

const (
	declIdle declState = iota
	declAwaitingIdentifier
)

// declTracker binds a type keyword to the next identifier. Only declarable
// types arm it; one type keyword declares at most one name.
type declTracker struct {
	state   declState
	pending string
}

func (d *declTracker) observe(tok Token) (SymbolEntry, bool) {
	switch {
	case tok.Kind == KindKeyword && isDeclarableType(tok.Text):
		d.state = declAwaitingIdentifier
		d.pending = tok.Text
	case tok.Kind == KindIdentifier && d.state == declAwaitingIdentifier:
		sym := SymbolEntry{Name: tok.Text, Type: d.pending}
		d.state = declIdle
		d.pending = ""
		return sym, true
	}
	return SymbolEntry{}, false
}

// previewer buffers "target = ..." up to the next semicolon and reduces the
// two shapes it understands. Its temp counter is independent of Generate's.
type previewer struct {
	buffer []string
	active bool
	temps  int
	lines  []string
}

func (p *previewer) observe(prev, tok Token) {
	switch {
	case !p.active && tok.is(KindOperator, "=") && prev.Kind == KindIdentifier:
		p.buffer = append(p.buffer[:0], prev.Text, tok.Text)
		p.active = true
	case p.active && tok.is(KindSymbol, ";"):
		p.flush()
	case p.active:
		p.buffer = append(p.buffer, tok.Text)
	}
}

func (p *previewer) flush() {
	if !p.active {
		return
	}
	p.active = false
	buf := p.buffer
	switch {
	case len(buf) == 3:
		p.lines = append(p.lines, buf[0]+" = "+buf[2])
	case len(buf) == 5 && isArithmetic(buf[3]):
		p.temps++
		temp := fmt.Sprintf("t%d", p.temps)
		p.lines = append(p.lines, fmt.Sprintf("%s = %s %s %s", temp, buf[2], buf[3], buf[4]))
		p.lines = append(p.lines, buf[0]+" = "+temp)
	}
}

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/":
		return true
	default:
		return false
	}
}
