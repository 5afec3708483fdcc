package tac

import (
	"fmt"
	"strings"
)

// Validator checks structure and declare-before-use over a token slice. The
// only state it keeps is the set of names declared during the current call.
type Validator struct {
	tokens   []Token
	declared map[string]struct{}
	diags    []string
}

// Validate runs a fresh Validator over tokens.
func Validate(tokens []Token) (bool, []string) {
	var v Validator
	return v.Check(tokens)
}

// Check reports whether tokens pass brace balance, paren balance, control
// structure shape and use-before-declare, in that order. Checking stops at
// the first failing stage; diagnostics describe that stage only.
func (v *Validator) Check(tokens []Token) (bool, []string) {
	v.tokens = tokens
	v.declared = make(map[string]struct{})
	v.diags = nil

	if len(tokens) == 0 {
		v.errorf("no tokens to analyze")
		return false, v.diags
	}

	ok := v.checkBalance("{", "}", "brace") &&
		v.checkBalance("(", ")", "parenthesis") &&
		v.checkControlStructures() &&
		v.checkVariableUsage()
	return ok, v.diags
}

// DiagnosticText joins diagnostics one per line.
func DiagnosticText(diags []string) string {
	if len(diags) == 0 {
		return "No syntax errors found."
	}
	return strings.Join(diags, "\n")
}

// Verdict is the one-line summary shown after a check.
func Verdict(ok bool, diags []string) string {
	if ok {
		return "Syntax is valid."
	}
	return DiagnosticText(diags)
}

func (v *Validator) errorf(format string, args ...any) {
	v.diags = append(v.diags, fmt.Sprintf(format, args...))
}

func (v *Validator) text(i int) string {
	if i < 0 || i >= len(v.tokens) {
		return ""
	}
	return v.tokens[i].Text
}

func (v *Validator) checkBalance(open, closing, name string) bool {
	depth := 0
	for _, tok := range v.tokens {
		switch tok.Text {
		case open:
			depth++
		case closing:
			depth--
		}
		if depth < 0 {
			v.errorf("mismatched closing %s '%s'", name, closing)
			return false
		}
	}
	if depth != 0 {
		v.errorf("unmatched opening %s '%s'", name, open)
		return false
	}
	return true
}

func (v *Validator) checkControlStructures() bool {
	valid := true
	for i, tok := range v.tokens {
		if tok.Kind != KindKeyword {
			continue
		}
		switch {
		case tok.Text == "if":
			valid = v.checkHeaderAndBlock(i, "'if' condition") && valid
		case tok.Text == "while":
			valid = v.checkHeaderAndBlock(i, "'while' condition") && valid
		case tok.Text == "for":
			valid = v.checkFor(i) && valid
		case tok.Text == "switch":
			valid = v.checkSwitch(i) && valid
		case isDeclarableType(tok.Text):
			valid = v.checkDeclaration(i) && valid
		}
	}
	return valid
}

// scanHeader expects "(" right after the keyword at i and returns the index
// just past the matching ")" plus the number of semicolons seen inside.
func (v *Validator) scanHeader(i int) (next, semicolons int, ok bool) {
	keyword := v.tokens[i].Text
	if v.text(i+1) != "(" {
		v.errorf("expected '(' after '%s' at token %d", keyword, i)
		return 0, 0, false
	}
	depth := 1
	j := i + 2
	for ; j < len(v.tokens) && depth > 0; j++ {
		switch v.tokens[j].Text {
		case "(":
			depth++
		case ")":
			depth--
		case ";":
			semicolons++
		}
	}
	if depth > 0 {
		return j, semicolons, false
	}
	return j, semicolons, true
}

func (v *Validator) checkHeaderAndBlock(i int, what string) bool {
	next, _, ok := v.scanHeader(i)
	if !ok {
		if next > 0 {
			v.errorf("unclosed parenthesis in %s", what)
		}
		return false
	}
	if v.text(next) != "{" {
		v.errorf("expected '{' after %s", what)
		return false
	}
	return true
}

func (v *Validator) checkFor(i int) bool {
	next, semicolons, ok := v.scanHeader(i)
	if !ok {
		if next > 0 {
			v.errorf("unclosed parenthesis in 'for' loop")
		}
		return false
	}
	if semicolons != 2 {
		v.errorf("expected exactly two semicolons in 'for' loop declaration")
		return false
	}
	if v.text(next) != "{" {
		v.errorf("expected '{' after 'for' loop")
		return false
	}
	return true
}

func (v *Validator) checkSwitch(i int) bool {
	if !v.checkHeaderAndBlock(i, "'switch' expression") {
		return false
	}
	next, _, _ := v.scanHeader(i)

	hasCase := false
	for j := next; j < len(v.tokens) && v.tokens[j].Text != "}"; j++ {
		tok := v.tokens[j]
		if tok.Kind != KindKeyword || (tok.Text != "case" && tok.Text != "default") {
			continue
		}
		hasCase = true
		if tok.Text == "default" {
			continue
		}
		j++
		if j >= len(v.tokens) || (v.tokens[j].Kind != KindNumber && v.tokens[j].Kind != KindIdentifier) {
			v.errorf("expected constant or identifier after 'case'")
			return false
		}
		j++
		if v.text(j) != ":" {
			v.errorf("expected ':' after 'case' value")
			return false
		}
	}
	if !hasCase {
		v.errorf("'switch' statement must contain at least one 'case' or 'default'")
		return false
	}
	return true
}

func (v *Validator) checkDeclaration(i int) bool {
	if i+1 >= len(v.tokens) || v.tokens[i+1].Kind != KindIdentifier {
		v.errorf("expected identifier after type at token %d", i)
		return false
	}
	v.declared[v.tokens[i+1].Text] = struct{}{}
	return true
}

func (v *Validator) checkVariableUsage() bool {
	inHeader := v.headerSpans()
	for i, tok := range v.tokens {
		if tok.Kind != KindIdentifier {
			continue
		}
		if _, ok := v.declared[tok.Text]; ok {
			continue
		}
		if inHeader[i] || v.followsControlKeyword(i) {
			continue
		}
		v.errorf("undeclared variable '%s' used", tok.Text)
		return false
	}
	return true
}

// headerSpans marks every token inside the parenthesized header of a control
// keyword. Loop and condition variables there need no declaration.
func (v *Validator) headerSpans() []bool {
	marked := make([]bool, len(v.tokens))
	for i, tok := range v.tokens {
		if !isControlKeyword(tok) || v.text(i+1) != "(" {
			continue
		}
		depth := 0
		for j := i + 1; j < len(v.tokens); j++ {
			switch v.tokens[j].Text {
			case "(":
				depth++
			case ")":
				depth--
			}
			if depth == 0 {
				break
			}
			marked[j] = true
		}
	}
	return marked
}

// followsControlKeyword scans backward from i and reports whether a control
// keyword appears before the statement boundary (";" or "{").
func (v *Validator) followsControlKeyword(i int) bool {
	for j := i - 1; j >= 0; j-- {
		tok := v.tokens[j]
		if isControlKeyword(tok) {
			return true
		}
		if tok.Text == ";" || tok.Text == "{" {
			return false
		}
	}
	return false
}
