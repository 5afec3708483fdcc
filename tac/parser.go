package tac

import "strings"

// parser builds the statement tree Generate walks. It never fails: tokens it
// cannot place in a statement are skipped, and malformed assignments become
// BadAssignStmt nodes so the generator can report them inline.
type parser struct {
	tokens []Token
	pos    int
}

// Parse builds a statement tree from tokens. Statement dispatch is identical
// at top level and inside blocks.
func Parse(tokens []Token) *Program {
	p := &parser{tokens: tokens}
	program := &Program{}
	for !p.atEnd() {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) cur() Token {
	if p.atEnd() {
		return Token{}
	}
	return p.tokens[p.pos]
}

func (p *parser) curIs(text string) bool {
	return !p.atEnd() && p.tokens[p.pos].Text == text
}

func (p *parser) curKeyword(words ...string) bool {
	tok := p.cur()
	if tok.Kind != KindKeyword {
		return false
	}
	for _, w := range words {
		if tok.Text == w {
			return true
		}
	}
	return false
}

// parseStatement always consumes at least one token.
func (p *parser) parseStatement() Statement {
	tok := p.cur()
	switch {
	case tok.is(KindKeyword, "if"):
		return p.parseIfStatement()
	case tok.is(KindKeyword, "while"):
		return p.parseWhileStatement()
	case tok.is(KindKeyword, "for"):
		return p.parseForStatement()
	case tok.is(KindKeyword, "switch"):
		return p.parseSwitchStatement()
	case tok.is(KindOperator, "="):
		return p.parseAssignStatement()
	default:
		p.pos++
		return nil
	}
}

func (p *parser) parseAssignStatement() Statement {
	pos := p.pos
	if pos == 0 || pos+1 >= len(p.tokens) || p.tokens[pos-1].Kind != KindIdentifier {
		p.pos++
		return &BadAssignStmt{position: pos}
	}
	target := p.tokens[pos-1].Text

	p.pos++
	start := p.pos
	for !p.atEnd() && !p.curIs(";") && !p.curIs("}") {
		p.pos++
	}
	value := p.tokens[start:p.pos]
	if p.curIs(";") {
		p.pos++
	}
	return &AssignStmt{Target: target, Value: value, position: pos}
}

// parseHeader consumes the keyword and its parenthesized header, returning
// the tokens between the parens. A missing "(" yields no header.
func (p *parser) parseHeader() []Token {
	p.pos++
	if !p.curIs("(") {
		return nil
	}
	p.pos++
	start := p.pos
	depth := 0
	for !p.atEnd() {
		if p.curIs("(") {
			depth++
		} else if p.curIs(")") {
			if depth == 0 {
				break
			}
			depth--
		}
		p.pos++
	}
	header := p.tokens[start:p.pos]
	if p.curIs(")") {
		p.pos++
	}
	return header
}

// parseBlock parses "{ ... }". Without a "{" there is no body.
func (p *parser) parseBlock() []Statement {
	if !p.curIs("{") {
		return nil
	}
	p.pos++
	stmts := []Statement{}
	for !p.atEnd() && !p.curIs("}") {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.curIs("}") {
		p.pos++
	}
	return stmts
}

func (p *parser) parseIfStatement() Statement {
	pos := p.pos
	stmt := &IfStmt{position: pos}
	stmt.Condition = joinTokens(p.parseHeader())
	stmt.Consequent = p.parseBlock()

	if p.curKeyword("else") {
		p.pos++
		stmt.HasElse = true
		if p.curKeyword("if") {
			stmt.Alternate = []Statement{p.parseIfStatement()}
		} else {
			stmt.Alternate = p.parseBlock()
		}
	}
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.pos
	cond := joinTokens(p.parseHeader())
	body := p.parseBlock()
	return &WhileStmt{Condition: cond, Body: body, position: pos}
}

func (p *parser) parseForStatement() Statement {
	pos := p.pos
	parts := splitHeader(p.parseHeader())
	body := p.parseBlock()
	return &ForStmt{Init: parts[0], Condition: parts[1], Post: parts[2], Body: body, position: pos}
}

func (p *parser) parseSwitchStatement() Statement {
	pos := p.pos
	stmt := &SwitchStmt{Subject: joinTokens(p.parseHeader()), position: pos}
	if !p.curIs("{") {
		return stmt
	}
	p.pos++
	for !p.atEnd() && !p.curIs("}") {
		switch {
		case p.curKeyword("case"):
			clause := &CaseClause{position: p.pos}
			p.pos++
			clause.Value = p.cur().Text
			if !p.atEnd() {
				p.pos++
			}
			if p.curIs(":") {
				p.pos++
			}
			clause.Body = p.parseCaseBody()
			stmt.Clauses = append(stmt.Clauses, clause)
		case p.curKeyword("default"):
			clause := &CaseClause{IsDefault: true, position: p.pos}
			p.pos++
			if p.curIs(":") {
				p.pos++
			}
			clause.Body = p.parseCaseBody()
			stmt.Clauses = append(stmt.Clauses, clause)
		default:
			p.pos++
		}
	}
	if p.curIs("}") {
		p.pos++
	}
	return stmt
}

func (p *parser) parseCaseBody() []Statement {
	stmts := []Statement{}
	for !p.atEnd() && !p.curIs("}") && !p.curKeyword("case", "default") {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// splitHeader splits a for header into init, condition and post on its first
// two top-level semicolons. Anything after the second stays in post.
func splitHeader(header []Token) [3]string {
	var parts [3][]Token
	part, depth := 0, 0
	for _, tok := range header {
		switch tok.Text {
		case "(":
			depth++
		case ")":
			depth--
		case ";":
			if depth == 0 && part < 2 {
				part++
				continue
			}
		}
		parts[part] = append(parts[part], tok)
	}
	return [3]string{joinTokens(parts[0]), joinTokens(parts[1]), joinTokens(parts[2])}
}

func joinTokens(tokens []Token) string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return strings.Join(texts, " ")
}
