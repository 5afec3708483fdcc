package tac

import (
	"fmt"
	"strings"
)

const (
	noTokensMessage      = "No tokens provided."
	noExpressionsMessage = "No valid expressions found."
)

// generator owns the label and temp counters for one Generate call.
type generator struct {
	lines  []string
	labels int
	temps  int
}

// Generate lowers tokens to three-address code, one instruction per line.
// It does not require the tokens to pass Validate.
func Generate(tokens []Token) string {
	if len(tokens) == 0 {
		return noTokensMessage
	}
	return GenerateProgram(Parse(tokens))
}

// GenerateProgram lowers an already parsed statement tree.
func GenerateProgram(program *Program) string {
	g := &generator{}
	g.genStatements(program.Statements)
	if len(g.lines) == 0 {
		return noExpressionsMessage
	}
	return strings.Join(g.lines, "\n")
}

func (g *generator) newLabel() string {
	g.labels++
	return fmt.Sprintf("L%d", g.labels)
}

func (g *generator) newTemp() string {
	g.temps++
	return fmt.Sprintf("t%d", g.temps)
}

func (g *generator) emit(line string) {
	g.lines = append(g.lines, line)
}

func (g *generator) emitf(format string, args ...any) {
	g.emit(fmt.Sprintf(format, args...))
}

// prepend inserts line ahead of everything emitted so far.
func (g *generator) prepend(line string) {
	g.lines = append([]string{line}, g.lines...)
}

func (g *generator) genStatements(stmts []Statement) {
	for _, stmt := range stmts {
		g.genStatement(stmt)
	}
}

func (g *generator) genStatement(stmt Statement) {
	switch n := stmt.(type) {
	case *AssignStmt:
		g.genAssign(n)
	case *BadAssignStmt:
		g.emitf("Error: Invalid assignment at token %d", n.Pos())
	case *IfStmt:
		g.genIf(n)
	case *WhileStmt:
		g.genWhile(n)
	case *ForStmt:
		g.genFor(n)
	case *SwitchStmt:
		g.genSwitch(n)
	}
}

func (g *generator) genAssign(n *AssignStmt) {
	if len(n.Value) == 0 {
		g.emitf("Error: Empty expression in assignment at token %d", n.Pos())
		return
	}
	postfix := toPostfix(n.Value)
	if len(postfix) == 0 {
		g.emitf("Error: Invalid expression in assignment at token %d", n.Pos())
		return
	}
	if result, ok := g.evaluatePostfix(postfix); ok {
		g.emitf("%s = %s", n.Target, result)
	}
}

func (g *generator) genIf(n *IfStmt) {
	end := g.newLabel()
	alt := g.newLabel()
	g.emitf("ifFalse %s goto %s", n.Condition, alt)
	g.genStatements(n.Consequent)
	g.emitf("goto %s", end)
	g.emitf("%s:", alt)
	g.genStatements(n.Alternate)
	g.emitf("%s:", end)
}

func (g *generator) genWhile(n *WhileStmt) {
	loop := g.newLabel()
	end := g.newLabel()
	g.emitf("%s:", loop)
	g.emitf("ifFalse %s goto %s", n.Condition, end)
	g.genStatements(n.Body)
	g.emitf("goto %s", loop)
	g.emitf("%s:", end)
}

func (g *generator) genFor(n *ForStmt) {
	loop := g.newLabel()
	end := g.newLabel()
	if n.Init != "" {
		g.emit(n.Init)
	}
	g.emitf("%s:", loop)
	if n.Condition != "" {
		g.emitf("ifFalse %s goto %s", n.Condition, end)
	}
	g.genStatements(n.Body)
	if n.Post != "" {
		g.emit(n.Post)
	}
	g.emitf("goto %s", loop)
	g.emitf("%s:", end)
}

type caseTarget struct {
	value string
	label string
}

// genSwitch emits each arm under its own label, then inserts the dispatch
// jumps at the very start of the output one at a time. The result lists
// the default jump first and the case jumps in reverse case order, ahead of
// all code generated so far. Consumers rely on this exact text.
func (g *generator) genSwitch(n *SwitchStmt) {
	var targets []caseTarget
	defaultLabel := ""
	for _, clause := range n.Clauses {
		label := g.newLabel()
		g.emitf("%s:", label)
		if clause.IsDefault {
			defaultLabel = label
		} else {
			targets = setCaseTarget(targets, clause.Value, label)
		}
		g.genStatements(clause.Body)
	}
	for _, t := range targets {
		g.prepend(fmt.Sprintf("if %s == %s goto %s", n.Subject, t.value, t.label))
	}
	if defaultLabel != "" {
		g.prepend("goto " + defaultLabel)
	}
	g.emitf("%s:", g.newLabel())
}

// setCaseTarget keeps a repeated case value in its first position and points
// it at the newest label.
func setCaseTarget(targets []caseTarget, value, label string) []caseTarget {
	for i := range targets {
		if targets[i].value == value {
			targets[i].label = label
			return targets
		}
	}
	return append(targets, caseTarget{value: value, label: label})
}
