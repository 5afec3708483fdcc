package tac

import (
	"fmt"
	"strconv"
)

var precedences = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
}

// toPostfix reorders an infix expression with the shunting-yard algorithm.
// Identifiers and numbers are operands; tokens that are neither operands,
// arithmetic operators nor parens are dropped. Mismatched parens yield nil.
func toPostfix(expr []Token) []Token {
	var out, stack []Token
	for _, tok := range expr {
		switch {
		case tok.Kind == KindIdentifier || tok.Kind == KindNumber:
			out = append(out, tok)
		case tok.Kind == KindOperator && isArithmetic(tok.Text):
			prec := precedences[tok.Text]
			for len(stack) > 0 && precedences[stack[len(stack)-1].Text] >= prec {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case tok.Text == "(":
			stack = append(stack, tok)
		case tok.Text == ")":
			for len(stack) > 0 && stack[len(stack)-1].Text != "(" {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil
			}
			stack = stack[:len(stack)-1]
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Text == "(" {
			return nil
		}
		out = append(out, top)
	}
	return out
}

// operand is a value on the evaluation stack: a literal, a variable or a
// temporary. Literals carry their numeric value so they can be folded.
type operand struct {
	text     string
	value    float64
	constant bool
}

func literal(v float64) operand {
	return operand{text: strconv.FormatFloat(v, 'f', -1, 64), value: v, constant: true}
}

// evaluatePostfix emits TAC for postfix and returns the operand holding the
// final value. Operations on two literals are folded without emitting a
// line. It reports false, after emitting an error line, when the expression
// does not reduce to exactly one value.
func (g *generator) evaluatePostfix(postfix []Token) (string, bool) {
	var stack []operand
	for _, tok := range postfix {
		if tok.Kind != KindOperator {
			stack = append(stack, g.operandFor(tok))
			continue
		}
		if len(stack) < 2 {
			g.emitf("Error: Invalid expression, insufficient operands for %s", tok.Text)
			return "", false
		}
		rhs := stack[len(stack)-1]
		lhs := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		if lhs.constant && rhs.constant {
			stack = append(stack, literal(g.fold(lhs.value, tok.Text, rhs.value)))
			continue
		}
		temp := g.newTemp()
		g.emitf("%s = %s %s %s", temp, lhs.text, tok.Text, rhs.text)
		stack = append(stack, operand{text: temp})
	}
	if len(stack) != 1 {
		g.emit("Error: Invalid expression structure")
		return "", false
	}
	return stack[0].text, true
}

func (g *generator) operandFor(tok Token) operand {
	if tok.Kind == KindNumber {
		if v, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return operand{text: tok.Text, value: v, constant: true}
		}
	}
	return operand{text: tok.Text}
}

// fold computes lhs op rhs. Division by zero yields 0 and an error line.
func (g *generator) fold(lhs float64, op string, rhs float64) float64 {
	switch op {
	case "+":
		return lhs + rhs
	case "-":
		return lhs - rhs
	case "*":
		return lhs * rhs
	case "/":
		if rhs == 0 {
			g.emit("Error: Division by zero")
			return 0
		}
		return lhs / rhs
	default:
		panic(fmt.Sprintf("tac: unexpected operator %q", op))
	}
}
