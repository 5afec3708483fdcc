package tac_test

import (
	"testing"

	"github.com/mgomes/minitac/tac"
	"github.com/stretchr/testify/assert"
)

func validate(source string) (bool, []string) {
	tokens, _ := tac.Tokenize(source)
	return tac.Validate(tokens)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := []struct {
		name  string
		input string
	}{
		{"declaredAssignment", "int x ; x = 5 ;"},
		{"declarationWithInitializer", "int a = 2 + 3 ;"},
		{"forHeaderVariablesAreExempt", "for (i = 0; i < 10; i = i + 1) { }"},
		{"ifConditionIsExempt", "if (flag) { }"},
		{"whileConditionIsExempt", "while (n > 0) { }"},
		{"nestedParensInHeader", "int a ; if ((a + 1) > (2)) { a = 0 ; }"},
		{"switchWithCasesAndDefault", "int x ; switch (x) { case 1 : x = 2 ; case 2 : x = 3 ; default : x = 4 ; }"},
		{"switchWithOnlyDefault", "int x ; switch (x) { default : x = 1 ; }"},
		{"declaredInsideForHeader", "int s ; for (int i = 0; i < 3; i = i + 1) { s = s + i ; }"},
	}

	for _, input := range valid {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			ok, diags := validate(input.input)
			assert.True(t, ok, "diagnostics: %v", diags)
			assert.Empty(t, diags)
		})
	}

	invalid := []struct {
		name  string
		input string
		diags []string
	}{
		{"noTokens", "", []string{"no tokens to analyze"}},
		{"strayClosingBrace", "if (x) { } }", []string{"mismatched closing brace '}'"}},
		{"unclosedBrace", "int x ; { x = 1 ;", []string{"unmatched opening brace '{'"}},
		{"strayClosingParen", "int x ; x = 1 ) ;", []string{"mismatched closing parenthesis ')'"}},
		{"unclosedParen", "int x ; x = ( 1 ;", []string{"unmatched opening parenthesis '('"}},
		{"undeclaredVariable", "x = 5 ;", []string{"undeclared variable 'x' used"}},
		{"undeclaredInBody", "while (x < 5) { x = x + 1 ; }", []string{"undeclared variable 'x' used"}},
		{"ifWithoutParen", "int x ; if x { }", []string{"expected '(' after 'if' at token 3"}},
		{"whileWithoutBlock", "int x ; while (x) x = 1 ;", []string{"expected '{' after 'while' condition"}},
		{"forWithOneSemicolon", "for (i = 0; i < 3) { }", []string{"expected exactly two semicolons in 'for' loop declaration"}},
		{"forWithoutBlock", "for (i = 0; i < 3; i = i + 1) ;", []string{"expected '{' after 'for' loop"}},
		{"switchWithoutCase", "int x ; switch (x) { x = 1 ; }", []string{"'switch' statement must contain at least one 'case' or 'default'"}},
		{"caseWithoutValue", "int x ; switch (x) { case : x = 1 ; }", []string{"expected constant or identifier after 'case'"}},
		{"caseWithoutColon", "int x ; switch (x) { case 1 x = 1 ; }", []string{"expected ':' after 'case' value"}},
		{"typeWithoutIdentifier", "int 5 ;", []string{"expected identifier after type at token 0"}},
		{
			name:  "controlChecksAccumulate",
			input: "if x { } while y { }",
			diags: []string{"expected '(' after 'if' at token 0", "expected '(' after 'while' at token 4"},
		},
	}

	for _, input := range invalid {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			ok, diags := validate(input.input)
			assert.False(t, ok)
			assert.Equal(t, input.diags, diags)
		})
	}
}

func TestValidateStopsAtFirstFailingCheck(t *testing.T) {
	// Braces fail first, so the undeclared variable is never reported.
	ok, diags := validate("y = 1 ; }")
	assert.False(t, ok)
	assert.Equal(t, []string{"mismatched closing brace '}'"}, diags)
}

func TestValidatorResetsBetweenCalls(t *testing.T) {
	var v tac.Validator

	tokens, _ := tac.Tokenize("int y ; y = 1 ;")
	ok, diags := v.Check(tokens)
	assert.True(t, ok)
	assert.Empty(t, diags)

	tokens, _ = tac.Tokenize("y = 1 ;")
	ok, diags = v.Check(tokens)
	assert.False(t, ok)
	assert.Equal(t, []string{"undeclared variable 'y' used"}, diags)
}

func TestVerdictText(t *testing.T) {
	assert.Equal(t, "Syntax is valid.", tac.Verdict(true, nil))
	assert.Equal(t, "No syntax errors found.", tac.DiagnosticText(nil))
	assert.Equal(t, "a\nb", tac.Verdict(false, []string{"a", "b"}))
}
