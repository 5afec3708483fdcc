package tac_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/mgomes/minitac/tac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(kind tac.Kind, text string) tac.Token {
	return tac.Token{Kind: kind, Text: text}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	t.Run("declarationWithExpression", func(t *testing.T) {
		t.Parallel()

		tokens, symbols := tac.Tokenize("int a = 2 + 3 ;")
		assert.Equal(t, []tac.Token{
			tok(tac.KindKeyword, "int"),
			tok(tac.KindIdentifier, "a"),
			tok(tac.KindOperator, "="),
			tok(tac.KindNumber, "2"),
			tok(tac.KindOperator, "+"),
			tok(tac.KindNumber, "3"),
			tok(tac.KindSymbol, ";"),
		}, tokens)
		assert.Equal(t, []tac.SymbolEntry{{Name: "a", Type: "int"}}, symbols)
	})

	t.Run("emptyAfterNormalization", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "   ", "\n\t  \r\n"} {
			tokens, symbols := tac.Tokenize(input)
			assert.Empty(t, tokens)
			assert.Empty(t, symbols)
		}
	})

	t.Run("whitespaceIsIrrelevant", func(t *testing.T) {
		t.Parallel()

		spaced, _ := tac.Tokenize("int   x\n=\t4 ;")
		tight, _ := tac.Tokenize("int x=4;")
		assert.Equal(t, spaced, tight)
	})

	kinds := []struct {
		name  string
		input string
		kind  tac.Kind
	}{
		{"keywordType", "boolean", tac.KindKeyword},
		{"keywordElse", "else", tac.KindKeyword},
		{"keywordSwitch", "switch", tac.KindKeyword},
		{"keywordCase", "case", tac.KindKeyword},
		{"keywordDefault", "default", tac.KindKeyword},
		{"identifierWithKeywordPrefix", "integer", tac.KindIdentifier},
		{"identifierUnderscore", "_tmp1", tac.KindIdentifier},
		{"integer", "42", tac.KindNumber},
		{"fraction", "3.14", tac.KindNumber},
		{"lessEqual", "<=", tac.KindOperator},
		{"notEqual", "!=", tac.KindOperator},
		{"equality", "==", tac.KindOperator},
		{"bang", "!", tac.KindOperator},
		{"colon", ":", tac.KindSymbol},
		{"bracket", "[", tac.KindSymbol},
		{"string", `"hi there"`, tac.KindStringLiteral},
		{"unknown", "@", tac.KindUnknown},
		{"digitsGluedToLetters", "1abc", tac.KindUnknown},
	}

	for _, input := range kinds {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			tokens, _ := tac.Tokenize(input.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tok(input.kind, input.input), tokens[0])
		})
	}

	t.Run("unknownBetweenTokens", func(t *testing.T) {
		t.Parallel()

		tokens, _ := tac.Tokenize("a#b , c")
		assert.Equal(t, []tac.Token{
			tok(tac.KindIdentifier, "a"),
			tok(tac.KindUnknown, "#"),
			tok(tac.KindIdentifier, "b"),
			tok(tac.KindUnknown, ","),
			tok(tac.KindIdentifier, "c"),
		}, tokens)
	})

	t.Run("everyCharacterLandsInAToken", func(t *testing.T) {
		t.Parallel()

		spaces := regexp.MustCompile(`\s+`)
		inputs := []string{
			`int a=2+3;x@ "s t"`,
			"while (x < 5) { x = x + 1 ; } $$ ~",
			"for(i=0;i<=9;i=i+1){s=s*2.5;}",
			`"unterminated`,
		}
		for _, input := range inputs {
			tokens, _ := tac.Tokenize(input)
			var b strings.Builder
			for _, tk := range tokens {
				b.WriteString(tk.Text)
			}
			assert.Equal(t, spaces.ReplaceAllString(input, ""), spaces.ReplaceAllString(b.String(), ""), input)
		}
	})
}

func TestTokenizeSymbols(t *testing.T) {
	t.Parallel()

	symbols := []struct {
		name  string
		input string
		want  []tac.SymbolEntry
	}{
		{
			name:  "declarationOrder",
			input: "double d ; int i ; char c ;",
			want:  []tac.SymbolEntry{{Name: "d", Type: "double"}, {Name: "i", Type: "int"}, {Name: "c", Type: "char"}},
		},
		{
			name:  "redeclarationKeepsBoth",
			input: "int x ; float x ;",
			want:  []tac.SymbolEntry{{Name: "x", Type: "int"}, {Name: "x", Type: "float"}},
		},
		{
			name:  "onlyFirstIdentifierIsDeclared",
			input: "int a , b ;",
			want:  []tac.SymbolEntry{{Name: "a", Type: "int"}},
		},
		{
			name:  "pendingTypeSurvivesOtherTokens",
			input: "int ( y",
			want:  []tac.SymbolEntry{{Name: "y", Type: "int"}},
		},
		{
			name:  "controlKeywordsDeclareNothing",
			input: "if ( x ) { } while ( y ) { } for ( z ; ; ) { }",
			want:  nil,
		},
	}

	for _, input := range symbols {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			_, got := tac.Tokenize(input.input)
			assert.Equal(t, input.want, got)
		})
	}
}

func TestSymbolEntrySetType(t *testing.T) {
	entry := tac.SymbolEntry{Name: "n", Type: "int"}
	entry.SetType("double")
	assert.Equal(t, "double", entry.Type)
}

func TestScanQuickPreview(t *testing.T) {
	t.Parallel()

	previews := []struct {
		name  string
		input string
		want  []string
	}{
		{"copy", "c = d ;", []string{"c = d"}},
		{"binary", "int a = 2 + b ;", []string{"t1 = 2 + b", "a = t1"}},
		{"countsOwnTemps", "a = b * c ; d = e - f ;", []string{"t1 = b * c", "a = t1", "t2 = e - f", "d = t2"}},
		{"longerExpressionsAreSkipped", "x = a + b * c ;", nil},
		{"nonArithmeticMiddleIsSkipped", "x = ( a ) ;", nil},
		{"flushedAtEndOfInput", "y = 4", []string{"y = 4"}},
		{"noTarget", "= 4 ;", nil},
	}

	for _, input := range previews {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, input.want, tac.Scan(input.input).Preview)
		})
	}
}

func TestScanPreviewDivergesFromGenerate(t *testing.T) {
	res := tac.Scan("x = 2 + 3 ;")
	assert.Equal(t, []string{"t1 = 2 + 3", "x = t1"}, res.Preview)
	assert.Equal(t, "x = 5", tac.Generate(res.Tokens))
}
