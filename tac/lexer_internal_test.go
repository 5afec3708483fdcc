package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclTracker(t *testing.T) {
	var d declTracker
	assert.Equal(t, declIdle, d.state)

	_, ok := d.observe(Token{Kind: KindKeyword, Text: "float"})
	assert.False(t, ok)
	assert.Equal(t, declAwaitingIdentifier, d.state)

	_, ok = d.observe(Token{Kind: KindSymbol, Text: "("})
	assert.False(t, ok)
	assert.Equal(t, declAwaitingIdentifier, d.state)

	sym, ok := d.observe(Token{Kind: KindIdentifier, Text: "f"})
	assert.True(t, ok)
	assert.Equal(t, SymbolEntry{Name: "f", Type: "float"}, sym)
	assert.Equal(t, declIdle, d.state)

	_, ok = d.observe(Token{Kind: KindIdentifier, Text: "g"})
	assert.False(t, ok)
}

func TestDeclTrackerIgnoresControlKeywords(t *testing.T) {
	var d declTracker
	for _, word := range []string{"if", "while", "for", "switch", "else"} {
		d.observe(Token{Kind: KindKeyword, Text: word})
		assert.Equal(t, declIdle, d.state, word)
	}
}

func TestDeclTrackerLastTypeWins(t *testing.T) {
	var d declTracker
	d.observe(Token{Kind: KindKeyword, Text: "int"})
	d.observe(Token{Kind: KindKeyword, Text: "char"})
	sym, ok := d.observe(Token{Kind: KindIdentifier, Text: "c"})
	assert.True(t, ok)
	assert.Equal(t, "char", sym.Type)
}
