package tac

import (
	"fmt"
	"strings"
)

// Lines splits generated code into instructions.
func Lines(code string) []string {
	if code == "" {
		return nil
	}
	return strings.Split(code, "\n")
}

// Listing numbers each line of generated code as " 1. t1 = a + b".
func Listing(code string) string {
	var b strings.Builder
	for i, line := range Lines(code) {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, line)
	}
	return b.String()
}

// Summary is the short report printed after a scan.
func Summary(tokens []Token, symbols []SymbolEntry) string {
	return fmt.Sprintf("Scan completed.\nTokens: %d\nSymbols: %d\n", len(tokens), len(symbols))
}
