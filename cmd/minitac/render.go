package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mgomes/minitac/tac"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	okStyle = resultStyle.Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	cellStyle       = lipgloss.NewStyle().Padding(0, 1)
	headerCellStyle = cellStyle.Foreground(accentColor).Bold(true)
	kindCellStyle   = cellStyle.Foreground(highlightColor)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case col == 1:
				return kindCellStyle
			default:
				return cellStyle
			}
		})
}

func renderTokenTable(tokens []tac.Token) string {
	if len(tokens) == 0 {
		return mutedStyle.Render("No tokens.")
	}
	t := newTable("#", "KIND", "TEXT")
	for i, tok := range tokens {
		t.Row(strconv.Itoa(i), string(tok.Kind), tok.Text)
	}
	return t.String()
}

func renderSymbolTable(symbols []tac.SymbolEntry) string {
	if len(symbols) == 0 {
		return mutedStyle.Render("No symbols declared.")
	}
	t := newTable("#", "NAME", "TYPE")
	for i, sym := range symbols {
		t.Row(strconv.Itoa(i), sym.Name, sym.Type)
	}
	return t.String()
}

// renderPreview labels the lexer sketch so it is never mistaken for the
// generator's output.
func renderPreview(lines []string) string {
	title := headingStyle.Render("Quick preview (lexer sketch, not the generated code)")
	if len(lines) == 0 {
		return title + "\n" + mutedStyle.Render("  (none)")
	}
	var b strings.Builder
	b.WriteString(title)
	for _, line := range lines {
		fmt.Fprintf(&b, "\n  %s", line)
	}
	return b.String()
}
