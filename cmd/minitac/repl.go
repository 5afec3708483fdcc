package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/minitac/tac"
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// replModel accumulates entered lines into one program and retranslates
// the whole program after every line, so declarations carry forward.
type replModel struct {
	textInput   textinput.Model
	translator  *tac.Translator
	source      []string
	last        *tac.Result
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showSymbols bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlS key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous line"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next line"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "translate"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlS: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "toggle symbols"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

var completionKeywords = []string{
	"int", "float", "double", "char", "boolean",
	"if", "else", "while", "for", "switch", "case", "default",
}

func newREPLModel(translator *tac.Translator) replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement, e.g. int x = 2 + 3 ;"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "tac> "

	return replModel{
		textInput:  ti,
		translator: translator,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlS):
			m.showSymbols = !m.showSymbols
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.translate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":symbols", ":s":
		m.showSymbols = !m.showSymbols
	case ":tokens", ":t":
		m.history = append(m.history, m.inspect(input, func(res *tac.Result) string {
			return renderTokenTable(res.Tokens)
		}))
	case ":preview", ":p":
		m.history = append(m.history, m.inspect(input, func(res *tac.Result) string {
			return renderPreview(res.Preview)
		}))
	case ":reset", ":r":
		m.source = nil
		m.last = nil
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Program reset",
			isErr:  false,
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) inspect(input string, render func(*tac.Result) string) historyEntry {
	if m.last == nil {
		return historyEntry{input: input, output: "Nothing translated yet", isErr: true}
	}
	return historyEntry{input: input, output: render(m.last)}
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	for _, k := range completionKeywords {
		if strings.HasPrefix(k, lastWord) {
			completions = append(completions, k)
		}
	}
	if m.last != nil {
		for _, sym := range m.last.Symbols {
			if strings.HasPrefix(sym.Name, lastWord) {
				completions = append(completions, sym.Name)
			}
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			input:  "",
			output: "Completions: " + strings.Join(completions, ", "),
			isErr:  false,
		})
	}

	return m
}

// translate appends input to the program and translates the result. A
// line that makes the program invalid is dropped again so the user can
// retry it.
func (m *replModel) translate(input string) (string, bool) {
	m.source = append(m.source, input)
	res := m.translator.Translate(m.programText())
	output := res.Verdict() + "\n" + res.Code
	if !res.Valid {
		m.source = m.source[:len(m.source)-1]
		return output, true
	}
	m.last = res
	return output, false
}

func (m replModel) programText() string {
	return strings.Join(m.source, "\n")
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("minitac REPL")
	lines := mutedStyle.Render(fmt.Sprintf("%d line(s) in program", len(m.source)))
	b.WriteString(header + " " + lines + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showSymbols && m.last != nil {
		reservedLines += len(m.last.Symbols) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(len(m.history)-availableHeight, 0)
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString(indent(errorStyle.Render("✗ "+entry.output)) + "\n")
		} else {
			b.WriteString(indent(resultStyle.Render(entry.output)) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showSymbols {
		b.WriteString(renderSymbolsPanel(m.last))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+s") + helpDescStyle.Render(" symbols  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func renderSymbolsPanel(res *tac.Result) string {
	if res == nil || len(res.Symbols) == 0 {
		return borderStyle.Render(mutedStyle.Render("No symbols declared"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Symbols"))
	nameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, sym := range res.Symbols {
		lines = append(lines, fmt.Sprintf("  %s %s", mutedStyle.Render(sym.Type), nameStyle.Render(sym.Name)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate line history"},
		{"Tab", "Autocomplete keywords and symbols"},
		{"Enter", "Append line and translate"},
		{":help", "Toggle this help"},
		{":symbols", "Toggle symbol panel"},
		{":tokens", "Show tokens of the program"},
		{":preview", "Show the lexer's quick preview"},
		{":clear", "Clear history"},
		{":reset", "Discard the program"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-9s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("v", false, "log pipeline stages to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	translator := tac.NewTranslator(tac.Config{Logger: newLogger(*verbose), Preview: true})
	return runREPL(translator)
}

func runREPL(translator *tac.Translator) error {
	p := tea.NewProgram(newREPLModel(translator), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
