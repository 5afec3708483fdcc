package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/minitac/tac"
)

func newTestModel() replModel {
	return newREPLModel(tac.NewTranslator(tac.Config{Preview: true}))
}

func enter(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func lastOutput(t *testing.T, m replModel) historyEntry {
	t.Helper()
	if len(m.history) == 0 {
		t.Fatalf("history is empty")
	}
	return m.history[len(m.history)-1]
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := enter(t, newTestModel(), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := enter(t, newTestModel(), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUnknownCommandIsReported(t *testing.T) {
	rm, _ := enter(t, newTestModel(), ":bogus")
	entry := lastOutput(t, rm)
	if !entry.isErr || entry.output != "Unknown command: :bogus" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestTranslateAccumulatesProgram(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "int x ;")
	m, _ = enter(t, m, "x = 2 * 3 ;")

	entry := lastOutput(t, m)
	if entry.isErr {
		t.Fatalf("unexpected error: %s", entry.output)
	}
	if entry.output != "Syntax is valid.\nx = 6" {
		t.Fatalf("unexpected output: %q", entry.output)
	}
	if len(m.source) != 2 {
		t.Fatalf("expected 2 program lines, got %d", len(m.source))
	}
	if len(m.cmdHistory) != 2 {
		t.Fatalf("expected 2 history lines, got %d", len(m.cmdHistory))
	}
}

func TestTranslateDropsInvalidLine(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "int x ;")
	m, _ = enter(t, m, "y = 1 ;")

	entry := lastOutput(t, m)
	if !entry.isErr {
		t.Fatalf("expected error entry, got %q", entry.output)
	}
	if !strings.HasPrefix(entry.output, "undeclared variable 'y' used") {
		t.Fatalf("unexpected output: %q", entry.output)
	}
	if len(m.source) != 1 {
		t.Fatalf("invalid line kept in program: %v", m.source)
	}
	if m.last == nil || len(m.last.Symbols) != 1 {
		t.Fatalf("last valid result not kept: %#v", m.last)
	}
}

func TestInspectCommandsNeedTranslation(t *testing.T) {
	for _, cmd := range []string{":tokens", ":preview"} {
		rm, _ := enter(t, newTestModel(), cmd)
		entry := lastOutput(t, rm)
		if !entry.isErr || entry.output != "Nothing translated yet" {
			t.Fatalf("%s: unexpected entry: %#v", cmd, entry)
		}
	}
}

func TestTokensAndPreviewCommands(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "int a ; int b ; a = b + 1 ;")

	m, _ = enter(t, m, ":tokens")
	if out := lastOutput(t, m).output; !strings.Contains(out, "IDENTIFIER") {
		t.Fatalf("token table missing:\n%s", out)
	}

	m, _ = enter(t, m, ":preview")
	out := lastOutput(t, m).output
	for _, want := range []string{"Quick preview", "t1 = b + 1", "a = t1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preview:\n%s", want, out)
		}
	}
}

func TestResetDiscardsProgram(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "int x ;")
	m, _ = enter(t, m, ":reset")

	if len(m.source) != 0 || m.last != nil {
		t.Fatalf("program not reset: %v", m.source)
	}

	m, _ = enter(t, m, "x = 1 ;")
	if !lastOutput(t, m).isErr {
		t.Fatalf("declaration survived reset")
	}
}

func TestAutocompleteUsesKeywordsAndSymbols(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "int counter ;")

	m.textInput.SetValue("counter = cou")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "counter = counter" {
		t.Fatalf("unexpected completion: %q", got)
	}

	m.textInput.SetValue("wh")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "while" {
		t.Fatalf("unexpected keyword completion: %q", got)
	}

	m.textInput.SetValue("c")
	m = m.handleAutocomplete()
	entry := lastOutput(t, m)
	if !strings.HasPrefix(entry.output, "Completions: char, case, counter") {
		t.Fatalf("unexpected completions: %q", entry.output)
	}
}

func TestViewRendersHistoryAndPanels(t *testing.T) {
	m := newTestModel()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(replModel)
	m, _ = enter(t, m, "int x = 1 ;")
	m, _ = enter(t, m, ":symbols")
	m, _ = enter(t, m, ":help")

	view := m.View()
	for _, want := range []string{"minitac REPL", "x = 1", "Symbols", ":preview"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}
