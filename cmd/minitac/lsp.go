package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/charmbracelet/log"
	"github.com/mgomes/minitac/tac"
)

var (
	tokenRefPattern      = regexp.MustCompile(`at token ([0-9]+)`)
	undeclaredVarPattern = regexp.MustCompile(`undeclared variable '([^']+)'`)
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

// lspPosition is zero-based, with character counted in UTF-16 code units.
type lspPosition struct {
	Line      int
	Character int
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	logger *log.Logger
	docs   map[string]string
}

func lspCommand(args []string) error {
	f := newSourceFlags("lsp")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	return runLSP(newLogger(*f.verbose))
}

func runLSP(logger *log.Logger) error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		logger: logger,
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			s.logger.Warn("dropping malformed message", "err", err)
			continue
		}
		s.logger.Debug("lsp request", "method", incoming.Method)

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		_, symbols := tac.Tokenize(s.docs[params.TextDocument.URI])
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(symbols),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": fmt.Sprintf("`%s`\n\n%s", word, describeWord(source, word)),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(source),
		},
	}
}

// diagnosticsForSource validates source and anchors each message on the
// token it names, falling back to the start of the document.
func diagnosticsForSource(source string) []map[string]any {
	tokens, _ := tac.Tokenize(source)
	ok, messages := tac.Validate(tokens)
	if ok {
		return []map[string]any{}
	}

	positions := tokenPositions(source, tokens)
	out := make([]map[string]any, 0, len(messages))
	for _, message := range messages {
		idx := diagnosticToken(message, tokens)
		if idx < 0 || idx >= len(positions) {
			out = append(out, newDiagnostic(lspPosition{}, 1, message))
			continue
		}
		out = append(out, newDiagnostic(positions[idx], utf16Len(tokens[idx].Text), message))
	}
	return out
}

func diagnosticToken(message string, tokens []tac.Token) int {
	if match := tokenRefPattern.FindStringSubmatch(message); match != nil {
		idx, err := strconv.Atoi(match[1])
		if err == nil {
			return idx
		}
	}
	if match := undeclaredVarPattern.FindStringSubmatch(message); match != nil {
		for i, tok := range tokens {
			if tok.Kind == tac.KindIdentifier && tok.Text == match[1] {
				return i
			}
		}
	}
	return -1
}

func newDiagnostic(start lspPosition, width int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      start.Line,
				"character": start.Character,
			},
			"end": map[string]any{
				"line":      start.Line,
				"character": start.Character + max(width, 1),
			},
		},
		"severity": 1,
		"source":   "minitac",
		"message":  message,
	}
}

// tokenPositions finds each token in the source text, in order. Tokens
// come from whitespace-normalized text, so a string literal whose spacing
// was collapsed is not found and inherits the previous position.
func tokenPositions(source string, tokens []tac.Token) []lspPosition {
	positions := make([]lspPosition, len(tokens))
	cursor := 0
	var last lspPosition
	for i, tok := range tokens {
		idx := strings.Index(source[cursor:], tok.Text)
		if idx < 0 {
			positions[i] = last
			continue
		}
		offset := cursor + idx
		last = positionAt(source, offset)
		positions[i] = last
		cursor = offset + len(tok.Text)
	}
	return positions
}

func positionAt(source string, offset int) lspPosition {
	prefix := source[:offset]
	line := strings.Count(prefix, "\n")
	if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
		prefix = prefix[nl+1:]
	}
	return lspPosition{Line: line, Character: utf16Len(prefix)}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func completionItems(symbols []tac.SymbolEntry) []map[string]any {
	items := make([]map[string]any, 0, len(completionKeywords)+len(symbols))
	for _, keyword := range completionKeywords {
		items = append(items, map[string]any{
			"label":  keyword,
			"kind":   14, // Keyword
			"detail": "keyword",
		})
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		if _, ok := seen[sym.Name]; ok {
			continue
		}
		seen[sym.Name] = struct{}{}
		items = append(items, map[string]any{
			"label":  sym.Name,
			"kind":   6, // Variable
			"detail": sym.Type,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i]["label"].(string) < items[j]["label"].(string)
	})
	return items
}

func describeWord(source, word string) string {
	_, symbols := tac.Tokenize(source)
	for _, sym := range symbols {
		if sym.Name == word {
			return fmt.Sprintf("variable of type `%s`", sym.Type)
		}
	}
	tokens, _ := tac.Tokenize(word)
	if len(tokens) != 1 {
		return "unknown"
	}
	switch tokens[0].Kind {
	case tac.KindKeyword:
		return "keyword"
	case tac.KindNumber:
		return "number"
	case tac.KindIdentifier:
		return "undeclared identifier"
	default:
		return strings.ToLower(string(tokens[0].Kind))
	}
}

// wordAtPosition takes character in UTF-16 code units, as LSP clients send it.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := 0
	for units := 0; cursor < len(runes) && units < character; cursor++ {
		units += utf16.RuneLen(runes[cursor])
	}

	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
