package tac

import (
	"io"

	"github.com/charmbracelet/log"
)

// Config tunes a Translator. The zero value is usable.
type Config struct {
	// Logger receives debug summaries for each stage. Nil discards them.
	Logger *log.Logger
	// Preview keeps the lexer's quick preview in the Result.
	Preview bool
}

// Translator runs the tokenize, validate and generate stages over one
// source snippet. Every call derives fresh output; a Translator holds no
// state between calls and may be shared across goroutines.
type Translator struct {
	logger  *log.Logger
	preview bool
}

// Result bundles what one translation produces.
type Result struct {
	Tokens      []Token
	Symbols     []SymbolEntry
	Preview     []string
	Valid       bool
	Diagnostics []string
	Code        string
}

func NewTranslator(cfg Config) *Translator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Translator{logger: logger, preview: cfg.Preview}
}

// Translate runs all three stages. Validation and generation both read the
// same tokens; generation runs whether or not validation passed.
func (t *Translator) Translate(source string) *Result {
	scan := Scan(source)
	t.logger.Debug("scanned source", "tokens", len(scan.Tokens), "symbols", len(scan.Symbols))

	res := &Result{Tokens: scan.Tokens, Symbols: scan.Symbols}
	if t.preview {
		res.Preview = scan.Preview
	}

	res.Valid, res.Diagnostics = Validate(scan.Tokens)
	if res.Valid {
		t.logger.Debug("validation passed")
	} else {
		t.logger.Debug("validation failed", "diagnostics", len(res.Diagnostics))
	}

	res.Code = Generate(scan.Tokens)
	t.logger.Debug("generated code", "lines", len(Lines(res.Code)))
	return res
}

// Verdict is the validator summary for the result.
func (r *Result) Verdict() string {
	return Verdict(r.Valid, r.Diagnostics)
}
