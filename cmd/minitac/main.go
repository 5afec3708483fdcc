package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mgomes/minitac/tac"
)

const logLevelEnv = "MINITAC_LOG_LEVEL"

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "scan":
		return scanCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "symbols":
		return symbolsCommand(args[2:])
	case "tac":
		return tacCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "lsp":
		return lspCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

// sourceFlags are shared by the commands that read a single source file.
type sourceFlags struct {
	fs      *flag.FlagSet
	verbose *bool
}

func newSourceFlags(name string) *sourceFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	return &sourceFlags{
		fs:      fs,
		verbose: fs.Bool("v", false, "log pipeline stages to stderr"),
	}
}

// parse parses args and reads the source file named by the first
// positional argument ("-" reads stdin).
func (f *sourceFlags) parse(args []string) (string, error) {
	if err := f.fs.Parse(args); err != nil {
		return "", err
	}
	remaining := f.fs.Args()
	if len(remaining) == 0 {
		return "", fmt.Errorf("minitac %s: source path required", f.fs.Name())
	}
	return readSource(remaining[0])
}

func (f *sourceFlags) translator(preview bool) *tac.Translator {
	return tac.NewTranslator(tac.Config{Logger: newLogger(*f.verbose), Preview: preview})
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve source path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

// newLogger writes to stderr. -v forces debug; otherwise MINITAC_LOG_LEVEL
// picks the level and warnings are the default.
func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "minitac", Level: log.WarnLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	if raw := strings.TrimSpace(os.Getenv(logLevelEnv)); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			logger.Warn("ignoring invalid log level", "env", logLevelEnv, "value", raw)
			return logger
		}
		logger.SetLevel(level)
	}
	return logger
}

func scanCommand(args []string) error {
	f := newSourceFlags("scan")
	source, err := f.parse(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(source) == "" {
		fmt.Println("No code to scan.")
		return nil
	}
	res := f.translator(false).Translate(source)
	fmt.Print(tac.Summary(res.Tokens, res.Symbols))
	return nil
}

func tokensCommand(args []string) error {
	f := newSourceFlags("tokens")
	source, err := f.parse(args)
	if err != nil {
		return err
	}
	tokens, _ := tac.Tokenize(source)
	fmt.Println(renderTokenTable(tokens))
	return nil
}

func symbolsCommand(args []string) error {
	f := newSourceFlags("symbols")
	source, err := f.parse(args)
	if err != nil {
		return err
	}
	_, symbols := tac.Tokenize(source)
	fmt.Println(renderSymbolTable(symbols))
	return nil
}

func tacCommand(args []string) error {
	f := newSourceFlags("tac")
	raw := f.fs.Bool("raw", false, "print instructions without numbering or headings")
	preview := f.fs.Bool("preview", false, "also print the lexer's quick preview")
	source, err := f.parse(args)
	if err != nil {
		return err
	}
	res := f.translator(*preview).Translate(source)
	if !res.Valid {
		fmt.Fprintln(os.Stderr, errorStyle.Render(res.Verdict()))
	}
	if *raw {
		fmt.Println(res.Code)
	} else {
		fmt.Println(headingStyle.Render("Three-address code"))
		fmt.Print(tac.Listing(res.Code))
	}
	if *preview {
		fmt.Println()
		fmt.Println(renderPreview(res.Preview))
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] <source>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  scan      count tokens and declared symbols")
	fmt.Fprintln(os.Stderr, "  tokens    print the token table")
	fmt.Fprintln(os.Stderr, "  symbols   print the symbol table")
	fmt.Fprintln(os.Stderr, "  tac       print three-address code (-raw, -preview)")
	fmt.Fprintln(os.Stderr, "  check     validate files or directories of .mc sources")
	fmt.Fprintln(os.Stderr, "  repl      translate snippets interactively")
	fmt.Fprintln(os.Stderr, "  lsp       serve validator diagnostics over stdio")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintf(os.Stderr, "    log pipeline stages to stderr (default level from %s)\n", logLevelEnv)
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
