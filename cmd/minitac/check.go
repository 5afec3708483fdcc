package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mgomes/minitac/tac"
)

type checkReport struct {
	Path        string
	Valid       bool
	Diagnostics []string
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("v", false, "log each file as it is checked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("minitac check: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	logger := newLogger(*verbose)
	reports := make([]checkReport, 0, len(files))
	for _, path := range files {
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		report := checkSource(path, string(input))
		logger.Debug("checked", "path", path, "valid", report.Valid)
		reports = append(reports, report)
	}

	invalid := 0
	for _, report := range reports {
		if report.Valid {
			fmt.Printf("%s: %s\n", report.Path, okStyle.Render(tac.Verdict(true, nil)))
			continue
		}
		invalid++
		for _, diag := range report.Diagnostics {
			fmt.Printf("%s: %s\n", report.Path, errorStyle.Render(diag))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("check found %d invalid file(s)", invalid)
	}
	return nil
}

func checkSource(path, source string) checkReport {
	tokens, _ := tac.Tokenize(source)
	ok, diags := tac.Validate(tokens)
	return checkReport{Path: path, Valid: ok, Diagnostics: diags}
}
