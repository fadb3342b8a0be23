package console

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/scaffold/internal/source"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options control how documents are processed.
type Options struct {
	Out       string // Base location; empty means the document's own directory
	DryRun    bool
	Once      string // Process this document and exit instead of prompting
	LogLevel  string
	LogFormat string
	Sources   source.Options
}

// ParseArgs reads command-line flags. It reports whether the program should
// exit cleanly, as after -h.
func ParseArgs(args []string, output io.Writer) (*Options, bool, error) {
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
scaffold - Build a directory tree from a text layout document.

Usage:
  scaffold [options] [DOCUMENT]

Without a document, scaffold prompts for one path at a time.

Options:
`)
		fs.PrintDefaults()
	}

	out := fs.String("out", "", "Directory the root folder is created in. Defaults to the document's directory.")
	dryRun := fs.Bool("dry-run", false, "Print the plan as YAML instead of writing anything.")
	once := fs.String("once", "", "Process a single document and exit.")
	logLevel := fs.String("log-level", "warn", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	logFormat := fs.String("log-format", "text", "Log output format: 'text' or 'json'.")
	pdftotext := fs.Bool("pdftotext", true, "Fall back to pdftotext for PDFs the built-in reader cannot handle.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	opts := &Options{
		Out:       *out,
		DryRun:    *dryRun,
		Once:      *once,
		LogLevel:  strings.ToLower(*logLevel),
		LogFormat: strings.ToLower(*logFormat),
		Sources:   source.Options{PDFFallbackPdftotext: *pdftotext},
	}
	if opts.Once == "" && fs.NArg() > 0 {
		opts.Once = fs.Arg(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	return opts, false, nil
}
