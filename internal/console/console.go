// Package console is the interactive front end: it asks for document paths,
// materializes each one and reports what it did.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/scaffold/internal/materialize"
	"github.com/dgallion1/scaffold/internal/scaffold"
	"gopkg.in/yaml.v2"
)

const prompt = "TXT file directory: "

// ErrProcessingFailed is returned by Process after the failure was reported
// to the user.
var ErrProcessingFailed = errors.New("processing failed")

// Console reads document paths and materializes them.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	opts Options
	log  *slog.Logger
}

func New(in io.Reader, out io.Writer, opts Options, log *slog.Logger) *Console {
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		opts: opts,
		log:  log,
	}
}

// Run prompts for paths until the input is exhausted or ctx is canceled.
// Failures are reported and the loop keeps going. Cancellation is noticed
// even while waiting at the prompt.
func (c *Console) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The scanner blocks in Scan, so it runs on its own goroutine. It stays
	// parked on the reader after cancellation until the reader is closed.
	lines := make(chan string)
	eof := make(chan error, 1)
	go func() {
		for c.in.Scan() {
			select {
			case lines <- c.in.Text():
			case <-ctx.Done():
				return
			}
		}
		eof <- c.in.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case err := <-eof:
			fmt.Fprintln(c.out)
			return err
		case line = <-lines:
		}

		path := CleanPath(line)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprint(c.out, "Wrong directory\n\n")
			continue
		}
		if err := c.Process(ctx, path); err != nil {
			// Already reported to the user; the loop moves on to the next path.
			c.log.Debug("document not processed", "input", path, "error", err)
		}
		fmt.Fprintln(c.out)
	}
}

// Process materializes one document, or prints its plan in dry-run mode.
// Problems are written to the output as they would be shown to a user; the
// returned error only signals that the document was not processed.
func (c *Console) Process(ctx context.Context, path string) error {
	log := c.log.With("input", path)

	base := c.opts.Out
	if base == "" {
		base = filepath.Dir(path)
	}

	plan, err := scaffold.LoadPlan(path, base, c.opts.Sources)
	if err != nil {
		log.Debug("plan failed", "error", err)
		fmt.Fprintln(c.out, failureMessage(err))
		fmt.Fprintln(c.out, "Processing failed")
		return fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}
	for _, w := range plan.Warnings {
		log.Warn("ambiguous content match", "file", w.File, "candidates", w.Candidates, "chosen", w.Chosen)
	}

	// The YAML plan carries its own warnings.
	if c.opts.DryRun {
		return c.printPlan(base, plan)
	}
	for _, w := range plan.Warnings {
		fmt.Fprintf(c.out, "warning: %s\n", w)
	}

	rep, err := materialize.Apply(ctx, plan, &materialize.Dir{})
	if err != nil {
		log.Error("materialize failed", "error", err)
		fmt.Fprintln(c.out, err)
		fmt.Fprintln(c.out, "Processing failed")
		return fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}
	log.Info("scaffold written", "root", rep.Root, "dirs", rep.Dirs, "files", len(rep.Files), "matched", rep.Matched)
	fmt.Fprintf(c.out, "Output: %d directories, %d files\n", rep.Dirs, len(rep.Files))
	return nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, scaffold.ErrEmptyInput):
		return "Empty file"
	case errors.Is(err, scaffold.ErrMissingRootName):
		return "No root folder name found"
	case errors.Is(err, scaffold.ErrInputUnreadable):
		return "Cannot open file"
	default:
		return err.Error()
	}
}

// CleanPath trims surrounding whitespace and quotes, as left behind by
// dragging a file into a terminal.
func CleanPath(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

type dryRunFile struct {
	Path    string `yaml:"path"`
	Matched bool   `yaml:"matched"`
	Source  string `yaml:"source,omitempty"`
	Size    int    `yaml:"size"`
}

type dryRunPlan struct {
	Root     string             `yaml:"root"`
	Base     string             `yaml:"base"`
	Dirs     []string           `yaml:"dirs"`
	Files    []dryRunFile       `yaml:"files"`
	Warnings []scaffold.Warning `yaml:"warnings,omitempty"`
}

func (c *Console) printPlan(base string, plan *scaffold.Plan) error {
	out := dryRunPlan{
		Root:     plan.Root,
		Base:     base,
		Dirs:     make([]string, 0, len(plan.Dirs)),
		Files:    make([]dryRunFile, 0, len(plan.Files)),
		Warnings: plan.Warnings,
	}
	for _, d := range plan.Dirs {
		out.Dirs = append(out.Dirs, d.Rel)
	}
	for _, f := range plan.Files {
		out.Files = append(out.Files, dryRunFile{
			Path:    f.Rel,
			Matched: f.Matched,
			Source:  f.Source,
			Size:    len(f.Content),
		})
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = c.out.Write(data)
	return err
}
