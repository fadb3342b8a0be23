package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/scaffold/internal/config"
	"github.com/dgallion1/scaffold/internal/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// After the first interrupt a second one kills the process as usual.
	context.AfterFunc(ctx, stop)

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *console.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires flags, logging and the console together.
func run(ctx context.Context, in io.Reader, outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := console.ParseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	log := config.NewLogger(opts.LogLevel, opts.LogFormat, errW)
	c := console.New(in, outW, *opts, log)

	if opts.Once != "" {
		if err := c.Process(ctx, console.CleanPath(opts.Once)); err != nil {
			return &console.ExitError{Code: 1, Message: err.Error()}
		}
		return nil
	}

	err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
