// Command freebuild generates builders for the datatype interfaces of Go
// packages. It is meant to be run by go generate:
//
//	//go:generate go run github.com/syssam/freebuild/cmd/freebuild -type=Receipt
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Use a minimal logger until the configured one is installed.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, generates the builders of the selected packages and, in
// watch mode, regenerates them until ctx is done. Usage and -dump output go
// to out, logs to errOut.
func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	opts, exit, err := parse(args, out)
	if err != nil {
		return err
	}
	if exit {
		return nil
	}
	logger, err := newLogger(errOut, opts.LogLevel, opts.LogFormat)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	logger.Debug("options parsed", "dir", opts.Dir, "patterns", opts.Patterns, "types", opts.Types)

	dirs, err := generate(ctx, opts, out, logger)
	if !opts.Watch {
		if err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
		return nil
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
	}
	if len(dirs) == 0 {
		return &ExitError{Code: 1, Message: "watch: no package directory to watch"}
	}
	return watch(ctx, logger, dirs, func(ctx context.Context) error {
		_, err := generate(ctx, opts, out, logger)
		return err
	})
}
