package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ExitError is an error with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// options hold the merged flags and configuration file.
type options struct {
	Dir       string
	Patterns  []string
	Types     []string
	Tags      []string
	Features  []string
	Header    string
	Workers   int
	LogLevel  string
	LogFormat string
	Config    string
	Dump      bool
	Watch     bool
}

// parse processes command-line arguments. It returns the options, whether
// the program should exit cleanly, or an ExitError.
func parse(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("freebuild", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
freebuild - generates builders for Go datatype interfaces.

Usage:
  freebuild [options] [packages]

Arguments:
  packages
    go/packages patterns, relative to -dir. Defaults to ".".

Options:
`)
		flagSet.PrintDefaults()
	}

	typeFlag := flagSet.String("type", "", "Comma-separated interface names. Empty selects interfaces annotated //freebuild:builder.")
	dirFlag := flagSet.String("dir", ".", "Directory the package patterns are resolved from.")
	tagsFlag := flagSet.String("tags", "", "Comma-separated build tags.")
	workersFlag := flagSet.Int("workers", 0, "Number of datatypes generated in parallel. 0 uses GOMAXPROCS.")
	featuresFlag := flagSet.String("features", "", "Comma-separated features to enable; prefix a name with '-' to disable it.")
	headerFlag := flagSet.String("header", "", "Header comment of generated files.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	configFlag := flagSet.String("config", "", "Configuration file. Defaults to "+configFile+" in -dir, if present.")
	dumpFlag := flagSet.Bool("dump", false, "Print the loaded datatypes as YAML instead of generating.")
	watchFlag := flagSet.Bool("watch", false, "Regenerate whenever a source file of the packages changes.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	opts := &options{Dir: *dirFlag, Config: *configFlag}
	cfg, err := readConfig(opts.Dir, opts.Config)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	cfg.apply(opts)

	// Flags given explicitly win over the configuration file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			opts.Types = splitList(*typeFlag)
		case "tags":
			opts.Tags = splitList(*tagsFlag)
		case "workers":
			opts.Workers = *workersFlag
		case "features":
			opts.Features = splitList(*featuresFlag)
		case "header":
			opts.Header = *headerFlag
		case "log-level":
			opts.LogLevel = *logLevelFlag
		case "log-format":
			opts.LogFormat = *logFormatFlag
		}
	})
	if opts.LogLevel == "" {
		opts.LogLevel = *logLevelFlag
	}
	if opts.LogFormat == "" {
		opts.LogFormat = *logFormatFlag
	}
	opts.Dump = *dumpFlag
	opts.Watch = *watchFlag
	if flagSet.NArg() > 0 {
		opts.Patterns = flagSet.Args()
	}

	opts.LogFormat = strings.ToLower(opts.LogFormat)
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	opts.LogLevel = strings.ToLower(opts.LogLevel)
	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if opts.Workers < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must not be negative"}
	}
	if opts.Dump && opts.Watch {
		return nil, false, &ExitError{Code: 2, Message: "-dump and -watch cannot be combined"}
	}
	if info, err := os.Stat(opts.Dir); err != nil || !info.IsDir() {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid dir: %s is not a directory", filepath.Clean(opts.Dir))}
	}
	return opts, false, nil
}

// newLogger returns a logger writing to w with the given level and format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log-level: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
