package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/load"
)

const shopSource = `package shop

//freebuild:builder
type Item interface {
	Name() string
	Price() int
}

//freebuild:builder
type Receipt interface {
	Items() []Item
	Note() *string
}

type Other interface {
	Value() int
}
`

const tillSource = `package till

//freebuild:builder
type Item interface {
	Name() string
	ToBuilder() *ItemBuilder
}

//freebuild:builder
type Payment interface {
	Method() string
}

type PaymentBuilder struct {
	PaymentBuilderBase[*PaymentBuilder]
}

func (b *PaymentBuilder) defaults() { b.SetMethod("cash") }
`

// writeModule lays out a throwaway module and returns its directory.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	return exitErr.Code
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	err := run(t.Context(), out, io.Discard, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error for -h")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
	require.Contains(t, out.String(), "-watch")
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		opts, exit, err := parse([]string{"-dir", dir}, io.Discard)
		require.NoError(t, err)
		require.False(t, exit)
		want := &options{Dir: dir, LogLevel: "info", LogFormat: "text"}
		if diff := cmp.Diff(want, opts); diff != "" {
			t.Errorf("parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flags", func(t *testing.T) {
		dir := t.TempDir()
		opts, _, err := parse([]string{
			"-dir", dir, "-type", "Item, Receipt", "-tags", "a,b", "-workers", "3",
			"-features", "-mustbuild", "-log-level", "DEBUG", "-log-format", "json", "-dump", "./...",
		}, io.Discard)
		require.NoError(t, err)
		want := &options{
			Dir:       dir,
			Patterns:  []string{"./..."},
			Types:     []string{"Item", "Receipt"},
			Tags:      []string{"a", "b"},
			Features:  []string{"-mustbuild"},
			Workers:   3,
			LogLevel:  "debug",
			LogFormat: "json",
			Dump:      true,
		}
		if diff := cmp.Diff(want, opts); diff != "" {
			t.Errorf("parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("config file", func(t *testing.T) {
		dir := writeModule(t, map[string]string{
			configFile: "types: [Item]\nfeatures: [-seq]\nworkers: 2\nlog_level: warn\nheader: Code generated by shop. DO NOT EDIT.\n",
		})
		opts, _, err := parse([]string{"-dir", dir, "-workers", "5"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, []string{"Item"}, opts.Types)
		assert.Equal(t, []string{"-seq"}, opts.Features)
		assert.Equal(t, 5, opts.Workers, "flags override the config file")
		assert.Equal(t, "warn", opts.LogLevel)
		assert.Equal(t, "text", opts.LogFormat)
		assert.Equal(t, "Code generated by shop. DO NOT EDIT.", opts.Header)
	})

	t.Run("explicit config file", func(t *testing.T) {
		dir := writeModule(t, map[string]string{"gen.yaml": "types: [Receipt]\n"})
		opts, _, err := parse([]string{"-dir", dir, "-config", filepath.Join(dir, "gen.yaml")}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, []string{"Receipt"}, opts.Types)
	})

	tests := map[string]struct {
		args  []string
		files map[string]string
	}{
		"unknown flag":         {args: []string{"-nope"}},
		"invalid log level":    {args: []string{"-log-level", "loud"}},
		"invalid log format":   {args: []string{"-log-format", "xml"}},
		"negative workers":     {args: []string{"-workers", "-1"}},
		"dump and watch":       {args: []string{"-dump", "-watch"}},
		"missing config":       {args: []string{"-config", "missing.yaml"}},
		"unknown config field": {files: map[string]string{configFile: "typos: [Item]\n"}},
		"malformed config":     {files: map[string]string{configFile: "types: [Item\n"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := writeModule(t, tt.files)
			_, _, err := parse(append([]string{"-dir", dir}, tt.args...), io.Discard)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(t, err))
		})
	}

	t.Run("missing dir", func(t *testing.T) {
		_, _, err := parse([]string{"-dir", filepath.Join(t.TempDir(), "missing")}, io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, ,b"))
}

func TestGraphConfig(t *testing.T) {
	t.Parallel()
	pkg := &load.Package{Path: "example.com/shop", Dir: t.TempDir(), GoVersion: "1.22"}

	t.Run("options", func(t *testing.T) {
		c, err := graphConfig(&options{Features: []string{"-mapper"}, Header: "custom", Workers: 3}, pkg, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, pkg.Dir, c.Target)
		assert.Equal(t, "example.com/shop", c.Package)
		assert.Equal(t, "1.22", c.SourceLevel)
		assert.Equal(t, "custom", c.Header)
		assert.Equal(t, 3, c.Workers)
		assert.False(t, c.HasFeature(gen.FeatureMapper.Name))
	})

	t.Run("every invalid option", func(t *testing.T) {
		bad := &load.Package{Path: "example.com/shop", Dir: pkg.Dir, GoVersion: "one"}
		_, err := graphConfig(&options{Features: []string{"nope"}}, bad, slog.Default())
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
		assert.Contains(t, err.Error(), `"Feature"`)
		assert.Contains(t, err.Error(), `"SourceLevel"`)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, err := newLogger(buf, "warn", "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(buf, "loud", "text")
	require.Error(t, err)
}

func TestIsSourceChange(t *testing.T) {
	t.Parallel()
	dir := writeModule(t, map[string]string{
		"receipt.go":         shopSource,
		"receipt_builder.go": "// Code generated by freebuild. DO NOT EDIT.\n\npackage shop\n",
		"payment_builder.go": "package shop\n",
		"receipt_test.go":    "package shop\n",
		"notes.txt":          "",
	})
	tests := map[string]struct {
		ev   fsnotify.Event
		want bool
	}{
		"source write":          {fsnotify.Event{Name: filepath.Join(dir, "receipt.go"), Op: fsnotify.Write}, true},
		"source chmod":          {fsnotify.Event{Name: filepath.Join(dir, "receipt.go"), Op: fsnotify.Chmod}, false},
		"generated write":       {fsnotify.Event{Name: filepath.Join(dir, "receipt_builder.go"), Op: fsnotify.Write}, false},
		"hand-written builder":  {fsnotify.Event{Name: filepath.Join(dir, "payment_builder.go"), Op: fsnotify.Write}, true},
		"removed generated":     {fsnotify.Event{Name: filepath.Join(dir, "item_builder.go"), Op: fsnotify.Remove}, true},
		"test file":             {fsnotify.Event{Name: filepath.Join(dir, "receipt_test.go"), Op: fsnotify.Write}, false},
		"not go":                {fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
		"editor temporary file": {fsnotify.Event{Name: filepath.Join(dir, ".receipt.go"), Op: fsnotify.Create}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceChange(tt.ev))
		})
	}
}

func TestWatch(t *testing.T) {
	dir := writeModule(t, map[string]string{"receipt.go": shopSource})
	ctx, cancel := context.WithCancel(t.Context())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), []string{dir}, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	// Writes are retried until the watcher has been registered, leaving the
	// debounce interval between them.
	var last time.Time
	require.Eventually(t, func() bool {
		if time.Since(last) > 4*debounce {
			_ = os.WriteFile(filepath.Join(dir, "receipt.go"), []byte(shopSource), 0o644)
			last = time.Now()
		}
		return calls.Load() > 0
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancellation")
	}
}

func TestRun_Generate(t *testing.T) {
	if testing.Short() {
		t.Skip("invokes the go command")
	}
	dir := writeModule(t, map[string]string{
		"go.mod":  "module example.com/shop\n\ngo 1.23\n",
		"shop.go": shopSource,
	})

	t.Run("annotated datatypes", func(t *testing.T) {
		require.NoError(t, run(t.Context(), io.Discard, io.Discard, []string{"-dir", dir}))
		src, err := os.ReadFile(filepath.Join(dir, "receipt_builder.go"))
		require.NoError(t, err)
		code := string(src)
		assert.Contains(t, code, "// Code generated by freebuild. DO NOT EDIT.")
		assert.Contains(t, code, "func NewReceiptBuilder() *ReceiptBuilder {")
		assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllItemsSeq(")
		assert.FileExists(t, filepath.Join(dir, "item_builder.go"))
		assert.NoFileExists(t, filepath.Join(dir, "other_builder.go"))
	})

	t.Run("regenerates over stale output", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "item_builder.go"),
			[]byte("// Code generated by freebuild. DO NOT EDIT.\n\npackage shop\n\nfunc broken( {\n"), 0o644))
		require.NoError(t, run(t.Context(), io.Discard, io.Discard, []string{"-dir", dir, "-type", "Item,Other", "-features", "-mustbuild"}))
		src, err := os.ReadFile(filepath.Join(dir, "item_builder.go"))
		require.NoError(t, err)
		assert.NotContains(t, string(src), "broken")
		assert.NotContains(t, string(src), "MustBuild")
		assert.FileExists(t, filepath.Join(dir, "other_builder.go"))
	})

	t.Run("dump", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, run(t.Context(), out, io.Discard, []string{"-dir", dir, "-dump"}))
		assert.Contains(t, out.String(), "name: Receipt")
		assert.Contains(t, out.String(), "name: Items")
	})

	t.Run("datatypes referencing their builders", func(t *testing.T) {
		dir := writeModule(t, map[string]string{
			"go.mod":  "module example.com/till\n\ngo 1.23\n",
			"till.go": tillSource,
		})
		for range 2 {
			require.NoError(t, run(t.Context(), io.Discard, io.Discard, []string{"-dir", dir}))
		}
		item, err := os.ReadFile(filepath.Join(dir, "item_builder.go"))
		require.NoError(t, err)
		assert.Contains(t, string(item), "func (v *itemValue) ToBuilder() *ItemBuilder {")
		assert.Regexp(t, regexp.MustCompile(`(?m)^type ItemBuilder struct \{$`), string(item))

		payment, err := os.ReadFile(filepath.Join(dir, "payment_builder.go"))
		require.NoError(t, err)
		assert.NotRegexp(t, regexp.MustCompile(`(?m)^type PaymentBuilder struct`), string(payment))
		assert.Contains(t, string(payment), "type PaymentBuilderBase[B any] struct {")
		assert.Contains(t, string(payment), "b.defaults()")
	})

	t.Run("unknown type", func(t *testing.T) {
		err := run(t.Context(), io.Discard, io.Discard, []string{"-dir", dir, "-type", "Missing"})
		require.Error(t, err)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, err.Error(), `type "Missing" not found`)
	})
}

// TestRun_Receipt regenerates the receipt example and compares it with the
// checked-in builders.
func TestRun_Receipt(t *testing.T) {
	if testing.Short() {
		t.Skip("invokes the go command")
	}
	example := filepath.Join("..", "..", "examples", "receipt")
	src, err := os.ReadFile(filepath.Join(example, "receipt.go"))
	require.NoError(t, err)
	dir := writeModule(t, map[string]string{
		"go.mod":     "module github.com/syssam/freebuild/examples/receipt\n\ngo 1.24\n",
		"receipt.go": string(src),
	})
	require.NoError(t, run(t.Context(), io.Discard, io.Discard, []string{"-dir", dir}))

	for _, name := range []string{"item_builder.go", "payment_builder.go", "receipt_builder.go"} {
		t.Run(name, func(t *testing.T) {
			want, err := os.ReadFile(filepath.Join(example, name))
			require.NoError(t, err)
			got, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			if diff := cmp.Diff(string(want), string(got)); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
			}
		})
	}
}
