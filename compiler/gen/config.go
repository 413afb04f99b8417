package gen

import (
	"go/version"
	"log/slog"
	"runtime"
	"slices"
)

// defaultHeader is the header comment of generated files.
const defaultHeader = "Code generated by freebuild. DO NOT EDIT."

// Config holds the global codegen configuration shared by all datatypes.
type Config struct {
	// Target is the directory the generated files are written to. It is the
	// directory of the package declaring the datatypes.
	Target string

	// Package is the import path of the target package.
	Package string

	// Header is the header comment of generated files. It defaults to the
	// standard "Code generated ... DO NOT EDIT." marker, which must be kept
	// for the loader to recognise and skip previous output.
	Header string

	// Features holds the explicitly enabled features.
	Features []Feature

	// Disabled holds the names of features turned off, including ones
	// enabled by default.
	Disabled []string

	// SourceLevel is the Go language version of the target module, as found
	// in its go directive (e.g. "1.23"). Empty means the running toolchain.
	SourceLevel string

	// Workers bounds the number of datatypes generated in parallel.
	Workers int

	// Hooks wrap the generator, outermost first.
	Hooks []Hook

	// Logger receives generation diagnostics. It defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default header and worker count.
func DefaultConfig() *Config {
	return &Config{
		Header:  defaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns a ConfigError for unknown features.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	f, known := LookupFeature(name)
	for _, e := range c.Features {
		if e.Name == name {
			return !slices.Contains(c.Disabled, name), nil
		}
	}
	if !known {
		return false, NewConfigError("Feature", name, "unknown feature")
	}
	if slices.Contains(c.Disabled, name) {
		return false, nil
	}
	return f.Default, nil
}

// HasFeature reports if the feature is enabled, treating unknown features as disabled.
func (c *Config) HasFeature(name string) bool {
	enabled, _ := c.FeatureEnabled(name)
	return enabled
}

// SourceAtLeast reports whether the target language version is at least v
// (e.g. "1.23"). An unknown source level is assumed to be current.
func (c *Config) SourceAtLeast(v string) bool {
	if c.SourceLevel == "" {
		return true
	}
	lang := version.Lang("go" + c.SourceLevel)
	if lang == "" {
		return true
	}
	return version.Compare(lang, "go"+v) >= 0
}

// logger returns the configured logger or the default one.
func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Generator is the interface that wraps the Generate method.
type Generator interface {
	// Generate generates the builder files for the graph.
	Generate(*Graph) error
}

// GenerateFunc is an adapter to allow the use of ordinary function as Generator.
// If f is a function with the appropriate signature, GenerateFunc(f) is a Generator that calls f.
type GenerateFunc func(*Graph) error

// Generate calls f(g).
func (f GenerateFunc) Generate(g *Graph) error {
	return f(g)
}

// Hook defines the "generate middleware". A function that gets a Generator
// and returns a Generator. For example:
//
//	hook := func(next gen.Generator) gen.Generator {
//		return gen.GenerateFunc(func(g *gen.Graph) error {
//			fmt.Println("Graph:", g)
//			return next.Generate(g)
//		})
//	}
type Hook func(Generator) Generator
