package gen

import (
	"errors"
	"go/version"
	"log/slog"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the import path of the target package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithFeatureNames enables or disables features by name. A name prefixed
// with "-" disables the feature.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		var errs []error
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			disable := strings.HasPrefix(name, "-")
			name = strings.TrimPrefix(name, "-")
			f, ok := LookupFeature(name)
			if !ok {
				errs = append(errs, NewConfigError("Feature", name, "unknown feature"))
				continue
			}
			if disable {
				c.Disabled = append(c.Disabled, name)
			} else {
				c.Features = append(c.Features, f)
			}
		}
		return errors.Join(errs...)
	}
}

// WithSourceLevel sets the Go language version of the target module,
// e.g. "1.22". Some builder methods are only generated for newer versions.
func WithSourceLevel(v string) Option {
	return func(c *Config) error {
		if v != "" && !version.IsValid("go"+v) {
			return NewConfigError("SourceLevel", v, "invalid Go version")
		}
		c.SourceLevel = v
		return nil
	}
}

// WithWorkers sets the number of datatypes generated in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks are called before/after code generation.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from DefaultConfig with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
