package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/gen/builder"
	"github.com/syssam/freebuild/compiler/load"
)

// generate loads the selected packages and writes their builders. It returns
// the directories of the loaded packages, also when generation fails.
func generate(ctx context.Context, opts *options, out io.Writer, logger *slog.Logger) ([]string, error) {
	cfg := &load.Config{
		Dir:      opts.Dir,
		Patterns: opts.Patterns,
		Names:    opts.Types,
		Logger:   logger,
	}
	if len(opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.Tags, ",")}
	}
	pkgs, err := load.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if opts.Dump {
		return nil, load.Dump(out, pkgs)
	}

	var (
		dirs []string
		errs []error
	)
	for _, pkg := range pkgs {
		if pkg.Dir != "" {
			dirs = append(dirs, pkg.Dir)
		}
		if len(pkg.Interfaces) == 0 {
			logger.Debug("no datatypes", "package", pkg.Path)
			continue
		}
		c, err := graphConfig(opts, pkg, logger)
		if err != nil {
			return dirs, err
		}
		g, err := gen.NewGraph(c, pkg)
		if err != nil {
			return dirs, err
		}
		if err := builder.GenerateContext(ctx, g); err != nil {
			if !gen.IsSchemaError(err) {
				return dirs, fmt.Errorf("generate %s: %w", pkg.Path, err)
			}
			errs = append(errs, err)
		}
		logger.Info("generated builders", "package", pkg.Path, "datatypes", len(g.Datatypes))
	}
	return dirs, errors.Join(errs...)
}

// graphConfig returns the generator config for pkg. Every invalid option is
// reported, not only the first one.
func graphConfig(opts *options, pkg *load.Package, logger *slog.Logger) (*gen.Config, error) {
	c := gen.DefaultConfig()
	if err := c.ApplyAll(graphOptions(opts, pkg, logger)...); err != nil {
		return nil, err
	}
	return c, nil
}

// graphOptions returns the generator options for pkg.
func graphOptions(opts *options, pkg *load.Package, logger *slog.Logger) []gen.Option {
	gopts := []gen.Option{
		gen.WithTarget(pkg.Dir),
		gen.WithPackage(pkg.Path),
		gen.WithFeatureNames(opts.Features...),
		gen.WithLogger(logger),
	}
	if pkg.GoVersion != "" {
		gopts = append(gopts, gen.WithSourceLevel(pkg.GoVersion))
	}
	if opts.Workers > 0 {
		gopts = append(gopts, gen.WithWorkers(opts.Workers))
	}
	if opts.Header != "" {
		gopts = append(gopts, gen.WithHeader(opts.Header))
	}
	return gopts
}
