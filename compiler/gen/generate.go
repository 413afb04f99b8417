package gen

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// JenniferGenerator generates one builder file per datatype using Jennifer.
// Datatypes are independent, so they are generated in parallel.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	writer  *Writer

	// Assembler generating the file of each datatype.
	assembler DatatypeGenerator
}

// NewJenniferGenerator creates a new Jennifer-based generator.
// You must call WithAssembler() to set an assembler before calling Generate().
//
// Example:
//
//	import "github.com/syssam/freebuild/compiler/gen/builder"
//
//	gen := gen.NewJenniferGenerator(graph, outDir)
//	gen.WithAssembler(builder.NewAssembler(gen))
//	gen.Generate(ctx)
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &JenniferGenerator{
		graph:   g,
		workers: workers,
		outDir:  outDir,
		writer:  NewWriter(outDir),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithAssembler sets the generator of datatype files.
func (g *JenniferGenerator) WithAssembler(a DatatypeGenerator) *JenniferGenerator {
	if a != nil {
		g.assembler = a
	}
	return g
}

// Metrics returns the metrics of the files written so far.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	return g.writer.Metrics()
}

// Generate writes the builder file of every datatype.
//
// A datatype the assembler rejects with a SchemaError is skipped and does
// not prevent the others from being written. The returned error joins the
// graph diagnostics with those rejections; I/O and formatting failures abort
// the run and are returned alone.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if g.assembler == nil {
		return NewConfigError("Assembler", nil, "no assembler set: call WithAssembler() before Generate()")
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("write", g.outDir, "create output directory", err)
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	// One slot per datatype keeps diagnostics in declaration order.
	rejected := make([]error, len(g.graph.Datatypes))
	for i, d := range g.graph.Datatypes {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := g.assembler.GenDatatype(d)
			if err != nil {
				if IsSchemaError(err) {
					g.Logger().Warn("skipping datatype", "type", d.Name, "error", err)
					rejected[i] = err
					return nil
				}
				return err
			}
			g.Logger().Debug("generated datatype", "type", d.Name, "assembler", g.assembler.Name(), "file", d.FileName())
			return g.writer.Write(f, d.FileName())
		})
	}
	if err := errg.Wait(); err != nil {
		return err
	}
	return errors.Join(append(g.graph.Diagnostics, rejected...)...)
}

// NewFile creates a new Jennifer file with the standard header comment.
func (g *JenniferGenerator) NewFile(d *Datatype) *jen.File {
	f := jen.NewFilePathName(d.Pkg().Path(), d.Pkg().Name())
	f.HeaderComment(g.graph.Header)
	// Known package names keep the import block free of aliases.
	f.ImportName(RuntimePkg, "freebuild")
	for _, imp := range d.Pkg().Imports() {
		f.ImportName(imp.Path(), imp.Name())
	}
	return f
}

// Graph returns the datatype graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// FeatureEnabled reports if the given feature name is enabled.
func (g *JenniferGenerator) FeatureEnabled(name string) bool {
	return g.graph.HasFeature(name)
}

// SeqEnabled reports whether iter.Seq based methods are generated.
func (g *JenniferGenerator) SeqEnabled() bool {
	return g.graph.HasFeature(FeatureSeq.Name) && g.graph.SourceAtLeast("1.23")
}

// RuntimePkg returns the import path of the runtime support package.
func (g *JenniferGenerator) RuntimePkg() string {
	return RuntimePkg
}

// Logger returns the generation logger.
func (g *JenniferGenerator) Logger() *slog.Logger {
	return g.graph.logger()
}

// Verify JenniferGenerator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*JenniferGenerator)(nil)
