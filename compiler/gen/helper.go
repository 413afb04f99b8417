package gen

import (
	"log/slog"

	"github.com/dave/jennifer/jen"
)

// RuntimePkg is the import path of the runtime support package referenced by
// generated code.
const RuntimePkg = "github.com/syssam/freebuild"

// DatatypeGenerator assembles the generated file of one datatype.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    JenniferGenerator                        │
//	│  (Orchestration: parallel execution, file writing)          │
//	└─────────────────────────┬───────────────────────────────────┘
//	                          │ uses
//	                          ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                   DatatypeGenerator                         │
//	│  (builder assembly, gen/builder)                            │
//	└─────────────────────────┬───────────────────────────────────┘
//	                          │ one strategy per property shape
//	                          ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                   property.Strategy                         │
//	│  (gen/property)                                             │
//	└─────────────────────────────────────────────────────────────┘
//
// A SchemaError returned by GenDatatype skips the datatype; any other error
// aborts the run.
type DatatypeGenerator interface {
	// Name returns the generator name used in logs.
	Name() string
	// GenDatatype returns the file holding the builder of d.
	GenDatatype(d *Datatype) (*jen.File, error)
}

// GeneratorHelper provides helper methods for the builder and property
// packages. JenniferGenerator implements this interface, allowing those
// packages to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file for the package of d with the
	// standard header comment.
	NewFile(d *Datatype) *jen.File

	// Graph returns the datatype graph.
	Graph() *Graph

	// FeatureEnabled reports if the given feature name is enabled.
	FeatureEnabled(name string) bool

	// SeqEnabled reports whether iter.Seq based methods are generated: the
	// seq feature is enabled and the target language version supports
	// range-over-func.
	SeqEnabled() bool

	// RuntimePkg returns the import path of the runtime support package.
	RuntimePkg() string

	// Logger returns the generation logger.
	Logger() *slog.Logger
}
