// Package builder assembles the generated file of a datatype from the code
// fragments of its property strategies.
//
// This package implements the gen.DatatypeGenerator interface.
//
// Usage:
//
//	import (
//	    "github.com/syssam/freebuild/compiler/gen"
//	    "github.com/syssam/freebuild/compiler/gen/builder"
//	)
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithAssembler(builder.NewAssembler(generator))
//	generator.Generate(ctx)
//
// Generated code structure, for a datatype Receipt:
//
//	receipt_builder.go
//	├── ReceiptBuilderBase[B]   # storage and methods, B is the concrete builder
//	├── ReceiptBuilder          # unless declared by the user
//	├── NewReceiptBuilder       # factory, calls defaults() when declared
//	├── ReceiptBuilderFrom      # builder holding the state of a value
//	├── receiptValue            # immutable value returned by Build
//	└── receiptPartial          # value returned by BuildPartial
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/gen/property"
)

// Generate is a convenience function to generate the builders of a graph
// using the Jennifer generator. It applies the hooks registered in
// g.Config.Hooks, outermost first.
//
// Example:
//
//	import "github.com/syssam/freebuild/compiler/gen/builder"
//	err := builder.Generate(graph)
func Generate(g *gen.Graph) error {
	return GenerateContext(context.Background(), g)
}

// GenerateContext is like Generate but stops scheduling datatypes once ctx
// is done.
func GenerateContext(ctx context.Context, g *gen.Graph) error {
	if g == nil || g.Config == nil || g.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory in config")
	}

	base := gen.GenerateFunc(func(g *gen.Graph) error {
		generator := gen.NewJenniferGenerator(g, g.Target)
		generator.WithAssembler(NewAssembler(generator))
		return generator.Generate(ctx)
	})

	// Apply hooks in reverse order, so the first hook runs first.
	var generator gen.Generator = base
	for i := len(g.Hooks) - 1; i >= 0; i-- {
		generator = g.Hooks[i](generator)
	}
	return generator.Generate(g)
}

// Assembler implements gen.DatatypeGenerator.
type Assembler struct {
	helper gen.GeneratorHelper
}

// NewAssembler creates a new builder assembler.
// The helper parameter should be a *gen.JenniferGenerator.
func NewAssembler(helper gen.GeneratorHelper) *Assembler {
	return &Assembler{helper: helper}
}

// Name returns the assembler name.
func (a *Assembler) Name() string {
	return "builder"
}

// GenDatatype generates the builder file of d. It returns a SchemaError when
// two generated builder methods would have the same name.
func (a *Assembler) GenDatatype(d *gen.Datatype) (*jen.File, error) {
	if err := checkMethodNames(a.helper, d); err != nil {
		return nil, err
	}
	f := a.helper.NewFile(d)
	genBase(a.helper, f, d)
	genBuilder(a.helper, f, d)
	genValue(a.helper, f, d, false)
	genValue(a.helper, f, d, true)
	a.helper.Logger().Debug("assembled datatype", "type", d.Name, "properties", len(d.Properties))
	return f, nil
}

// Verify Assembler implements gen.DatatypeGenerator at compile time.
var _ gen.DatatypeGenerator = (*Assembler)(nil)

// builderMethods are the methods of every builder base.
var builderMethods = []string{
	"Build",
	"BuildPartial",
	"Clear",
	"MergeFrom",
	"MergeFromBuilder",
	"MustBuild",
}

// checkMethodNames rejects datatypes whose properties would generate
// builder methods with the same name.
func checkMethodNames(h gen.GeneratorHelper, d *gen.Datatype) error {
	owner := make(map[string]string)
	for _, name := range builderMethods {
		owner[name] = ""
	}
	var errs []error
	for _, p := range d.Properties {
		for _, name := range property.For(p).MethodNames(h, p) {
			prev, ok := owner[name]
			switch {
			case !ok:
				owner[name] = p.Name
			case prev == "":
				errs = append(errs, gen.NewSchemaError(d.Name, p.Getter, fmt.Sprintf("builder method %s clashes with a generated method", name), nil))
			case prev != p.Name:
				errs = append(errs, gen.NewSchemaError(d.Name, p.Getter, fmt.Sprintf("builder method %s clashes with property %s", name, prev), nil))
			}
		}
	}
	return errors.Join(errs...)
}
