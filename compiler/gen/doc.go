// Package gen provides builder code generation for datatype interfaces.
//
// A datatype is an interface whose methods are property accessors. For each
// datatype the generator writes a <name>_builder.go file next to it holding
// an immutable value type, a partial value type used by tests, and a fluent
// builder with Build, BuildPartial, MergeFrom and Clear.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Interfaces (package source)
//	        ↓
//	   load.Load (go/packages, type-checked)
//	        ↓
//	   Graph (datatypes, properties and their shapes)
//	        ↓
//	   DatatypeGenerator (gen/builder, one strategy per shape)
//	        ↓
//	   Writer (goimports formatting, <name>_builder.go)
//
// # Key Types
//
//   - Graph: Holds the valid Datatypes of a package and the diagnostics of
//     the rejected ones
//   - Datatype: An interface with its properties and generated names
//   - Property: One accessor, classified into a Shape
//   - BuildableType: How to create and merge the builder of a nested datatype
//   - Config: Global configuration for code generation
//
// # Property Shapes
//
// Every property is classified once, in this order of precedence:
//
//	slice of buildable  → ShapeBuildableList
//	slice               → ShapeList
//	map                 → ShapeMap
//	pointer             → ShapeNullable
//	buildable datatype  → ShapeBuildable
//	anything else       → ShapeDefault (required)
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: A datatype that cannot be generated
//   - ConfigError: Configuration errors
//   - GenerationError: Render, format and write errors
//
// A SchemaError only skips its datatype:
//
//	err := builder.Generate(graph)
//	if err != nil && !gen.IsSchemaError(err) {
//	    return err // nothing reliable was written
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithFeatureNames("-mapper"),  // Disable Map* methods
//	    gen.WithSourceLevel("1.22"),      // No iter.Seq methods
//	    gen.WithWorkers(4),
//	)
//
// Target, Package and SourceLevel default to the loaded package.
//
// # Usage
//
//	pkgs, err := load.Load(ctx, &load.Config{Dir: dir, Names: []string{"Receipt"}})
//	...
//	graph, err := gen.NewGraph(config, pkgs[0])
//	...
//	err = builder.Generate(graph)
package gen
