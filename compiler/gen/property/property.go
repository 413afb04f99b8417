// Package property generates the builder code of single properties.
//
// Every property shape has exactly one Strategy. A strategy decides how the
// builder stores the property, which fluent methods it has, and the code
// used by Build, BuildPartial, MergeFrom, MergeFromBuilder and Clear. The
// builder package composes those fragments into the generated file.
//
// Generated methods use fixed identifiers: the receiver is b, the built value
// is v, merge sources are value and other, and parameters are named element,
// elements, builder, builders, key, value, entries and fn.
package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Strategy generates the code of one property shape.
type Strategy interface {
	// Shape returns the shape handled by the strategy.
	Shape() gen.Shape

	// Fields returns the builder storage of p.
	Fields(p *gen.Property) []jen.Code

	// Methods emits the fluent builder methods of p.
	Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property)

	// MethodNames returns the names of the builder methods emitted by
	// Methods, in emission order.
	MethodNames(h gen.GeneratorHelper, p *gen.Property) []string

	// Build returns statements storing the finalized property in v. They
	// may return early with a nil value and an error.
	Build(p *gen.Property) jen.Code

	// BuildPartial returns statements storing the property in the partial v.
	BuildPartial(p *gen.Property) jen.Code

	// MergeFrom returns statements copying the property of value into b.
	// Required properties are guarded by isPartial and p.
	MergeFrom(p *gen.Property) jen.Code

	// MergeFromBuilder returns statements copying the property of the
	// builder other into b.
	MergeFromBuilder(p *gen.Property) jen.Code

	// Clear returns statements resetting the storage of p.
	Clear(p *gen.Property) jen.Code

	// Accessor returns the body of the value accessor, reading field
	// v.<field>. Slices, maps and pointers are returned as copies.
	Accessor(p *gen.Property) jen.Code
}

// strategies maps each shape to its strategy.
var strategies = map[gen.Shape]Strategy{
	gen.ShapeDefault:       Default{},
	gen.ShapeNullable:      Nullable{},
	gen.ShapeList:          List{},
	gen.ShapeMap:           Map{},
	gen.ShapeBuildable:     Buildable{},
	gen.ShapeBuildableList: BuildableList{},
}

// For returns the strategy of p. Default applies to any shape without a
// dedicated strategy.
func For(p *gen.Property) Strategy {
	if s, ok := strategies[p.Shape]; ok {
		return s
	}
	return Default{}
}
