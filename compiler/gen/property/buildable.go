package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Buildable generates properties whose type is itself a buildable datatype.
// The builder stores a nested builder, created on first use, and finalizes it
// when the owning value is built.
type Buildable struct{}

// Shape implements Strategy.
func (Buildable) Shape() gen.Shape { return gen.ShapeBuildable }

// Fields implements Strategy.
func (Buildable) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{jen.Id(p.Field()).Add(nestedPtr(p.Buildable))}
}

// MethodNames implements Strategy.
func (Buildable) MethodNames(_ gen.GeneratorHelper, p *gen.Property) []string {
	return []string{
		p.Method("Set", ""),
		p.Method("Set", "Builder"),
		p.Method("", "Builder"),
		p.Method("Mutate", ""),
		p.Method("Clear", ""),
	}
}

// Methods implements Strategy.
func (Buildable) Methods(_ gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d, bt := p.Datatype, p.Buildable
	set := p.Method("Set", "")
	f.Commentf("%s replaces the value returned by %s.%s.", set, d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(set).Params(jen.Id("value").Add(gen.TypeCode(p.Type))).Add(Self(d)).Block(
		nilCheckFunc(p, set, "value"),
		field("b", p).Op("=").Add(toNested(bt, jen.Id("value"))),
		returnSelf(),
	)

	setBuilder := p.Method("Set", "Builder")
	f.Commentf("%s replaces %s with a copy of the state of builder.", setBuilder, p.Name)
	f.Func().Params(Receiver(d)).Id(setBuilder).Params(jen.Id("builder").Add(nestedPtr(bt))).Add(Self(d)).Block(
		nilCheckFunc(p, setBuilder, "builder"),
		field("b", p).Op("=").Add(copyNested(bt, jen.Id("builder"))),
		returnSelf(),
	)

	getter := p.Method("", "Builder")
	f.Commentf("%s returns the builder of %s. Changes to it are reflected in this builder.", getter, p.Name)
	f.Func().Params(Receiver(d)).Id(getter).Params().Add(nestedPtr(bt)).Block(
		jen.If(field("b", p).Op("==").Nil()).Block(
			field("b", p).Op("=").Add(newNested(bt)),
		),
		jen.Return(field("b", p)),
	)

	mutate := p.Method("Mutate", "")
	f.Commentf("%s applies fn to the builder of %s.", mutate, p.Name)
	f.Func().Params(Receiver(d)).Id(mutate).Params(
		jen.Id("fn").Func().Params(nestedPtr(bt)),
	).Add(Self(d)).Block(
		nilCheckFunc(p, mutate, "fn"),
		jen.Id("fn").Call(jen.Id("b").Dot(getter).Call()),
		returnSelf(),
	)

	clear := p.Method("Clear", "")
	f.Commentf("%s discards the builder of %s.", clear, p.Name)
	f.Func().Params(Receiver(d)).Id(clear).Params().Add(Self(d)).Block(
		field("b", p).Op("=").Nil(),
		returnSelf(),
	)
}

// finalize builds the nested builder into v with the given method. An unset
// nested property is built from an empty builder, so its own required
// properties are still enforced.
func (Buildable) finalize(p *gen.Property, method string) jen.Code {
	builder := jen.Id("builder").Op(":=").Add(field("b", p))
	fallback := jen.If(jen.Id("builder").Op("==").Nil()).Block(
		jen.Id("builder").Op("=").Add(newNested(p.Buildable)),
	)
	if method == "BuildPartial" {
		return jen.Block(
			builder,
			fallback,
			field("v", p).Op("=").Id("builder").Dot(method).Call(),
		)
	}
	return jen.Block(
		builder,
		fallback,
		jen.List(jen.Id("value"), jen.Err()).Op(":=").Id("builder").Dot(method).Call(),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), propertyError(p, jen.Lit(-1))),
		),
		field("v", p).Op("=").Id("value"),
	)
}

// Build implements Strategy.
func (s Buildable) Build(p *gen.Property) jen.Code {
	return s.finalize(p, "Build")
}

// BuildPartial implements Strategy.
func (s Buildable) BuildPartial(p *gen.Property) jen.Code {
	return s.finalize(p, "BuildPartial")
}

// MergeFrom implements Strategy. A nil nested value contributes nothing.
func (Buildable) MergeFrom(p *gen.Property) jen.Code {
	return jen.If(
		jen.Id("nested").Op(":=").Id("value").Dot(p.Getter).Call(),
		jen.Id("nested").Op("!=").Nil(),
	).Block(
		jen.If(field("b", p).Op("==").Nil()).Block(
			field("b", p).Op("=").Add(toNested(p.Buildable, jen.Id("nested"))),
		).Else().Block(
			field("b", p).Dot("MergeFrom").Call(jen.Id("nested")),
		),
	)
}

// MergeFromBuilder implements Strategy.
func (Buildable) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.If(field("other", p).Op("!=").Nil()).Block(
		jen.If(field("b", p).Op("==").Nil()).Block(
			field("b", p).Op("=").Add(copyNested(p.Buildable, field("other", p))),
		).Else().Block(
			field("b", p).Dot("MergeFromBuilder").Call(field("other", p)),
		),
	)
}

// Clear implements Strategy.
func (Buildable) Clear(p *gen.Property) jen.Code {
	return field("b", p).Op("=").Nil()
}

// Accessor implements Strategy. Nested values are immutable and shared.
func (Buildable) Accessor(p *gen.Property) jen.Code {
	return jen.Return(field("v", p))
}
