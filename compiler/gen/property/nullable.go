package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Nullable generates optional pointer properties. A nil pointer means unset;
// the builder and the value keep their own copy of the pointee.
type Nullable struct{}

// Shape implements Strategy.
func (Nullable) Shape() gen.Shape { return gen.ShapeNullable }

// Fields implements Strategy.
func (Nullable) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{jen.Id(p.Field()).Add(gen.TypeCode(p.Type))}
}

// MethodNames implements Strategy.
func (Nullable) MethodNames(h gen.GeneratorHelper, p *gen.Property) []string {
	names := []string{p.Method("Set", ""), p.Method("SetNillable", ""), p.Method("Clear", "")}
	if h.FeatureEnabled(gen.FeatureMapper.Name) {
		names = append(names, p.Method("Map", ""))
	}
	return append(names, p.Capitalized)
}

// Methods implements Strategy.
func (Nullable) Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d := p.Datatype
	set := p.Method("Set", "")
	f.Commentf("%s sets the value pointed to by %s.%s.", set, d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(set).Params(jen.Id("value").Add(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
		nilCheck(p, set, "value", p.Elem),
		field("b", p).Op("=").Op("&").Id("value"),
		returnSelf(),
	)

	nillable := p.Method("SetNillable", "")
	f.Commentf("%s sets %s to a copy of *value, or clears it if value is nil.", nillable, p.Name)
	f.Func().Params(Receiver(d)).Id(nillable).Params(jen.Id("value").Add(gen.TypeCode(p.Type))).Add(Self(d)).Block(
		jen.If(jen.Id("value").Op("==").Nil()).Block(
			field("b", p).Op("=").Nil(),
			returnSelf(),
		),
		jen.Return(jen.Id("b").Dot(set).Call(jen.Op("*").Id("value"))),
	)

	clear := p.Method("Clear", "")
	f.Commentf("%s resets %s to nil.", clear, p.Name)
	f.Func().Params(Receiver(d)).Id(clear).Params().Add(Self(d)).Block(
		field("b", p).Op("=").Nil(),
		returnSelf(),
	)

	if h.FeatureEnabled(gen.FeatureMapper.Name) {
		name := p.Method("Map", "")
		f.Commentf("%s replaces the value of %s with the result of fn applied to it, if set.", name, p.Name)
		f.Func().Params(Receiver(d)).Id(name).Params(
			jen.Id("fn").Func().Params(gen.TypeCode(p.Elem)).Add(gen.TypeCode(p.Elem)),
		).Add(Self(d)).Block(
			nilCheckFunc(p, name, "fn"),
			jen.If(field("b", p).Op("!=").Nil()).Block(
				jen.Return(jen.Id("b").Dot(set).Call(jen.Id("fn").Call(jen.Op("*").Add(field("b", p))))),
			),
			returnSelf(),
		)
	}

	f.Commentf("%s returns a copy of the value set so far, or nil.", p.Capitalized)
	f.Func().Params(Receiver(d)).Id(p.Capitalized).Params().Add(gen.TypeCode(p.Type)).Block(
		copyPointer("b", p)...,
	)
}

// copyPointer returns statements returning a copy of the pointer field.
func copyPointer(v string, p *gen.Property) []jen.Code {
	return []jen.Code{
		jen.If(field(v, p).Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.Id("value").Op(":=").Op("*").Add(field(v, p)),
		jen.Return(jen.Op("&").Id("value")),
	}
}

// Build implements Strategy.
func (Nullable) Build(p *gen.Property) jen.Code {
	return jen.If(field("b", p).Op("!=").Nil()).Block(
		jen.Id("value").Op(":=").Op("*").Add(field("b", p)),
		field("v", p).Op("=").Op("&").Id("value"),
	)
}

// BuildPartial implements Strategy.
func (s Nullable) BuildPartial(p *gen.Property) jen.Code {
	return s.Build(p)
}

// MergeFrom implements Strategy. A nil value leaves the builder untouched.
func (Nullable) MergeFrom(p *gen.Property) jen.Code {
	return jen.If(
		jen.Id("ptr").Op(":=").Id("value").Dot(p.Getter).Call(),
		jen.Id("ptr").Op("!=").Nil(),
	).Block(
		jen.Id("b").Dot(p.Method("SetNillable", "")).Call(jen.Id("ptr")),
	)
}

// MergeFromBuilder implements Strategy.
func (Nullable) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.If(field("other", p).Op("!=").Nil()).Block(
		jen.Id("b").Dot(p.Method("SetNillable", "")).Call(field("other", p)),
	)
}

// Clear implements Strategy.
func (Nullable) Clear(p *gen.Property) jen.Code {
	return field("b", p).Op("=").Nil()
}

// Accessor implements Strategy.
func (Nullable) Accessor(p *gen.Property) jen.Code {
	return stmts(copyPointer("v", p)...)
}
