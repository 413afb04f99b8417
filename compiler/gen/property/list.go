package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// List generates slice properties whose elements are not buildable. Elements
// keep their insertion order; the builder, the value and every accessor
// result own distinct slices.
type List struct{}

// Shape implements Strategy.
func (List) Shape() gen.Shape { return gen.ShapeList }

// Fields implements Strategy.
func (List) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{jen.Id(p.Field()).Add(gen.TypeCode(p.Type))}
}

// MethodNames implements Strategy.
func (List) MethodNames(h gen.GeneratorHelper, p *gen.Property) []string {
	names := []string{p.Method("Add", ""), p.Method("AddAll", "")}
	if h.SeqEnabled() {
		names = append(names, p.Method("AddAll", "Seq"))
	}
	return append(names, p.Method("Clear", ""), p.Capitalized)
}

// Methods implements Strategy.
func (List) Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d := p.Datatype
	add := p.Method("Add", "")
	f.Commentf("%s appends one %s to the value returned by %s.%s.", add, p.Singular(), d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(add).Params(jen.Id("element").Add(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
		nilCheck(p, add, "element", p.Elem),
		field("b", p).Op("=").Append(field("b", p), jen.Id("element")),
		returnSelf(),
	)

	addAll := p.Method("AddAll", "")
	f.Commentf("%s appends elements, in order, to the value returned by %s.%s.", addAll, d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(addAll).Params(jen.Id("elements").Op("...").Add(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
		nilCheckEach(p, addAll, "elements", p.Elem),
		field("b", p).Op("=").Append(field("b", p), jen.Id("elements").Op("...")),
		returnSelf(),
	)

	if h.SeqEnabled() {
		seq := p.Method("AddAll", "Seq")
		f.Commentf("%s appends the elements of a sequence, in order.", seq)
		f.Func().Params(Receiver(d)).Id(seq).Params(jen.Id("elements").Qual("iter", "Seq").Types(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
			nilCheckFunc(p, seq, "elements"),
			jen.Return(jen.Id("b").Dot(addAll).Call(jen.Qual("slices", "Collect").Call(jen.Id("elements")).Op("..."))),
		)
	}

	clear := p.Method("Clear", "")
	f.Commentf("%s removes all elements of %s.", clear, p.Name)
	f.Func().Params(Receiver(d)).Id(clear).Params().Add(Self(d)).Block(
		field("b", p).Op("=").Nil(),
		returnSelf(),
	)

	f.Commentf("%s returns a copy of the elements added so far.", p.Capitalized)
	f.Func().Params(Receiver(d)).Id(p.Capitalized).Params().Add(gen.TypeCode(p.Type)).Block(
		jen.Return(jen.Qual("slices", "Clone").Call(field("b", p))),
	)
}

// Build implements Strategy.
func (List) Build(p *gen.Property) jen.Code {
	return field("v", p).Op("=").Qual("slices", "Clone").Call(field("b", p))
}

// BuildPartial implements Strategy.
func (s List) BuildPartial(p *gen.Property) jen.Code {
	return s.Build(p)
}

// MergeFrom implements Strategy.
func (List) MergeFrom(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("AddAll", "")).Call(jen.Id("value").Dot(p.Getter).Call().Op("..."))
}

// MergeFromBuilder implements Strategy.
func (List) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("AddAll", "")).Call(field("other", p).Op("..."))
}

// Clear implements Strategy.
func (List) Clear(p *gen.Property) jen.Code {
	return field("b", p).Op("=").Nil()
}

// Accessor implements Strategy.
func (List) Accessor(p *gen.Property) jen.Code {
	return jen.Return(jen.Qual("slices", "Clone").Call(field("v", p)))
}
