package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// BuildableList generates slices of buildable datatypes. The builder keeps
// one element builder per element, so elements can still be changed after
// they were added, and builds all of them when the owning value is built.
type BuildableList struct{}

// Shape implements Strategy.
func (BuildableList) Shape() gen.Shape { return gen.ShapeBuildableList }

// Fields implements Strategy.
func (BuildableList) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{jen.Id(p.Field()).Index().Add(nestedPtr(p.Buildable))}
}

// MethodNames implements Strategy.
func (BuildableList) MethodNames(h gen.GeneratorHelper, p *gen.Property) []string {
	names := []string{
		p.Method("Add", ""),
		p.Method("Add", "Builder"),
		p.Method("AddAll", ""),
	}
	if h.SeqEnabled() {
		names = append(names, p.Method("AddAll", "Seq"))
	}
	return append(names,
		p.Method("AddAllBuildersOf", ""),
		p.Method("Clear", ""),
		p.Method("", "Builders"),
	)
}

// Methods implements Strategy.
func (BuildableList) Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d, bt := p.Datatype, p.Buildable
	add := p.Method("Add", "")
	f.Commentf("%s appends one %s to the value returned by %s.%s.", add, p.Singular(), d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(add).Params(jen.Id("element").Add(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
		nilCheckFunc(p, add, "element"),
		field("b", p).Op("=").Append(field("b", p), toNested(bt, jen.Id("element"))),
		returnSelf(),
	)

	addBuilder := p.Method("Add", "Builder")
	f.Commentf("%s appends a copy of the state of builder. Later changes to builder", addBuilder)
	f.Comment("are not reflected in this builder.")
	f.Func().Params(Receiver(d)).Id(addBuilder).Params(jen.Id("builder").Add(nestedPtr(bt))).Add(Self(d)).Block(
		nilCheckFunc(p, addBuilder, "builder"),
		field("b", p).Op("=").Append(field("b", p), copyNested(bt, jen.Id("builder"))),
		returnSelf(),
	)

	addAll := p.Method("AddAll", "")
	f.Commentf("%s appends elements, in order, to the value returned by %s.%s.", addAll, d.Name, p.Getter)
	f.Comment("No element is added if any of them is nil.")
	f.Func().Params(Receiver(d)).Id(addAll).Params(jen.Id("elements").Op("...").Add(gen.TypeCode(p.Elem))).Add(Self(d)).Block(
		eachNotNil(p, addAll, "elements", "element"),
		grow(p, "elements"),
		jen.For(jen.List(jen.Id("_"), jen.Id("element")).Op(":=").Range().Id("elements")).Block(
			jen.Id("b").Dot(add).Call(jen.Id("element")),
		),
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

	addBuilders := p.Method("AddAllBuildersOf", "")
	f.Commentf("%s appends a copy of the state of each builder, in order.", addBuilders)
	f.Func().Params(Receiver(d)).Id(addBuilders).Params(jen.Id("builders").Op("...").Add(nestedPtr(bt))).Add(Self(d)).Block(
		eachNotNil(p, addBuilders, "builders", "builder"),
		grow(p, "builders"),
		jen.For(jen.List(jen.Id("_"), jen.Id("builder")).Op(":=").Range().Id("builders")).Block(
			jen.Id("b").Dot(addBuilder).Call(jen.Id("builder")),
		),
		returnSelf(),
	)

	clear := p.Method("Clear", "")
	f.Commentf("%s removes all elements of %s.", clear, p.Name)
	f.Func().Params(Receiver(d)).Id(clear).Params().Add(Self(d)).Block(
		field("b", p).Op("=").Nil(),
		returnSelf(),
	)

	getter := p.Method("", "Builders")
	f.Commentf("%s returns the element builders of %s. Changes to an element builder", getter, p.Name)
	f.Comment("are reflected in this builder; changes to the returned slice are not.")
	f.Func().Params(Receiver(d)).Id(getter).Params().Index().Add(nestedPtr(bt)).Block(
		jen.Return(jen.Qual("slices", "Clone").Call(field("b", p))),
	)
}

// eachNotNil rejects a variadic argument holding a nil element.
func eachNotNil(p *gen.Property, method, arg, elem string) jen.Code {
	return jen.For(jen.List(jen.Id("i"), jen.Id(elem)).Op(":=").Range().Id(arg)).Block(
		jen.If(jen.Id(elem).Op("==").Nil()).Block(
			nilPanic(p, method, jen.Qual("fmt", "Sprintf").Call(jen.Lit(arg+"[%d]"), jen.Id("i"))),
		),
	)
}

// grow reserves room for the incoming elements.
func grow(p *gen.Property, arg string) jen.Code {
	return field("b", p).Op("=").Qual("slices", "Grow").Call(field("b", p), jen.Len(jen.Id(arg)))
}

// finalize builds every element builder, in order, into a new slice of v.
func (BuildableList) finalize(p *gen.Property, method string) jen.Code {
	var each jen.Code
	if method == "BuildPartial" {
		each = jen.Id("elements").Op("=").Append(jen.Id("elements"), jen.Id("builder").Dot(method).Call())
	} else {
		each = stmts(
			jen.List(jen.Id("element"), jen.Err()).Op(":=").Id("builder").Dot(method).Call(),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), propertyError(p, jen.Id("i"))),
			),
			jen.Id("elements").Op("=").Append(jen.Id("elements"), jen.Id("element")),
		)
	}
	index := jen.Id("_")
	if method != "BuildPartial" {
		index = jen.Id("i")
	}
	return jen.If(jen.Len(field("b", p)).Op(">").Lit(0)).Block(
		jen.Id("elements").Op(":=").Make(gen.TypeCode(p.Type), jen.Lit(0), jen.Len(field("b", p))),
		jen.For(jen.List(index, jen.Id("builder")).Op(":=").Range().Add(field("b", p))).Block(each),
		field("v", p).Op("=").Id("elements"),
	)
}

// Build implements Strategy. The error of an element is wrapped with its
// index.
func (s BuildableList) Build(p *gen.Property) jen.Code {
	return s.finalize(p, "Build")
}

// BuildPartial implements Strategy.
func (s BuildableList) BuildPartial(p *gen.Property) jen.Code {
	return s.finalize(p, "BuildPartial")
}

// MergeFrom implements Strategy. Elements are appended.
func (BuildableList) MergeFrom(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("AddAll", "")).Call(jen.Id("value").Dot(p.Getter).Call().Op("..."))
}

// MergeFromBuilder implements Strategy. Each element builder is copied.
func (BuildableList) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("AddAllBuildersOf", "")).Call(field("other", p).Op("..."))
}

// Clear implements Strategy.
func (BuildableList) Clear(p *gen.Property) jen.Code {
	return field("b", p).Op("=").Nil()
}

// Accessor implements Strategy.
func (BuildableList) Accessor(p *gen.Property) jen.Code {
	return jen.Return(jen.Qual("slices", "Clone").Call(field("v", p)))
}
