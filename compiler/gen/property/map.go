package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Map generates map properties. The builder allocates its map on the first
// entry; the value and every accessor result own distinct maps.
type Map struct{}

// Shape implements Strategy.
func (Map) Shape() gen.Shape { return gen.ShapeMap }

// Fields implements Strategy.
func (Map) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{jen.Id(p.Field()).Add(gen.TypeCode(p.Type))}
}

// MethodNames implements Strategy.
func (Map) MethodNames(h gen.GeneratorHelper, p *gen.Property) []string {
	names := []string{p.Method("Put", ""), p.Method("PutAll", "")}
	if h.SeqEnabled() {
		names = append(names, p.Method("PutAll", "Seq"))
	}
	return append(names, p.Method("Remove", ""), p.Method("Clear", ""), p.Capitalized)
}

// Methods implements Strategy.
func (Map) Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d := p.Datatype
	put := p.Method("Put", "")
	f.Commentf("%s stores value as the %s for key in the map returned by %s.%s.", put, p.Singular(), d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(put).Params(
		jen.Id("key").Add(gen.TypeCode(p.Key)),
		jen.Id("value").Add(gen.TypeCode(p.Elem)),
	).Add(Self(d)).Block(
		nilCheck(p, put, "key", p.Key),
		nilCheck(p, put, "value", p.Elem),
		jen.If(field("b", p).Op("==").Nil()).Block(
			field("b", p).Op("=").Make(gen.TypeCode(p.Type)),
		),
		field("b", p).Index(jen.Id("key")).Op("=").Id("value"),
		returnSelf(),
	)

	putAll := p.Method("PutAll", "")
	f.Commentf("%s copies all entries into the map returned by %s.%s.", putAll, d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(putAll).Params(
		jen.Id("entries").Map(gen.TypeCode(p.Key)).Add(gen.TypeCode(p.Elem)),
	).Add(Self(d)).Block(
		checkEntries(p, putAll),
		jen.If(jen.Len(jen.Id("entries")).Op("==").Lit(0)).Block(returnSelf()),
		jen.If(field("b", p).Op("==").Nil()).Block(
			field("b", p).Op("=").Make(gen.TypeCode(p.Type), jen.Len(jen.Id("entries"))),
		),
		jen.Qual("maps", "Copy").Call(field("b", p), jen.Id("entries")),
		returnSelf(),
	)

	if h.SeqEnabled() {
		seq := p.Method("PutAll", "Seq")
		f.Commentf("%s copies the entries of a sequence. Later entries win over earlier ones.", seq)
		f.Func().Params(Receiver(d)).Id(seq).Params(
			jen.Id("entries").Qual("iter", "Seq2").Types(gen.TypeCode(p.Key), gen.TypeCode(p.Elem)),
		).Add(Self(d)).Block(
			nilCheckFunc(p, seq, "entries"),
			jen.Return(jen.Id("b").Dot(putAll).Call(jen.Qual("maps", "Collect").Call(jen.Id("entries")))),
		)
	}

	remove := p.Method("Remove", "")
	f.Commentf("%s removes the entry for key, if any.", remove)
	f.Func().Params(Receiver(d)).Id(remove).Params(jen.Id("key").Add(gen.TypeCode(p.Key))).Add(Self(d)).Block(
		jen.Delete(field("b", p), jen.Id("key")),
		returnSelf(),
	)

	clear := p.Method("Clear", "")
	f.Commentf("%s removes all entries of %s.", clear, p.Name)
	f.Func().Params(Receiver(d)).Id(clear).Params().Add(Self(d)).Block(
		field("b", p).Op("=").Nil(),
		returnSelf(),
	)

	f.Commentf("%s returns a copy of the entries put so far.", p.Capitalized)
	f.Func().Params(Receiver(d)).Id(p.Capitalized).Params().Add(gen.TypeCode(p.Type)).Block(
		jen.Return(jen.Qual("maps", "Clone").Call(field("b", p))),
	)
}

// checkEntries rejects nil keys and values before any entry is stored.
func checkEntries(p *gen.Property, method string) jen.Code {
	var checks []jen.Code
	if gen.NilChecked(p.Key) {
		checks = append(checks, jen.If(jen.Id("key").Op("==").Nil()).Block(nilPanic(p, method, jen.Lit("entries"))))
	}
	if gen.NilChecked(p.Elem) {
		checks = append(checks, jen.If(jen.Id("value").Op("==").Nil()).Block(
			nilPanic(p, method, jen.Qual("fmt", "Sprintf").Call(jen.Lit("entries[%v]"), jen.Id("key"))),
		))
	}
	if len(checks) == 0 {
		return jen.Null()
	}
	vars := jen.List(jen.Id("key"), jen.Id("value"))
	if !gen.NilChecked(p.Elem) {
		vars = jen.Id("key")
	}
	return jen.For(vars.Op(":=").Range().Id("entries")).Block(checks...)
}

// Build implements Strategy. An emptied builder map builds a nil map, the
// same as a builder that never stored an entry.
func (Map) Build(p *gen.Property) jen.Code {
	return jen.If(jen.Len(field("b", p)).Op(">").Lit(0)).Block(
		field("v", p).Op("=").Qual("maps", "Clone").Call(field("b", p)),
	)
}

// BuildPartial implements Strategy.
func (s Map) BuildPartial(p *gen.Property) jen.Code {
	return s.Build(p)
}

// MergeFrom implements Strategy.
func (Map) MergeFrom(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("PutAll", "")).Call(jen.Id("value").Dot(p.Getter).Call())
}

// MergeFromBuilder implements Strategy.
func (Map) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.Id("b").Dot(p.Method("PutAll", "")).Call(field("other", p))
}

// Clear implements Strategy.
func (Map) Clear(p *gen.Property) jen.Code {
	return field("b", p).Op("=").Nil()
}

// Accessor implements Strategy.
func (Map) Accessor(p *gen.Property) jen.Code {
	return jen.Return(jen.Qual("maps", "Clone").Call(field("v", p)))
}
