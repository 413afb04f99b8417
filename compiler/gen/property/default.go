package property

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Default generates required properties. The builder tracks whether the
// property has been set and Build reports it when it is not.
type Default struct{}

// Shape implements Strategy.
func (Default) Shape() gen.Shape { return gen.ShapeDefault }

// Fields implements Strategy.
func (Default) Fields(p *gen.Property) []jen.Code {
	return []jen.Code{
		jen.Id(p.Field()).Add(gen.TypeCode(p.Type)),
		jen.Id(p.SetFlag()).Bool(),
	}
}

// MethodNames implements Strategy.
func (Default) MethodNames(h gen.GeneratorHelper, p *gen.Property) []string {
	names := []string{p.Method("Set", "")}
	if h.FeatureEnabled(gen.FeatureMapper.Name) {
		names = append(names, p.Method("Map", ""))
	}
	return append(names, p.Capitalized)
}

// Methods implements Strategy.
func (Default) Methods(h gen.GeneratorHelper, f *jen.File, p *gen.Property) {
	d := p.Datatype
	set := p.Method("Set", "")
	f.Commentf("%s sets the value returned by %s.%s.", set, d.Name, p.Getter)
	f.Func().Params(Receiver(d)).Id(set).Params(jen.Id("value").Add(gen.TypeCode(p.Type))).Add(Self(d)).Block(
		nilCheck(p, set, "value", p.Type),
		field("b", p).Op("=").Id("value"),
		jen.Id("b").Dot(p.SetFlag()).Op("=").True(),
		returnSelf(),
	)

	if h.FeatureEnabled(gen.FeatureMapper.Name) {
		name := p.Method("Map", "")
		f.Commentf("%s replaces the value of %s with the result of fn applied to it.", name, p.Name)
		f.Commentf("It panics if %s has not been set.", p.Name)
		f.Func().Params(Receiver(d)).Id(name).Params(
			jen.Id("fn").Func().Params(gen.TypeCode(p.Type)).Add(gen.TypeCode(p.Type)),
		).Add(Self(d)).Block(
			nilCheckFunc(p, name, "fn"),
			jen.If(jen.Op("!").Id("b").Dot(p.SetFlag())).Block(
				jen.Panic(runtime("NewUnsetPropertiesError").Call(jen.Lit(d.Name), jen.Lit(p.Name))),
			),
			jen.Return(jen.Id("b").Dot(set).Call(jen.Id("fn").Call(field("b", p)))),
		)
	}

	f.Commentf("%s returns the value set by %s and whether it has been set.", p.Capitalized, set)
	f.Func().Params(Receiver(d)).Id(p.Capitalized).Params().Params(gen.TypeCode(p.Type), jen.Bool()).Block(
		jen.Return(field("b", p), jen.Id("b").Dot(p.SetFlag())),
	)
}

// Build implements Strategy.
func (Default) Build(p *gen.Property) jen.Code {
	return field("v", p).Op("=").Add(field("b", p))
}

// BuildPartial implements Strategy.
func (Default) BuildPartial(p *gen.Property) jen.Code {
	return stmts(
		field("v", p).Op("=").Add(field("b", p)),
		jen.Id("v").Dot(p.SetFlag()).Op("=").Id("b").Dot(p.SetFlag()),
	)
}

// MergeFrom implements Strategy. Properties unset in a partial value are
// skipped.
func (Default) MergeFrom(p *gen.Property) jen.Code {
	return jen.If(jen.Op("!").Id("isPartial").Op("||").Id("p").Dot(p.SetFlag())).Block(
		field("b", p).Op("=").Id("value").Dot(p.Getter).Call(),
		jen.Id("b").Dot(p.SetFlag()).Op("=").True(),
	)
}

// MergeFromBuilder implements Strategy.
func (Default) MergeFromBuilder(p *gen.Property) jen.Code {
	return jen.If(jen.Id("other").Dot(p.SetFlag())).Block(
		field("b", p).Op("=").Add(field("other", p)),
		jen.Id("b").Dot(p.SetFlag()).Op("=").True(),
	)
}

// Clear implements Strategy.
func (Default) Clear(p *gen.Property) jen.Code {
	return stmts(
		field("b", p).Op("=").Add(gen.ZeroValue(p.Type)),
		jen.Id("b").Dot(p.SetFlag()).Op("=").False(),
	)
}

// Accessor implements Strategy.
func (Default) Accessor(p *gen.Property) jen.Code {
	return jen.Return(field("v", p))
}
