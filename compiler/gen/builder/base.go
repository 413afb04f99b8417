package builder

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/gen/property"
)

// genBase generates the builder base: its storage, the per-property methods
// and the Build, BuildPartial, MustBuild, MergeFrom, MergeFromBuilder and
// Clear methods.
func genBase(h gen.GeneratorHelper, f *jen.File, d *gen.Datatype) {
	f.Commentf("%s holds the state of a builder of %s values. %s is the concrete", d.BaseName(), d.Name, d.SelfParam())
	f.Comment("builder type, returned by every fluent method, so that a builder declared as")
	f.Comment("//")
	f.Commentf("//\ttype %s struct{ %s[*%s] }", d.BuilderName(), d.BaseName(), d.BuilderName())
	f.Comment("//")
	f.Comment("can add its own methods. Builders are not safe for concurrent use.")
	f.Type().Id(d.BaseName()).Types(baseParams(d)...).StructFunc(func(g *jen.Group) {
		g.Id("self").Add(property.Self(d))
		g.Id("partial").Bool()
		for _, p := range d.Properties {
			for _, field := range property.For(p).Fields(p) {
				g.Add(field)
			}
		}
	})

	for _, p := range d.Properties {
		property.For(p).Methods(h, f, p)
	}

	genBuild(h, f, d)
	genBuildPartial(f, d)
	genMergeFrom(f, d)
	genMergeFromBuilder(f, d)
	genClear(f, d)
}

// baseParams returns the type parameters of the builder base, the concrete
// builder first.
func baseParams(d *gen.Datatype) []jen.Code {
	params := []jen.Code{jen.Id(d.SelfParam()).Id("any")}
	if d.IsGeneric() {
		params = append(params, gen.TypeParamsDecl(d.TypeParams())...)
	}
	return params
}

// typeDecl adds the type parameter declarations of a generic d to s.
func typeDecl(s *jen.Statement, d *gen.Datatype) *jen.Statement {
	if d.IsGeneric() {
		s.Types(gen.TypeParamsDecl(d.TypeParams())...)
	}
	return s
}

func genBuild(h gen.GeneratorHelper, f *jen.File, d *gen.Datatype) {
	f.Commentf("Build returns a %s holding the properties set so far. It returns a", d.Name)
	f.Comment("*freebuild.UnsetPropertiesError naming every required property that")
	f.Comment("was not set, and wraps the errors of nested builders in a")
	f.Comment("*freebuild.PropertyError. A builder created from a partial value")
	f.Comment("returns BuildPartial.")
	f.Func().Params(property.Receiver(d)).Id("Build").Params().Params(property.DatatypeType(d), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("b").Dot("partial")).Block(
			jen.Return(jen.Id("b").Dot("BuildPartial").Call(), jen.Nil()),
		)
		if required := d.Required(); len(required) > 0 {
			g.Var().Id("unset").Index().String()
			for _, p := range required {
				g.If(jen.Op("!").Id("b").Dot(p.SetFlag())).Block(
					jen.Id("unset").Op("=").Append(jen.Id("unset"), jen.Lit(p.Name)),
				)
			}
			g.If(jen.Len(jen.Id("unset")).Op(">").Lit(0)).Block(
				jen.Return(jen.Nil(), jen.Qual(gen.RuntimePkg, "NewUnsetPropertiesError").Call(jen.Lit(d.Name), jen.Id("unset").Op("..."))),
			)
		}
		g.Id("v").Op(":=").Op("&").Add(property.ValueType(d)).Values()
		for _, p := range d.Properties {
			g.Add(property.For(p).Build(p))
		}
		g.Return(jen.Id("v"), jen.Nil())
	})

	if h.FeatureEnabled(gen.FeatureMustBuild.Name) {
		f.Comment("MustBuild is like Build but panics if the value cannot be built.")
		f.Func().Params(property.Receiver(d)).Id("MustBuild").Params().Add(property.DatatypeType(d)).Block(
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Id("b").Dot("Build").Call(),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())),
			jen.Return(jen.Id("v")),
		)
	}
}

func genBuildPartial(f *jen.File, d *gen.Datatype) {
	f.Commentf("BuildPartial returns a %s holding the properties set so far, without", d.Name)
	f.Comment("checking that required properties are set. Accessing an unset required")
	f.Comment("property of the result panics. Nested builders are built partially too.")
	f.Comment("Partial values are meant for tests that only need some properties.")
	f.Func().Params(property.Receiver(d)).Id("BuildPartial").Params().Add(property.DatatypeType(d)).BlockFunc(func(g *jen.Group) {
		g.Id("v").Op(":=").Op("&").Add(property.PartialType(d)).Values()
		for _, p := range d.Properties {
			g.Add(property.For(p).BuildPartial(p))
		}
		g.Return(jen.Id("v"))
	})
}

func genMergeFrom(f *jen.File, d *gen.Datatype) {
	f.Comment("MergeFrom copies every property of value into the builder. Lists are")
	f.Comment("appended to, maps are merged and nested builders merge the nested")
	f.Comment("values. Only the set properties of a partial value are copied.")
	f.Func().Params(property.Receiver(d)).Id("MergeFrom").Params(jen.Id("value").Add(property.DatatypeType(d))).Add(property.Self(d)).BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("value").Op("==").Nil()).Block(
			jen.Panic(jen.Qual(gen.RuntimePkg, "NilArgument").Call(jen.Lit(d.Name), jen.Lit("MergeFrom"), jen.Lit("value"))),
		)
		if len(d.Required()) > 0 {
			g.List(jen.Id("p"), jen.Id("isPartial")).Op(":=").Id("value").Assert(jen.Op("*").Add(property.PartialType(d)))
		}
		for _, p := range d.Properties {
			g.Add(property.For(p).MergeFrom(p))
		}
		g.Return(jen.Id("b").Dot("self"))
	})
}

func genMergeFromBuilder(f *jen.File, d *gen.Datatype) {
	f.Comment("MergeFromBuilder copies the properties set on other into the builder.")
	f.Comment("The builder builds partial values from then on if other does.")
	f.Func().Params(property.Receiver(d)).Id("MergeFromBuilder").Params(jen.Id("other").Op("*").Add(property.BuilderType(d))).Add(property.Self(d)).BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("other").Op("==").Nil()).Block(
			jen.Panic(jen.Qual(gen.RuntimePkg, "NilArgument").Call(jen.Lit(d.Name), jen.Lit("MergeFromBuilder"), jen.Lit("other"))),
		)
		g.If(jen.Id("other").Dot("partial")).Block(
			jen.Id("b").Dot("partial").Op("=").True(),
		)
		for _, p := range d.Properties {
			g.Add(property.For(p).MergeFromBuilder(p))
		}
		g.Return(jen.Id("b").Dot("self"))
	})
}

func genClear(f *jen.File, d *gen.Datatype) {
	f.Comment("Clear resets every property to its unset state.")
	f.Func().Params(property.Receiver(d)).Id("Clear").Params().Add(property.Self(d)).BlockFunc(func(g *jen.Group) {
		for _, p := range d.Properties {
			g.Add(property.For(p).Clear(p))
		}
		g.Return(jen.Id("b").Dot("self"))
	})
}

// genBuilder generates the concrete builder, unless the user declared it,
// its factory and the function creating a builder from a value.
func genBuilder(h gen.GeneratorHelper, f *jen.File, d *gen.Datatype) {
	builder := property.BuilderType(d)
	if !d.Extensible {
		f.Commentf("%s builds %s values.", d.BuilderName(), d.Name)
		typeDecl(f.Type().Id(d.BuilderName()), d).Struct(
			property.BaseType(d, jen.Op("*").Add(builder)),
		)
	}

	f.Commentf("%s returns a new, empty %s.", d.FactoryName(), d.BuilderName())
	typeDecl(f.Func().Id(d.FactoryName()), d).Params().Op("*").Add(builder).BlockFunc(func(g *jen.Group) {
		g.Id("b").Op(":=").New(builder)
		g.Id("b").Dot("self").Op("=").Id("b")
		if d.HasDefaults {
			g.Id("b").Dot("defaults").Call()
		}
		g.Return(jen.Id("b"))
	})

	f.Commentf("%s returns a builder holding the properties of value. The builder", d.FromName())
	f.Comment("builds partial values if value is partial.")
	typeDecl(f.Func().Id(d.FromName()), d).Params(jen.Id("value").Add(property.DatatypeType(d))).Op("*").Add(builder).BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("value").Op("==").Nil()).Block(
			jen.Panic(jen.Qual(h.RuntimePkg(), "NilArgument").Call(jen.Lit(d.Name), jen.Lit(d.FromName()), jen.Lit("value"))),
		)
		if d.HasToBuilder {
			g.Return(jen.Id("value").Dot("ToBuilder").Call())
			return
		}
		g.Id("b").Op(":=").Add(property.Factory(d))
		g.If(
			jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("value").Assert(jen.Op("*").Add(property.PartialType(d))),
			jen.Id("ok"),
		).Block(
			jen.Id("b").Dot("partial").Op("=").True(),
		)
		g.Return(jen.Id("b").Dot("MergeFrom").Call(jen.Id("value")))
	})
}
