package builder

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/gen/property"
)

// genValue generates the immutable value type returned by Build, or the
// partial type returned by BuildPartial.
func genValue(h gen.GeneratorHelper, f *jen.File, d *gen.Datatype, partial bool) {
	name, typ := d.ValueName(), property.ValueType(d)
	if partial {
		name, typ = d.PartialName(), property.PartialType(d)
	}
	if partial {
		f.Commentf("%s is a %s with possibly unset required properties.", name, d.Name)
	} else {
		f.Commentf("%s is the immutable %s returned by %s.Build.", name, d.Name, d.BuilderName())
	}
	typeDecl(f.Type().Id(name), d).StructFunc(func(g *jen.Group) {
		for _, p := range d.Properties {
			g.Id(p.Field()).Add(gen.TypeCode(p.Type))
		}
		if partial {
			for _, p := range d.Required() {
				g.Id(p.SetFlag()).Bool()
			}
		}
	})

	recv := jen.Id("v").Op("*").Add(typ.Clone())
	for _, p := range d.Properties {
		f.Func().Params(recv.Clone()).Id(p.Getter).Params().Add(gen.TypeCode(p.Type)).BlockFunc(func(g *jen.Group) {
			if partial && p.Required() {
				g.If(jen.Op("!").Id("v").Dot(p.SetFlag())).Block(
					jen.Panic(jen.Qual(h.RuntimePkg(), "NewUnsetPropertiesError").Call(jen.Lit(d.Name), jen.Lit(p.Name))),
				)
			}
			g.Add(property.For(p).Accessor(p))
		})
	}

	genEqual(f, d, recv, typ, partial)
	genString(f, d, recv, partial)

	if d.HasToBuilder {
		f.Commentf("ToBuilder returns a builder holding the properties of the %s.", kind(d, partial))
		f.Func().Params(recv.Clone()).Id("ToBuilder").Params().Op("*").Add(property.BuilderType(d)).BlockFunc(func(g *jen.Group) {
			if !partial {
				g.Return(property.Factory(d).Dot("MergeFrom").Call(jen.Id("v")))
				return
			}
			g.Id("b").Op(":=").Add(property.Factory(d))
			g.Id("b").Dot("partial").Op("=").True()
			g.Return(jen.Id("b").Dot("MergeFrom").Call(jen.Id("v")))
		})
	}

	if !d.IsGeneric() {
		f.Var().Id("_").Add(property.DatatypeType(d)).Op("=").Parens(jen.Op("*").Id(name)).Call(jen.Nil())
	}
}

// genEqual generates Equal. Values are only equal to values of the same
// generated type.
func genEqual(f *jen.File, d *gen.Datatype, recv, typ *jen.Statement, partial bool) {
	f.Commentf("Equal reports whether other is a %s with equal properties.", kind(d, partial))
	f.Func().Params(recv.Clone()).Id("Equal").Params(jen.Id("other").Add(property.DatatypeType(d))).Bool().BlockFunc(func(g *jen.Group) {
		var conds []jen.Code
		for _, p := range d.Properties {
			if !p.InEquals {
				continue
			}
			if partial && p.Required() {
				conds = append(conds, jen.Id("v").Dot(p.SetFlag()).Op("==").Id("o").Dot(p.SetFlag()))
			}
			if gen.IsBasic(p.Type) {
				conds = append(conds, jen.Id("v").Dot(p.Field()).Op("==").Id("o").Dot(p.Field()))
			} else {
				conds = append(conds, jen.Qual("reflect", "DeepEqual").Call(jen.Id("v").Dot(p.Field()), jen.Id("o").Dot(p.Field())))
			}
		}
		if len(conds) == 0 {
			g.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("other").Assert(jen.Op("*").Add(typ.Clone()))
			g.Return(jen.Id("ok"))
			return
		}
		g.List(jen.Id("o"), jen.Id("ok")).Op(":=").Id("other").Assert(jen.Op("*").Add(typ.Clone()))
		g.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.False()))
		ret := jen.Add(conds[0])
		for _, c := range conds[1:] {
			ret.Op("&&").Line().Add(c)
		}
		g.Return(ret)
	})
}

// genString generates String, e.g. Receipt{title=lunch, tags=[a b]}.
// Unset optional properties are omitted.
func genString(f *jen.File, d *gen.Datatype, recv *jen.Statement, partial bool) {
	var printed []*gen.Property
	for _, p := range d.Properties {
		if p.InString {
			printed = append(printed, p)
		}
	}
	f.Commentf("String returns the properties of the %s.", kind(d, partial))
	f.Func().Params(recv.Clone()).Id("String").Params().String().BlockFunc(func(g *jen.Group) {
		prefix := d.Name + "{"
		if partial {
			prefix = "partial " + prefix
		}
		g.Var().Id("sb").Qual("strings", "Builder")
		g.Id("sb").Dot("WriteString").Call(jen.Lit(prefix))
		if len(printed) > 0 {
			g.Id("sep").Op(":=").Lit("")
		}
		for i, p := range printed {
			value := jen.Id("v").Dot(p.Field())
			var guard jen.Code
			switch {
			case p.Shape == gen.ShapeNullable:
				guard = jen.Id("v").Dot(p.Field()).Op("!=").Nil()
				value = jen.Op("*").Id("v").Dot(p.Field())
			case partial && p.Required():
				guard = jen.Id("v").Dot(p.SetFlag())
			}
			write := []jen.Code{
				jen.Qual("fmt", "Fprintf").Call(jen.Op("&").Id("sb"), jen.Lit("%s"+p.Name+"=%v"), jen.Id("sep"), value),
			}
			if i < len(printed)-1 {
				write = append(write, jen.Id("sep").Op("=").Lit(", "))
			}
			if guard == nil {
				for _, c := range write {
					g.Add(c)
				}
				continue
			}
			g.If(guard).Block(write...)
		}
		g.Id("sb").Dot("WriteString").Call(jen.Lit("}"))
		g.Return(jen.Id("sb").Dot("String").Call())
	})
}

func kind(d *gen.Datatype, partial bool) string {
	if partial {
		return "partial " + d.Name
	}
	return d.Name
}
