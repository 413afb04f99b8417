package property

import (
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/freebuild/compiler/gen"
)

// Receiver returns the receiver of builder base methods, e.g.
// (b *ReceiptBuilderBase[B]).
func Receiver(d *gen.Datatype) *jen.Statement {
	return jen.Id("b").Op("*").Add(BaseType(d, Self(d)))
}

// Self returns the type parameter standing for the concrete builder.
func Self(d *gen.Datatype) *jen.Statement {
	return jen.Id(d.SelfParam())
}

// BaseType returns the builder base instantiated with self and the type
// parameters of d, e.g. ReceiptBuilderBase[*ReceiptBuilder].
func BaseType(d *gen.Datatype, self jen.Code) *jen.Statement {
	return jen.Id(d.BaseName()).Types(append([]jen.Code{self}, gen.TypeArgs(d.TypeParams())...)...)
}

// DatatypeType returns the datatype interface, e.g. Pair[K, V].
func DatatypeType(d *gen.Datatype) *jen.Statement {
	return instance(d.Name, d)
}

// BuilderType returns the builder type, e.g. PairBuilder[K, V].
func BuilderType(d *gen.Datatype) *jen.Statement {
	return instance(d.BuilderName(), d)
}

// ValueType returns the immutable value type, e.g. pairValue[K, V].
func ValueType(d *gen.Datatype) *jen.Statement {
	return instance(d.ValueName(), d)
}

// PartialType returns the partial value type, e.g. pairPartial[K, V].
func PartialType(d *gen.Datatype) *jen.Statement {
	return instance(d.PartialName(), d)
}

// Factory returns a call of the builder factory of d.
func Factory(d *gen.Datatype) *jen.Statement {
	return instance(d.FactoryName(), d).Call()
}

func instance(name string, d *gen.Datatype) *jen.Statement {
	s := jen.Id(name)
	if d.IsGeneric() {
		s.Types(gen.TypeArgs(d.TypeParams())...)
	}
	return s
}

// returnSelf returns the concrete builder from a fluent method.
func returnSelf() *jen.Statement {
	return jen.Return(jen.Id("b").Dot("self"))
}

// field selects the storage of p on the given variable.
func field(v string, p *gen.Property) *jen.Statement {
	return jen.Id(v).Dot(p.Field())
}

// runtime qualifies an identifier of the runtime support package.
func runtime(name string) *jen.Statement {
	return jen.Qual(gen.RuntimePkg, name)
}

// nilPanic panics with a freebuild.ArgumentError.
func nilPanic(p *gen.Property, method string, arg jen.Code) *jen.Statement {
	return jen.Panic(runtime("NilArgument").Call(jen.Lit(p.Datatype.Name), jen.Lit(method), arg))
}

// nilCheck rejects a nil argument of a nil-checked type before any mutation.
func nilCheck(p *gen.Property, method, arg string, t types.Type) jen.Code {
	if !gen.NilChecked(t) {
		return jen.Null()
	}
	return jen.If(jen.Id(arg).Op("==").Nil()).Block(nilPanic(p, method, jen.Lit(arg)))
}

// nilCheckEach rejects a variadic argument holding a nil element. Every
// element is checked before the first one is stored.
func nilCheckEach(p *gen.Property, method, arg string, t types.Type) jen.Code {
	if !gen.NilChecked(t) {
		return jen.Null()
	}
	return jen.For(jen.List(jen.Id("i"), jen.Id("element")).Op(":=").Range().Id(arg)).Block(
		jen.If(jen.Id("element").Op("==").Nil()).Block(
			nilPanic(p, method, jen.Qual("fmt", "Sprintf").Call(jen.Lit(arg+"[%d]"), jen.Id("i"))),
		),
	)
}

// nilCheckFunc rejects a nil function or sequence argument.
func nilCheckFunc(p *gen.Property, method, arg string) jen.Code {
	return jen.If(jen.Id(arg).Op("==").Nil()).Block(nilPanic(p, method, jen.Lit(arg)))
}

// nested returns the builder type of a buildable property, e.g.
// ItemBuilder or money.PairBuilder[string, int].
func nested(bt *gen.BuildableType) *jen.Statement {
	s := jen.Qual(bt.BuilderPkg, bt.BuilderName)
	if bt.Inference == gen.ExplicitTypeArgs {
		s.Types(typeArgs(bt)...)
	}
	return s
}

// nestedPtr returns a pointer to the nested builder type.
func nestedPtr(bt *gen.BuildableType) *jen.Statement {
	return jen.Op("*").Add(nested(bt))
}

// newNested returns an expression creating an empty nested builder.
func newNested(bt *gen.BuildableType) *jen.Statement {
	if bt.Construction == gen.ZeroBuilder {
		return jen.Id("new").Call(nested(bt))
	}
	s := jen.Qual(bt.BuilderPkg, bt.Factory)
	if bt.Inference == gen.ExplicitTypeArgs {
		s.Types(typeArgs(bt)...)
	}
	return s.Call()
}

// toNested returns an expression converting a value to a new nested builder.
// ToBuilder keeps partial values partial.
func toNested(bt *gen.BuildableType, value jen.Code) *jen.Statement {
	if bt.Conversion == gen.ToBuilderAndMerge {
		return jen.Add(value).Dot("ToBuilder").Call()
	}
	return newNested(bt).Dot("MergeFrom").Call(value)
}

// copyNested returns an expression copying a nested builder.
func copyNested(bt *gen.BuildableType, builder jen.Code) *jen.Statement {
	return newNested(bt).Dot("MergeFromBuilder").Call(builder)
}

func typeArgs(bt *gen.BuildableType) []jen.Code {
	args := make([]jen.Code, 0, len(bt.TypeArgs))
	for _, t := range bt.TypeArgs {
		args = append(args, gen.TypeCode(t))
	}
	return args
}

// propertyError wraps a nested build error.
func propertyError(p *gen.Property, index jen.Code) *jen.Statement {
	return runtime("NewPropertyError").Call(jen.Lit(p.Datatype.Name), jen.Lit(p.Name), index, jen.Err())
}

// stmts joins statements, one per line.
func stmts(codes ...jen.Code) *jen.Statement {
	s := jen.Null()
	for i, c := range codes {
		if i > 0 {
			s.Line()
		}
		s.Add(c)
	}
	return s
}
