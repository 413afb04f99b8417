package gen

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// TypeCode returns the Jennifer code for a type. Named types are qualified
// with their package path, which the file renders as a bare identifier when
// it is the file's own package.
func TypeCode(t types.Type) jen.Code {
	switch t := t.(type) {
	case *types.Alias:
		c := typeName(t.Obj())
		if args := t.TypeArgs(); args.Len() > 0 {
			return c.Types(typeList(args)...)
		}
		return c
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Id(t.Name())
	case *types.Named:
		c := typeName(t.Obj())
		if args := t.TypeArgs(); args.Len() > 0 {
			return c.Types(typeList(args)...)
		}
		return c
	case *types.TypeParam:
		return jen.Id(t.Obj().Name())
	case *types.Pointer:
		return jen.Op("*").Add(TypeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(TypeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(TypeCode(t.Elem()))
	case *types.Map:
		return jen.Map(TypeCode(t.Key())).Add(TypeCode(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(TypeCode(t.Elem()))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(TypeCode(t.Elem()))
		default:
			return jen.Chan().Add(TypeCode(t.Elem()))
		}
	case *types.Signature:
		return jen.Func().Add(signature(t))
	case *types.Struct:
		fields := make([]jen.Code, 0, t.NumFields())
		for i := range t.NumFields() {
			v := t.Field(i)
			var c *jen.Statement
			if v.Embedded() {
				c = jen.Add(TypeCode(v.Type()))
			} else {
				c = jen.Id(v.Name()).Add(TypeCode(v.Type()))
			}
			if tag := t.Tag(i); tag != "" {
				c = c.Add(jen.Lit(tag))
			}
			fields = append(fields, c)
		}
		return jen.Struct(fields...)
	case *types.Interface:
		var elems []jen.Code
		for i := range t.NumEmbeddeds() {
			elems = append(elems, TypeCode(t.EmbeddedType(i)))
		}
		for i := range t.NumExplicitMethods() {
			m := t.ExplicitMethod(i)
			elems = append(elems, jen.Id(m.Name()).Add(signature(m.Signature())))
		}
		return jen.Interface(elems...)
	case *types.Union:
		terms := make([]jen.Code, 0, t.Len())
		for i := range t.Len() {
			term := t.Term(i)
			if term.Tilde() {
				terms = append(terms, jen.Op("~").Add(TypeCode(term.Type())))
				continue
			}
			terms = append(terms, TypeCode(term.Type()))
		}
		return jen.Union(terms...)
	}
	return jen.Id(t.String())
}

// TypeParamsDecl returns the type parameter declarations of a generic
// datatype, e.g. [K comparable, V ~int | ~string].
func TypeParamsDecl(tparams *types.TypeParamList) []jen.Code {
	decl := make([]jen.Code, 0, tparams.Len())
	for i := range tparams.Len() {
		tp := tparams.At(i)
		constraint := tp.Constraint()
		if iface, ok := constraint.(*types.Interface); ok && iface.IsImplicit() && iface.NumEmbeddeds() == 1 {
			constraint = iface.EmbeddedType(0)
		}
		decl = append(decl, jen.Id(tp.Obj().Name()).Add(TypeCode(constraint)))
	}
	return decl
}

// TypeArgs returns the type parameters of a generic datatype as type
// arguments, e.g. [K, V].
func TypeArgs(tparams *types.TypeParamList) []jen.Code {
	args := make([]jen.Code, 0, tparams.Len())
	for i := range tparams.Len() {
		args = append(args, jen.Id(tparams.At(i).Obj().Name()))
	}
	return args
}

// ZeroValue returns an expression for the zero value of t.
func ZeroValue(t types.Type) jen.Code {
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		return jen.Op("*").Id("new").Call(TypeCode(t))
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return jen.False()
		case u.Info()&types.IsString != 0:
			return jen.Lit("")
		case u.Info()&types.IsNumeric != 0:
			return jen.Lit(0)
		}
		return jen.Nil()
	case *types.Struct, *types.Array:
		return jen.Add(TypeCode(t)).Values()
	}
	return jen.Nil()
}

// IsBasic reports whether values of t are compared with ==.
func IsBasic(t types.Type) bool {
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		return false
	}
	_, ok := t.Underlying().(*types.Basic)
	return ok
}

// NilChecked reports whether arguments of type t are rejected when nil:
// pointers, interfaces, functions and channels.
func NilChecked(t types.Type) bool {
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		return false
	}
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Signature, *types.Chan:
		return true
	}
	return false
}

func typeName(obj *types.TypeName) *jen.Statement {
	if obj.Pkg() == nil {
		return jen.Id(obj.Name())
	}
	return jen.Qual(obj.Pkg().Path(), obj.Name())
}

func typeList(list *types.TypeList) []jen.Code {
	codes := make([]jen.Code, 0, list.Len())
	for i := range list.Len() {
		codes = append(codes, TypeCode(list.At(i)))
	}
	return codes
}

// signature renders parameters and results, without the func keyword.
func signature(sig *types.Signature) *jen.Statement {
	params := make([]jen.Code, 0, sig.Params().Len())
	for i := range sig.Params().Len() {
		v := sig.Params().At(i)
		var typ jen.Code = TypeCode(v.Type())
		if sig.Variadic() && i == sig.Params().Len()-1 {
			if s, ok := v.Type().(*types.Slice); ok {
				typ = jen.Op("...").Add(TypeCode(s.Elem()))
			}
		}
		if v.Name() == "" {
			params = append(params, typ)
			continue
		}
		params = append(params, jen.Id(v.Name()).Add(typ))
	}
	s := jen.Params(params...)
	results := sig.Results()
	switch {
	case results.Len() == 1 && results.At(0).Name() == "":
		s.Add(TypeCode(results.At(0).Type()))
	case results.Len() > 0:
		list := make([]jen.Code, 0, results.Len())
		for i := range results.Len() {
			v := results.At(i)
			if v.Name() == "" {
				list = append(list, TypeCode(v.Type()))
				continue
			}
			list = append(list, jen.Id(v.Name()).Add(TypeCode(v.Type())))
		}
		s.Parens(jen.List(list...))
	}
	return s
}
