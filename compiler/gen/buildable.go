package gen

import (
	"go/types"
)

// Shape classifies a property type. Each shape has exactly one property
// strategy.
type Shape int

// Property shapes, in order of increasing precedence.
const (
	// ShapeDefault is a required value of any type.
	ShapeDefault Shape = iota
	// ShapeNullable is an optional pointer, nil when unset.
	ShapeNullable
	// ShapeList is a slice of non-buildable elements.
	ShapeList
	// ShapeMap is a map.
	ShapeMap
	// ShapeBuildable is a nested buildable datatype.
	ShapeBuildable
	// ShapeBuildableList is a slice of buildable datatypes.
	ShapeBuildableList
)

var shapeNames = [...]string{
	ShapeDefault:       "default",
	ShapeNullable:      "nullable",
	ShapeList:          "list",
	ShapeMap:           "map",
	ShapeBuildable:     "buildable",
	ShapeBuildableList: "buildable-list",
}

// String returns the shape name.
func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// Construction is how a nested builder is instantiated.
type Construction int

const (
	// Factory calls the New<T>Builder function.
	Factory Construction = iota
	// ZeroBuilder allocates the builder with new(<T>Builder).
	ZeroBuilder
)

// Conversion is how a finished (possibly partial) value becomes a builder.
type Conversion int

const (
	// MergeDirectly creates a fresh builder and merges the value into it.
	MergeDirectly Conversion = iota
	// ToBuilderAndMerge calls the value's own ToBuilder method, so partial
	// values produce builders that keep producing partials.
	ToBuilderAndMerge
)

// TypeInference tells whether the nested builder needs explicit type arguments.
type TypeInference int

const (
	// NoTypeArgs is used for non-generic builders.
	NoTypeArgs TypeInference = iota
	// ExplicitTypeArgs is used for generic builders: a nullary factory
	// gives the compiler nothing to infer type arguments from.
	ExplicitTypeArgs
)

// BuildableType describes the builder of a nested buildable datatype.
type BuildableType struct {
	// Type is the datatype interface, instantiated when generic.
	Type *types.Named
	// BuilderPkg is the import path of the package declaring the builder.
	BuilderPkg string
	// BuilderName is the builder type name.
	BuilderName string
	// TypeArgs instantiate a generic builder.
	TypeArgs []types.Type
	// Construction selects between the factory and new(Builder).
	Construction Construction
	// Factory is the factory function name when Construction is Factory.
	Factory string
	// Conversion selects how values are turned into builders.
	Conversion Conversion
	// Inference tells whether TypeArgs must be written out.
	Inference TypeInference
}

// UpperBound returns the type a property type is resolved against: aliases
// are removed and a type parameter constrained to exactly one non-tilde term
// is replaced by that term. Any other type is returned unchanged.
func UpperBound(t types.Type) types.Type {
	t = types.Unalias(t)
	tp, ok := t.(*types.TypeParam)
	if !ok {
		return t
	}
	iface, ok := tp.Constraint().Underlying().(*types.Interface)
	if !ok || iface.NumEmbeddeds() != 1 || iface.NumExplicitMethods() != 0 {
		return t
	}
	switch e := types.Unalias(iface.EmbeddedType(0)).(type) {
	case *types.Union:
		if e.Len() == 1 && !e.Term(0).Tilde() {
			return types.Unalias(e.Term(0).Type())
		}
		return t
	default:
		// A lone embedded type such as [T int] or [T Point].
		if _, ok := e.Underlying().(*types.Interface); ok {
			return t
		}
		return e
	}
}

// ResolveBuildable reports whether t is a buildable datatype and describes
// its builder. A type that is not buildable is the expected negative result,
// not an error.
func (g *Graph) ResolveBuildable(t types.Type) (*BuildableType, bool) {
	bound := UpperBound(t)
	if !types.Identical(bound, types.Unalias(t)) {
		// The builder would produce the bound, which is not assignable to
		// the type parameter.
		g.logger().Debug("type parameter is not buildable", "type", t.String(), "bound", bound.String())
		return nil, false
	}
	named, ok := bound.(*types.Named)
	if !ok {
		return nil, false
	}
	if _, ok := named.Underlying().(*types.Interface); !ok {
		return nil, false
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil, false
	}
	if d, ok := g.index[obj]; ok {
		return g.localBuildable(d, named), true
	}
	return g.foreignBuildable(named)
}

// localBuildable describes a datatype generated in this run. Its builder
// does not exist yet, so nothing can be inspected.
func (g *Graph) localBuildable(d *Datatype, named *types.Named) *BuildableType {
	bt := &BuildableType{
		Type:         named,
		BuilderPkg:   d.Pkg().Path(),
		BuilderName:  d.BuilderName(),
		Construction: Factory,
		Factory:      d.FactoryName(),
		Conversion:   MergeDirectly,
	}
	if d.HasToBuilder {
		bt.Conversion = ToBuilderAndMerge
	}
	if args := named.TypeArgs(); args.Len() > 0 {
		bt.Inference = ExplicitTypeArgs
		for i := range args.Len() {
			bt.TypeArgs = append(bt.TypeArgs, args.At(i))
		}
	}
	return bt
}

// foreignBuildable searches the package of named for a compatible builder.
func (g *Graph) foreignBuildable(named *types.Named) (*BuildableType, bool) {
	obj := named.Obj()
	pkg := obj.Pkg()
	name := obj.Name() + "Builder"
	bobj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, false
	}
	var targs []types.Type
	if args := named.TypeArgs(); args != nil {
		for i := range args.Len() {
			targs = append(targs, args.At(i))
		}
	}
	builder, ok := instantiate(bobj.Type(), targs)
	if !ok {
		g.logger().Debug("builder type parameters do not match", "type", named.String(), "builder", name)
		return nil, false
	}
	ptr := types.NewPointer(builder)
	if !hasBuilderMethods(pkg, named, ptr) {
		g.logger().Debug("builder lacks required methods", "type", named.String(), "builder", name)
		return nil, false
	}
	bt := &BuildableType{
		Type:        named,
		BuilderPkg:  pkg.Path(),
		BuilderName: name,
		TypeArgs:    targs,
	}
	if len(targs) > 0 {
		bt.Inference = ExplicitTypeArgs
	}
	switch factory := "New" + name; {
	case isFactory(pkg, factory, targs, ptr):
		bt.Construction = Factory
		bt.Factory = factory
	case isStruct(builder):
		bt.Construction = ZeroBuilder
	default:
		g.logger().Debug("builder has no usable construction path", "type", named.String(), "builder", name)
		return nil, false
	}
	if returns(method(pkg, named, "ToBuilder"), nil, ptr) {
		bt.Conversion = ToBuilderAndMerge
	}
	return bt, true
}

// instantiate applies targs to a generic type. A non-generic type is
// returned as is when targs is empty.
func instantiate(t types.Type, targs []types.Type) (types.Type, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return t, len(targs) == 0
	}
	if named.TypeParams().Len() != len(targs) {
		return nil, false
	}
	if len(targs) == 0 {
		return named, true
	}
	inst, err := types.Instantiate(nil, named, targs, true)
	if err != nil {
		return nil, false
	}
	return inst, true
}

// hasBuilderMethods reports whether ptr, a pointer to a builder of named,
// has Build, BuildPartial, MergeFrom and MergeFromBuilder.
func hasBuilderMethods(pkg *types.Package, named types.Type, ptr types.Type) bool {
	errType := types.Universe.Lookup("error").Type()
	return returns(method(pkg, ptr, "Build"), nil, named, errType) &&
		returns(method(pkg, ptr, "BuildPartial"), nil, named) &&
		returns(method(pkg, ptr, "MergeFrom"), []types.Type{named}, ptr) &&
		returns(method(pkg, ptr, "MergeFromBuilder"), []types.Type{ptr}, ptr)
}

// method returns the signature of the named method of t, or nil.
func method(pkg *types.Package, t types.Type, name string) *types.Signature {
	obj, _, _ := types.LookupFieldOrMethod(t, true, pkg, name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}
	return fn.Signature()
}

// returns reports whether sig has exactly the given parameter and result types.
func returns(sig *types.Signature, params []types.Type, results ...types.Type) bool {
	if sig == nil || sig.Variadic() || sig.Params().Len() != len(params) || sig.Results().Len() != len(results) {
		return false
	}
	for i, p := range params {
		if !types.Identical(sig.Params().At(i).Type(), p) {
			return false
		}
	}
	for i, r := range results {
		if !types.Identical(sig.Results().At(i).Type(), r) {
			return false
		}
	}
	return true
}

// isFactory reports whether pkg declares a nullary function name returning ptr.
func isFactory(pkg *types.Package, name string, targs []types.Type, ptr types.Type) bool {
	fn, ok := pkg.Scope().Lookup(name).(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Signature()
	if sig.TypeParams().Len() != len(targs) {
		return false
	}
	if len(targs) > 0 {
		inst, err := types.Instantiate(nil, sig, targs, true)
		if err != nil {
			return false
		}
		sig = inst.(*types.Signature)
	}
	return returns(sig, nil, ptr)
}

func isStruct(t types.Type) bool {
	_, ok := t.Underlying().(*types.Struct)
	return ok
}
