package gen

import (
	"errors"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/freebuild/compiler/load"
)

// Graph holds the datatypes of one package and the configuration used to
// generate them.
type Graph struct {
	*Config
	// Datatypes that passed validation, in declaration order.
	Datatypes []*Datatype
	// Diagnostics hold one SchemaError per datatype that cannot be
	// generated. Those datatypes are not part of Datatypes.
	Diagnostics []error

	index map[*types.TypeName]*Datatype
}

// reserved builder methods. A property whose builder getter would clash with
// one of them is rejected.
var reservedBuilder = names(
	"Build",
	"BuildPartial",
	"Clear",
	"MergeFrom",
	"MergeFromBuilder",
	"MustBuild",
)

// reserved value methods generated next to the accessors.
var reservedValue = names(
	"Equal",
	"String",
)

// NewGraph creates a Graph for the interfaces loaded from pkg.
//
// Malformed datatypes do not fail the call: they are recorded in
// Graph.Diagnostics and skipped, and the remaining datatypes treat them as
// plain (non-buildable) types.
func NewGraph(c *Config, pkg *load.Package) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if pkg == nil || pkg.Types == nil {
		return nil, NewConfigError("Package", nil, "no loaded package")
	}
	if c.Package == "" {
		c.Package = pkg.Path
	}
	if c.Target == "" {
		c.Target = pkg.Dir
	}
	if c.SourceLevel == "" {
		c.SourceLevel = pkg.GoVersion
	}
	if c.Header == "" {
		c.Header = defaultHeader
	}
	g := &Graph{Config: c, index: make(map[*types.TypeName]*Datatype)}
	// First pass: datatypes and their accessors, so that every valid
	// datatype is known before property types are resolved.
	type candidate struct {
		d       *Datatype
		methods []*load.Method
	}
	var candidates []candidate
	for _, iface := range pkg.Interfaces {
		d, methods, err := g.newDatatype(pkg, iface)
		if err != nil {
			g.Diagnostics = append(g.Diagnostics, err)
			c.logger().Warn("skipping datatype", "type", iface.Name, "error", err)
			continue
		}
		g.index[d.Object] = d
		candidates = append(candidates, candidate{d: d, methods: methods})
	}
	for _, cand := range candidates {
		if err := g.addProperties(cand.d, cand.methods); err != nil {
			g.Diagnostics = append(g.Diagnostics, err)
			c.logger().Warn("skipping datatype", "type", cand.d.Name, "error", err)
			delete(g.index, cand.d.Object)
			continue
		}
		g.Datatypes = append(g.Datatypes, cand.d)
	}
	return g, nil
}

// Lookup returns the datatype with the given interface name.
func (g *Graph) Lookup(name string) (*Datatype, bool) {
	for _, d := range g.Datatypes {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// newDatatype validates the method set of iface and returns the accessors.
func (g *Graph) newDatatype(pkg *load.Package, iface *load.Interface) (*Datatype, []*load.Method, error) {
	d := &Datatype{
		Config:      g.Config,
		Name:        iface.Name,
		Pos:         iface.Pos,
		Object:      iface.Object,
		Extensible:  iface.UserBuilder,
		HasDefaults: iface.UserDefaults,
	}
	if d.Object == nil {
		return nil, nil, schemaErr(d, "", iface.Pos, "missing type information")
	}
	var errs []error
	var accessors []*load.Method
	for _, m := range iface.Methods {
		sig := m.Func.Signature()
		switch {
		case !m.Func.Exported() && m.Func.Pkg() != pkg.Types:
			errs = append(errs, schemaErr(d, m.Name, iface.Pos, "unexported method of another package cannot be implemented"))
		case m.Name == "ToBuilder" && sig.Params().Len() == 0 && sig.Results().Len() == 1:
			if err := checkToBuilder(d, sig.Results().At(0).Type()); err != nil {
				errs = append(errs, err)
				continue
			}
			d.HasToBuilder = true
		case sig.Params().Len() != 0 || sig.Results().Len() != 1:
			errs = append(errs, schemaErr(d, m.Name, iface.Pos, "only accessor methods (no parameters, one result) may be declared"))
		case reservedValue[m.Name]:
			errs = append(errs, schemaErr(d, m.Name, iface.Pos, "accessor clashes with a generated method"))
		default:
			accessors = append(accessors, m)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return d, accessors, nil
}

// checkToBuilder verifies that ToBuilder returns a pointer to the builder.
// The builder usually does not exist before the first generation, in which
// case the result type is invalid and accepted.
func checkToBuilder(d *Datatype, result types.Type) error {
	ptr, ok := result.(*types.Pointer)
	if !ok {
		if result == types.Typ[types.Invalid] {
			return nil
		}
		return schemaErr(d, "ToBuilder", d.Pos, "must return *"+d.BuilderName())
	}
	switch elem := types.Unalias(ptr.Elem()).(type) {
	case *types.Named:
		if elem.Obj().Name() == d.BuilderName() {
			return nil
		}
	case *types.Basic:
		if elem.Kind() == types.Invalid {
			return nil
		}
	}
	return schemaErr(d, "ToBuilder", d.Pos, "must return *"+d.BuilderName())
}

// addProperties creates one Property per accessor and classifies its type.
func (g *Graph) addProperties(d *Datatype, methods []*load.Method) error {
	bean := usesBeanConvention(methods)
	seen := make(map[string]bool, len(methods))
	var errs []error
	for _, m := range methods {
		t := m.Func.Signature().Results().At(0).Type()
		if t == types.Typ[types.Invalid] {
			errs = append(errs, schemaErr(d, m.Name, d.Pos, "accessor type is undefined"))
			continue
		}
		name := m.Name
		if bean {
			name = stripBeanPrefix(name)
		}
		p := &Property{
			Name:        camel(name),
			Capitalized: pascal(name),
			Getter:      m.Name,
			Type:        t,
			InEquals:    !m.Directives.Has(load.DirectiveNoEqual),
			InString:    !m.Directives.Has(load.DirectiveNoString),
			Datatype:    d,
		}
		if reservedBuilder[p.Capitalized] {
			errs = append(errs, schemaErr(d, m.Name, d.Pos, "property clashes with builder method "+p.Capitalized))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, schemaErr(d, m.Name, d.Pos, "duplicate property "+p.Name))
			continue
		}
		seen[p.Name] = true
		g.classify(p)
		d.Properties = append(d.Properties, p)
	}
	return errors.Join(errs...)
}

// classify computes the shape of a property once. The order of the checks
// implements the precedence of the shapes.
func (g *Graph) classify(p *Property) {
	switch u := types.Unalias(p.Type).Underlying().(type) {
	case *types.Slice:
		p.Elem = u.Elem()
		if bt, ok := g.ResolveBuildable(u.Elem()); ok {
			p.Shape, p.Buildable = ShapeBuildableList, bt
			return
		}
		p.Shape = ShapeList
		return
	case *types.Map:
		p.Shape, p.Key, p.Elem = ShapeMap, u.Key(), u.Elem()
		return
	case *types.Pointer:
		if _, ok := types.Unalias(p.Type).(*types.TypeParam); !ok {
			p.Shape, p.Elem = ShapeNullable, u.Elem()
			return
		}
	}
	if bt, ok := g.ResolveBuildable(p.Type); ok {
		p.Shape, p.Buildable = ShapeBuildable, bt
		return
	}
	p.Shape = ShapeDefault
}

// usesBeanConvention reports whether every accessor is named GetX, or IsX
// for booleans, in which case the prefixes are dropped from property names.
func usesBeanConvention(methods []*load.Method) bool {
	if len(methods) == 0 {
		return false
	}
	for _, m := range methods {
		name := m.Name
		switch {
		case hasWordPrefix(name, "Get"):
		case hasWordPrefix(name, "Is"):
			res := m.Func.Signature().Results().At(0).Type()
			if b, ok := res.Underlying().(*types.Basic); !ok || b.Kind() != types.Bool {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func stripBeanPrefix(name string) string {
	for _, prefix := range []string{"Get", "Is"} {
		if hasWordPrefix(name, prefix) {
			return name[len(prefix):]
		}
	}
	return name
}

// hasWordPrefix reports whether name is prefix followed by an upper-case rune.
func hasWordPrefix(name, prefix string) bool {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}

func schemaErr(d *Datatype, method, pos, msg string) *SchemaError {
	err := NewSchemaError(d.Name, method, msg, nil)
	err.Pos = pos
	return err
}
