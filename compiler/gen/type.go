package gen

import (
	"go/types"
)

// Datatype is an interface selected for generation, together with the
// names of everything generated for it.
type Datatype struct {
	*Config
	// Name is the interface name, e.g. "Receipt".
	Name string
	// Pos is the source position of the declaration.
	Pos string
	// Object is the interface type name.
	Object *types.TypeName
	// Properties in declaration order.
	Properties []*Property
	// Extensible reports that the user declared the builder type, embedding
	// the generated base, so the generator must not emit it.
	Extensible bool
	// HasDefaults reports that the user-declared builder has a defaults
	// method, called by the factory.
	HasDefaults bool
	// HasToBuilder reports that the interface declares ToBuilder.
	HasToBuilder bool
}

// Pkg returns the package declaring the datatype.
func (d *Datatype) Pkg() *types.Package {
	return d.Object.Pkg()
}

// Named returns the interface type.
func (d *Datatype) Named() *types.Named {
	n, _ := d.Object.Type().(*types.Named)
	return n
}

// TypeParams returns the type parameters of a generic datatype, or nil.
func (d *Datatype) TypeParams() *types.TypeParamList {
	if n := d.Named(); n != nil {
		return n.TypeParams()
	}
	return nil
}

// IsGeneric reports whether the datatype has type parameters.
func (d *Datatype) IsGeneric() bool {
	return d.TypeParams().Len() > 0
}

// Exported reports whether the interface is exported.
func (d *Datatype) Exported() bool {
	return d.Object.Exported()
}

// BuilderName returns the builder type name, e.g. "ReceiptBuilder".
func (d *Datatype) BuilderName() string {
	return d.Name + "Builder"
}

// BaseName returns the generic builder base name, e.g. "ReceiptBuilderBase".
func (d *Datatype) BaseName() string {
	return d.Name + "BuilderBase"
}

// FactoryName returns the builder constructor name, e.g. "NewReceiptBuilder".
func (d *Datatype) FactoryName() string {
	if d.Exported() {
		return "New" + d.BuilderName()
	}
	return "new" + pascal(d.BuilderName())
}

// SelfParam returns the name of the builder base type parameter standing for
// the concrete builder type. It avoids the datatype's own type parameters.
func (d *Datatype) SelfParam() string {
	taken := make(map[string]bool)
	if tparams := d.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			taken[tparams.At(i).Obj().Name()] = true
		}
	}
	for _, name := range []string{"B", "Self", "BuilderType"} {
		if !taken[name] {
			return name
		}
	}
	return "B_"
}

// FromName returns the name of the function creating a builder from an
// existing value, e.g. "ReceiptBuilderFrom".
func (d *Datatype) FromName() string {
	return d.BuilderName() + "From"
}

// ValueName returns the unexported immutable value type name, e.g. "receiptValue".
func (d *Datatype) ValueName() string {
	return camel(d.Name) + "Value"
}

// PartialName returns the unexported partial value type name, e.g. "receiptPartial".
func (d *Datatype) PartialName() string {
	return camel(d.Name) + "Partial"
}

// FileName returns the name of the generated file, e.g. "receipt_builder.go".
func (d *Datatype) FileName() string {
	return snake(d.Name) + "_builder.go"
}

// Required returns the properties that must be set before Build.
func (d *Datatype) Required() []*Property {
	var props []*Property
	for _, p := range d.Properties {
		if p.Required() {
			props = append(props, p)
		}
	}
	return props
}

// Property is one accessor method of a datatype.
type Property struct {
	// Name is the property name, e.g. "items" for Items() or GetItems().
	Name string
	// Capitalized is used in method names, e.g. "Items".
	Capitalized string
	// Getter is the accessor method name declared by the interface.
	Getter string
	// Type is the declared result type of the accessor.
	Type types.Type
	// Shape is the classification of Type that selects the property strategy.
	Shape Shape
	// Elem is the element type of lists, the value type of maps and the
	// pointee of nullable properties.
	Elem types.Type
	// Key is the key type of maps.
	Key types.Type
	// Buildable is set for the Buildable and BuildableList shapes.
	Buildable *BuildableType
	// InEquals and InString report whether the property takes part in the
	// generated Equal and String methods.
	InEquals bool
	InString bool
	// Datatype owning the property.
	Datatype *Datatype
}

// Required reports whether the property must be set before Build.
func (p *Property) Required() bool {
	return p.Shape == ShapeDefault
}

// Field returns the name of the struct field holding the property in the
// builder, value and partial types. It never equals the accessor name, which
// is also a method of the value types.
func (p *Property) Field() string {
	if f := builderField(p.Name); f != p.Getter {
		return f
	}
	return "_" + p.Name
}

// SetFlag returns the name of the field tracking whether a required
// property has been set.
func (p *Property) SetFlag() string {
	return "_" + p.Name + "Set"
}

// Method returns the name of a per-property builder method, e.g.
// Method("Add", "") is "AddItems" and Method("", "Builder") is "ItemsBuilder".
func (p *Property) Method(prefix, suffix string) string {
	return prefix + p.Capitalized + suffix
}

// Singular returns the singular noun for one element of a list or map
// property, used in generated documentation.
func (p *Property) Singular() string {
	return singular(p.Name)
}
