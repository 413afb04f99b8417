// Package load extracts datatype declarations from Go packages.
//
// A datatype is an interface whose methods are property accessors. The loader
// type-checks the requested packages with golang.org/x/tools/go/packages and
// returns, per package, the interfaces selected for generation together with
// their accessor methods, doc directives and any builder the user declared.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// GeneratedHeader is the first line of every file written by the generator.
const GeneratedHeader = "// Code generated by freebuild. DO NOT EDIT."

// GeneratedSuffix is the file name suffix of generated files.
const GeneratedSuffix = "_builder.go"

// Config controls which packages and interfaces are loaded.
type Config struct {
	// Dir is the directory the patterns are resolved from.
	Dir string
	// Patterns are go/packages patterns. Defaults to ".".
	Patterns []string
	// BuildFlags are passed to the go command (e.g. -tags).
	BuildFlags []string
	// Names restricts loading to the named interfaces. When empty, every
	// interface annotated with a //freebuild:builder directive is loaded.
	Names []string
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Package is a loaded Go package with the interfaces selected for generation.
type Package struct {
	Name       string       `yaml:"name"`
	Path       string       `yaml:"path"`
	Dir        string       `yaml:"dir"`
	GoVersion  string       `yaml:"go_version,omitempty"`
	Interfaces []*Interface `yaml:"interfaces"`
	TypeErrors []string     `yaml:"type_errors,omitempty"`

	Types *types.Package `yaml:"-"`
	Fset  *token.FileSet `yaml:"-"`
}

// Interface is a candidate datatype.
type Interface struct {
	Name       string     `yaml:"name"`
	Pos        string     `yaml:"pos"`
	Directives Directives `yaml:"directives,omitempty"`
	Methods    []*Method  `yaml:"methods"`
	// UserBuilder reports that the package declares <Name>Builder itself.
	UserBuilder bool `yaml:"user_builder,omitempty"`
	// UserDefaults reports that the user-declared builder has a defaults method.
	UserDefaults bool `yaml:"user_defaults,omitempty"`

	Object *types.TypeName `yaml:"-"`
}

// Method is one method of a candidate datatype, in declaration order.
type Method struct {
	Name       string     `yaml:"name"`
	Signature  string     `yaml:"signature"`
	Directives Directives `yaml:"directives,omitempty"`
	Embedded   bool       `yaml:"embedded,omitempty"`

	Func *types.Func `yaml:"-"`
}

// Load type-checks the configured packages and extracts their datatypes.
//
// Files previously written by the generator are replaced by an empty package
// clause while loading, so stale output cannot break regeneration. Type errors
// are tolerated (the interfaces usually reference builders that do not exist
// yet) and reported in Package.TypeErrors; syntax errors are fatal.
func Load(ctx context.Context, cfg *Config) ([]*Package, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	overlay, err := generatedOverlay(cfg.Dir)
	if err != nil {
		return nil, err
	}
	pcfg := &packages.Config{
		Context: ctx,
		Dir:     cfg.Dir,
		Fset:    token.NewFileSet(),
		// Dependencies are type-checked from source: export data would
		// require the package to compile, and datatypes usually reference
		// builders that are not generated yet.
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedImports | packages.NeedDeps |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule,
		BuildFlags: cfg.BuildFlags,
		Overlay:    overlay,
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %s: %w", strings.Join(patterns, " "), err)
	}
	loaded := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		pkg, err := newPackage(p, pcfg.Fset, cfg.Names)
		if err != nil {
			return nil, err
		}
		for _, msg := range pkg.TypeErrors {
			logger.Debug("tolerated type error", "package", pkg.Path, "error", msg)
		}
		loaded = append(loaded, pkg)
	}
	return loaded, nil
}

func newPackage(p *packages.Package, fset *token.FileSet, names []string) (*Package, error) {
	var typeErrs []string
	for _, e := range p.Errors {
		switch e.Kind {
		case packages.TypeError:
			typeErrs = append(typeErrs, e.Error())
		default:
			return nil, fmt.Errorf("load package %s: %s", p.PkgPath, e)
		}
	}
	if p.Types == nil {
		return nil, fmt.Errorf("load package %s: no type information", p.PkgPath)
	}
	if fset == nil {
		fset = p.Fset
	}
	pkg, err := NewPackage(fset, p.Types, p.Syntax, names)
	if err != nil {
		return nil, err
	}
	pkg.TypeErrors = typeErrs
	if len(p.GoFiles) > 0 {
		pkg.Dir = filepath.Dir(p.GoFiles[0])
	}
	if p.Module != nil {
		pkg.GoVersion = p.Module.GoVersion
		if p.Module.GoMod != "" {
			if v, err := ModuleGoVersion(p.Module.GoMod); err == nil && v != "" {
				pkg.GoVersion = v
			}
		}
	}
	if pkg.GoVersion == "" && pkg.Dir != "" {
		if path, err := FindGoMod(pkg.Dir); err == nil && path != "" {
			pkg.GoVersion, _ = ModuleGoVersion(path)
		}
	}
	return pkg, nil
}

// NewPackage extracts the datatypes of an already type-checked package. The
// caller fills in Dir and GoVersion when they are known.
func NewPackage(fset *token.FileSet, tpkg *types.Package, files []*ast.File, names []string) (*Package, error) {
	pkg := &Package{
		Name:  tpkg.Name(),
		Path:  tpkg.Path(),
		Types: tpkg,
		Fset:  fset,
	}
	specs := interfaceSpecs(files)
	docs := methodDocs(specs)
	selected, err := selectInterfaces(tpkg, specs, names)
	if err != nil {
		return nil, err
	}
	for _, obj := range selected {
		pkg.Interfaces = append(pkg.Interfaces, newInterface(fset, tpkg, obj, specs[obj.Name()], docs))
	}
	return pkg, nil
}

// selectInterfaces returns the named interfaces, or the annotated ones when
// names is empty, in source order.
func selectInterfaces(pkg *types.Package, specs map[string]*typeSpec, names []string) ([]*types.TypeName, error) {
	var objs []*types.TypeName
	if len(names) == 0 {
		for name, spec := range specs {
			if _, ok := spec.directives[DirectiveBuilder]; ok {
				if obj, ok := pkg.Scope().Lookup(name).(*types.TypeName); ok {
					objs = append(objs, obj)
				}
			}
		}
		slices.SortFunc(objs, func(a, b *types.TypeName) int { return int(a.Pos() - b.Pos()) })
		return objs, nil
	}
	var errs []error
	for _, name := range names {
		obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			errs = append(errs, fmt.Errorf("type %q not found in package %s", name, pkg.Path()))
			continue
		}
		if _, ok := obj.Type().Underlying().(*types.Interface); !ok {
			errs = append(errs, fmt.Errorf("type %q in package %s is not an interface", name, pkg.Path()))
			continue
		}
		objs = append(objs, obj)
	}
	return objs, errors.Join(errs...)
}

func newInterface(fset *token.FileSet, pkg *types.Package, obj *types.TypeName, spec *typeSpec, docs map[token.Pos]Directives) *Interface {
	iface := &Interface{
		Name:   obj.Name(),
		Pos:    fset.Position(obj.Pos()).String(),
		Object: obj,
	}
	if spec != nil {
		iface.Directives = spec.directives
	}
	if b, ok := pkg.Scope().Lookup(obj.Name() + "Builder").(*types.TypeName); ok {
		iface.UserBuilder = true
		if named, ok := b.Type().(*types.Named); ok {
			for i := range named.NumMethods() {
				if m := named.Method(i); m.Name() == "defaults" && m.Signature().Params().Len() == 0 {
					iface.UserDefaults = true
				}
			}
		}
	}
	it, _ := obj.Type().Underlying().(*types.Interface)
	if it == nil {
		return iface
	}
	explicit := make(map[*types.Func]bool, it.NumExplicitMethods())
	for i := range it.NumExplicitMethods() {
		explicit[it.ExplicitMethod(i)] = true
	}
	funcs := make([]*types.Func, 0, it.NumMethods())
	for i := range it.NumMethods() {
		funcs = append(funcs, it.Method(i))
	}
	// go/types orders methods by name; properties keep declaration order,
	// explicit methods first.
	slices.SortStableFunc(funcs, func(a, b *types.Func) int {
		if explicit[a] != explicit[b] {
			if explicit[a] {
				return -1
			}
			return 1
		}
		return int(a.Pos() - b.Pos())
	})
	qual := types.RelativeTo(pkg)
	for _, f := range funcs {
		iface.Methods = append(iface.Methods, &Method{
			Name:       f.Name(),
			Signature:  types.TypeString(f.Type(), qual),
			Directives: docs[f.Pos()],
			Embedded:   !explicit[f],
			Func:       f,
		})
	}
	return iface
}

type typeSpec struct {
	spec       *ast.TypeSpec
	directives Directives
}

// interfaceSpecs indexes the interface type declarations of the files by name.
func interfaceSpecs(files []*ast.File) map[string]*typeSpec {
	specs := make(map[string]*typeSpec)
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				ts := s.(*ast.TypeSpec)
				if _, ok := ts.Type.(*ast.InterfaceType); !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				specs[ts.Name.Name] = &typeSpec{spec: ts, directives: ParseDirectives(doc)}
			}
		}
	}
	return specs
}

// methodDocs maps the position of every interface method name to the
// directives in its doc or line comment.
func methodDocs(specs map[string]*typeSpec) map[token.Pos]Directives {
	docs := make(map[token.Pos]Directives)
	for _, ts := range specs {
		it := ts.spec.Type.(*ast.InterfaceType)
		for _, f := range it.Methods.List {
			if len(f.Names) == 0 {
				continue
			}
			d := ParseDirectives(f.Doc)
			for k, v := range ParseDirectives(f.Comment) {
				if d == nil {
					d = make(Directives)
				}
				d[k] = v
			}
			if d != nil {
				docs[f.Names[0].Pos()] = d
			}
		}
	}
	return docs
}

// generatedOverlay hides previously generated files in dir from the loader.
func generatedOverlay(dir string) (map[string][]byte, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(abs, "*"+GeneratedSuffix))
	if err != nil {
		return nil, err
	}
	overlay := make(map[string][]byte)
	fset := token.NewFileSet()
	for _, path := range matches {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !IsGenerated(src) {
			continue
		}
		f, err := parser.ParseFile(fset, path, src, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		overlay[path] = []byte("package " + f.Name.Name + "\n")
	}
	return overlay, nil
}

// IsGenerated reports whether src was written by the generator.
func IsGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(GeneratedHeader))
}
