// Package loadtest type-checks datatype sources in memory for tests of the
// generator packages.
package loadtest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/freebuild/compiler/load"
)

// GoVersion is the source level assigned to checked packages.
const GoVersion = "1.24"

// Package type-checks src as the package at path and returns its datatypes,
// the interfaces annotated with //freebuild:builder. Type errors are
// tolerated as the loader does. Imports resolve to deps first, then to the
// standard library.
func Package(t testing.TB, path, src string, deps ...*load.Package) *load.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path+"/datatypes.go", src, parser.ParseComments)
	require.NoError(t, err)
	var typeErrs []string
	conf := types.Config{
		Importer: &depImporter{deps: deps, std: importer.ForCompiler(fset, "source", nil)},
		Error:    func(err error) { typeErrs = append(typeErrs, err.Error()) },
	}
	tpkg, _ := conf.Check(path, fset, []*ast.File{file}, nil)
	require.NotNil(t, tpkg)
	pkg, err := load.NewPackage(fset, tpkg, []*ast.File{file}, nil)
	require.NoError(t, err)
	pkg.TypeErrors = typeErrs
	pkg.GoVersion = GoVersion
	return pkg
}

type depImporter struct {
	deps []*load.Package
	std  types.Importer
}

func (i *depImporter) Import(path string) (*types.Package, error) {
	for _, d := range i.deps {
		if d.Path == path {
			return d.Types, nil
		}
	}
	if i.std == nil {
		return nil, fmt.Errorf("package %s not found", path)
	}
	return i.std.Import(path)
}
