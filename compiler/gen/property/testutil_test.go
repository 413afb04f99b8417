package property

import (
	"log/slog"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/freebuild/compiler/gen"
	"github.com/syssam/freebuild/compiler/load/loadtest"
)

const shopSrc = `package shop

import "io"

//freebuild:builder
type Item interface {
	Name() string
	Price() int
	ToBuilder() *ItemBuilder
}

//freebuild:builder
type Payment interface {
	Method() string
}

//freebuild:builder
type Receipt interface {
	Title() string
	Reader() io.Reader
	Note() *string
	Tags() []string
	Handlers() []func()
	Labels() map[string]string
	Hooks() map[string]func()
	Counts() map[io.Reader]int
	Payment() Payment
	Items() []Item
	Payments() []Payment
}
`

// mockHelper implements gen.GeneratorHelper over a graph loaded from source.
type mockHelper struct {
	graph    *gen.Graph
	features map[string]bool
	seq      bool
}

func newMockHelper(t *testing.T) *mockHelper {
	t.Helper()
	c, err := gen.NewConfig(gen.WithTarget(t.TempDir()))
	require.NoError(t, err)
	g, err := gen.NewGraph(c, loadtest.Package(t, "example.com/shop", shopSrc))
	require.NoError(t, err)
	require.Empty(t, g.Diagnostics)
	return &mockHelper{
		graph:    g,
		features: map[string]bool{gen.FeatureMapper.Name: true},
		seq:      true,
	}
}

func (m *mockHelper) NewFile(d *gen.Datatype) *jen.File {
	return jen.NewFilePathName(d.Pkg().Path(), d.Pkg().Name())
}
func (m *mockHelper) Graph() *gen.Graph                { return m.graph }
func (m *mockHelper) FeatureEnabled(name string) bool { return m.features[name] }
func (m *mockHelper) SeqEnabled() bool                { return m.seq }
func (m *mockHelper) RuntimePkg() string              { return gen.RuntimePkg }
func (m *mockHelper) Logger() *slog.Logger            { return slog.Default() }

// Ensure mockHelper implements gen.GeneratorHelper.
var _ gen.GeneratorHelper = (*mockHelper)(nil)

// property returns the named property of the Receipt datatype.
func (m *mockHelper) property(t *testing.T, name string) *gen.Property {
	t.Helper()
	d, ok := m.graph.Lookup("Receipt")
	require.True(t, ok)
	for _, p := range d.Properties {
		if p.Name == name {
			return p
		}
	}
	require.FailNow(t, "no property "+name)
	return nil
}

// methods renders the builder methods of p.
func (m *mockHelper) methods(p *gen.Property) string {
	f := m.NewFile(p.Datatype)
	For(p).Methods(m, f, p)
	return f.GoString()
}

// fragment renders code inside a function body.
func (m *mockHelper) fragment(p *gen.Property, code jen.Code) string {
	f := m.NewFile(p.Datatype)
	f.Func().Id("fragment").Params().Block(code)
	return f.GoString()
}
