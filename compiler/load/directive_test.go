package load

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectives(t *testing.T) {
	src := `package p

// Item is a line item.
//
//freebuild:builder
type Item interface {
	// Name is the display name.
	//freebuild:nostring noequal
	Name() string
	Price() int //freebuild:label=cost
}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	gd := f.Decls[0].(*ast.GenDecl)
	d := ParseDirectives(gd.Doc)
	assert.True(t, d.Has(DirectiveBuilder))
	assert.False(t, d.Has(DirectiveNoEqual))

	specs := interfaceSpecs([]*ast.File{f})
	require.Contains(t, specs, "Item")
	assert.True(t, specs["Item"].directives.Has(DirectiveBuilder))

	docs := methodDocs(specs)
	methods := specs["Item"].spec.Type.(*ast.InterfaceType).Methods.List
	name := docs[methods[0].Names[0].Pos()]
	assert.True(t, name.Has(DirectiveNoString))
	assert.True(t, name.Has(DirectiveNoEqual))
	price := docs[methods[1].Names[0].Pos()]
	assert.Equal(t, "cost", price["label"])

	assert.Nil(t, ParseDirectives(nil))
	assert.Nil(t, ParseDirectives(&ast.CommentGroup{List: []*ast.Comment{{Text: "// plain"}}}))
}
