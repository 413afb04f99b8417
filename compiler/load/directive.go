package load

import (
	"go/ast"
	"strings"
)

// Directive names recognised in doc comments.
const (
	// DirectiveBuilder marks an interface for generation when no type names
	// are given on the command line.
	DirectiveBuilder = "builder"
	// DirectiveNoEqual excludes a property from the generated Equal method.
	DirectiveNoEqual = "noequal"
	// DirectiveNoString excludes a property from the generated String method.
	DirectiveNoString = "nostring"
)

const directivePrefix = "//freebuild:"

// Directives holds the //freebuild:name[=value] comments attached to a declaration.
type Directives map[string]string

// Has reports whether the directive is present.
func (d Directives) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// ParseDirectives extracts the directives of a comment group. It returns nil
// when the group holds none.
func ParseDirectives(doc *ast.CommentGroup) Directives {
	if doc == nil {
		return nil
	}
	var d Directives
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		for _, field := range strings.Fields(text) {
			name, value, _ := strings.Cut(field, "=")
			if name == "" {
				continue
			}
			if d == nil {
				d = make(Directives)
			}
			d[name] = value
		}
	}
	return d
}
