// Package freebuild holds the runtime support shared by generated builders.
//
// The generator in compiler/gen turns a Go interface describing a datatype's
// accessors into an immutable value type, a fluent builder and a partial value
// type for tests:
//
//	//go:generate go run github.com/syssam/freebuild/cmd/freebuild -type=Item
//
//	type Item interface {
//		Name() string
//		Price() int
//		ToBuilder() *ItemBuilder
//	}
//
//	item, err := NewItemBuilder().SetName("candy").SetPrice(15).Build()
//
// Generated code reports missing required properties with UnsetPropertiesError,
// rejects nil arguments by panicking with ArgumentError, and wraps failures of
// nested builders in PropertyError.
package freebuild
