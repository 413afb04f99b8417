package freebuild

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors returned or raised by generated builders.
var (
	// ErrUnsetProperties is returned by Build when required properties
	// have not been set.
	ErrUnsetProperties = errors.New("freebuild: required properties not set")

	// ErrInvalidArgument is raised (as a panic value) when a generated method
	// receives a nil argument where a value is required.
	ErrInvalidArgument = errors.New("freebuild: invalid argument")
)

// UnsetPropertiesError reports every required property of a datatype that was
// not set when Build was called. Accessing an unset property of a partial value
// panics with the same error type.
type UnsetPropertiesError struct {
	Type       string   // Datatype name
	Properties []string // Unset properties, in declaration order
}

// Error returns the error string.
func (e *UnsetPropertiesError) Error() string {
	if len(e.Properties) == 1 {
		return fmt.Sprintf("freebuild: %s: property %s not set", e.Type, e.Properties[0])
	}
	return fmt.Sprintf("freebuild: %s: properties %s not set", e.Type, strings.Join(e.Properties, ", "))
}

// Is reports whether the target error matches UnsetPropertiesError.
// This allows errors.Is(err, ErrUnsetProperties) to return true.
func (e *UnsetPropertiesError) Is(err error) bool {
	return err == ErrUnsetProperties
}

// NewUnsetPropertiesError returns a new UnsetPropertiesError for the given datatype.
func NewUnsetPropertiesError(typ string, properties ...string) *UnsetPropertiesError {
	return &UnsetPropertiesError{Type: typ, Properties: properties}
}

// IsUnsetProperties returns true if the error is an UnsetPropertiesError.
func IsUnsetProperties(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsetPropertiesError
	return errors.As(err, &e) || errors.Is(err, ErrUnsetProperties)
}

// ArgumentError describes a rejected argument of a generated builder method.
// Builders panic with it before mutating any state.
type ArgumentError struct {
	Type     string // Datatype name
	Method   string // Builder method
	Argument string // Parameter name
	Message  string
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("freebuild: %s.%s: %s %s", e.Type, e.Method, e.Argument, e.Message)
}

// Is reports whether the target error matches ArgumentError.
func (e *ArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NilArgument returns the ArgumentError raised when arg of method is nil.
func NilArgument(typ, method, arg string) *ArgumentError {
	return &ArgumentError{Type: typ, Method: method, Argument: arg, Message: "must not be nil"}
}

// IsInvalidArgument returns true if the error is an ArgumentError.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentError
	return errors.As(err, &e)
}

// PropertyError wraps the failure of a nested builder while building the
// property of an enclosing datatype.
type PropertyError struct {
	Type     string // Enclosing datatype name
	Property string // Property name
	Index    int    // Element index for list properties, -1 otherwise
	Err      error  // Underlying build error
}

// Error returns the error string.
func (e *PropertyError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("freebuild: %s.%s[%d]: %v", e.Type, e.Property, e.Index, e.Err)
	}
	return fmt.Sprintf("freebuild: %s.%s: %v", e.Type, e.Property, e.Err)
}

// Unwrap returns the underlying error.
func (e *PropertyError) Unwrap() error {
	return e.Err
}

// NewPropertyError returns a new PropertyError. Use a negative index for
// properties that are not lists.
func NewPropertyError(typ, property string, index int, err error) *PropertyError {
	if index < 0 {
		index = -1
	}
	return &PropertyError{Type: typ, Property: property, Index: index, Err: err}
}

// IsPropertyError returns true if the error is a PropertyError.
func IsPropertyError(err error) bool {
	if err == nil {
		return false
	}
	var e *PropertyError
	return errors.As(err, &e)
}
