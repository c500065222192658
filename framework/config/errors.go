package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is wrapped by NotFoundError.
	ErrNotFound = errors.New("config: no value found")

	// ErrNoConverter is returned inside a ConversionError when no converter
	// is registered for the requested type.
	ErrNoConverter = errors.New("no converter registered")

	// ErrNoSources is returned by Snapshot when the config has nothing to read.
	ErrNoSources = errors.New("config: no sources configured")
)

// NotFoundError reports a key that no source provides and that has no default.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config: property %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConversionError reports a raw value that cannot be converted to its type.
type ConversionError struct {
	Name  string
	Type  Type
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("config: cannot convert %q (value %q) to %s: %v", e.Name, e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// StructuralError aggregates every problem found while binding one mapping.
type StructuralError struct {
	Mapping  string
	Prefix   string
	Problems []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("config: mapping %s (prefix %q): %s",
		e.Mapping, e.Prefix, strings.Join(e.Problems, "; "))
}

// MappingValidationError is returned by RegisterMappings when one or more
// mappings could not be bound. Mappings are listed in registration order.
type MappingValidationError struct {
	Errors []*StructuralError
}

func (e *MappingValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("config: %d invalid mappings:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}
