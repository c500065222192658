package inject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/km-arc/configinject/framework/config"
)

// ErrRegistryBuilt is the panic value when a Builder is used after Build.
var ErrRegistryBuilt = errors.New("inject: registry already built")

// NameResolutionError reports a binding whose key cannot be derived.
type NameResolutionError struct {
	Binding Binding
	Reason  string
}

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("cannot derive configuration key for %s: %s", e.Binding, e.Reason)
}

// MissingValueError reports a key no source provides, with no default.
type MissingValueError struct {
	Name string
	Type config.Type
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no configuration value for required property %s (%s)", e.Name, e.Type)
}

// Is lets errors.Is(err, config.ErrNotFound) match missing values.
func (e *MissingValueError) Is(target error) bool { return target == config.ErrNotFound }

// ConversionError reports a present value that cannot be converted.
type ConversionError struct {
	Name string
	Type config.Type
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert property %s to %s: %v", e.Name, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MappingError reports a mapping that could not be bound at its prefix.
type MappingError struct {
	Mapping string
	Prefix  string
	Err     *config.StructuralError
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s at prefix %q: %s", e.Mapping, e.Prefix, strings.Join(e.Err.Problems, "; "))
}

func (e *MappingError) Unwrap() error { return e.Err }
