package manifest

import (
	"fmt"
	"strings"
)

// LoadError reports a manifest file that cannot be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("manifest: failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports invalid YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("manifest: failed to parse YAML from %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError aggregates every issue found in a manifest.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("manifest: validation failed: %s", e.Issues[0])
	}
	return fmt.Sprintf("manifest: validation failed with %d issues:\n- %s",
		len(e.Issues), strings.Join(e.Issues, "\n- "))
}
