package inject

import (
	"fmt"
	"strings"
)

// Report is the aggregated result of one validation pass. Problems keep the
// order they were found in: bindings first, then mappings.
type Report struct {
	problems []error
}

func (r *Report) add(err error) { r.problems = append(r.problems, err) }

// Problems returns a copy of every recorded problem.
func (r *Report) Problems() []error {
	return append([]error(nil), r.problems...)
}

func (r *Report) Len() int { return len(r.problems) }

func (r *Report) Empty() bool { return len(r.problems) == 0 }

// Err returns the report as an error, or nil when it is empty.
func (r *Report) Err() error {
	if r == nil || r.Empty() {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	switch len(r.problems) {
	case 0:
		return ""
	case 1:
		return "configuration validation failed: " + r.problems[0].Error()
	}
	msgs := make([]string, 0, len(r.problems))
	for _, p := range r.problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("configuration validation failed with %d problems:\n  - %s",
		len(r.problems), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes the problems to errors.Is and errors.As.
func (r *Report) Unwrap() []error { return r.Problems() }
