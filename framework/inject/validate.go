package inject

import (
	"errors"
	"fmt"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/logging"
)

// Validator checks a Registry against a Source.
type Validator struct {
	source Source
	log    logging.Logger
}

// NewValidator returns a Validator reading from src. A nil logger discards.
func NewValidator(src Source, log logging.Logger) *Validator {
	if log == nil {
		log = logging.Nop()
	}
	return &Validator{source: src, log: log}
}

// Validate checks every binding, then binds every mapping pair, and returns
// all problems found. It never stops at the first problem.
//
// The error is non-nil only when the pass itself cannot run: the snapshot
// is unavailable or mapping registration fails for a reason other than
// invalid mappings. No partial report is returned in that case.
func (v *Validator) Validate(reg *Registry) (*Report, error) {
	snapshot, err := v.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("inject: configuration snapshot: %w", err)
	}

	report := &Report{}
	for _, b := range reg.Bindings() {
		if problem := v.check(b, snapshot); problem != nil {
			v.log.Debug("binding invalid", "binding", b.String(), "problem", problem)
			report.add(problem)
		}
	}

	pairs := DedupMappings(reg.MappingTypes(), reg.MappingSites())
	if len(pairs) == 0 {
		return report, nil
	}
	v.log.Debug("registering mappings", "count", len(pairs))

	err = v.source.RegisterMappings(pairs)
	var invalid *config.MappingValidationError
	switch {
	case errors.As(err, &invalid):
		for _, se := range invalid.Errors {
			v.log.Debug("mapping invalid", "mapping", se.Mapping, "prefix", se.Prefix)
			report.add(&MappingError{Mapping: se.Mapping, Prefix: se.Prefix, Err: se})
		}
	case err != nil:
		return nil, fmt.Errorf("inject: register mappings: %w", err)
	}
	return report, nil
}

// check returns the problem with b, or nil.
func (v *Validator) check(b Binding, snapshot map[string]struct{}) error {
	if tolerant(b.Type) {
		v.log.Debug("binding skipped", "binding", b.String(), "type", b.Type.String())
		return nil
	}

	key, err := b.Key()
	if err != nil {
		return err
	}

	// Enumeration may be partial: a key is also present when a direct
	// lookup finds it (DB_PORT satisfies db.port).
	_, present := snapshot[key]
	if !present {
		_, present = v.source.RawValue(key)
	}
	if !present && !b.Default.IsSet() {
		return &MissingValueError{Name: key, Type: b.Type}
	}

	// Instance[T] resolves lazily; convert T now so a bad value fails here.
	target := b.Type
	if target.Kind == config.KindInstance && target.Elem != nil {
		target = *target.Elem
	}
	_, err = v.source.Resolve(key, target, b.Default)
	var conv *config.ConversionError
	switch {
	case err == nil:
		v.log.Debug("binding ok", "key", key, "type", b.Type.String())
		return nil
	case errors.As(err, &conv):
		return &ConversionError{Name: key, Type: b.Type, Err: conv}
	default:
		return err
	}
}

// tolerant reports whether a binding of type t may be absent at bootstrap.
// These types are checked when the value is used.
func tolerant(t config.Type) bool {
	switch t.Kind {
	case config.KindSupplier, config.KindOptional, config.KindPrimitiveOptional, config.KindConfigValue:
		return true
	}
	return false
}
