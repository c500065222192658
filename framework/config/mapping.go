package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/km-arc/configinject/framework/validation"
)

// Mapping describes a composite type bound from every key under a prefix.
//
//	var Server = &config.Mapping{
//	    Name:   "ServerConfig",
//	    Prefix: "server",
//	    Properties: []config.Property{
//	        {Name: "host", Type: config.Scalar("string")},
//	        {Name: "port", Type: config.Scalar("int"), Default: config.DefaultValue("8080"), Rules: "gte:1|lte:65535"},
//	    },
//	}
//
// A *Mapping is compared by identity: two declarations refer to the same
// mapping type only if they share the pointer.
type Mapping struct {
	Name       string
	Prefix     string
	Properties []Property
}

// Property is one key of a Mapping, relative to the prefix.
// Rules uses the validation package syntax ("required|in:a,b|gte:1") and is
// checked against the raw value when one is present.
type Property struct {
	Name    string
	Type    Type
	Default Default
	Rules   string
}

// MappingWithPrefix is a mapping bound at a concrete prefix.
type MappingWithPrefix struct {
	Mapping *Mapping
	Prefix  string
}

func (p MappingWithPrefix) String() string {
	if p.Mapping == nil {
		return "<nil>@" + p.Prefix
	}
	return p.Mapping.Name + "@" + p.Prefix
}

type mappingKey struct {
	mapping *Mapping
	prefix  string
}

// RegisterMappings binds and validates every pair. Problems are collected
// per mapping; if any mapping fails the result is a *MappingValidationError
// listing all of them. Mappings that bind cleanly are kept even when others
// fail. A malformed Mapping definition is returned as a plain error.
func (c *Config) RegisterMappings(pairs []MappingWithPrefix) error {
	for _, p := range pairs {
		if err := p.Mapping.check(); err != nil {
			return fmt.Errorf("config: register mappings: %w", err)
		}
	}

	var failed []*StructuralError
	bound := make(map[mappingKey]*MappedValues, len(pairs))
	for _, p := range pairs {
		values, problems := c.bind(p.Mapping, p.Prefix)
		if len(problems) > 0 {
			failed = append(failed, &StructuralError{
				Mapping:  p.Mapping.Name,
				Prefix:   p.Prefix,
				Problems: problems,
			})
			continue
		}
		bound[mappingKey{p.Mapping, p.Prefix}] = values
	}

	c.mu.Lock()
	for k, v := range bound {
		c.mappings[k] = v
	}
	c.mu.Unlock()

	if len(failed) > 0 {
		return &MappingValidationError{Errors: failed}
	}
	return nil
}

// Mapping returns the values bound for m at prefix by RegisterMappings.
func (c *Config) Mapping(m *Mapping, prefix string) (*MappedValues, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.mappings[mappingKey{m, prefix}]
	return v, ok
}

func (c *Config) bind(m *Mapping, prefix string) (*MappedValues, []string) {
	var (
		problems []string
		values   = make(map[string]any, len(m.Properties))
		data     = make(map[string]string)
		rules    = make(validation.Rules)
	)

	for _, prop := range m.Properties {
		key := joinKey(prefix, prop.Name)

		v, err := c.Resolve(key, prop.Type, prop.Default)
		if err != nil {
			var convErr *ConversionError
			switch {
			case errors.Is(err, ErrNotFound):
				problems = append(problems, fmt.Sprintf("required property %s is missing", key))
			case errors.As(err, &convErr):
				problems = append(problems, fmt.Sprintf("property %s: cannot convert %q to %s: %v",
					key, convErr.Value, convErr.Type, convErr.Err))
			default:
				problems = append(problems, fmt.Sprintf("property %s: %v", key, err))
			}
			continue
		}
		values[prop.Name] = v

		if prop.Rules == "" {
			continue
		}
		if raw, ok := c.rawOrDefault(key, prop.Default); ok {
			data[key] = raw
			rules[key] = prop.Rules
		}
	}

	if len(rules) > 0 {
		v := validation.Make(data, rules)
		if v.Fails() {
			problems = append(problems, v.Errors().All()...)
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}
	return &MappedValues{Mapping: m, Prefix: prefix, values: values}, nil
}

func (m *Mapping) check() error {
	if m == nil {
		return errors.New("nil mapping")
	}
	if m.Name == "" {
		return errors.New("mapping without a name")
	}
	seen := make(map[string]bool, len(m.Properties))
	for _, p := range m.Properties {
		if p.Name == "" {
			return fmt.Errorf("mapping %s: property without a name", m.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("mapping %s: duplicate property %s", m.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// ── MappedValues ─────────────────────────────────────────────────────────────

// MappedValues holds the converted properties of one bound mapping.
// Optional properties are unwrapped by the typed getters; absent ones read
// as the zero value.
type MappedValues struct {
	Mapping *Mapping
	Prefix  string
	values  map[string]any
}

// Get returns the converted value of a property.
func (v *MappedValues) Get(name string) (any, bool) {
	val, ok := v.values[name]
	if !ok {
		return nil, false
	}
	if opt, isOpt := val.(OptionalValue); isOpt {
		return opt.Value, opt.Present
	}
	return val, true
}

func (v *MappedValues) String(name string) string {
	s, _ := getAs[string](v, name)
	return s
}

func (v *MappedValues) Int(name string) int {
	n, _ := getAs[int](v, name)
	return n
}

func (v *MappedValues) Bool(name string) bool {
	b, _ := getAs[bool](v, name)
	return b
}

func (v *MappedValues) Duration(name string) time.Duration {
	d, _ := getAs[time.Duration](v, name)
	return d
}

// Values returns a copy of every converted property, keyed by name.
func (v *MappedValues) Values() map[string]any {
	out := make(map[string]any, len(v.values))
	for k := range v.values {
		out[k], _ = v.Get(k)
	}
	return out
}

func getAs[T any](v *MappedValues, name string) (T, bool) {
	var zero T
	raw, ok := v.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	return typed, ok
}
