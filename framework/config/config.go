package config

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Config layers Sources by ordinal and resolves typed values from them.
// It is the configuration source consumed by the inject package.
//
//	cfg, err := config.Load()               // env + .env
//	port, err := cfg.Resolve("app.port", config.Scalar("int"), config.DefaultValue("8000"))
type Config struct {
	sources    []Source
	converters map[string]Converter

	mu       sync.RWMutex
	mappings map[mappingKey]*MappedValues
}

// Option customises a Config.
type Option func(*Config)

// WithSources adds sources. Order does not matter; ordinals decide.
func WithSources(srcs ...Source) Option {
	return func(c *Config) {
		for _, s := range srcs {
			if s != nil {
				c.sources = append(c.sources, s)
			}
		}
	}
}

// WithConverter registers (or replaces) the converter for a type name.
//
//	config.WithConverter("color", func(s string) (any, error) { return parseColor(s) })
func WithConverter(typeName string, conv Converter) Option {
	return func(c *Config) {
		c.converters[typeName] = conv
	}
}

// New builds a Config from options.
func New(opts ...Option) *Config {
	c := &Config{
		converters: builtinConverters(),
		mappings:   make(map[mappingKey]*MappedValues),
	}
	for _, opt := range opts {
		opt(c)
	}
	sort.SliceStable(c.sources, func(i, j int) bool {
		return c.sources[i].Ordinal() > c.sources[j].Ordinal()
	})
	return c
}

// Load builds the default stack: process environment over .env files.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	dotenv, err := NewDotenvSource(files...)
	if err != nil {
		return nil, err
	}
	return New(WithSources(NewEnvSource(), dotenv)), nil
}

// Sources returns the sources from highest to lowest ordinal.
func (c *Config) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// PropertyNames returns the union of every source's enumerated keys, sorted.
func (c *Config) PropertyNames() []string {
	seen := make(map[string]bool)
	for _, s := range c.sources {
		for _, name := range s.PropertyNames() {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the set of enumerable keys at this point in time.
func (c *Config) Snapshot() (map[string]struct{}, error) {
	if len(c.sources) == 0 {
		return nil, ErrNoSources
	}
	set := make(map[string]struct{})
	for _, s := range c.sources {
		for _, name := range s.PropertyNames() {
			set[name] = struct{}{}
		}
	}
	return set, nil
}

// RawValue returns the first non-empty value for name, before conversion.
func (c *Config) RawValue(name string) (string, bool) {
	cv := c.ConfigValue(name)
	return cv.Value, cv.Found
}

// ConfigValue returns the raw value of name together with its origin.
func (c *Config) ConfigValue(name string) ConfigValue {
	for _, s := range c.sources {
		if v, ok := s.Value(name); ok && v != "" {
			return ConfigValue{
				Name:          name,
				Value:         v,
				SourceName:    s.Name(),
				SourceOrdinal: s.Ordinal(),
				Found:         true,
			}
		}
	}
	return ConfigValue{Name: name}
}

// Resolve reads name and converts it to t. Missing values fall back to def;
// if there is none the error wraps ErrNotFound. Bad values return a
// *ConversionError.
//
// Wrapper kinds resolve to OptionalValue, []any, SupplierFunc or ConfigValue.
func (c *Config) Resolve(name string, t Type, def Default) (any, error) {
	switch t.Kind {
	case KindConfigValue:
		cv := c.ConfigValue(name)
		if d, ok := def.Get(); ok && !cv.Found {
			cv.Value, cv.SourceName = d, "default"
		}
		return cv, nil

	case KindSupplier, KindInstance:
		elem, err := elemOf(t)
		if err != nil {
			return nil, err
		}
		return SupplierFunc(func() (any, error) {
			return c.Resolve(name, elem, def)
		}), nil

	case KindOptional, KindPrimitiveOptional:
		elem := Scalar(t.Name)
		if t.Kind == KindOptional {
			var err error
			if elem, err = elemOf(t); err != nil {
				return nil, err
			}
		}
		v, err := c.Resolve(name, elem, def)
		if errors.Is(err, ErrNotFound) {
			return OptionalValue{}, nil
		}
		if err != nil {
			return nil, err
		}
		return OptionalValue{Value: v, Present: true}, nil

	case KindList:
		elem, err := elemOf(t)
		if err != nil {
			return nil, err
		}
		raw, ok := c.rawOrDefault(name, def)
		if !ok {
			return nil, &NotFoundError{Name: name}
		}
		parts := splitList(raw)
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := c.convert(name, elem, p)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	raw, ok := c.rawOrDefault(name, def)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return c.convert(name, t, raw)
}

// HasConverter reports whether values of typeName can be converted.
func (c *Config) HasConverter(typeName string) bool {
	_, ok := c.converters[typeName]
	return ok
}

// Get returns the raw value of name, or fallback.
func (c *Config) Get(name, fallback string) string {
	if v, ok := c.RawValue(name); ok {
		return v
	}
	return fallback
}

// GetInt returns name as an int, or fallback when missing or invalid.
func (c *Config) GetInt(name string, fallback int) int {
	v, err := c.Resolve(name, Scalar("int"), NoDefault())
	if err != nil {
		return fallback
	}
	return v.(int)
}

// GetBool returns name as a bool, or fallback when missing or invalid.
func (c *Config) GetBool(name string, fallback bool) bool {
	v, err := c.Resolve(name, Scalar("bool"), NoDefault())
	if err != nil {
		return fallback
	}
	return v.(bool)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func (c *Config) rawOrDefault(name string, def Default) (string, bool) {
	if v, ok := c.RawValue(name); ok {
		return v, true
	}
	return def.Get()
}

func (c *Config) convert(name string, t Type, raw string) (any, error) {
	if t.Parameterized() || t.Kind == KindConfigValue {
		return nil, &ConversionError{Name: name, Type: t, Value: raw, Err: ErrNoConverter}
	}
	conv, ok := c.converters[t.Name]
	if !ok {
		return nil, &ConversionError{Name: name, Type: t, Value: raw, Err: ErrNoConverter}
	}
	v, err := conv(raw)
	if err != nil {
		return nil, &ConversionError{Name: name, Type: t, Value: raw, Err: err}
	}
	return v, nil
}

func elemOf(t Type) (Type, error) {
	if t.Elem == nil {
		return Type{}, fmt.Errorf("config: %s type has no element type", t.Kind)
	}
	return *t.Elem, nil
}
