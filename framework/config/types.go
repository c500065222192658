package config

import (
	"fmt"
	"strings"
)

// ── Required types ───────────────────────────────────────────────────────────

// Kind tags the shape of a requested configuration type.
type Kind int

const (
	// KindScalar is a plain built-in value: string, bool, int, float64, duration...
	KindScalar Kind = iota
	// KindOptional is Optional[T]: absence resolves to an empty optional.
	KindOptional
	// KindPrimitiveOptional is OptionalInt / OptionalInt64 / OptionalFloat64.
	KindPrimitiveOptional
	// KindList is List[T], read from a comma separated value.
	KindList
	// KindSupplier is Supplier[T]: the value is looked up on each call.
	KindSupplier
	// KindInstance is Instance[T]: a multi-instance handle over T.
	KindInstance
	// KindConfigValue is the raw ConfigValue pass-through.
	KindConfigValue
	// KindCustom is an application type served by a registered converter.
	KindCustom
)

var kindNames = map[Kind]string{
	KindScalar:            "scalar",
	KindOptional:          "optional",
	KindPrimitiveOptional: "primitive-optional",
	KindList:              "list",
	KindSupplier:          "supplier",
	KindInstance:          "instance",
	KindConfigValue:       "config-value",
	KindCustom:            "custom",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type describes what a binding asks for.
//
// Name is set for scalar, custom and primitive-optional kinds ("int", "url",
// "int64"); Elem is set for the wrapper kinds.
//
//	config.Scalar("int")                    // int
//	config.Optional(config.Custom("url"))   // Optional[url]
//	config.Supplier(config.Scalar("bool"))  // Supplier[bool]
type Type struct {
	Kind Kind
	Name string
	Elem *Type
}

// scalarNames is the closed set of built-in scalar types.
var scalarNames = map[string]bool{
	"string": true, "bool": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
	"duration": true,
}

// primitiveOptionals maps the textual form to the wrapped scalar.
var primitiveOptionals = map[string]string{
	"OptionalInt":     "int",
	"OptionalInt64":   "int64",
	"OptionalFloat64": "float64",
}

func Scalar(name string) Type { return Type{Kind: KindScalar, Name: name} }
func Custom(name string) Type { return Type{Kind: KindCustom, Name: name} }
func Optional(elem Type) Type { return Type{Kind: KindOptional, Elem: &elem} }
func List(elem Type) Type     { return Type{Kind: KindList, Elem: &elem} }
func Supplier(elem Type) Type { return Type{Kind: KindSupplier, Elem: &elem} }
func Instance(elem Type) Type { return Type{Kind: KindInstance, Elem: &elem} }

// ConfigValueType is the pass-through type resolving to a ConfigValue.
func ConfigValueType() Type { return Type{Kind: KindConfigValue} }

// PrimitiveOptional returns OptionalInt, OptionalInt64 or OptionalFloat64 for
// "int", "int64" or "float64".
func PrimitiveOptional(scalar string) Type {
	return Type{Kind: KindPrimitiveOptional, Name: scalar}
}

// IsScalarName reports whether name is one of the built-in scalar types.
func IsScalarName(name string) bool { return scalarNames[name] }

// Parameterized reports whether t wraps another type.
func (t Type) Parameterized() bool { return t.Elem != nil }

// String renders t in the form accepted by ParseType.
func (t Type) String() string {
	switch t.Kind {
	case KindScalar, KindCustom:
		return t.Name
	case KindConfigValue:
		return "ConfigValue"
	case KindPrimitiveOptional:
		for form, scalar := range primitiveOptionals {
			if scalar == t.Name {
				return form
			}
		}
		return "Optional" + t.Name
	}
	elem := "?"
	if t.Elem != nil {
		elem = t.Elem.String()
	}
	switch t.Kind {
	case KindOptional:
		return "Optional[" + elem + "]"
	case KindList:
		return "List[" + elem + "]"
	case KindSupplier:
		return "Supplier[" + elem + "]"
	case KindInstance:
		return "Instance[" + elem + "]"
	}
	return t.Kind.String()
}

// Equal compares two types structurally.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == nil && o.Elem == nil
	}
	return t.Elem.Equal(*o.Elem)
}

// ParseType parses the textual form of a type:
//
//	int, duration, url, semver
//	Optional[T], List[T], Supplier[T], Provider[T], Instance[T]
//	OptionalInt, OptionalInt64, OptionalFloat64, ConfigValue
//
// Known scalar names become KindScalar, anything else KindCustom.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("config: empty type")
	}
	if s == "ConfigValue" {
		return ConfigValueType(), nil
	}
	if scalar, ok := primitiveOptionals[s]; ok {
		return PrimitiveOptional(scalar), nil
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsAny(s, "] \t") {
			return Type{}, fmt.Errorf("config: malformed type %q", s)
		}
		if IsScalarName(s) {
			return Scalar(s), nil
		}
		return Custom(s), nil
	}
	if !strings.HasSuffix(s, "]") {
		return Type{}, fmt.Errorf("config: malformed type %q", s)
	}

	elem, err := ParseType(s[open+1 : len(s)-1])
	if err != nil {
		return Type{}, err
	}
	switch s[:open] {
	case "Optional":
		return Optional(elem), nil
	case "List":
		return List(elem), nil
	case "Supplier", "Provider":
		return Supplier(elem), nil
	case "Instance":
		return Instance(elem), nil
	}
	return Type{}, fmt.Errorf("config: unknown wrapper %q in %q", s[:open], s)
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Defaults ─────────────────────────────────────────────────────────────────

// Default is an optional default value. The zero value means "no default",
// so an empty string can still be declared as a real default.
type Default struct {
	value string
	set   bool
}

// DefaultValue declares v as the default.
func DefaultValue(v string) Default { return Default{value: v, set: true} }

// NoDefault is the zero Default, spelled out for readability at call sites.
func NoDefault() Default { return Default{} }

// Get returns the default and whether one was declared.
func (d Default) Get() (string, bool) { return d.value, d.set }

// IsSet reports whether a default was declared.
func (d Default) IsSet() bool { return d.set }

func (d Default) String() string {
	if !d.set {
		return "<none>"
	}
	return fmt.Sprintf("%q", d.value)
}

// ── Resolved value shapes ────────────────────────────────────────────────────

// ConfigValue is the resolved form of KindConfigValue: the raw value plus
// where it came from. Found is false when no source had the key.
type ConfigValue struct {
	Name          string
	Value         string
	SourceName    string
	SourceOrdinal int
	Found         bool
}

// OptionalValue is the resolved form of Optional[T] and the primitive optionals.
type OptionalValue struct {
	Value   any
	Present bool
}

// SupplierFunc is the resolved form of Supplier[T] and Instance[T]; each call
// resolves the wrapped type again.
type SupplierFunc func() (any, error)
