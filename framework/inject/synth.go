package inject

import (
	"sort"

	"github.com/km-arc/configinject/framework/config"
)

const (
	// ResolverTag groups every synthesized resolver in the container.
	ResolverTag = "config.resolvers"

	resolverPrefix = "config.resolver."
)

// ResolverKey is the container key of the resolver for t.
func ResolverKey(t config.Type) string { return resolverPrefix + t.String() }

// IsNative reports whether the configuration source handles t without a
// synthesized resolver: built-in scalars, the optional and list wrappers,
// ConfigValue, and the Supplier/Instance wrappers themselves.
func IsNative(t config.Type) bool {
	switch t.Kind {
	case config.KindScalar:
		return config.IsScalarName(t.Name)
	case config.KindOptional, config.KindPrimitiveOptional, config.KindList,
		config.KindConfigValue, config.KindSupplier, config.KindInstance:
		return true
	}
	return false
}

// CustomTypes returns the distinct types among bindings that need a
// resolver, sorted by name.
//
// Supplier[T] and Instance[T] contribute T when T is plain and not native.
// Other parameterized types contribute nothing.
func CustomTypes(bindings []Binding) []config.Type {
	found := make(map[string]config.Type)
	add := func(t config.Type) {
		if t.Parameterized() || IsNative(t) {
			return
		}
		found[t.String()] = t
	}

	for _, b := range bindings {
		t := b.Type
		switch t.Kind {
		case config.KindSupplier, config.KindInstance:
			if t.Elem != nil {
				add(*t.Elem)
			}
		default:
			add(t)
		}
	}

	names := make([]string, 0, len(found))
	for n := range found {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]config.Type, 0, len(names))
	for _, n := range names {
		out = append(out, found[n])
	}
	return out
}

// ResolverEntry resolves values of one custom type from the source.
type ResolverEntry struct {
	Type   config.Type
	source Source
}

// Key is the container key the entry is registered under.
func (e *ResolverEntry) Key() string { return ResolverKey(e.Type) }

// Resolve reads name as the entry's type.
func (e *ResolverEntry) Resolve(name string, def config.Default) (any, error) {
	return e.source.Resolve(name, e.Type, def)
}

// SynthesizeResolvers builds one entry per custom type found in bindings.
func SynthesizeResolvers(src Source, bindings []Binding) []*ResolverEntry {
	types := CustomTypes(bindings)
	entries := make([]*ResolverEntry, 0, len(types))
	for _, t := range types {
		entries = append(entries, &ResolverEntry{Type: t, source: src})
	}
	return entries
}

// RegisterResolvers binds each entry as an instance and tags them all with
// ResolverTag. It returns the registered keys.
func RegisterResolvers(r Registrar, entries []*ResolverEntry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		r.Instance(e.Key(), e)
		keys = append(keys, e.Key())
	}
	if len(keys) > 0 {
		r.Tag(keys, ResolverTag)
	}
	return keys
}
