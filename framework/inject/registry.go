package inject

import (
	"github.com/km-arc/configinject/framework/config"
)

// Builder collects bindings during discovery. Recording is idempotent:
// a value recorded twice is kept once, in first-seen order.
//
// Build freezes the builder; recording afterwards panics with
// ErrRegistryBuilt.
type Builder struct {
	bindings []Binding
	seen     map[string]bool

	types     []*config.Mapping
	seenTypes map[*config.Mapping]bool

	sites     []MappingSite
	seenSites map[MappingSite]bool

	built bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		seen:      make(map[string]bool),
		seenTypes: make(map[*config.Mapping]bool),
		seenSites: make(map[MappingSite]bool),
	}
}

func (b *Builder) RecordBinding(binding Binding) {
	b.mustBeOpen()
	id := binding.identity()
	if b.seen[id] {
		return
	}
	b.seen[id] = true
	b.bindings = append(b.bindings, binding)
}

// RecordMappingType records a mapping declared at type level; it is bound at
// its own prefix.
func (b *Builder) RecordMappingType(m *config.Mapping) {
	b.mustBeOpen()
	if m == nil || b.seenTypes[m] {
		return
	}
	b.seenTypes[m] = true
	b.types = append(b.types, m)
}

func (b *Builder) RecordMappingSite(site MappingSite) {
	b.mustBeOpen()
	if site.Mapping == nil || b.seenSites[site] {
		return
	}
	b.seenSites[site] = true
	b.sites = append(b.sites, site)
}

// ObserveType feeds one scanned mapping type.
func (b *Builder) ObserveType(m *config.Mapping) {
	b.RecordMappingType(m)
}

// ObserveSite feeds one scanned injection site. A mapping qualifier takes
// precedence over a property qualifier.
func (b *Builder) ObserveSite(s Site) {
	switch {
	case s.Mapping != nil:
		b.RecordMappingSite(MappingSite{
			Component: s.Component,
			Member:    s.Member,
			Mapping:   s.Mapping.Mapping,
			Prefix:    s.Mapping.Prefix,
		})
	case s.Property != nil:
		b.RecordBinding(Binding{
			Component: s.Component,
			Member:    s.Member,
			Name:      s.Property.Name,
			Type:      s.Type,
			Default:   s.Property.Default,
		})
	}
}

// Build returns the immutable registry of everything recorded so far.
func (b *Builder) Build() *Registry {
	b.mustBeOpen()
	b.built = true
	return &Registry{
		bindings: b.bindings,
		types:    b.types,
		sites:    b.sites,
	}
}

func (b *Builder) mustBeOpen() {
	if b.built {
		panic(ErrRegistryBuilt)
	}
}

// Registry is the frozen result of discovery. Accessors return copies.
type Registry struct {
	bindings []Binding
	types    []*config.Mapping
	sites    []MappingSite
}

// Bindings returns every property binding in discovery order.
func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// MappingTypes returns the mappings declared at type level.
func (r *Registry) MappingTypes() []*config.Mapping {
	return append([]*config.Mapping(nil), r.types...)
}

// MappingSites returns the mapping injection sites.
func (r *Registry) MappingSites() []MappingSite {
	return append([]MappingSite(nil), r.sites...)
}
