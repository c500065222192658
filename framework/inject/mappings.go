package inject

import (
	"fmt"
	"sort"

	"github.com/km-arc/configinject/framework/config"
)

const mappingPrefix = "config.mapping."

// MappingKey is the container key of the handler for m bound at prefix.
func MappingKey(m *config.Mapping, prefix string) string {
	return mappingPrefix + m.Name + "@" + prefix
}

// DedupMappings merges type-level declarations with site overrides into the
// distinct (mapping, prefix) pairs to register, sorted by name then prefix.
//
// Each type contributes its own prefix. A site contributes only when it
// overrides the prefix; a site without one relies on the type-level pair.
func DedupMappings(types []*config.Mapping, sites []MappingSite) []config.MappingWithPrefix {
	seen := make(map[MappingBinding]bool)
	var out []config.MappingWithPrefix

	add := func(mb MappingBinding) {
		if mb.Mapping == nil || seen[mb] {
			return
		}
		seen[mb] = true
		out = append(out, mb.pair())
	}

	for _, m := range types {
		if m != nil {
			add(MappingBinding{Mapping: m, Prefix: m.Prefix})
		}
	}
	for _, s := range sites {
		if s.HasOverride() {
			add(MappingBinding{Mapping: s.Mapping, Prefix: s.Prefix})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mapping.Name != out[j].Mapping.Name {
			return out[i].Mapping.Name < out[j].Mapping.Name
		}
		return out[i].Prefix < out[j].Prefix
	})
	return out
}

// mappingLookup is implemented by sources that keep bound mappings.
type mappingLookup interface {
	Mapping(m *config.Mapping, prefix string) (*config.MappedValues, bool)
}

// MappingHandler is the container entry for one mapping pair. Values are
// read from the source on demand, after validation has bound them.
type MappingHandler struct {
	Pair   config.MappingWithPrefix
	source Source
}

// Key is the container key the handler is registered under.
func (h *MappingHandler) Key() string { return MappingKey(h.Pair.Mapping, h.Pair.Prefix) }

// Values returns the bound values of the pair.
func (h *MappingHandler) Values() (*config.MappedValues, error) {
	lookup, ok := h.source.(mappingLookup)
	if !ok {
		return nil, fmt.Errorf("inject: source %T does not keep bound mappings", h.source)
	}
	v, ok := lookup.Mapping(h.Pair.Mapping, h.Pair.Prefix)
	if !ok {
		return nil, fmt.Errorf("inject: mapping %s is not bound", h.Pair)
	}
	return v, nil
}

// RegisterMappingHandlers binds a handler per pair. The pair at a mapping's
// own prefix is also reachable as "config.mapping.<Name>".
func RegisterMappingHandlers(r Registrar, src Source, pairs []config.MappingWithPrefix) []*MappingHandler {
	handlers := make([]*MappingHandler, 0, len(pairs))
	for _, p := range pairs {
		h := &MappingHandler{Pair: p, source: src}
		r.Instance(h.Key(), h)
		if p.Prefix == p.Mapping.Prefix {
			r.Alias(h.Key(), mappingPrefix+p.Mapping.Name)
		}
		handlers = append(handlers, h)
	}
	return handlers
}
