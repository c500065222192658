package inject

import (
	"fmt"
	"strings"

	"github.com/km-arc/configinject/framework/config"
)

// Binding is a request for one configuration value, discovered at an
// injection site.
type Binding struct {
	// Component is the declaring component, e.g. "shop.Checkout".
	Component string
	// Member is the field or parameter being injected.
	Member string
	// Name is the explicit configuration key; empty derives it from
	// Component and Member.
	Name    string
	Type    config.Type
	Default config.Default
}

// Key returns the configuration key of the binding: the explicit name when
// given, otherwise "<Component>.<Member>".
//
//	Binding{Name: "db.port"}.Key()                          // "db.port"
//	Binding{Component: "shop.Checkout", Member: "timeout"}   // "shop.Checkout.timeout"
func (b Binding) Key() (string, error) {
	name := strings.TrimSpace(b.Name)
	if name != "" {
		if strings.ContainsAny(name, " \t\r\n") {
			return "", &NameResolutionError{Binding: b, Reason: fmt.Sprintf("name %q contains whitespace", name)}
		}
		return name, nil
	}
	switch {
	case b.Component == "" && b.Member == "":
		return "", &NameResolutionError{Binding: b, Reason: "no name and no injection point"}
	case b.Component == "":
		return "", &NameResolutionError{Binding: b, Reason: "no name and no declaring component"}
	case b.Member == "":
		return "", &NameResolutionError{Binding: b, Reason: "no name and no member"}
	}
	return b.Component + "." + b.Member, nil
}

func (b Binding) String() string {
	site := b.Component
	if b.Member != "" {
		site += "." + b.Member
	}
	if b.Name != "" {
		return fmt.Sprintf("%s %s (%s)", b.Name, b.Type, site)
	}
	return fmt.Sprintf("%s %s", site, b.Type)
}

// identity is the value used to collapse duplicate bindings. Types are
// compared by their textual form.
func (b Binding) identity() string {
	def, hasDef := b.Default.Get()
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%t\x00%s",
		b.Component, b.Member, b.Name, b.Type, hasDef, def)
}

// MappingBinding is a mapping type bound at a prefix. Two values are the same
// mapping when both fields are equal.
type MappingBinding struct {
	Mapping *config.Mapping
	Prefix  string
}

func (m MappingBinding) pair() config.MappingWithPrefix {
	return config.MappingWithPrefix{Mapping: m.Mapping, Prefix: m.Prefix}
}

// MappingSite is an injection site that receives a mapping. An empty Prefix
// means the site uses the mapping's own prefix.
type MappingSite struct {
	Component string
	Member    string
	Mapping   *config.Mapping
	Prefix    string
}

// HasOverride reports whether the site binds the mapping at its own prefix.
func (s MappingSite) HasOverride() bool { return s.Prefix != "" }

// ── Discovery input ──────────────────────────────────────────────────────────

// Property qualifies a site as a configuration property.
type Property struct {
	Name    string
	Default config.Default
}

// MappingRef qualifies a site as a mapping injection.
type MappingRef struct {
	Mapping *config.Mapping
	Prefix  string
}

// Site is one injection point exposed by a component during discovery.
// Sites with neither qualifier are not configuration sites and are ignored.
type Site struct {
	Component string
	Member    string
	Type      config.Type
	Property  *Property
	Mapping   *MappingRef
}

// PropertySite is shorthand for a property-qualified site.
//
//	inject.PropertySite("shop.Checkout", "timeout", "checkout.timeout",
//	    config.Scalar("duration"), config.DefaultValue("30s"))
func PropertySite(component, member, name string, t config.Type, def config.Default) Site {
	return Site{
		Component: component,
		Member:    member,
		Type:      t,
		Property:  &Property{Name: name, Default: def},
	}
}

// MappingInjection is shorthand for a mapping-qualified site. prefix may be
// empty to use the mapping's own prefix.
func MappingInjection(component, member string, m *config.Mapping, prefix string) Site {
	return Site{
		Component: component,
		Member:    member,
		Mapping:   &MappingRef{Mapping: m, Prefix: prefix},
	}
}
