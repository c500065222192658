package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/inject"
)

// Load reads, parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: "<input>", Err: err}
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks versions, names, types and mapping references.
func Validate(m *Manifest) error {
	if m == nil {
		return &ValidationError{Issues: []string{"manifest cannot be nil"}}
	}

	var issues []string
	if m.Version != 1 {
		issues = append(issues, fmt.Sprintf("unsupported manifest version: %d (expected 1)", m.Version))
	}

	mappings := make(map[string]bool, len(m.Mappings))
	for i, mp := range m.Mappings {
		switch {
		case mp.Name == "":
			issues = append(issues, fmt.Sprintf("mapping[%d] name cannot be empty", i))
		case mappings[mp.Name]:
			issues = append(issues, fmt.Sprintf("duplicate mapping name: %s", mp.Name))
		default:
			mappings[mp.Name] = true
		}
		props := make(map[string]bool, len(mp.Properties))
		for j, p := range mp.Properties {
			if p.Name == "" {
				issues = append(issues, fmt.Sprintf("mapping %s property[%d] name cannot be empty", mp.Name, j))
			} else if props[p.Name] {
				issues = append(issues, fmt.Sprintf("mapping %s: duplicate property %s", mp.Name, p.Name))
			}
			props[p.Name] = true
			if _, err := config.ParseType(p.Type); err != nil {
				issues = append(issues, fmt.Sprintf("mapping %s property %s: %v", mp.Name, p.Name, err))
			}
		}
	}

	for i, c := range m.Components {
		if c.Name == "" {
			issues = append(issues, fmt.Sprintf("component[%d] name cannot be empty", i))
		}
		for j, in := range c.Properties {
			if in.Member == "" && in.Key == "" {
				issues = append(issues, fmt.Sprintf("component %s property[%d] needs a member or a key", c.Name, j))
			}
			if _, err := config.ParseType(in.Type); err != nil {
				issues = append(issues, fmt.Sprintf("component %s property %s: %v", c.Name, in.Member, err))
			}
		}
		for _, use := range c.Mappings {
			if !mappings[use.Mapping] {
				issues = append(issues, fmt.Sprintf("component %s: unknown mapping %q", c.Name, use.Mapping))
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Declarer exposes a validated manifest to discovery.
type Declarer struct {
	types []*config.Mapping
	sites []inject.Site
}

var _ inject.Declarer = (*Declarer)(nil)

// Declarer converts m into mapping types and injection sites. Each manifest
// mapping becomes one *config.Mapping shared by every site that uses it.
func (m *Manifest) Declarer() *Declarer {
	d := &Declarer{}
	byName := make(map[string]*config.Mapping, len(m.Mappings))
	for _, mp := range m.Mappings {
		cm := &config.Mapping{Name: mp.Name, Prefix: mp.Prefix}
		for _, p := range mp.Properties {
			cm.Properties = append(cm.Properties, config.Property{
				Name:    p.Name,
				Type:    config.MustParseType(p.Type),
				Default: defaultOf(p.Default),
				Rules:   p.Rules,
			})
		}
		byName[mp.Name] = cm
		d.types = append(d.types, cm)
	}

	for _, c := range m.Components {
		for _, in := range c.Properties {
			d.sites = append(d.sites, inject.PropertySite(c.Name, in.Member, in.Key,
				config.MustParseType(in.Type), defaultOf(in.Default)))
		}
		for _, use := range c.Mappings {
			d.sites = append(d.sites, inject.MappingInjection(c.Name, use.Member, byName[use.Mapping], use.Prefix))
		}
	}
	return d
}

func (d *Declarer) ConfigTypes() []*config.Mapping { return d.types }
func (d *Declarer) ConfigSites() []inject.Site     { return d.sites }

func defaultOf(v *string) config.Default {
	if v == nil {
		return config.NoDefault()
	}
	return config.DefaultValue(*v)
}
