// Package manifest declares configuration bindings in YAML, for components
// that are not Go providers or for checking a deployment without building
// the application.
//
//	version: 1
//	mappings:
//	  - name: ServerConfig
//	    prefix: server
//	    properties:
//	      - {name: host, type: string}
//	      - {name: port, type: int, default: "8080", rules: "gte:1|lte:65535"}
//	components:
//	  - name: shop.Checkout
//	    properties:
//	      - {member: timeout, key: checkout.timeout, type: duration, default: 30s}
//	      - {member: gateway, type: url}
//	    mappings:
//	      - {member: admin, mapping: ServerConfig, prefix: admin}
package manifest

// Manifest is the root document.
type Manifest struct {
	Version    int         `yaml:"version"`
	Mappings   []Mapping   `yaml:"mappings"`
	Components []Component `yaml:"components"`
}

// Mapping declares a mapping type. Every mapping listed is declared at type
// level and therefore bound at its own prefix.
type Mapping struct {
	Name       string     `yaml:"name"`
	Prefix     string     `yaml:"prefix"`
	Properties []Property `yaml:"properties"`
}

// Property is one key of a mapping, relative to its prefix.
type Property struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
	Rules   string  `yaml:"rules"`
}

// Component lists the injection sites of one component.
type Component struct {
	Name       string       `yaml:"name"`
	Properties []Injection  `yaml:"properties"`
	Mappings   []MappingUse `yaml:"mappings"`
}

// Injection is a property-qualified site. An empty Key derives the key from
// the component and member names.
type Injection struct {
	Member  string  `yaml:"member"`
	Key     string  `yaml:"key"`
	Type    string  `yaml:"type"`
	Default *string `yaml:"default"`
}

// MappingUse is a mapping-qualified site; Prefix overrides the mapping's.
type MappingUse struct {
	Member  string `yaml:"member"`
	Mapping string `yaml:"mapping"`
	Prefix  string `yaml:"prefix"`
}
