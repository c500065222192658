package inject_test

import (
	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/inject"
)

// source builds a config over one in-memory source.
func source(props map[string]string) *config.Config {
	return config.New(config.WithSources(config.NewMapSource("test", 100, props)))
}

// countingSource records RegisterMappings calls.
type countingSource struct {
	*config.Config
	calls [][]config.MappingWithPrefix
}

func (s *countingSource) RegisterMappings(pairs []config.MappingWithPrefix) error {
	s.calls = append(s.calls, pairs)
	return s.Config.RegisterMappings(pairs)
}

// recorder is an in-memory Registrar.
type recorder struct {
	instances map[string]any
	tags      map[string][]string
	aliases   map[string]string
	tagCalls  int
}

func newRecorder() *recorder {
	return &recorder{
		instances: make(map[string]any),
		tags:      make(map[string][]string),
		aliases:   make(map[string]string),
	}
}

func (r *recorder) Instance(abstract string, instance any) { r.instances[abstract] = instance }

func (r *recorder) Tag(abstracts []string, tag string) {
	r.tagCalls++
	r.tags[tag] = append(r.tags[tag], abstracts...)
}

func (r *recorder) Alias(abstract, alias string) { r.aliases[alias] = abstract }

// declarer is a component exposing fixed declarations.
type declarer struct {
	types []*config.Mapping
	sites []inject.Site
}

func (d declarer) ConfigTypes() []*config.Mapping { return d.types }
func (d declarer) ConfigSites() []inject.Site     { return d.sites }

var serverConfig = &config.Mapping{
	Name:   "ServerConfig",
	Prefix: "server",
	Properties: []config.Property{
		{Name: "host", Type: config.Scalar("string")},
		{Name: "port", Type: config.Scalar("int"), Default: config.DefaultValue("8080"), Rules: "gte:1|lte:65535"},
	},
}
