package inject

import (
	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/logging"
)

// Source is the configuration the bindings are checked against.
// *config.Config implements it.
type Source interface {
	// Snapshot returns the enumerable keys.
	Snapshot() (map[string]struct{}, error)
	// RawValue looks name up directly, before conversion.
	RawValue(name string) (string, bool)
	// Resolve converts name to t. Missing values wrap config.ErrNotFound;
	// bad values are *config.ConversionError.
	Resolve(name string, t config.Type, def config.Default) (any, error)
	// RegisterMappings binds every pair; invalid ones are reported together
	// as *config.MappingValidationError.
	RegisterMappings(pairs []config.MappingWithPrefix) error
}

var _ Source = (*config.Config)(nil)

// Registrar accepts synthesized entries. *container.Container implements it.
type Registrar interface {
	Instance(abstract string, instance any)
	Tag(abstracts []string, tag string)
	Alias(abstract, alias string)
}

// Declarer is a component that exposes configuration to discovery.
type Declarer interface {
	// ConfigTypes returns mapping types declared by the component.
	ConfigTypes() []*config.Mapping
	// ConfigSites returns the component's injection sites.
	ConfigSites() []Site
}

// Registration is what the Register phase put in the component graph.
type Registration struct {
	Resolvers []*ResolverEntry
	Mappings  []*MappingHandler
}

// Pipeline runs discovery, registration and validation for one bootstrap.
type Pipeline struct {
	source    Source
	registrar Registrar
	log       logging.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPipeline builds a pipeline over src that registers into r.
func NewPipeline(src Source, r Registrar, opts ...Option) *Pipeline {
	p := &Pipeline{source: src, registrar: r, log: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discover scans declarers and returns the frozen registry.
func (p *Pipeline) Discover(declarers ...Declarer) *Registry {
	b := NewBuilder()
	for _, d := range declarers {
		if d == nil {
			continue
		}
		for _, m := range d.ConfigTypes() {
			b.ObserveType(m)
		}
		for _, s := range d.ConfigSites() {
			b.ObserveSite(s)
		}
	}
	reg := b.Build()
	p.log.Debug("config discovery complete",
		"bindings", len(reg.bindings),
		"mapping_types", len(reg.types),
		"mapping_sites", len(reg.sites),
	)
	return reg
}

// Register synthesizes resolvers for custom types and mapping handlers for
// every distinct pair, and puts them in the component graph.
func (p *Pipeline) Register(reg *Registry) Registration {
	resolvers := SynthesizeResolvers(p.source, reg.Bindings())
	RegisterResolvers(p.registrar, resolvers)

	pairs := DedupMappings(reg.MappingTypes(), reg.MappingSites())
	handlers := RegisterMappingHandlers(p.registrar, p.source, pairs)

	p.log.Debug("config registration complete", "resolvers", len(resolvers), "mappings", len(handlers))
	return Registration{Resolvers: resolvers, Mappings: handlers}
}

// Validate checks reg against the source.
func (p *Pipeline) Validate(reg *Registry) (*Report, error) {
	report, err := NewValidator(p.source, p.log).Validate(reg)
	if err != nil {
		return nil, err
	}
	if report.Empty() {
		p.log.Info("configuration valid")
	} else {
		p.log.Warn("configuration invalid", "problems", report.Len())
	}
	return report, nil
}

// Run executes all three phases.
func (p *Pipeline) Run(declarers ...Declarer) (*Registry, Registration, *Report, error) {
	reg := p.Discover(declarers...)
	registration := p.Register(reg)
	report, err := p.Validate(reg)
	return reg, registration, report, err
}
