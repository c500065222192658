// Package inject checks, at bootstrap, that every configuration binding in
// the component graph can be satisfied.
//
// Bootstrap runs three phases in order:
//
//	p := inject.NewPipeline(cfg, app.Container(), inject.WithLogger(log))
//
//	reg := p.Discover(providers...)   // immutable *Registry
//	p.Register(reg)                   // resolvers + mapping handlers → container
//	report, err := p.Validate(reg)    // aggregated problems
//
// Discovery feeds a Builder from two inputs: mapping types declared by a
// component (ConfigTypes) and the injection sites it exposes (ConfigSites).
// A site qualified with a Property becomes a Binding; a site qualified with a
// mapping becomes a MappingSite, optionally overriding the mapping's prefix.
//
// Registration synthesizes one ResolverEntry per custom type (a type the
// configuration source does not handle natively) and one MappingHandler per
// distinct (mapping, prefix) pair.
//
// Validation walks every binding without stopping at the first failure, then
// binds all mappings, and returns a Report listing every problem. A non-empty
// report should abort startup:
//
//	if err := report.Err(); err != nil {
//	    log.Error("configuration invalid", "problems", report.Len())
//	    return err
//	}
package inject
