package inject_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/inject"
)

func pairNames(pairs []config.MappingWithPrefix) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.String())
	}
	return out
}

func TestDedupMappings_TypeAndSiteOverrideCollapse(t *testing.T) {
	sites := []inject.MappingSite{
		{Component: "api.Server", Member: "cfg", Mapping: serverConfig, Prefix: "server"},
		{Component: "api.Health", Member: "cfg", Mapping: serverConfig, Prefix: "server"},
	}

	got := inject.DedupMappings([]*config.Mapping{serverConfig}, sites)
	assert.Equal(t, []string{"ServerConfig@server"}, pairNames(got))
}

func TestDedupMappings_SiteWithoutOverrideAddsNothing(t *testing.T) {
	sites := []inject.MappingSite{{Component: "api.Server", Member: "cfg", Mapping: serverConfig}}

	assert.Empty(t, inject.DedupMappings(nil, sites))
	assert.Equal(t, []string{"ServerConfig@server"},
		pairNames(inject.DedupMappings([]*config.Mapping{serverConfig}, sites)))
}

func TestDedupMappings_Sorted(t *testing.T) {
	cache := &config.Mapping{Name: "CacheConfig", Prefix: "cache"}
	sites := []inject.MappingSite{
		{Mapping: serverConfig, Prefix: "admin"},
		{Mapping: cache, Prefix: "cache.l2"},
	}

	got := pairNames(inject.DedupMappings([]*config.Mapping{serverConfig, cache}, sites))
	want := []string{"CacheConfig@cache", "CacheConfig@cache.l2", "ServerConfig@admin", "ServerConfig@server"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterMappingHandlers(t *testing.T) {
	cfg := source(map[string]string{"server.host": "localhost", "admin.host": "127.0.0.1", "admin.port": "9000"})
	pairs := inject.DedupMappings([]*config.Mapping{serverConfig},
		[]inject.MappingSite{{Mapping: serverConfig, Prefix: "admin"}})
	r := newRecorder()

	handlers := inject.RegisterMappingHandlers(r, cfg, pairs)
	require.Len(t, handlers, 2)
	assert.Contains(t, r.instances, "config.mapping.ServerConfig@admin")
	assert.Contains(t, r.instances, "config.mapping.ServerConfig@server")
	assert.Equal(t, map[string]string{"config.mapping.ServerConfig": "config.mapping.ServerConfig@server"}, r.aliases)

	_, err := handlers[0].Values()
	assert.Error(t, err, "values are not available before the mappings are bound")

	require.NoError(t, cfg.RegisterMappings(pairs))
	admin, err := handlers[0].Values()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", admin.String("host"))
	assert.Equal(t, 9000, admin.Int("port"))

	server, err := handlers[1].Values()
	require.NoError(t, err)
	assert.Equal(t, 8080, server.Int("port"))
}
