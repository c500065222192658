package inject_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/inject"
)

func typeNames(types []config.Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

func TestIsNative(t *testing.T) {
	native := []string{"int", "string", "duration", "Optional[url]", "List[semver]", "OptionalInt", "ConfigValue", "Supplier[url]", "Instance[ip]"}
	for _, s := range native {
		assert.True(t, inject.IsNative(config.MustParseType(s)), s)
	}
	for _, s := range []string{"url", "semver", "color"} {
		assert.False(t, inject.IsNative(config.MustParseType(s)), s)
	}
}

func TestCustomTypes(t *testing.T) {
	bindings := []inject.Binding{
		{Name: "a", Type: config.Scalar("int")},
		{Name: "b", Type: config.MustParseType("url")},
		{Name: "c", Type: config.MustParseType("Supplier[url]")},
		{Name: "d", Type: config.MustParseType("Instance[semver]")},
		{Name: "e", Type: config.MustParseType("Supplier[int]")},
		{Name: "f", Type: config.MustParseType("Supplier[List[ip]]")},
		{Name: "g", Type: config.MustParseType("Optional[color]")},
		{Name: "h", Type: config.MustParseType("List[color]")},
		{Name: "i", Type: config.ConfigValueType()},
		{Name: "j", Type: config.MustParseType("ip")},
	}

	got := typeNames(inject.CustomTypes(bindings))
	want := []string{"ip", "semver", "url"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("custom types mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeResolvers_OnePerType(t *testing.T) {
	bindings := []inject.Binding{
		{Name: "db.url", Type: config.Custom("url")},
		{Name: "cdn.url", Type: config.Custom("url")},
		{Name: "hook.url", Type: config.Supplier(config.Custom("url"))},
	}

	entries := inject.SynthesizeResolvers(source(nil), bindings)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.resolver.url", entries[0].Key())
}

func TestResolverEntry_Resolve(t *testing.T) {
	cfg := source(map[string]string{"db.url": "postgres://db:5432/app"})
	entries := inject.SynthesizeResolvers(cfg, []inject.Binding{{Name: "db.url", Type: config.Custom("url")}})
	require.Len(t, entries, 1)

	v, err := entries[0].Resolve("db.url", config.NoDefault())
	require.NoError(t, err)
	assert.Equal(t, "postgres://db:5432/app", v.(interface{ String() string }).String())

	_, err = entries[0].Resolve("cdn.url", config.NoDefault())
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestRegisterResolvers(t *testing.T) {
	r := newRecorder()
	entries := inject.SynthesizeResolvers(source(nil), []inject.Binding{
		{Name: "a", Type: config.Custom("url")},
		{Name: "b", Type: config.Custom("semver")},
	})

	keys := inject.RegisterResolvers(r, entries)

	assert.Equal(t, []string{"config.resolver.semver", "config.resolver.url"}, keys)
	assert.Len(t, r.instances, 2)
	assert.Equal(t, 1, r.tagCalls)
	assert.ElementsMatch(t, keys, r.tags[inject.ResolverTag])
}

func TestRegisterResolvers_NothingToTag(t *testing.T) {
	r := newRecorder()
	assert.Empty(t, inject.RegisterResolvers(r, nil))
	assert.Zero(t, r.tagCalls)
}
