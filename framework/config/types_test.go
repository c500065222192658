package config_test

import (
	"testing"

	"github.com/km-arc/configinject/framework/config"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want config.Type
		str  string
	}{
		{"int", config.Scalar("int"), "int"},
		{"url", config.Custom("url"), "url"},
		{"Optional[bool]", config.Optional(config.Scalar("bool")), "Optional[bool]"},
		{"List[semver]", config.List(config.Custom("semver")), "List[semver]"},
		{"Provider[int]", config.Supplier(config.Scalar("int")), "Supplier[int]"},
		{"Instance[Optional[url]]", config.Instance(config.Optional(config.Custom("url"))), "Instance[Optional[url]]"},
		{"OptionalInt64", config.PrimitiveOptional("int64"), "OptionalInt64"},
		{"ConfigValue", config.ConfigValueType(), "ConfigValue"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ParseType(tt.in)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String: got %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, in := range []string{"", "List[int", "Map[string]", "my type", "Optional[]"} {
		if _, err := config.ParseType(in); err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestDefault(t *testing.T) {
	if config.NoDefault().IsSet() {
		t.Error("NoDefault should not be set")
	}
	d := config.DefaultValue("")
	if v, ok := d.Get(); !ok || v != "" {
		t.Errorf("empty default: got %q, %v", v, ok)
	}
	if d.String() != `""` || config.NoDefault().String() != "<none>" {
		t.Error("unexpected Default rendering")
	}
}
