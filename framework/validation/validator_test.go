package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/km-arc/configinject/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL: %+v", v.Errors().Bag)
		}
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator PASSED", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, none found: %+v", field, v.Errors().Bag)
		}
	})
}

// ── presence ─────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"app.name": "required"}

	pass(t, "non-empty value", map[string]string{"app.name": "shop"}, r)
	fail(t, "empty string", "app.name", map[string]string{"app.name": ""}, r)
	fail(t, "whitespace only", "app.name", map[string]string{"app.name": "   "}, r)
	fail(t, "missing key", "app.name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"app.name": ""}, validation.Rules{"app.name": "required"})
	_ = v.Fails()
	if got, want := v.Errors().First("app.name"), "The app.name field is required."; got != want {
		t.Errorf("message: got %q want %q", got, want)
	}
}

func TestValidation_NullableAndSometimesSkipEmpty(t *testing.T) {
	pass(t, "nullable empty", map[string]string{"bio": ""}, validation.Rules{"bio": "nullable|min:10"})
	fail(t, "nullable short", "bio", map[string]string{"bio": "short"}, validation.Rules{"bio": "nullable|min:10"})
	pass(t, "sometimes absent", map[string]string{}, validation.Rules{"nick": "sometimes|min:3"})
	fail(t, "sometimes short", "nick", map[string]string{"nick": "ab"}, validation.Rules{"nick": "sometimes|min:3"})
}

// ── numbers ──────────────────────────────────────────────────────────────────

func TestValidation_Numeric(t *testing.T) {
	r := validation.Rules{"ratio": "numeric"}
	pass(t, "float", map[string]string{"ratio": "0.75"}, r)
	pass(t, "negative", map[string]string{"ratio": "-3"}, r)
	fail(t, "word", "ratio", map[string]string{"ratio": "three"}, r)
}

func TestValidation_Integer(t *testing.T) {
	r := validation.Rules{"port": "integer"}
	pass(t, "int", map[string]string{"port": "8080"}, r)
	fail(t, "float", "port", map[string]string{"port": "80.5"}, r)
}

func TestValidation_Comparisons(t *testing.T) {
	port := validation.Rules{"port": "integer|gte:1|lte:65535"}
	pass(t, "lower bound", map[string]string{"port": "1"}, port)
	pass(t, "upper bound", map[string]string{"port": "65535"}, port)
	fail(t, "zero", "port", map[string]string{"port": "0"}, port)
	fail(t, "too large", "port", map[string]string{"port": "70000"}, port)

	pass(t, "gt", map[string]string{"n": "2"}, validation.Rules{"n": "gt:1"})
	fail(t, "gt equal", "n", map[string]string{"n": "1"}, validation.Rules{"n": "gt:1"})
	pass(t, "lt", map[string]string{"n": "0"}, validation.Rules{"n": "lt:1"})
	fail(t, "lt equal", "n", map[string]string{"n": "1"}, validation.Rules{"n": "lt:1"})
}

func TestValidation_Comparison_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"port": "0"}, validation.Rules{"port": "gte:1"})
	_ = v.Fails()
	if got, want := v.Errors().First("port"), "The port must be greater than or equal to 1."; got != want {
		t.Errorf("message: got %q want %q", got, want)
	}
}

// ── strings ──────────────────────────────────────────────────────────────────

func TestValidation_Lengths(t *testing.T) {
	pass(t, "min", map[string]string{"key": "abcdef"}, validation.Rules{"key": "min:6"})
	fail(t, "min short", "key", map[string]string{"key": "abc"}, validation.Rules{"key": "min:6"})
	pass(t, "max", map[string]string{"key": "abc"}, validation.Rules{"key": "max:3"})
	fail(t, "max long", "key", map[string]string{"key": "abcd"}, validation.Rules{"key": "max:3"})
	pass(t, "size", map[string]string{"key": "abcd"}, validation.Rules{"key": "size:4"})
	pass(t, "between", map[string]string{"key": "abcd"}, validation.Rules{"key": "between:2,5"})
	fail(t, "between long", "key", map[string]string{"key": "abcdef"}, validation.Rules{"key": "between:2,5"})
	pass(t, "unicode counts runes", map[string]string{"key": "ñandú"}, validation.Rules{"key": "size:5"})
}

func TestValidation_InAndNotIn(t *testing.T) {
	env := validation.Rules{"app.env": "in:local,production,testing"}
	pass(t, "allowed", map[string]string{"app.env": "production"}, env)
	fail(t, "not allowed", "app.env", map[string]string{"app.env": "staging"}, env)

	pass(t, "not_in allowed", map[string]string{"user": "app"}, validation.Rules{"user": "not_in:root,admin"})
	fail(t, "not_in rejected", "user", map[string]string{"user": "root"}, validation.Rules{"user": "not_in:root,admin"})
}

func TestValidation_SameAndDifferent(t *testing.T) {
	data := map[string]string{"primary": "db1", "replica": "db1"}
	pass(t, "same", data, validation.Rules{"replica": "same:primary"})
	fail(t, "different", "replica", data, validation.Rules{"replica": "different:primary"})
}

func TestValidation_Formats(t *testing.T) {
	pass(t, "email", map[string]string{"from": "ops@example.com"}, validation.Rules{"from": "email"})
	fail(t, "bad email", "from", map[string]string{"from": "ops"}, validation.Rules{"from": "email"})
	pass(t, "url", map[string]string{"hook": "https://example.com/x"}, validation.Rules{"hook": "url"})
	fail(t, "url without scheme", "hook", map[string]string{"hook": "example.com"}, validation.Rules{"hook": "url"})
	pass(t, "alpha_dash", map[string]string{"queue": "jobs_high-1"}, validation.Rules{"queue": "alpha_dash"})
	fail(t, "alpha", "queue", map[string]string{"queue": "jobs1"}, validation.Rules{"queue": "alpha"})
	pass(t, "alpha_num", map[string]string{"queue": "jobs1"}, validation.Rules{"queue": "alpha_num"})
	pass(t, "regex", map[string]string{"region": "eu-west-1"}, validation.Rules{"region": `regex:^[a-z]+-[a-z]+-\d$`})
	fail(t, "bad regex", "region", map[string]string{"region": "x"}, validation.Rules{"region": "regex:("})
	pass(t, "boolean", map[string]string{"debug": "off"}, validation.Rules{"debug": "boolean"})
	fail(t, "not boolean", "debug", map[string]string{"debug": "maybe"}, validation.Rules{"debug": "boolean"})
}

func TestValidation_UnknownRuleFails(t *testing.T) {
	fail(t, "typo", "port", map[string]string{"port": "80"}, validation.Rules{"port": "integr"})
}

func TestValidation_BailsOnFirstFailure(t *testing.T) {
	v := validation.Make(map[string]string{"port": "x"}, validation.Rules{"port": "integer|gte:1"})
	_ = v.Fails()
	if n := len(v.Errors().Bag["port"]); n != 1 {
		t.Errorf("expected 1 message, got %d: %v", n, v.Errors().Bag["port"])
	}
}

// ── Errors ───────────────────────────────────────────────────────────────────

func TestErrors_RepeatedRunsDoNotAccumulate(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"name": "required"})
	v.Fails()
	v.Fails()
	if n := len(v.Errors().All()); n != 1 {
		t.Errorf("expected 1 message after two runs, got %d", n)
	}
}

func TestErrors_AllOrderedByField(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{
		"z.key": "required",
		"a.key": "required",
	})
	v.Fails()
	all := v.Errors().All()
	want := []string{"The a.key field is required.", "The z.key field is required."}
	if len(all) != len(want) {
		t.Fatalf("got %v want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("[%d] got %q want %q", i, all[i], want[i])
		}
	}
}

func TestErrors_JSONShape(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"name": "required"})
	v.Fails()
	b, err := json.Marshal(v.Errors())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"errors":{"name":["The name field is required."]}}`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}
