// Package validation checks raw configuration values against Laravel-style
// rule strings.
//
// Mapping properties declare their constraints with the same syntax Laravel
// uses for request input, and the config package runs them after a mapping
// has been bound:
//
//	v := validation.Make(map[string]string{
//	    "app.env":  "staging",
//	    "app.port": "0",
//	}, validation.Rules{
//	    "app.env":  "in:local,production,testing",
//	    "app.port": "integer|gte:1|lte:65535",
//	})
//
//	if v.Fails() {
//	    for _, msg := range v.Errors().All() {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Rules
//
// Presence: required, nullable, sometimes. nullable and sometimes end a
// field's rules silently when its value is empty.
//
// Strings: string, min:n, max:n, size:n, between:a,b (rune counts), alpha,
// alpha_num, alpha_dash, regex:pattern.
//
// Formats: email, url (http or https with a host), boolean.
//
// Numbers: numeric, integer, gt:n, gte:n, lt:n, lte:n.
//
// Sets and fields: in:a,b,c, not_in:a,b,c, same:other, different:other.
//
// A field stops at its first failing rule. An unknown rule name is itself a
// failure, so a typo in a rule string never passes silently.
//
// # Error Bag
//
// Errors serialise like Laravel's:
//
//	{"errors": {"app.port": ["The app.port must be greater than or equal to 1."]}}
package validation
