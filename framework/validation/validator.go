package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors is the message bag: field → messages in rule order.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// All returns every message, ordered by field name.
func (e *Errors) All() []string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		out = append(out, e.Bag[f]...)
	}
	return out
}

// Rules maps a field to a pipe-separated rule string.
// e.g. Rules{"app.env": "required|in:local,production", "app.port": "integer|gte:1"}
type Rules map[string]string

// Validator checks a flat map of raw values against Rules.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a Validator for data and rules.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{data: data, rules: rules, errors: &Errors{}}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag of the last run.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

// check returns "" when the rule passes, otherwise the message.
type check func(v *Validator, field, value, param string) string

// stop is returned by control rules that end processing of a field silently.
const stop = "\x00"

var (
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

var checks = map[string]check{
	"required": func(_ *Validator, field, value, _ string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	},
	"string":    func(*Validator, string, string, string) string { return "" },
	"nullable":  skipEmpty,
	"sometimes": skipEmpty,
	"numeric": func(_ *Validator, field, value, _ string) string {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}
		return ""
	},
	"integer": func(_ *Validator, field, value, _ string) string {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}
		return ""
	},
	"boolean": func(_ *Validator, field, value, _ string) string {
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no", "on", "off":
			return ""
		}
		return fmt.Sprintf("The %s field must be true or false.", field)
	},
	"email": func(_ *Validator, field, value, _ string) string {
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
		return ""
	},
	"url": func(_ *Validator, field, value, _ string) string {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
		return ""
	},
	"min": func(_ *Validator, field, value, param string) string {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("The %s must be at least %d characters.", field, n)
		}
		return ""
	},
	"max": func(_ *Validator, field, value, param string) string {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("The %s may not be greater than %d characters.", field, n)
		}
		return ""
	},
	"size": func(_ *Validator, field, value, param string) string {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) != n {
			return fmt.Sprintf("The %s must be %d characters.", field, n)
		}
		return ""
	},
	"between": func(_ *Validator, field, value, param string) string {
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		min, _ := strconv.Atoi(strings.TrimSpace(lo))
		max, _ := strconv.Atoi(strings.TrimSpace(hi))
		if l := utf8.RuneCountInString(value); l < min || l > max {
			return fmt.Sprintf("The %s must be between %d and %d characters.", field, min, max)
		}
		return ""
	},
	"in": func(_ *Validator, field, value, param string) string {
		if !listContains(param, value) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
		return ""
	},
	"not_in": func(_ *Validator, field, value, param string) string {
		if listContains(param, value) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
		return ""
	},
	"same": func(v *Validator, field, value, param string) string {
		if v.data[param] != value {
			return fmt.Sprintf("The %s and %s must match.", field, param)
		}
		return ""
	},
	"different": func(v *Validator, field, value, param string) string {
		if v.data[param] == value {
			return fmt.Sprintf("The %s and %s must be different.", field, param)
		}
		return ""
	},
	"alpha":      regexCheck(alphaRe, "The %s may only contain letters."),
	"alpha_num":  regexCheck(alphaNumRe, "The %s may only contain letters and numbers."),
	"alpha_dash": regexCheck(alphaDashRe, "The %s may only contain letters, numbers, dashes and underscores."),
	"regex": func(_ *Validator, field, value, param string) string {
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
		return ""
	},
	"gt":  compareCheck(func(f, t float64) bool { return f > t }, "greater than"),
	"gte": compareCheck(func(f, t float64) bool { return f >= t }, "greater than or equal to"),
	"lt":  compareCheck(func(f, t float64) bool { return f < t }, "less than"),
	"lte": compareCheck(func(f, t float64) bool { return f <= t }, "less than or equal to"),
}

// validate runs every field's rules in order and stops a field on its first
// failure (Laravel's bail behaviour). Fields are visited in sorted order so
// repeated runs produce the same bag.
func (v *Validator) validate() {
	v.errors = &Errors{}

	fields := make([]string, 0, len(v.rules))
	for f := range v.rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := v.data[field]
		for _, rule := range strings.Split(v.rules[field], "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")
			fn, ok := checks[name]
			if !ok {
				v.errors.add(field, fmt.Sprintf("The %s has an unknown rule %q.", field, name))
				break
			}
			msg := fn(v, field, value, param)
			if msg == stop {
				break
			}
			if msg != "" {
				v.errors.add(field, msg)
				break
			}
		}
	}
}

// skipEmpty ends a field's rules when its value is empty.
func skipEmpty(_ *Validator, _, value, _ string) string {
	if value == "" {
		return stop
	}
	return ""
}

func regexCheck(re *regexp.Regexp, format string) check {
	return func(_ *Validator, field, value, _ string) string {
		if !re.MatchString(value) {
			return fmt.Sprintf(format, field)
		}
		return ""
	}
}

func compareCheck(ok func(f, t float64) bool, phrase string) check {
	return func(_ *Validator, field, value, param string) string {
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if !ok(f, t) {
			return fmt.Sprintf("The %s must be %s %s.", field, phrase, param)
		}
		return ""
	}
}

func listContains(list, value string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}
