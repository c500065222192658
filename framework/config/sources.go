package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Source is one layer of configuration. Config consults sources from the
// highest ordinal down and the first non-empty value wins.
type Source interface {
	Name() string
	Ordinal() int
	// PropertyNames enumerates the keys the source knows about. It may be a
	// subset of what Value can answer.
	PropertyNames() []string
	Value(name string) (string, bool)
}

// Default ordinals, highest wins.
const (
	OrdinalFlags    = 400
	OrdinalEnv      = 300
	OrdinalDotenv   = 295
	OrdinalYAML     = 110
	OrdinalDefaults = 0
)

// ── MapSource ────────────────────────────────────────────────────────────────

// MapSource serves a fixed set of properties. Used for defaults and tests.
type MapSource struct {
	name    string
	ordinal int
	props   map[string]string
}

// NewMapSource copies props into a new source.
func NewMapSource(name string, ordinal int, props map[string]string) *MapSource {
	cp := make(map[string]string, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return &MapSource{name: name, ordinal: ordinal, props: cp}
}

func (s *MapSource) Name() string { return s.name }
func (s *MapSource) Ordinal() int { return s.ordinal }

func (s *MapSource) PropertyNames() []string { return sortedKeys(s.props) }

func (s *MapSource) Value(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

// ── EnvSource ────────────────────────────────────────────────────────────────

// EnvSource reads the process environment.
//
// A lookup for "db.port" tries DB_PORT-style names after the exact one:
//
//	db.port → db.port, db_port, DB_PORT
//
// Only the real variable names are enumerated, so "db.port" is resolvable
// without being part of PropertyNames.
type EnvSource struct{}

func NewEnvSource() *EnvSource { return &EnvSource{} }

func (s *EnvSource) Name() string { return "env" }
func (s *EnvSource) Ordinal() int { return OrdinalEnv }

func (s *EnvSource) PropertyNames() []string {
	environ := os.Environ()
	names := make([]string, 0, len(environ))
	for _, kv := range environ {
		if k, _, ok := strings.Cut(kv, "="); ok && k != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

func (s *EnvSource) Value(name string) (string, bool) {
	return envLookup(name, os.LookupEnv)
}

// ── DotenvSource ─────────────────────────────────────────────────────────────

// DotenvSource serves variables read from .env files without exporting them
// into the process environment. Lookups use the same name mapping as EnvSource.
type DotenvSource struct {
	files []string
	vars  map[string]string
}

// NewDotenvSource reads files in order; later files override earlier ones.
// Missing files are skipped (.env may not exist in production), malformed
// files are an error.
func NewDotenvSource(files ...string) (*DotenvSource, error) {
	src := &DotenvSource{vars: make(map[string]string)}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		vars, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("config: read dotenv %s: %w", f, err)
		}
		for k, v := range vars {
			src.vars[k] = v
		}
		src.files = append(src.files, f)
	}
	return src, nil
}

func (s *DotenvSource) Name() string {
	if len(s.files) == 0 {
		return "dotenv"
	}
	return "dotenv:" + strings.Join(s.files, ",")
}

func (s *DotenvSource) Ordinal() int            { return OrdinalDotenv }
func (s *DotenvSource) PropertyNames() []string { return sortedKeys(s.vars) }

func (s *DotenvSource) Value(name string) (string, bool) {
	return envLookup(name, func(k string) (string, bool) {
		v, ok := s.vars[k]
		return v, ok
	})
}

// ── YAMLSource ───────────────────────────────────────────────────────────────

// YAMLSource flattens a YAML document into dotted keys:
//
//	server:
//	  host: localhost        → server.host=localhost
//	  ports: [80, 443]       → server.ports[0]=80, server.ports[1]=443, server.ports=80,443
type YAMLSource struct {
	name  string
	props map[string]string
}

// NewYAMLSource reads and flattens the file at path.
func NewYAMLSource(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("config: read yaml %s: %w", path, err)
	}
	return ParseYAMLSource("yaml:"+path, data)
}

// ParseYAMLSource flattens data under the given source name.
func ParseYAMLSource(name string, data []byte) (*YAMLSource, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse yaml %s: %w", name, err)
	}
	props := make(map[string]string)
	switch doc.(type) {
	case nil:
	case map[string]any, map[any]any:
		flattenYAML("", doc, props)
	default:
		return nil, fmt.Errorf("config: parse yaml %s: top level must be a mapping", name)
	}
	return &YAMLSource{name: name, props: props}, nil
}

func (s *YAMLSource) Name() string            { return s.name }
func (s *YAMLSource) Ordinal() int            { return OrdinalYAML }
func (s *YAMLSource) PropertyNames() []string { return sortedKeys(s.props) }

func (s *YAMLSource) Value(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

func flattenYAML(prefix string, node any, out map[string]string) {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			flattenYAML(joinKey(prefix, k), v, out)
		}
	case map[any]any:
		// Non-string keys (1: foo, true: x) become their scalar text.
		for k, v := range n {
			key, ok := yamlScalar(k)
			if !ok {
				continue
			}
			flattenYAML(joinKey(prefix, key), v, out)
		}
	case []any:
		scalars := make([]string, 0, len(n))
		allScalar := true
		for i, v := range n {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), v, out)
			s, ok := yamlScalar(v)
			if !ok {
				allScalar = false
				continue
			}
			scalars = append(scalars, strings.ReplaceAll(s, ",", `\,`))
		}
		if allScalar {
			out[prefix] = strings.Join(scalars, ",")
		}
	default:
		if s, ok := yamlScalar(n); ok {
			out[prefix] = s
		}
	}
}

func yamlScalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case map[string]any, map[any]any, []any:
		return "", false
	default:
		return fmt.Sprint(x), true
	}
}

// ── FlagSource ───────────────────────────────────────────────────────────────

// DefineFlag is the flag FlagSource reads: -D key=value, repeatable.
const DefineFlag = "define"

// AddDefineFlag registers --define/-D on fs.
func AddDefineFlag(fs *pflag.FlagSet) {
	fs.StringToStringP(DefineFlag, "D", nil, "set a configuration property (key=value), repeatable")
}

// FlagSource serves properties passed with --define on the command line.
type FlagSource struct {
	props map[string]string
}

// NewFlagSource reads --define from an already parsed flag set.
func NewFlagSource(fs *pflag.FlagSet) (*FlagSource, error) {
	props, err := fs.GetStringToString(DefineFlag)
	if err != nil {
		return nil, fmt.Errorf("config: read --%s: %w", DefineFlag, err)
	}
	cp := make(map[string]string, len(props))
	for k, v := range props {
		cp[strings.TrimSpace(k)] = v
	}
	return &FlagSource{props: cp}, nil
}

func (s *FlagSource) Name() string            { return "flags" }
func (s *FlagSource) Ordinal() int            { return OrdinalFlags }
func (s *FlagSource) PropertyNames() []string { return sortedKeys(s.props) }

func (s *FlagSource) Value(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

// ── helpers ─────────────────────────────────────────────────────────────────

// envLookup tries name, then name with every non-alphanumeric replaced by '_',
// then the upper-cased form of that.
func envLookup(name string, lookup func(string) (string, bool)) (string, bool) {
	if v, ok := lookup(name); ok {
		return v, true
	}
	sanitized := envName(name)
	if sanitized != name {
		if v, ok := lookup(sanitized); ok {
			return v, true
		}
	}
	upper := strings.ToUpper(sanitized)
	if upper != sanitized {
		if v, ok := lookup(upper); ok {
			return v, true
		}
	}
	return "", false
}

func envName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
