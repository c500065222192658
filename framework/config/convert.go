package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Converter turns a raw, non-empty value into a typed one.
type Converter func(raw string) (any, error)

// builtinConverters covers every scalar name plus the custom types the
// framework ships with. Custom types still need a synthesized resolver in the
// component graph; having a converter only makes them resolvable.
func builtinConverters() map[string]Converter {
	return map[string]Converter{
		"string":   func(s string) (any, error) { return s, nil },
		"bool":     convertBool,
		"int":      intConverter(strconv.IntSize, func(n int64) any { return int(n) }),
		"int8":     intConverter(8, func(n int64) any { return int8(n) }),
		"int16":    intConverter(16, func(n int64) any { return int16(n) }),
		"int32":    intConverter(32, func(n int64) any { return int32(n) }),
		"int64":    intConverter(64, func(n int64) any { return n }),
		"uint":     uintConverter(strconv.IntSize, func(n uint64) any { return uint(n) }),
		"uint8":    uintConverter(8, func(n uint64) any { return uint8(n) }),
		"uint16":   uintConverter(16, func(n uint64) any { return uint16(n) }),
		"uint32":   uintConverter(32, func(n uint64) any { return uint32(n) }),
		"uint64":   uintConverter(64, func(n uint64) any { return n }),
		"float32":  floatConverter(32, func(f float64) any { return float32(f) }),
		"float64":  floatConverter(64, func(f float64) any { return f }),
		"duration": convertDuration,

		"url":               convertURL,
		"ip":                convertIP,
		"semver":            convertSemver,
		"semver-constraint": convertSemverConstraint,
	}
}

// convertBool accepts the usual spellings plus yes/no and on/off.
func convertBool(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return nil, fmt.Errorf("invalid boolean %q", s)
}

func intConverter(bits int, cast func(int64) any) Converter {
	return func(s string) (any, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
		if err != nil {
			return nil, err
		}
		return cast(n), nil
	}
}

func uintConverter(bits int, cast func(uint64) any) Converter {
	return func(s string) (any, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
		if err != nil {
			return nil, err
		}
		return cast(n), nil
	}
}

func floatConverter(bits int, cast func(float64) any) Converter {
	return func(s string) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
		if err != nil {
			return nil, err
		}
		return cast(f), nil
	}
}

// convertDuration accepts Go durations ("1m30s") and bare seconds ("90").
func convertDuration(s string) (any, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// convertURL requires an absolute URL with a host.
func convertURL(s string) (any, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", s)
	}
	return u, nil
}

func convertIP(s string) (any, error) {
	return netip.ParseAddr(strings.TrimSpace(s))
}

func convertSemver(s string) (any, error) {
	return semver.NewVersion(strings.TrimSpace(s))
}

func convertSemverConstraint(s string) (any, error) {
	return semver.NewConstraint(strings.TrimSpace(s))
}

// splitList splits a comma separated value; `\,` escapes a literal comma.
// Empty elements are dropped.
func splitList(s string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if v := strings.TrimSpace(cur.String()); v != "" {
			out = append(out, v)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ',':
			cur.WriteByte(',')
			i++
		case s[i] == ',':
			flush()
		default:
			cur.WriteByte(s[i])
		}
	}
	flush()
	return out
}
