package ilo

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const envTagName = "env"

// overrideFromEnv applies environment variables onto cfg's exported fields.
// Field names map to SCREAMING_SNAKE_CASE segments unless an `env` tag names
// the segment explicitly; `env:"-"` skips a field. Nested structs extend the
// variable name with their own segment, joined by underscores.
func overrideFromEnv(cfg any, prefix string) {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	applyEnv(rv.Elem(), prefix, nil)
}

func applyEnv(v reflect.Value, prefix string, segments []string) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		tag := sf.Tag.Get(envTagName)
		if tag == "-" {
			continue
		}
		seg := tag
		if seg == "" {
			seg = toScreamingSnake(sf.Name)
		}
		field := v.Field(i)
		segs := append(segments, seg)
		envName := buildEnvName(prefix, segs)

		switch {
		case field.Kind() == reflect.Struct:
			applyEnv(field, prefix, segs)
		case field.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct:
			// Allocate *struct only when at least one nested variable is
			// actually present, to avoid materializing optional sections.
			if hasAnyEnvWithPrefix(envName + "_") {
				if field.IsNil() && field.CanSet() {
					field.Set(reflect.New(sf.Type.Elem()))
				}
				applyEnv(field, prefix, segs)
			}
		default:
			setScalarFromEnv(field, envName)
		}
	}
}

// setScalarFromEnv parses the named environment variable into field,
// allocating pointer scalars on demand. Missing variables and unparseable
// values leave the field untouched, so a stray variable cannot clobber a
// loaded value with a zero.
func setScalarFromEnv(field reflect.Value, envName string) {
	if !field.CanSet() {
		return
	}
	typ := field.Type()
	isPtr := typ.Kind() == reflect.Pointer
	if isPtr {
		typ = typ.Elem()
	}

	// set allocates the pointer form if needed and applies fn to the element.
	set := func(fn func(reflect.Value)) {
		if isPtr {
			if field.IsNil() {
				field.Set(reflect.New(typ))
			}
			fn(field.Elem())
			return
		}
		fn(field)
	}

	switch typ.Kind() {
	case reflect.String:
		if s, ok := os.LookupEnv(envName); ok {
			set(func(v reflect.Value) { v.SetString(s) })
		}
	case reflect.Bool:
		if b, ok := getBool(envName); ok {
			set(func(v reflect.Value) { v.SetBool(b) })
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if typ == reflect.TypeOf(time.Duration(0)) {
			if d, ok := getDuration(envName); ok {
				set(func(v reflect.Value) { v.SetInt(int64(d)) })
			}
			return
		}
		if n, ok := getInt(envName); ok {
			set(func(v reflect.Value) { v.SetInt(n) })
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, ok := getInt(envName); ok && n >= 0 {
			set(func(v reflect.Value) { v.SetUint(uint64(n)) })
		}
	}
}

func buildEnvName(prefix string, segments []string) string {
	switch {
	case prefix == "" && len(segments) == 0:
		return ""
	case prefix == "":
		return strings.Join(segments, "_")
	case len(segments) == 0:
		return prefix
	default:
		return prefix + "_" + strings.Join(segments, "_")
	}
}

func getInt(name string) (int64, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getBool(name string) (bool, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func getDuration(name string) (time.Duration, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return d, true
}

func hasAnyEnvWithPrefix(prefix string) bool {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func toScreamingSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && isBoundary(rune(s[i-1]), r) {
			b.WriteByte('_')
		}
		b.WriteRune(toUpper(r))
	}
	return b.String()
}

func isBoundary(prev, curr rune) bool {
	// Split words only on lower→upper transitions (ApiKey → API_KEY); do not
	// split between letters and digits, so ApiKey2FA → API_KEY2FA.
	return (prev >= 'a' && prev <= 'z') && (curr >= 'A' && curr <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
