package hoshi

import (
	"reflect"
	"strings"
	"unicode"
)

// SnakeCase derives a wire key from a field name: an underscore goes between
// an ASCII lowercase letter or digit and the ASCII uppercase letter right
// after it, then the whole string is lowercased. Runs of capitals are not
// split, so "HTTPServer" becomes "httpserver". Non-ASCII letters never get a
// separator.
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	var prev rune
	for i, r := range name {
		if i > 0 && isASCIIUpper(r) && (isASCIILower(prev) || isASCIIDigit(prev)) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// fieldTag is the parsed form of a `hoshi:"..."` struct tag.
type fieldTag struct {
	name    string
	skip    bool
	noEqual bool
	noJSON  bool
}

// parseFieldTag reads the hoshi tag, then falls back to the json tag for the
// wire name. Priority: hoshi:"name=..." > json tag name > snake_case.
// "-" in either tag removes the field.
func parseFieldTag(sf reflect.StructField) fieldTag {
	var ft fieldTag
	if ht, ok := sf.Tag.Lookup("hoshi"); ok {
		if strings.TrimSpace(ht) == "-" {
			return fieldTag{skip: true}
		}
		for _, p := range strings.Split(ht, ",") {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "name="):
				ft.name = strings.TrimPrefix(p, "name=")
			case p == "noequal":
				ft.noEqual = true
			case p == "nojson":
				ft.noJSON = true
			}
		}
	}
	if ft.name != "" {
		return ft
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return fieldTag{skip: true}
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		ft.name = jt
	}
	if ft.name == "" {
		ft.name = SnakeCase(sf.Name)
	}
	return ft
}
