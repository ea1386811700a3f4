package gojson

import (
	j "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ErrInvalidJSON is returned by sources built over input that is not a single
// RFC 8259 document.
var ErrInvalidJSON = errors.New("gojson: invalid JSON")

// checkStrict rejects what the go-json tokenizer lets through: misplaced
// separators, number literals outside the JSON grammar (01, 1., 1.e5) and raw
// control characters inside strings.
func checkStrict(b []byte) error {
	if !j.Valid(b) {
		return ErrInvalidJSON
	}
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			n, ok := scanString(b[i:])
			if !ok {
				return errors.Wrapf(ErrInvalidJSON, "control character in string at offset %d", i)
			}
			i += n
		case c == '-' || isDigit(c):
			n := i
			for n < len(b) && isNumberByte(b[n]) {
				n++
			}
			if !validNumber(b[i:n]) {
				return errors.Wrapf(ErrInvalidJSON, "number %q at offset %d", b[i:n], i)
			}
			i = n
		default:
			i++
		}
	}
	return nil
}

// scanString returns the length of the string literal at the start of s,
// quotes included.
func scanString(s []byte) (int, bool) {
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case c == '"':
			return i + 1, true
		case c < 0x20:
			return 0, false
		}
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

// validNumber matches -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func validNumber(s []byte) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && isDigit(s[i]):
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}
