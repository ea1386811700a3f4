package hoshi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/reoring/hoshi/i18n"
)

// Issue codes.
const (
	// CodeInvalidType marks a present field whose value matched no coercion
	// rule; the field kept its default.
	CodeInvalidType = "invalid_type"
	// CodeParseError marks a document that is not valid JSON or not an
	// object; the record fell back to its defaults.
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
	// CodeEncodeFailure marks a record whose current values cannot be
	// serialized.
	CodeEncodeFailure   = "encode_failure"
	CodeSchemaViolation = "schema_violation"
)

// ErrorText is the message carried by the serialization sentinel.
const ErrorText = "serialization error"

// ErrorSentinel is returned by Record.JSON when the record cannot be
// serialized.
const ErrorSentinel = `{"error":"` + ErrorText + `"}`

// ErrSchemaViolation is wrapped by every error NewSchema returns.
var ErrSchemaViolation = errors.New("hoshi: schema violation")

// ErrUnsupportedNumber reports a NaN or infinite float, which JSON cannot carry.
var ErrUnsupportedNumber = errors.New("hoshi: unsupported number")

// Issue represents a single degraded-decode or encode entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is reaches wrapped sentinels.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// Has reports whether any issue carries code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func newIssue(path, code string, cause error) Issue {
	if path == "" {
		path = "/"
	}
	var data map[string]string
	if cause != nil {
		data = map[string]string{"key": cause.Error()}
	}
	return Issue{Path: path, Code: code, Message: i18n.T(code, data), Cause: cause}
}
