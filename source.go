package hoshi

import (
	"io"
	"sync"

	"go.uber.org/zap"

	eng "github.com/reoring/hoshi/internal/engine"
	"github.com/reoring/hoshi/source/gojson"
	jsonsrc "github.com/reoring/hoshi/source/json"
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Source is a stream of JSON tokens. A driver returns io.EOF once the input is
// exhausted.
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is goccy/go-json; encoding/json is available through
// UseStdlibJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = gojson.Driver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(gojson.Driver{}) }

// UseStdlibJSONDriver switches to the encoding/json driver, which reports
// byte offsets to MaxBytes enforcement.
func UseStdlibJSONDriver() { SetJSONDriver(jsonsrc.Driver{}) }

// CurrentJSONDriver returns the driver used by Parse.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// JSONBytes wraps a byte slice as a Source using the current driver.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// JSONReader wraps an io.Reader as a Source using the current driver.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// EnforceSource wraps a Source with runtime enforcement (duplicate keys,
// depth, bytes). Sources are returned unchanged when opt enables nothing.
func EnforceSource(s Source, opt ParseOpt) Source {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			Logger().Warn("hoshi: json enforcement",
				zap.String("code", si.Code),
				zap.String("path", si.Path),
				zap.String("message", si.Message))
		},
	}
	if !eo.Enabled() {
		return s
	}
	return eng.WrapWithEnforcement(s, eo)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}
