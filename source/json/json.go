// Package json tokenizes JSON with encoding/json. It reports byte offsets,
// which the go-json driver cannot, so MaxBytes enforcement on streamed input
// works mid-document.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/hoshi/internal/engine"
)

// Driver is a JSON driver backed by encoding/json.
type Driver struct{}

// NewReader wraps an io.Reader into a token source.
func (Driver) NewReader(r io.Reader) eng.TokenSource { return NewReader(r) }

// NewBytes wraps a byte slice into a token source.
func (Driver) NewBytes(b []byte) eng.TokenSource { return NewBytes(b) }

// Name identifies the driver.
func (Driver) Name() string { return "encoding/json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return s.token(eng.KindBeginObject), nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return s.token(eng.KindBeginArray), nil
		case '}':
			s.pop()
			return s.token(eng.KindEndObject), nil
		case ']':
			s.pop()
			return s.token(eng.KindEndArray), nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				t := s.token(eng.KindKey)
				t.String = v
				return t, nil
			}
		}
		s.valueDone()
		t := s.token(eng.KindString)
		t.String = v
		return t, nil
	case bool:
		s.valueDone()
		t := s.token(eng.KindBool)
		t.Bool = v
		return t, nil
	case json.Number:
		s.valueDone()
		t := s.token(eng.KindNumber)
		t.Number = string(v)
		return t, nil
	case float64:
		s.valueDone()
		t := s.token(eng.KindNumber)
		t.Number = strconv.FormatFloat(v, 'g', -1, 64)
		return t, nil
	}
	s.valueDone()
	return s.token(eng.KindNull), nil
}

func (s *jsonSource) token(k eng.Kind) eng.Token { return eng.Token{Kind: k, Offset: s.lastOffset} }

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
