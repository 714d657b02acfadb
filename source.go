package zod

import (
	"io"

	eng "github.com/JorikSchellekens/zod/internal/engine"
	"github.com/JorikSchellekens/zod/source/gojson"
	yamlsrc "github.com/JorikSchellekens/zod/source/yaml"
)

// TokenKind enumerates token kinds produced by a Source.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // Stored for key/string tokens.
	Number string // Stored as text; NumberMode controls downstream interpretation.
	Bool   bool
	Offset int64
}

// Source abstracts over polymorphic input sources.
type Source interface {
	NextToken() (Token, error)
	NumberMode() NumberMode
	Location() int64 // byte offset; -1 if unknown
}

// JSONReader wraps an io.Reader as a JSON Source (go-json tokenizer).
func JSONReader(r io.Reader) Source {
	return &engineSource{inner: gojson.NewReader(r), numMode: NumberJSONNumber}
}

// JSONBytes wraps a byte slice as a JSON Source (go-json tokenizer).
func JSONBytes(b []byte) Source {
	return &engineSource{inner: gojson.NewBytes(b), numMode: NumberJSONNumber}
}

// YAMLBytes wraps the first document of a YAML byte slice as a Source.
func YAMLBytes(b []byte) Source {
	return &engineSource{inner: yamlsrc.NewBytes(b), numMode: NumberJSONNumber}
}

// YAMLReader reads r fully and wraps its first YAML document as a Source.
func YAMLReader(r io.Reader) Source {
	return &engineSource{inner: yamlsrc.NewReader(r), numMode: NumberJSONNumber}
}

// WithNumberMode wraps a Source and overrides its NumberMode.
func WithNumberMode(s Source, m NumberMode) Source { return &overrideNumberMode{inner: s, mode: m} }

type overrideNumberMode struct {
	inner Source
	mode  NumberMode
}

func (o *overrideNumberMode) NextToken() (Token, error) { return o.inner.NextToken() }
func (o *overrideNumberMode) NumberMode() NumberMode    { return o.mode }
func (o *overrideNumberMode) Location() int64           { return o.inner.Location() }

type engineSource struct {
	inner   eng.TokenSource
	numMode NumberMode
}

func (s *engineSource) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSource) NumberMode() NumberMode { return s.numMode }
func (s *engineSource) Location() int64        { return s.inner.Location() }

// tokenSource adapts any Source to the engine view, unwrapping engine-backed
// sources to avoid double conversion.
func tokenSource(s Source) eng.TokenSource {
	if es, ok := s.(*engineSource); ok {
		return es.inner
	}
	return &sourceAdapter{inner: s}
}

type sourceAdapter struct{ inner Source }

func (a *sourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (a *sourceAdapter) Location() int64 { return a.inner.Location() }
