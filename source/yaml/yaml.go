// Package yaml tokenizes YAML input with gopkg.in/yaml.v3 so it can be
// validated by the same schemas as JSON.
package yaml

import (
	"fmt"
	"io"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	eng "github.com/JorikSchellekens/zod/internal/engine"
)

type source struct {
	toks []eng.Token
	pos  int
	err  error
}

// NewBytes decodes the first YAML document in b and exposes it as an
// engine.TokenSource. Decoding errors surface from the first NextToken call.
func NewBytes(b []byte) eng.TokenSource {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(b, &doc); err != nil {
		return &source{err: err}
	}
	s := &source{}
	if doc.Kind == yamlv3.DocumentNode && len(doc.Content) > 0 {
		s.err = s.walk(doc.Content[0])
	}
	return s
}

// NewReader reads r fully and delegates to NewBytes.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &source{err: err}
	}
	return NewBytes(b)
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) emit(t eng.Token) {
	t.Offset = -1
	s.toks = append(s.toks, t)
}

func (s *source) walk(n *yamlv3.Node) error {
	switch n.Kind {
	case yamlv3.AliasNode:
		return s.walk(n.Alias)
	case yamlv3.MappingNode:
		s.emit(eng.Token{Kind: eng.KindBeginObject})
		if err := s.walkPairs(n); err != nil {
			return err
		}
		s.emit(eng.Token{Kind: eng.KindEndObject})
	case yamlv3.SequenceNode:
		s.emit(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.walk(c); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndArray})
	case yamlv3.ScalarNode:
		return s.scalar(n)
	default:
		return fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
	return nil
}

// walkPairs emits key/value tokens of a mapping, inlining "<<" merge keys.
func (s *source) walkPairs(n *yamlv3.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			target := v
			if target.Kind == yamlv3.AliasNode {
				target = target.Alias
			}
			if target.Kind != yamlv3.MappingNode {
				return fmt.Errorf("yaml: merge key at line %d must reference a mapping", k.Line)
			}
			if err := s.walkPairs(target); err != nil {
				return err
			}
			continue
		}
		if k.Kind != yamlv3.ScalarNode {
			return fmt.Errorf("yaml: non-scalar key at line %d", k.Line)
		}
		s.emit(eng.Token{Kind: eng.KindKey, String: k.Value})
		if err := s.walk(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *source) scalar(n *yamlv3.Node) error {
	switch n.ShortTag() {
	case "!!null":
		s.emit(eng.Token{Kind: eng.KindNull})
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		s.emit(eng.Token{Kind: eng.KindBool, Bool: b})
	case "!!int":
		// yaml allows 0x/0o/_ forms; numbers leave here in decimal.
		var i int64
		if err := n.Decode(&i); err != nil {
			s.emit(eng.Token{Kind: eng.KindNumber, Number: n.Value})
			return nil
		}
		s.emit(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10)})
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		s.emit(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64)})
	default:
		s.emit(eng.Token{Kind: eng.KindString, String: n.Value})
	}
	return nil
}
