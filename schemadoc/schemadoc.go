// Package schemadoc loads named object schemas from a YAML (or JSON) document.
//
// A document lists schemas under a top-level "schemas" mapping. Each schema
// either declares its own fields or merges other schemas by name:
//
//	schemas:
//	  person:
//	    fields:
//	      name: {type: string, min: 1}
//	      age:  {type: number}
//	  contact:
//	    strict: false
//	    fields:
//	      age:   {type: integer, positive: true}
//	      email: {type: string, format: email, optional: true}
//	  profile:
//	    merge: [person, contact]
//
// Merged schemas are folded left to right with dsl.MergeAll, so keys declared
// by several parts must satisfy all of them.
package schemadoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JorikSchellekens/zod/dsl"
	"github.com/JorikSchellekens/zod/rules"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDocument reports a document that is not a mapping with a
	// "schemas" mapping, or a malformed definition inside it.
	ErrInvalidDocument = errors.New("schemadoc: invalid document")
	// ErrUnknownType reports a field type other than string, number,
	// integer, boolean, array or object.
	ErrUnknownType = errors.New("schemadoc: unknown field type")
	// ErrUnknownRef reports a merge entry naming an undefined schema.
	ErrUnknownRef = errors.New("schemadoc: unknown schema reference")
	// ErrMergeCycle reports schemas that merge themselves, directly or not.
	ErrMergeCycle = errors.New("schemadoc: merge cycle")
)

// Registry holds the object schemas of one document. It is immutable and safe
// for concurrent use.
type Registry struct {
	names   []string
	objects map[string]*dsl.ObjectSchema
}

// Names returns the schema names in document order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// Object returns the schema registered under name.
func (r *Registry) Object(name string) (*dsl.ObjectSchema, bool) {
	o, ok := r.objects[name]
	return o, ok
}

// Load parses a schema document.
func Load(data []byte) (*Registry, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	defs, err := readDocument(&root)
	if err != nil {
		return nil, err
	}
	l := &loader{defs: defs, state: map[string]int{}, out: map[string]*dsl.ObjectSchema{}}
	for _, d := range defs.order {
		if _, err := l.resolve(d, nil); err != nil {
			return nil, err
		}
	}
	return &Registry{names: slices.Clone(defs.order), objects: l.out}, nil
}

// LoadReader reads all of r and calls Load.
func LoadReader(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

const (
	unvisited = iota
	visiting
	done
)

type loader struct {
	defs  definitions
	state map[string]int
	out   map[string]*dsl.ObjectSchema
}

func (l *loader) resolve(name string, chain []string) (*dsl.ObjectSchema, error) {
	switch l.state[name] {
	case done:
		return l.out[name], nil
	case visiting:
		return nil, fmt.Errorf("%w: %s", ErrMergeCycle, strings.Join(append(chain, name), " -> "))
	}
	def, ok := l.defs.byName[name]
	if !ok {
		from := "<root>"
		if len(chain) > 0 {
			from = chain[len(chain)-1]
		}
		return nil, fmt.Errorf("%w: %q (merged by %q)", ErrUnknownRef, name, from)
	}
	l.state[name] = visiting
	var (
		obj *dsl.ObjectSchema
		err error
	)
	if len(def.merge) > 0 {
		parts := make([]*dsl.ObjectSchema, 0, len(def.merge))
		for _, ref := range def.merge {
			p, err := l.resolve(ref, append(chain, name))
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		obj = dsl.MergeAll(parts...)
		if def.strict != nil {
			if *def.strict {
				obj = obj.Strict()
			} else {
				obj = obj.NonStrict()
			}
		}
	} else {
		obj, err = buildObject(name, def)
		if err != nil {
			return nil, err
		}
	}
	l.state[name] = done
	l.out[name] = obj
	return obj, nil
}

func buildObject(path string, def *schemaDef) (*dsl.ObjectSchema, error) {
	b := dsl.Object()
	if def.strict != nil && !*def.strict {
		b.NonStrict()
	}
	for _, fd := range def.fields {
		f, err := buildField(path+"."+fd.name, fd)
		if err != nil {
			return nil, err
		}
		b.Field(fd.name, f)
	}
	for _, c := range def.checks {
		b.Check(rules.Check(c.name, c.rule))
	}
	return b.Build()
}

func buildField(path string, fd *fieldDef) (dsl.Field, error) {
	var f dsl.Field
	switch fd.typ {
	case "string":
		s := dsl.String()
		if fd.min != nil {
			s = s.Min(int(*fd.min))
		}
		if fd.max != nil {
			s = s.Max(int(*fd.max))
		}
		switch fd.format {
		case "":
		case "email":
			s = s.Email()
		case "date-time":
			s = s.DateTime()
		default:
			return nil, fmt.Errorf("%w: %s: unknown format %q", ErrInvalidDocument, path, fd.format)
		}
		f = s
	case "number", "integer":
		n := dsl.Number()
		if fd.typ == "integer" || fd.integer {
			n = n.Int()
		}
		if fd.min != nil {
			n = n.Min(*fd.min)
		}
		if fd.max != nil {
			n = n.Max(*fd.max)
		}
		if fd.positive {
			n = n.Positive()
		}
		f = n
	case "boolean":
		f = dsl.Bool()
	case "array":
		if fd.items == nil {
			return nil, fmt.Errorf("%w: %s: \"items\" is required for type array", ErrInvalidDocument, path)
		}
		elem, err := buildField(path+"[]", fd.items)
		if err != nil {
			return nil, err
		}
		a := dsl.Array(elem)
		if fd.min != nil {
			a = a.Min(int(*fd.min))
		}
		if fd.max != nil {
			a = a.Max(int(*fd.max))
		}
		f = a
	case "object":
		o, err := buildObject(path, &schemaDef{fields: fd.fields, strict: fd.strict})
		if err != nil {
			return nil, err
		}
		f = o
	default:
		return nil, fmt.Errorf("%w: %s: %q", ErrUnknownType, path, fd.typ)
	}
	if fd.nullable {
		f = dsl.Nullable(f)
	}
	if fd.optional {
		f = dsl.Optional(f)
	}
	return f, nil
}
