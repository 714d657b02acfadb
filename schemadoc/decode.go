package schemadoc

import (
	"fmt"

	"github.com/JorikSchellekens/zod/rules"
	"gopkg.in/yaml.v3"
)

type definitions struct {
	order  []string
	byName map[string]*schemaDef
}

type schemaDef struct {
	strict *bool
	fields []*fieldDef
	merge  []string
	checks []checkDef
}

type fieldDef struct {
	name     string
	typ      string
	min      *float64
	max      *float64
	positive bool
	integer  bool
	format   string
	optional bool
	nullable bool
	strict   *bool
	fields   []*fieldDef
	items    *fieldDef
}

type checkDef struct {
	name string
	rule rules.Rule
}

func readDocument(root *yaml.Node) (definitions, error) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return definitions{}, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDocument)
	}
	var schemas *yaml.Node
	err := eachPair(doc, "", func(key string, v *yaml.Node) error {
		if key != "schemas" {
			return fmt.Errorf("%w: unknown top-level key %q (line %d)", ErrInvalidDocument, key, v.Line)
		}
		schemas = v
		return nil
	})
	if err != nil {
		return definitions{}, err
	}
	if schemas == nil || schemas.Kind != yaml.MappingNode {
		return definitions{}, fmt.Errorf("%w: \"schemas\" must be a mapping", ErrInvalidDocument)
	}
	defs := definitions{byName: map[string]*schemaDef{}}
	err = eachPair(schemas, "schemas", func(name string, v *yaml.Node) error {
		d, err := readSchema(name, v)
		if err != nil {
			return err
		}
		defs.order = append(defs.order, name)
		defs.byName[name] = d
		return nil
	})
	return defs, err
}

func readSchema(path string, n *yaml.Node) (*schemaDef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: schema must be a mapping (line %d)", ErrInvalidDocument, path, n.Line)
	}
	d := &schemaDef{}
	var hasFields, hasMerge bool
	err := eachPair(n, path, func(key string, v *yaml.Node) error {
		switch key {
		case "strict":
			b, err := decodeBool(path, key, v)
			if err != nil {
				return err
			}
			d.strict = &b
		case "fields":
			hasFields = true
			fs, err := readFields(path, v)
			if err != nil {
				return err
			}
			d.fields = fs
		case "merge":
			hasMerge = true
			if err := v.Decode(&d.merge); err != nil {
				return fmt.Errorf("%w: %s.merge: %w", ErrInvalidDocument, path, err)
			}
			if len(d.merge) == 0 {
				return fmt.Errorf("%w: %s.merge: at least one schema name is required", ErrInvalidDocument, path)
			}
		case "checks":
			cs, err := readChecks(path, v)
			if err != nil {
				return err
			}
			d.checks = cs
		default:
			return fmt.Errorf("%w: %s: unknown key %q (line %d)", ErrInvalidDocument, path, key, v.Line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case hasFields && hasMerge:
		return nil, fmt.Errorf("%w: %s: \"fields\" and \"merge\" are exclusive", ErrInvalidDocument, path)
	case !hasFields && !hasMerge:
		return nil, fmt.Errorf("%w: %s: one of \"fields\" or \"merge\" is required", ErrInvalidDocument, path)
	case hasMerge && len(d.checks) > 0:
		return nil, fmt.Errorf("%w: %s: \"checks\" cannot be combined with \"merge\"", ErrInvalidDocument, path)
	}
	return d, nil
}

func readFields(path string, n *yaml.Node) ([]*fieldDef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s.fields must be a mapping (line %d)", ErrInvalidDocument, path, n.Line)
	}
	var out []*fieldDef
	err := eachPair(n, path+".fields", func(name string, v *yaml.Node) error {
		fd, err := readField(path+"."+name, name, v)
		if err != nil {
			return err
		}
		out = append(out, fd)
		return nil
	})
	return out, err
}

func readField(path, name string, n *yaml.Node) (*fieldDef, error) {
	fd := &fieldDef{name: name}
	if n.Kind == yaml.ScalarNode {
		// shorthand: `name: string`
		fd.typ = n.Value
		return fd, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: field must be a mapping or a type name (line %d)", ErrInvalidDocument, path, n.Line)
	}
	err := eachPair(n, path, func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "type":
			err = decodeInto(path, key, v, &fd.typ)
		case "min":
			fd.min = new(float64)
			err = decodeInto(path, key, v, fd.min)
		case "max":
			fd.max = new(float64)
			err = decodeInto(path, key, v, fd.max)
		case "positive":
			fd.positive, err = decodeBool(path, key, v)
		case "int":
			fd.integer, err = decodeBool(path, key, v)
		case "format":
			err = decodeInto(path, key, v, &fd.format)
		case "optional":
			fd.optional, err = decodeBool(path, key, v)
		case "nullable":
			fd.nullable, err = decodeBool(path, key, v)
		case "strict":
			var b bool
			b, err = decodeBool(path, key, v)
			fd.strict = &b
		case "fields":
			fd.fields, err = readFields(path, v)
		case "items":
			fd.items, err = readField(path+"[]", "", v)
		default:
			err = fmt.Errorf("%w: %s: unknown key %q (line %d)", ErrInvalidDocument, path, key, v.Line)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if fd.typ == "" {
		return nil, fmt.Errorf("%w: %s: \"type\" is required", ErrInvalidDocument, path)
	}
	if fd.items != nil && fd.typ != "array" {
		return nil, fmt.Errorf("%w: %s: \"items\" is only valid for type array", ErrInvalidDocument, path)
	}
	if fd.fields != nil && fd.typ != "object" {
		return nil, fmt.Errorf("%w: %s: \"fields\" is only valid for type object", ErrInvalidDocument, path)
	}
	return fd, nil
}

func readChecks(path string, n *yaml.Node) ([]checkDef, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s.checks must be a list (line %d)", ErrInvalidDocument, path, n.Line)
	}
	out := make([]checkDef, 0, len(n.Content))
	for i, item := range n.Content {
		cpath := fmt.Sprintf("%s.checks[%d]", path, i)
		c, err := readCheck(cpath, item)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func readCheck(path string, n *yaml.Node) (checkDef, error) {
	if n.Kind != yaml.MappingNode {
		return checkDef{}, fmt.Errorf("%w: %s: check must be a mapping (line %d)", ErrInvalidDocument, path, n.Line)
	}
	var c checkDef
	var kinds []string
	err := eachPair(n, path, func(key string, v *yaml.Node) error {
		switch key {
		case "name":
			return decodeInto(path, key, v, &c.name)
		case "equal":
			var ps []string
			if err := decodeInto(path, key, v, &ps); err != nil {
				return err
			}
			if len(ps) != 2 {
				return fmt.Errorf("%w: %s.equal: exactly two paths are required", ErrInvalidDocument, path)
			}
			c.rule = rules.Equal(ps[0], ps[1])
		case "present":
			var ps []string
			if err := decodeInto(path, key, v, &ps); err != nil {
				return err
			}
			c.rule = rules.Present(ps...)
		case "at_least_one":
			var p string
			if err := decodeInto(path, key, v, &p); err != nil {
				return err
			}
			c.rule = rules.AtLeastOne(p)
		case "unique_by":
			var u struct {
				Collection string `yaml:"collection"`
				Key        string `yaml:"key"`
			}
			if err := decodeInto(path, key, v, &u); err != nil {
				return err
			}
			c.rule = rules.UniqueBy(u.Collection, u.Key)
		default:
			return fmt.Errorf("%w: %s: unknown check %q (line %d)", ErrInvalidDocument, path, key, v.Line)
		}
		kinds = append(kinds, key)
		return nil
	})
	if err != nil {
		return checkDef{}, err
	}
	if len(kinds) != 1 {
		return checkDef{}, fmt.Errorf("%w: %s: exactly one rule is required, got %d", ErrInvalidDocument, path, len(kinds))
	}
	if c.name == "" {
		c.name = kinds[0]
	}
	return c, nil
}

// eachPair walks a mapping node in document order, rejecting duplicate keys.
func eachPair(n *yaml.Node, path string, fn func(key string, v *yaml.Node) error) error {
	seen := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if line, dup := seen[k.Value]; dup {
			return fmt.Errorf("%w: %s: duplicate key %q at line %d (first at line %d)", ErrInvalidDocument, path, k.Value, k.Line, line)
		}
		seen[k.Value] = k.Line
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

func decodeInto(path, key string, v *yaml.Node, out any) error {
	if err := v.Decode(out); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrInvalidDocument, path, key, err)
	}
	return nil
}

func decodeBool(path, key string, v *yaml.Node) (bool, error) {
	var b bool
	err := decodeInto(path, key, v, &b)
	return b, err
}
