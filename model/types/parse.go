package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse parses the short type notation: "Person" (singleton entity),
// "[Person]" (collection), "&Person" (reference) and "~a" (variable).
// Entity fields may follow the name in braces: "Person {name: Text, age: Number}".
func Parse(expr string) (*Type, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, fmt.Errorf("empty type expression")
	case strings.HasPrefix(expr, "~"):
		return Variable(expr[1:], nil), nil
	case strings.HasPrefix(expr, "["):
		if !strings.HasSuffix(expr, "]") {
			return nil, fmt.Errorf("invalid collection type %q", expr)
		}
		of, err := Parse(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return Collection(unwrapSingleton(of)), nil
	case strings.HasPrefix(expr, "&"):
		of, err := Parse(expr[1:])
		if err != nil {
			return nil, err
		}
		return Reference(unwrapSingleton(of)), nil
	}
	schema, err := parseSchema(expr)
	if err != nil {
		return nil, err
	}
	return Singleton(Entity(schema)), nil
}

func unwrapSingleton(t *Type) *Type {
	if t.Kind == KindSingleton {
		return t.Of
	}
	return t
}

func parseSchema(expr string) (*Schema, error) {
	name, fields := expr, ""
	if idx := strings.Index(expr, "{"); idx != -1 {
		if !strings.HasSuffix(expr, "}") {
			return nil, fmt.Errorf("invalid schema %q", expr)
		}
		name, fields = strings.TrimSpace(expr[:idx]), expr[idx+1:len(expr)-1]
	}
	ret := &Schema{}
	if name != "" {
		ret.Names = []string{name}
	}
	for _, field := range strings.Split(fields, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, ":", 2)
		if len(pair) != 2 {
			return nil, fmt.Errorf("invalid field %q in schema %q", field, expr)
		}
		if ret.Fields == nil {
			ret.Fields = map[string]string{}
		}
		ret.Fields[strings.TrimSpace(pair[0])] = strings.TrimSpace(pair[1])
	}
	return ret, nil
}

// UnmarshalYAML accepts the short notation or the structured form.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := Parse(node.Value)
		if err != nil {
			return err
		}
		*t = *parsed
		return nil
	}
	type structured Type
	return node.Decode((*structured)(t))
}
