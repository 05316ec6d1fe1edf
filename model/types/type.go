// Package types models the data types carried by plan handles.
package types

import "fmt"

// Kind identifies a type constructor.
type Kind string

const (
	KindEntity     Kind = "entity"
	KindSingleton  Kind = "singleton"
	KindCollection Kind = "collection"
	KindReference  Kind = "reference"
	KindVariable   Kind = "variable"
)

// Type is a handle type. Container kinds wrap Of; entities carry Schema; a
// variable is bound through Resolution, or through its Constraint when
// MaybeResolve is called.
type Type struct {
	Kind       Kind    `json:"kind" yaml:"kind"`
	Schema     *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Of         *Type   `json:"of,omitempty" yaml:"of,omitempty"`
	Variable   string  `json:"variable,omitempty" yaml:"variable,omitempty"`
	Constraint *Type   `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Resolution *Type   `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// Entity returns an entity type.
func Entity(schema *Schema) *Type { return &Type{Kind: KindEntity, Schema: schema} }

// Singleton wraps t.
func Singleton(t *Type) *Type { return &Type{Kind: KindSingleton, Of: t} }

// Collection wraps t.
func Collection(t *Type) *Type { return &Type{Kind: KindCollection, Of: t} }

// Reference wraps t.
func Reference(t *Type) *Type { return &Type{Kind: KindReference, Of: t} }

// Variable returns an unbound type variable.
func Variable(name string, constraint *Type) *Type {
	return &Type{Kind: KindVariable, Variable: name, Constraint: constraint}
}

// IsResolved reports whether the type is fully concrete.
func (t *Type) IsResolved() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindEntity:
		return t.Schema != nil
	case KindSingleton, KindCollection, KindReference:
		return t.Of.IsResolved()
	case KindVariable:
		return t.Resolution.IsResolved()
	}
	return false
}

// MaybeResolve binds unresolved variables to their constraints and reports
// whether the type is resolved afterwards.
func (t *Type) MaybeResolve() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindSingleton, KindCollection, KindReference:
		return t.Of.MaybeResolve()
	case KindVariable:
		if t.Resolution == nil && t.Constraint != nil {
			t.Resolution = t.Constraint.Clone()
		}
		return t.Resolution.MaybeResolve()
	}
	return t.IsResolved()
}

// ResolvedType returns the concrete type with variables substituted.
func (t *Type) ResolvedType() *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindVariable:
		if t.Resolution == nil {
			return t
		}
		return t.Resolution.ResolvedType()
	case KindSingleton, KindCollection, KindReference:
		return &Type{Kind: t.Kind, Of: t.Of.ResolvedType()}
	}
	return t
}

// IsReference reports whether t is a reference type.
func (t *Type) IsReference() bool {
	return t != nil && t.ResolvedType().Kind == KindReference
}

// EntitySchema returns the schema of the innermost entity.
func (t *Type) EntitySchema() (*Schema, error) {
	resolved := t.ResolvedType()
	for resolved != nil {
		switch resolved.Kind {
		case KindEntity:
			return resolved.Schema, nil
		case KindSingleton, KindCollection, KindReference:
			resolved = resolved.Of
		default:
			return nil, fmt.Errorf("can't retrieve entity schema of type %v", t)
		}
	}
	return nil, fmt.Errorf("can't retrieve entity schema of type %v", t)
}

// Clone returns a deep copy.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	return &Type{
		Kind:       t.Kind,
		Schema:     t.Schema.Clone(),
		Of:         t.Of.Clone(),
		Variable:   t.Variable,
		Constraint: t.Constraint.Clone(),
		Resolution: t.Resolution.Clone(),
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindEntity:
		return t.Schema.Name()
	case KindSingleton:
		return t.Of.String()
	case KindCollection:
		return "[" + t.Of.String() + "]"
	case KindReference:
		return "&" + t.Of.String()
	case KindVariable:
		if t.Resolution != nil {
			return t.Resolution.String()
		}
		return "~" + t.Variable
	}
	return string(t.Kind)
}
