package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestType_Resolution(t *testing.T) {
	person := &Schema{Names: []string{"Person"}, Fields: map[string]string{"name": "Text"}}

	variable := Variable("a", Entity(person))
	assert.False(t, variable.IsResolved())
	assert.True(t, variable.MaybeResolve())
	assert.True(t, variable.IsResolved())
	assert.Equal(t, KindEntity, variable.ResolvedType().Kind)

	unbound := Collection(Variable("b", nil))
	assert.False(t, unbound.MaybeResolve())

	schema, err := Collection(Reference(Entity(person))).EntitySchema()
	require.NoError(t, err)
	assert.Equal(t, "Person", schema.Name())
	assert.True(t, Reference(Entity(person)).IsReference())
	assert.False(t, Singleton(Entity(person)).IsReference())

	_, err = Variable("c", nil).EntitySchema()
	assert.Error(t, err)
}

func TestSchema_Hash(t *testing.T) {
	a := &Schema{Names: []string{"Person"}, Fields: map[string]string{"name": "Text", "age": "Number"}}
	b := &Schema{Names: []string{"Person"}, Fields: map[string]string{"age": "Number", "name": "Text"}}
	c := &Schema{Names: []string{"Person"}, Fields: map[string]string{"name": "Text"}}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Len(t, a.Hash(), 40)
	assert.Equal(t, a.Hash(), a.Clone().Hash())
}

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		expr        string
		expect      string
		kind        Kind
		hasError    bool
	}{
		{description: "singleton", expr: "Person", expect: "Person", kind: KindSingleton},
		{description: "collection", expr: "[Person]", expect: "[Person]", kind: KindCollection},
		{description: "reference", expr: "&Person", expect: "&Person", kind: KindReference},
		{description: "variable", expr: "~a", expect: "~a", kind: KindVariable},
		{description: "fields", expr: "Person {name: Text, age: Number}", expect: "Person", kind: KindSingleton},
		{description: "empty", expr: " ", hasError: true},
		{description: "unbalanced", expr: "[Person", hasError: true},
	}
	for _, testCase := range testCases {
		actual, err := Parse(testCase.expr)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual.String(), testCase.description)
		assert.Equal(t, testCase.kind, actual.Kind, testCase.description)
	}

	withFields, err := Parse("Person {name: Text, age: Number}")
	require.NoError(t, err)
	schema, err := withFields.EntitySchema()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Text", "age": "Number"}, schema.Fields)
}

func TestType_UnmarshalYAML(t *testing.T) {
	var holder struct {
		Short      *Type `yaml:"short"`
		Structured *Type `yaml:"structured"`
	}
	doc := "short: '[Person]'\nstructured:\n  kind: reference\n  of:\n    kind: entity\n    schema:\n      names: [Person]\n"
	require.NoError(t, yaml.Unmarshal([]byte(doc), &holder))
	assert.Equal(t, "[Person]", holder.Short.String())
	assert.Equal(t, "&Person", holder.Structured.String())
}
