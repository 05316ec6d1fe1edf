package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	root, err := Root([]byte("name: People\nparticles:\n  - a\n  - b\n"))
	require.NoError(t, err)
	assert.True(t, root.IsMap())
	assert.Equal(t, "People", root.Lookup("name").Value)
	assert.Nil(t, root.Lookup("handles"))
	assert.Nil(t, root.Lookup("name").Lookup("x"))

	var keys []string
	require.NoError(t, root.Pairs(func(key string, node *Node) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"name", "particles"}, keys)

	var items []string
	require.NoError(t, root.Lookup("particles").Items(func(index int, node *Node) error {
		items = append(items, node.Value)
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, items)

	var particles []string
	require.NoError(t, root.Lookup("particles").Decode(&particles))
	assert.Equal(t, []string{"a", "b"}, particles)

	_, err = Root([]byte(""))
	assert.Error(t, err)
	_, err = Root([]byte("a: [b"))
	assert.Error(t, err)
}
