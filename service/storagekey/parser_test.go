package storagekey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	testCases := []struct {
		description string
		key         StorageKey
	}{
		{description: "volatile", key: &VolatileKey{ArcID: "!abc:arc", Path: "h0"}},
		{description: "ramdisk", key: &RamDiskKey{Path: "shared/h0"}},
		{description: "db", key: &DatabaseKey{Persistent: true, SchemaHash: "1234abcd", DBName: "arcs", Path: "!abc:arc/h0"}},
		{description: "memdb", key: &DatabaseKey{SchemaHash: "1234abcd", DBName: "arcs", Path: "h0"}},
		{description: "reference mode", key: &ReferenceModeKey{
			Backing: &DatabaseKey{Persistent: true, SchemaHash: "1234abcd", DBName: "arcs", Path: "entities"},
			Storage: &VolatileKey{ArcID: "!abc:arc", Path: "h0"},
		}},
	}
	parser := NewParser()
	for _, testCase := range testCases {
		actual, err := parser.Parse(testCase.key.String())
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.key, actual, testCase.description)
	}
}

func TestParser_ParseErrors(t *testing.T) {
	parser := NewParser()
	_, err := parser.Parse("unknown://x")
	assert.True(t, errors.Is(err, ErrUnknownProtocol))

	for _, key := range []string{"nonsense", "db://nohash", "reference-mode://{volatile://a/b", "volatile://noslash"} {
		_, err = parser.Parse(key)
		assert.Error(t, err, key)
	}
}

func TestKey_Child(t *testing.T) {
	ref := &ReferenceModeKey{Backing: &RamDiskKey{Path: "b"}, Storage: &RamDiskKey{Path: "s"}}
	child := ref.Child("c").(*ReferenceModeKey)
	assert.Equal(t, "b", child.Backing.(*RamDiskKey).Path)
	assert.Equal(t, "s/c", child.Storage.(*RamDiskKey).Path)
	assert.Equal(t, "volatile://a/x", (&VolatileKey{ArcID: "a"}).Child("x").String())
}
