package storagekey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/model/capability"
	"github.com/viant/arcs/model/types"
)

func personType() *types.Type {
	return types.Singleton(types.Entity(&types.Schema{Names: []string{"Person"}, Fields: map[string]string{"name": "Text"}}))
}

func TestResolver_CreateStorageKey(t *testing.T) {
	testCases := []struct {
		description string
		factories   []Factory
		requested   capability.Capabilities
		expectProto string
		expectErr   bool
	}{
		{
			description: "persistent handle, volatile first",
			factories:   []Factory{NewVolatileFactory(), NewDatabaseFactory("")},
			requested:   capability.New(capability.OnDisk),
			expectProto: ProtocolDatabase,
		},
		{
			description: "persistent handle, database first",
			factories:   []Factory{NewDatabaseFactory(""), NewVolatileFactory()},
			requested:   capability.New(capability.OnDisk),
			expectProto: ProtocolDatabase,
		},
		{
			description: "in memory handle, database first",
			factories:   []Factory{NewDatabaseFactory(""), NewVolatileFactory()},
			requested:   capability.New(capability.InMemory),
			expectProto: ProtocolVolatile,
		},
		{
			description: "no requirements prefers volatile",
			factories:   []Factory{NewMemoryDatabaseFactory(""), NewDatabaseFactory(""), NewVolatileFactory()},
			requested:   capability.New(),
			expectProto: ProtocolVolatile,
		},
		{
			description: "queryable in memory prefers memdb",
			factories:   []Factory{NewVolatileFactory(), NewRamDiskFactory(), NewMemoryDatabaseFactory("")},
			requested:   capability.New(capability.InMemory, capability.NewQueryable(true)),
			expectProto: ProtocolMemoryDatabase,
		},
		{
			description: "unsatisfiable",
			factories:   []Factory{NewVolatileFactory()},
			requested:   capability.New(capability.OnDisk),
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		registry, err := NewRegistry(testCase.factories...)
		require.NoError(t, err, testCase.description)
		resolver := NewResolver(registry)
		key, err := resolver.CreateStorageKey(context.Background(), "!s1:arc", testCase.requested, personType(), "handle0")
		if testCase.expectErr {
			assert.True(t, errors.Is(err, ErrUnsatisfiableCapability), testCase.description)
			var unsatisfiable *UnsatisfiableCapabilityError
			if assert.True(t, errors.As(err, &unsatisfiable), testCase.description) {
				assert.Equal(t, "handle0", unsatisfiable.HandleID, testCase.description)
			}
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectProto, key.Protocol(), testCase.description)
	}
}

func TestResolver_KeyLayout(t *testing.T) {
	registry, err := NewRegistry(NewVolatileFactory(), NewDatabaseFactory("main"))
	require.NoError(t, err)
	hash, err := personType().EntitySchema()
	require.NoError(t, err)

	resolver := NewResolver(registry)
	key, err := resolver.CreateStorageKey(context.Background(), "!s1:arc", capability.New(capability.InMemory), personType(), "h0")
	require.NoError(t, err)
	assert.Equal(t, "volatile://!s1:arc/h0", key.String())

	key, err = resolver.CreateStorageKey(context.Background(), "!s1:arc", capability.New(capability.OnDisk), personType(), "h0")
	require.NoError(t, err)
	assert.Equal(t, "db://"+hash.Hash()+"@main/!s1:arc/h0", key.String())
}

func TestResolver_ReferenceMode(t *testing.T) {
	registry, err := NewRegistry(NewDatabaseFactory(""))
	require.NoError(t, err)
	resolver := NewResolver(registry, WithReferenceMode(true))

	key, err := resolver.CreateStorageKey(context.Background(), "!s1:arc", capability.New(capability.OnDisk), personType(), "h0")
	require.NoError(t, err)
	refKey, ok := key.(*ReferenceModeKey)
	require.True(t, ok)
	assert.Equal(t, ProtocolDatabase, refKey.Backing.Protocol())
	assert.Contains(t, refKey.Storage.String(), "!s1:arc/h0")

	reference := types.Reference(types.Entity(&types.Schema{Names: []string{"Person"}}))
	key, err = resolver.CreateStorageKey(context.Background(), "!s1:arc", capability.New(capability.OnDisk), reference, "h1")
	require.NoError(t, err)
	assert.Equal(t, ProtocolDatabase, key.Protocol())
}

func TestRegistry_Register(t *testing.T) {
	registry, err := NewRegistry(NewVolatileFactory())
	require.NoError(t, err)
	err = registry.Register(NewVolatileFactory())
	assert.True(t, errors.Is(err, ErrDuplicateProtocol))

	require.NoError(t, registry.Register(NewRamDiskFactory()))
	factory, ok := registry.Lookup(ProtocolRamDisk)
	require.True(t, ok)
	assert.Equal(t, ProtocolRamDisk, factory.Protocol())
	assert.Len(t, registry.Factories(), 2)

	registry.Reset()
	assert.Empty(t, registry.Factories())
}

func TestPreferenceSelector_Select(t *testing.T) {
	candidates := []Factory{NewDatabaseFactory(""), NewRamDiskFactory(), NewVolatileFactory()}
	testCases := []struct {
		description string
		order       []string
		expect      string
	}{
		{description: "default order", expect: ProtocolVolatile},
		{description: "custom order", order: []string{ProtocolDatabase, ProtocolVolatile}, expect: ProtocolDatabase},
		{description: "unlisted rank last", order: []string{ProtocolRamDisk}, expect: ProtocolRamDisk},
	}
	for _, testCase := range testCases {
		selected := NewPreferenceSelector(testCase.order...).Select(candidates)
		assert.Equal(t, testCase.expect, selected.Protocol(), testCase.description)
	}
	assert.Nil(t, NewPreferenceSelector().Select(nil))
}
