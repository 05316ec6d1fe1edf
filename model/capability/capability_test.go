package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities_Contains(t *testing.T) {
	volatile := New(InMemory, AnyTtl, NewQueryable(false))
	database := New(OnDisk, AnyTtl, AnyQueryable, AnyShareable)

	testCases := []struct {
		description string
		have        Capabilities
		requested   Capabilities
		expect      bool
	}{
		{description: "empty request", have: volatile, requested: New(), expect: true},
		{description: "in memory on volatile", have: volatile, requested: New(InMemory), expect: true},
		{description: "on disk on volatile", have: volatile, requested: New(OnDisk), expect: false},
		{description: "on disk on database", have: database, requested: New(OnDisk), expect: true},
		{description: "queryable on volatile", have: volatile, requested: New(NewQueryable(true)), expect: false},
		{description: "queryable on database", have: database, requested: New(OnDisk, NewQueryable(true)), expect: true},
		{description: "ttl on database", have: database, requested: New(Ttl{Minutes: 90}), expect: true},
		{description: "unadvertised tag", have: volatile, requested: New(NewShareable(true)), expect: false},
		{description: "encryption not advertised", have: database, requested: New(NewEncryption(true)), expect: false},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.have.Contains(testCase.requested), testCase.description)
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, Stricter, NoPersistence.Compare(InMemory))
	assert.Equal(t, LessStrict, Unrestricted.Compare(OnDisk))
	assert.Equal(t, Equivalent, OnDisk.Compare(OnDisk))
	assert.Equal(t, LessStrict, Ttl{Infinite: true}.Compare(Ttl{Minutes: 5}))
	assert.Equal(t, Stricter, Ttl{Minutes: 5}.Compare(Ttl{Minutes: 50}))
	assert.Equal(t, Stricter, NewEncryption(true).Compare(NewEncryption(false)))
	assert.True(t, AnyPersistence.Contains(OnDisk))
	assert.True(t, AnyTtl.Contains(Ttl{Infinite: true}))
	assert.False(t, ToRange(InMemory).Contains(AnyPersistence))
}

func TestFromAnnotations(t *testing.T) {
	testCases := []struct {
		description string
		annotations []string
		expect      []string
		expectErr   bool
	}{
		{description: "persistent", annotations: []string{"persistent"}, expect: []string{"onDisk"}},
		{description: "tied to arc", annotations: []string{"tiedToArc", "queryable"}, expect: []string{"inMemory", "queryable"}},
		{description: "ttl", annotations: []string{"ttl:2h", "encrypted"}, expect: []string{"encryption", "ttl:120m"}},
		{description: "conflicting persistence", annotations: []string{"persistent", "inMemory"}, expectErr: true},
		{description: "unknown", annotations: []string{"teleported"}, expectErr: true},
		{description: "bad ttl", annotations: []string{"ttl:soon"}, expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := FromAnnotations(testCase.annotations...)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual.Annotations(), testCase.description)
	}
}

func TestParseTtl(t *testing.T) {
	ttl, err := ParseTtl("3 days")
	require.NoError(t, err)
	assert.Equal(t, 3*24*60, ttl.Minutes)
	ttl, err = ParseTtl("infinite")
	require.NoError(t, err)
	assert.True(t, ttl.Infinite)
	_, err = ParseTtl("5 weeks")
	assert.Error(t, err)
}
