package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/service/dao"
	"github.com/viant/arcs/service/dao/criteria"
)

type record struct {
	ID    string
	Group string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string, record](func(r *record) string { return r.ID }).
		WithFilter(func(r *record, parameters []*dao.Parameter) bool {
			return criteria.Match("Group", r.Group, parameters)
		})

	assert.True(t, errors.Is(store.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(store.Save(ctx, &record{}), dao.ErrInvalidID))

	require.NoError(t, store.Save(ctx, &record{ID: "b", Group: "x"}))
	require.NoError(t, store.Save(ctx, &record{ID: "a", Group: "x"}))
	require.NoError(t, store.Save(ctx, &record{ID: "c", Group: "y"}))

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", loaded.Group)

	listed, err := store.List(ctx, dao.NewParameter("Group", "x"))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].ID)
	assert.Equal(t, "b", listed[1].ID)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, "a"), dao.ErrNotFound))
}
