package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/dao"
	arcdao "github.com/viant/arcs/service/dao/arc"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	require.NoError(t, err)

	outer := &arc.Record{
		ID:          "!s1:outer",
		InnerArcIDs: []string{"!s1:inner"},
		Partitions:  []*arc.PartitionRecord{{HostID: "h1", Particles: []string{"A", "C"}}, {HostID: "h2", Particles: []string{"B"}}},
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	inner := &arc.Record{ID: "!s1:inner", OuterArcID: "!s1:outer"}
	require.NoError(t, service.Save(ctx, outer))
	require.NoError(t, service.Save(ctx, inner))
	assert.True(t, errors.Is(service.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(service.Save(ctx, &arc.Record{}), dao.ErrInvalidID))

	loaded, err := service.Load(ctx, "!s1:outer")
	require.NoError(t, err)
	assert.Equal(t, outer, loaded)
	assert.Equal(t, []string{"h1", "h2"}, loaded.Hosts())

	all, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "!s1:inner", all[0].ID)

	children, err := service.List(ctx, dao.NewParameter(arcdao.ParamOuterArcID, "!s1:outer"))
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "!s1:inner", children[0].ID)

	require.NoError(t, service.Delete(ctx, "!s1:inner"))
	_, err = service.Load(ctx, "!s1:inner")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(service.Delete(ctx, "!s1:inner"), dao.ErrNotFound))
}
