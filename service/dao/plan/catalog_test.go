package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/arcs/model/capability"
	model "github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/meta"
)

func TestCatalog_Load(t *testing.T) {
	ctx := context.Background()
	catalog := New(meta.New(afs.New(), "testdata"))
	require.NoError(t, catalog.Load(ctx, "plans"))

	assert.Len(t, catalog.All(), 3)
	people, ok := catalog.Lookup("People")
	require.True(t, ok)
	assert.True(t, people.IsFrozen())
	require.Len(t, people.Handles, 2)
	handle := people.HandleByName("people")
	assert.Equal(t, model.FateCreate, handle.Fate)
	assert.Equal(t, "[Person]", handle.Type.String())
	assert.True(t, handle.Capabilities.Contains(capability.New(capability.OnDisk)))
	assert.True(t, people.HandleByName("greeting").ImmediateValue)
	assert.Equal(t, "jvm/writer", people.ParticleByName("Writer").Location)

	ephemeral, ok := catalog.Lookup("Ephemeral")
	require.True(t, ok)
	assert.Equal(t, model.DirectionReadsWrites, ephemeral.Particles[0].Connections[0].Direction)

	_, ok = catalog.Lookup("Missing")
	assert.False(t, ok)

	assert.Error(t, catalog.Load(ctx, "plans/people.yaml"))
}

func TestCatalog_Add(t *testing.T) {
	catalog := New(nil)
	require.NoError(t, catalog.Add(model.New("A")))
	assert.Error(t, catalog.Add(model.New("A")))
	assert.Error(t, catalog.Add(model.New("")))
	invalid := &model.Plan{Name: "B", Particles: []*model.Particle{{Name: "P", Location: "x", Connections: []*model.Connection{{Name: "c", Handle: "missing"}}}}}
	assert.Error(t, catalog.Add(invalid))
}

func TestCatalog_LoadDocument(t *testing.T) {
	catalog := New(meta.New(afs.New(), "testdata"))
	doc, err := catalog.LoadDocument(context.Background(), "arc.yaml")
	require.NoError(t, err)
	assert.Equal(t, "!5ee55e55:restored", doc.Meta.ArcID)
	require.Len(t, doc.Stores, 1)
	assert.Equal(t, []string{"shared", "friends"}, doc.Stores[0].Tags)
	assert.Equal(t, "Restored", doc.Plan.Name)
	assert.True(t, doc.Plan.IsResolved())

	encoded, err := EncodeDocument(doc)
	require.NoError(t, err)
	decoded, err := DecodeDocument(encoded)
	require.NoError(t, err)
	assert.Equal(t, doc.Meta, decoded.Meta)

	_, err = DecodeDocument([]byte("stores: []"))
	assert.Error(t, err)
}
