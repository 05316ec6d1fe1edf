package arc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/model/plan"
)

func TestInfo_InnerArcs(t *testing.T) {
	info := NewInfo("!s:outer", idgen.NewSessionWith("s"))
	info.AddInnerArc("!s:inner1")
	info.AddInnerArc("!s:inner2")
	info.AddInnerArc("!s:inner1")
	assert.Equal(t, []string{"!s:inner1", "!s:inner2"}, info.InnerArcIDs())
	info.RemoveInnerArc("!s:inner1")
	assert.Equal(t, []string{"!s:inner2"}, info.InnerArcIDs())
}

func TestInfo_Record(t *testing.T) {
	info := NewInfo("!s:a", idgen.NewSessionWith("s"))
	info.AddPartition(&Partition{HostID: "h1", ArcID: info.ID, Plan: &plan.Plan{Particles: []*plan.Particle{{Name: "A"}, {Name: "C"}}}})
	info.AddPartition(&Partition{HostID: "h2", ArcID: info.ID, Plan: &plan.Plan{Particles: []*plan.Particle{{Name: "B"}}}, Reinstantiate: true})
	info.AddPartition(&Partition{HostID: "h1", ArcID: info.ID})

	record := info.Record()
	assert.Equal(t, "s", record.Session)
	require.Len(t, record.Partitions, 3)
	assert.Equal(t, []string{"A", "C"}, record.Partitions[0].Particles)
	assert.True(t, record.Partitions[1].Reinstantiate)
	assert.Equal(t, []string{"h1", "h2"}, record.Hosts())
}

func TestInfo_RegisterStore(t *testing.T) {
	info := NewInfo("!s:a", nil)
	require.NoError(t, info.RegisterStore(&StoreInfo{ID: "s1", StorageKey: "volatile://!s:a/s1"}, "tag1"))
	assert.Error(t, info.RegisterStore(&StoreInfo{ID: "s1"}))
	assert.Equal(t, []string{"tag1"}, info.StoreTags("s1"))
	assert.NotNil(t, info.Store("s1"))
	assert.Len(t, info.Stores(), 1)
}

func TestInfo_MergeConcurrent(t *testing.T) {
	info := NewInfo("!s:a", nil)
	var wg sync.WaitGroup
	for _, name := range []string{"A", "B", "C", "D"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, info.Merge(&plan.Plan{Particles: []*plan.Particle{{Name: name}}}))
		}(name)
	}
	wg.Wait()
	assert.Len(t, info.ActivePlan().Particles, 4)
}
