package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/model/types"
)

func person() *types.Type {
	return types.Entity(&types.Schema{Names: []string{"Person"}, Fields: map[string]string{"name": "Text"}})
}

func samplePlan() *Plan {
	return &Plan{
		Name: "Sample",
		Handles: []*Handle{
			{Name: "people", Fate: FateCreate, Type: types.Collection(person())},
			{Name: "selected", Fate: FateCreate, Type: types.Singleton(person())},
			{Name: "shared", Fate: FateUse, Type: types.Singleton(person()), StorageKey: "ramdisk://shared"},
		},
		Particles: []*Particle{
			{Name: "A", Location: "go://a", Connections: []*Connection{{Name: "in", Handle: "people", Direction: DirectionReads}}},
			{Name: "B", Location: "go://b", Connections: []*Connection{{Name: "out", Handle: "selected", Direction: DirectionWrites}}},
			{Name: "C", Location: "go://c", Connections: []*Connection{{Name: "in", Handle: "people"}, {Name: "peer", Handle: "shared"}}},
		},
	}
}

func TestPlan_Restrict(t *testing.T) {
	aPlan := samplePlan()
	restricted := aPlan.Restrict("A", "C")

	expect := []*Particle{aPlan.Particles[0], aPlan.Particles[2]}
	if diff := cmp.Diff(expect, restricted.Particles); diff != "" {
		t.Errorf("restricted particles mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, h := range restricted.Handles {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"people", "shared"}, names)

	restricted.Particles[0].Name = "changed"
	assert.Equal(t, "A", aPlan.Particles[0].Name)
}

func TestPlan_MergeInto(t *testing.T) {
	aPlan := samplePlan()
	target := New("")
	require.NoError(t, aPlan.MergeInto(target))
	assert.Equal(t, "Sample", target.Name)
	assert.Len(t, target.Handles, 3)
	assert.Len(t, target.Particles, 3)

	require.NoError(t, aPlan.MergeInto(target))
	assert.Len(t, target.Handles, 3)
	assert.Len(t, target.Particles, 3)

	assert.Error(t, aPlan.MergeInto(New("x").Freeze()))
}

func TestPlan_Resolution(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(p *Plan)
		expect      bool
	}{
		{description: "create handles need no key", mutate: func(p *Plan) {}, expect: true},
		{description: "use handle without key", mutate: func(p *Plan) { p.Handles[2].StorageKey = "" }, expect: false},
		{description: "unknown fate", mutate: func(p *Plan) { p.Handles[0].Fate = FateUnknown }, expect: false},
		{description: "missing location", mutate: func(p *Plan) { p.Particles[1].Location = "" }, expect: false},
		{description: "dangling connection", mutate: func(p *Plan) { p.Particles[0].Connections[0].Handle = "ghost" }, expect: false},
		{description: "unbound variable", mutate: func(p *Plan) { p.Handles[1].Type = types.Variable("t", nil) }, expect: false},
	}
	for _, testCase := range testCases {
		aPlan := samplePlan()
		testCase.mutate(aPlan)
		aPlan.TryResolve()
		assert.Equal(t, testCase.expect, aPlan.IsResolved(), testCase.description)
	}
}

func TestPlan_TryResolveBindsConstraint(t *testing.T) {
	aPlan := samplePlan()
	aPlan.Handles[1].Type = types.Variable("t", person())
	assert.False(t, aPlan.IsResolved())
	aPlan.TryResolve()
	assert.True(t, aPlan.IsResolved())
}

func TestPlan_Validate(t *testing.T) {
	aPlan := samplePlan()
	assert.Empty(t, aPlan.Validate())
	aPlan.Particles = append(aPlan.Particles, &Particle{Name: "A", Location: "go://a"})
	aPlan.Handles = append(aPlan.Handles, &Handle{Name: "people"})
	assert.Len(t, aPlan.Validate(), 2)
}

func TestPlan_CloneUnfreezes(t *testing.T) {
	aPlan := samplePlan().Freeze()
	clone := aPlan.Clone()
	assert.True(t, aPlan.IsFrozen())
	assert.False(t, clone.IsFrozen())
	clone.Handles[0].Fate = FateUse
	assert.Equal(t, FateCreate, aPlan.Handles[0].Fate)
}
