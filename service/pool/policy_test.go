package pool

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Arbitrate(t *testing.T) {
	testCases := []struct {
		description string
		policy      func() Policy
		inputs      []Input
		expect      []int
	}{
		{
			description: "conservative follows demand",
			policy:      func() Policy { return NewConservative(10, zerolog.Nop()) },
			inputs:      []Input{{Demand: 3}, {Demand: 3, Free: 3}, {Demand: 5, Free: 1, InUse: 2}},
			expect:      []int{3, 0, 2},
		},
		{
			description: "conservative clamped to cap",
			policy:      func() Policy { return NewConservative(4, zerolog.Nop()) },
			inputs:      []Input{{Demand: 9}, {Demand: 9, Free: 1, InUse: 2}},
			expect:      []int{4, 1},
		},
		{
			description: "aggressive remembers peak",
			policy:      func() Policy { return NewAggressive(20, zerolog.Nop()) },
			inputs:      []Input{{Demand: 4}, {Demand: 1, InUse: 6, Free: 1}, {Demand: 0, Free: 1}},
			expect:      []int{6, 2, 8},
		},
		{
			description: "skip guard on saturated pool",
			policy:      func() Policy { return NewAggressive(4, zerolog.Nop()) },
			inputs:      []Input{{Demand: 10, InUse: 4}},
			expect:      []int{0},
		},
		{
			description: "never negative",
			policy:      func() Policy { return NewConservative(10, zerolog.Nop()) },
			inputs:      []Input{{Demand: 1, Free: 5, InUse: 3}},
			expect:      []int{0},
		},
	}
	for _, testCase := range testCases {
		policy := testCase.policy()
		for i, input := range testCase.inputs {
			delta, err := policy.Arbitrate(input)
			require.NoError(t, err, testCase.description)
			assert.Equal(t, testCase.expect[i], delta, "%v #%d", testCase.description, i)
			assert.GreaterOrEqual(t, delta, 0)
		}
	}
}

func TestPredictive_Average(t *testing.T) {
	policy := NewPredictive(10, 1, zerolog.Nop())
	var averages []int
	for i := 0; i < 3; i++ {
		_, err := policy.Arbitrate(Input{InUse: 4, Free: 1})
		require.NoError(t, err)
		averages = append(averages, policy.Average())
	}
	assert.Equal(t, []int{2, 3, 3}, averages)
	for i := 1; i < len(averages); i++ {
		assert.GreaterOrEqual(t, averages[i], averages[i-1])
		assert.LessOrEqual(t, averages[i], 4)
	}

	delta, err := NewPredictive(10, 1, zerolog.Nop()).Arbitrate(Input{Demand: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, delta)
}

func TestNewPolicy(t *testing.T) {
	for _, name := range []string{PolicyAggressive, PolicyConservative, PolicyPredictive, ""} {
		policy, err := NewPolicy(name, 8, DefaultWeight, zerolog.Nop())
		require.NoError(t, err, name)
		assert.NotNil(t, policy, name)
	}
	_, err := NewPolicy("random", 8, DefaultWeight, zerolog.Nop())
	assert.Error(t, err)
}
