package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/arcs/service/dao"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		description string
		value       string
		parameters  []*dao.Parameter
		expect      bool
	}{
		{description: "no parameters", value: "a", expect: true},
		{description: "single match", value: "a", parameters: []*dao.Parameter{dao.NewParameter("OuterArcID", "a")}, expect: true},
		{description: "single mismatch", value: "b", parameters: []*dao.Parameter{dao.NewParameter("OuterArcID", "a")}, expect: false},
		{description: "any of", value: "b", parameters: []*dao.Parameter{dao.NewParameter("OuterArcID", "a", "b")}, expect: true},
		{description: "non textual ignored", value: "b", parameters: []*dao.Parameter{{Name: "OuterArcID", Value: 3}}, expect: true},
		{description: "other name ignored", value: "b", parameters: []*dao.Parameter{dao.NewParameter("Host", "a")}, expect: true},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Match("OuterArcID", testCase.value, testCase.parameters), testCase.description)
	}
}
