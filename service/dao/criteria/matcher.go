// Package criteria evaluates dao list parameters against record fields.
package criteria

import (
	"github.com/viant/arcs/service/dao"
)

// Match reports whether value satisfies every parameter named name;
// parameters with other names, or without textual values, are ignored.
func Match(name, value string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		values := parameter.Values()
		if values == nil {
			continue
		}
		found := false
		for _, candidate := range values {
			if candidate == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
