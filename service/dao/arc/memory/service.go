package memory

import (
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/dao"
	arcdao "github.com/viant/arcs/service/dao/arc"
	"github.com/viant/arcs/service/dao/criteria"
	"github.com/viant/arcs/service/dao/store"
)

// New creates an in-memory arc record store.
func New() dao.Service[string, arc.Record] {
	return store.NewMemoryStore[string, arc.Record](func(r *arc.Record) string { return r.ID }).
		WithFilter(func(r *arc.Record, parameters []*dao.Parameter) bool {
			return criteria.Match(arcdao.ParamOuterArcID, r.OuterArcID, parameters)
		})
}
