package arcs

import (
	"context"
	"fmt"

	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/model/capability"
	aplan "github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/model/types"
	"github.com/viant/arcs/service/allocator"
	"github.com/viant/arcs/service/dao"
	"github.com/viant/arcs/service/dao/plan"
	"github.com/viant/arcs/service/storagekey"
)

// Runtime is the high level façade over the allocator.
type Runtime struct {
	service *Service
}

// LoadPlans adds the plans at URL, a YAML file or folder, to the catalog.
func (r *Runtime) LoadPlans(ctx context.Context, URL string) error {
	return r.service.catalog.Load(ctx, URL)
}

// DecodePlans decodes YAML plans and adds them to the catalog.
func (r *Runtime) DecodePlans(data []byte) ([]*aplan.Plan, error) {
	plans, err := plan.DecodePlans(data)
	if err != nil {
		return nil, err
	}
	if err = r.service.catalog.Add(plans...); err != nil {
		return nil, err
	}
	return plans, nil
}

// Plans returns the catalog plans.
func (r *Runtime) Plans() []*aplan.Plan {
	return r.service.catalog.All()
}

// StartArc creates an arc and runs the named catalog plan in it.
func (r *Runtime) StartArc(ctx context.Context, arcName, planName string) (*arc.Info, error) {
	return r.service.allocator.StartArc(ctx, arc.Options{ArcName: arcName, PlanName: planName})
}

// StartInnerArc creates an arc nested in outerArcID and runs planName in it.
func (r *Runtime) StartInnerArc(ctx context.Context, outerArcID, arcName, planName string) (*arc.Info, error) {
	if _, ok := r.service.allocator.ArcInfo(outerArcID); !ok {
		return nil, fmt.Errorf("%w: %v", allocator.ErrArcNotFound, outerArcID)
	}
	return r.service.allocator.StartArc(ctx, arc.Options{ArcName: arcName, PlanName: planName, OuterArcID: outerArcID})
}

// RunPlan runs aPlan in an existing arc.
func (r *Runtime) RunPlan(ctx context.Context, arcID string, aPlan *aplan.Plan) error {
	info, ok := r.service.allocator.ArcInfo(arcID)
	if !ok {
		return fmt.Errorf("%w: %v", allocator.ErrArcNotFound, arcID)
	}
	_, err := r.service.allocator.RunPlanInArc(ctx, info, aPlan, arc.Options{ArcID: arcID}, false)
	return err
}

// StopArc stops an arc and its inner arcs.
func (r *Runtime) StopArc(ctx context.Context, arcID string) error {
	return r.service.allocator.StopArc(ctx, arcID)
}

// Deserialize restores a serialized arc document located at URL.
func (r *Runtime) Deserialize(ctx context.Context, URL string) (*arc.Info, error) {
	return r.service.allocator.Deserialize(ctx, allocator.DeserializeOptions{URL: URL})
}

// Arc returns a running arc.
func (r *Runtime) Arc(arcID string) (*arc.Info, bool) {
	return r.service.allocator.ArcInfo(arcID)
}

// Records lists the persisted arc records.
func (r *Runtime) Records(ctx context.Context, parameters ...*dao.Parameter) ([]*arc.Record, error) {
	return r.service.allocator.Records(ctx, parameters...)
}

// StorageKey creates the storage key a create handle with the given type
// expression and capability annotations gets in arcID.
func (r *Runtime) StorageKey(ctx context.Context, arcID, handleID, typeExpr string, annotations ...string) (storagekey.StorageKey, error) {
	capabilities, err := capability.FromAnnotations(annotations...)
	if err != nil {
		return nil, err
	}
	aType, err := types.Parse(typeExpr)
	if err != nil {
		return nil, err
	}
	return r.service.resolver.CreateStorageKey(ctx, arcID, capabilities, aType, handleID)
}
