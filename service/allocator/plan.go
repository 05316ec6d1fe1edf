package allocator

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/arcs/internal/idgen"
	aplan "github.com/viant/arcs/model/plan"
)

// ResolvePlan binds type variables and checks the plan can be instantiated.
// A frozen plan is resolved on a clone.
func (s *Service) ResolvePlan(ctx context.Context, arcID string, aPlan *aplan.Plan) (*aplan.Plan, error) {
	if aPlan == nil {
		return nil, fmt.Errorf("%w: plan was nil", ErrUnresolvedPlan)
	}
	ret := aPlan
	if ret.IsFrozen() {
		ret = ret.Clone()
	}
	ret.TryResolve()
	if issues := ret.Unresolved(); len(issues) > 0 {
		return nil, fmt.Errorf("%w %v in arc %v: %w", ErrUnresolvedPlan, aPlan.Name, arcID, errors.Join(issues...))
	}
	return ret, nil
}

// AssignStorageKeys gives every create or copy handle, except immediate
// values, an id and a storage key and flips its fate to use. A frozen plan
// is processed on a clone. Handles already in use are left untouched.
func (s *Service) AssignStorageKeys(ctx context.Context, arcID string, aPlan *aplan.Plan, generator *idgen.Generator) (*aplan.Plan, error) {
	if generator == nil {
		if info, ok := s.ArcInfo(arcID); ok {
			generator = info.Generator
		} else {
			generator = s.generator
		}
	}
	ret := aPlan
	if ret.IsFrozen() {
		ret = ret.Clone()
	}
	for _, handle := range ret.Handles {
		if !handle.Fate.NeedsStorageKey() || handle.ImmediateValue {
			continue
		}
		switch handle.Fate {
		case aplan.FateCreate:
			if !handle.Type.MaybeResolve() {
				return nil, fmt.Errorf("%w: handle %v type %v can't be resolved", ErrUnresolvedPlan, handle.Name, handle.Type)
			}
		default:
			if !handle.Type.IsResolved() {
				return nil, fmt.Errorf("%w: handle %v type %v is not resolved", ErrUnresolvedPlan, handle.Name, handle.Type)
			}
		}
		if handle.Fate != aplan.FateCreate || handle.ID == "" {
			handle.ID = generator.NewChildID(arcID, handle.Name)
		}
		key, err := s.resolver.CreateStorageKey(ctx, arcID, handle.Capabilities, handle.Type, handle.ID)
		if err != nil {
			return nil, err
		}
		handle.StorageKey = key.String()
		handle.Fate = aplan.FateUse
	}
	if issues := ret.Unresolved(); len(issues) > 0 {
		return nil, fmt.Errorf("%w %v in arc %v: %w", ErrUnresolvedPlan, ret.Name, arcID, errors.Join(issues...))
	}
	return ret, nil
}
