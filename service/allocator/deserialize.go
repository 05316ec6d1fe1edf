package allocator

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/model/arc"
	aplan "github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/dao/plan"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/host"
	"github.com/viant/arcs/tracing"
)

// DeserializeOptions locate a serialized arc: either Document or URL.
type DeserializeOptions struct {
	URL      string
	Document *plan.Document
}

// Deserialize restores a serialized arc: it registers the arc under its
// original id, starts it on the default host with its stores activated and
// reinstantiates its plan. When the host start fails the arc is unregistered.
func (s *Service) Deserialize(ctx context.Context, options DeserializeOptions) (info *arc.Info, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.Deserialize", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	doc := options.Document
	if doc == nil {
		if doc, err = s.catalog.LoadDocument(ctx, options.URL); err != nil {
			return nil, err
		}
	}
	if err = doc.Validate(); err != nil {
		return nil, err
	}
	docPlan := doc.Plan
	if docPlan == nil {
		docPlan = aplan.New("")
	}
	if s.defaultHost == nil {
		return nil, fmt.Errorf("no default host to deserialize arc %v", doc.Meta.Name)
	}
	generator := s.generator
	arcID := doc.Meta.ArcID
	if arcID == "" {
		arcID = generator.NewArcID(doc.Meta.Name)
	} else if session, ok := idgen.SessionOf(arcID); ok {
		generator = idgen.NewSessionWith(session)
	}
	span.WithAttributes(map[string]string{"arc.id": arcID})

	s.mux.Lock()
	if _, ok := s.arcs[arcID]; ok {
		s.mux.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrArcExists, arcID)
	}
	info = arc.NewInfo(arcID, generator)
	info.StorageKey = doc.Meta.StorageKey
	s.arcs[arcID] = info
	s.mux.Unlock()

	for _, store := range doc.Stores {
		if err = info.RegisterStore(store, store.Tags...); err != nil {
			s.unregister(arcID)
			return nil, err
		}
	}
	stores := storePlan(docPlan, doc.Stores)
	arcHost := s.registerHost(s.defaultHost)
	runOptions := arc.Options{ArcID: arcID, ArcName: doc.Meta.Name, PlanName: docPlan.Name, StorageKeyPrefix: doc.Meta.StorageKey}
	partition := &arc.Partition{HostID: arcHost.ID(), ArcID: arcID, Plan: stores, Options: runOptions, Reinstantiate: true}
	info.AddPartition(partition)
	if _, err = arcHost.Start(ctx, partition); err != nil {
		err = fmt.Errorf("failed to start arc %v on host %v: %w", arcID, arcHost.ID(), err)
		if stopErr := arcHost.Stop(ctx, arcID); stopErr != nil && !errors.Is(stopErr, host.ErrArcNotFound) {
			s.logger.Warn().Err(stopErr).Str("arc", arcID).Msg("failed to stop arc after deserialization failure")
		}
		s.unregister(arcID)
		s.notify(ctx, info, event.TypeArcFailed, docPlan.Name, err)
		return nil, err
	}
	if err = info.Merge(stores); err != nil {
		return nil, err
	}
	if !docPlan.IsEmpty() {
		if _, err = s.RunPlanInArc(ctx, info, docPlan, runOptions, true); err != nil {
			return nil, err
		}
	}
	for _, store := range doc.Stores {
		if len(store.Tags) == 0 {
			continue
		}
		if !info.TagHandle(store.ID, store.Tags...) && store.Name != "" {
			info.TagHandle(store.Name, store.Tags...)
		}
	}
	s.persist(ctx, info)
	s.notify(ctx, info, event.TypeArcDeserialized, docPlan.Name, nil)
	s.logger.Info().Str("arc", arcID).Int("stores", len(doc.Stores)).Msg("arc deserialized")
	return info, nil
}

// storePlan returns use handles for the document stores that no handle of
// docPlan already binds, so they are activated on the arc and kept in its
// active plan.
func storePlan(docPlan *aplan.Plan, stores []*arc.StoreInfo) *aplan.Plan {
	ret := aplan.New(docPlan.Name)
	bound := map[string]bool{}
	for _, handle := range docPlan.Handles {
		for _, key := range []string{handle.ID, handle.Name, handle.StorageKey} {
			if key != "" {
				bound[key] = true
			}
		}
	}
	for _, store := range stores {
		if bound[store.ID] || (store.StorageKey != "" && bound[store.StorageKey]) || (store.Name != "" && bound[store.Name]) {
			continue
		}
		name := store.Name
		if name == "" {
			name = store.ID
		}
		ret.Handles = append(ret.Handles, &aplan.Handle{
			ID:         store.ID,
			Name:       name,
			Fate:       aplan.FateUse,
			Type:       store.Type.Clone(),
			StorageKey: store.StorageKey,
			Tags:       append([]string(nil), store.Tags...),
		})
	}
	return ret
}

func (s *Service) unregister(arcID string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.arcs, arcID)
}
