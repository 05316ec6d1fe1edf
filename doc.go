// Package arcs allocates plans of particles across execution hosts.
//
// A plan is a graph of particles connected through typed handles. The
// allocator resolves the plan, gives every handle it must create a storage
// key satisfying the handle's capabilities, partitions the particles across
// the registered arc hosts and starts every partition.
//
// End-users typically interact with the allocator via the Runtime façade
// exposed by the root package:
//
//	srv, _ := arcs.New(ctx, arcs.WithPlanURLs("plans/"))
//	rt := srv.Runtime()
//	info, _ := rt.StartArc(ctx, "demo", "People")
//	defer rt.StopArc(ctx, info.ID)
//
// Hosts, the worker pool, storage key preferences and the arc registry are
// configured through Config, loaded from YAML, JSON or TOML with LoadConfig.
package arcs
