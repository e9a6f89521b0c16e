// Package wrap is the interception layer: it builds wrapper objects over
// plain dynamic state so ordinary reads and writes drive the dependency
// registry without call-site selector bookkeeping.
//
// Go has no transparent property interception, so the wrappers expose an
// explicit accessor surface as the primary API: Object over
// map[string]any and List over []any. Reads track, writes trigger:
//
//	cfg := map[string]any{"stats": map[string]any{"health": 100}}
//	obj := wrap.Keyed(reg, "config", cfg)
//	stats := obj.Get("stats").(*wrap.Object) // tracks config/"stats"
//	stats.Get("health")                      // tracks config/"stats.health"
//	stats.Set("health", 50)                  // triggers config/"stats.health"
//
// # Axes
//
// Wrappers vary along three axes: deep (default) or Shallow; mutable
// (default) or ReadOnly; key-scoped (Keyed, Anonymous) or item-scoped
// (Item). Deep wrappers recursively wrap eligible children — plain
// map[string]any objects and []any lists — extending the dot-joined path
// as they descend. Everything else (structs, typed maps and slices,
// time.Time, channels, errors and so on) passes through unwrapped, as
// does a nil map, which has no properties to intercept.
//
// All recursive wraps within one root constructor call share a single
// identity cache, so the same underlying object always yields the same
// wrapper and self-referential graphs terminate instead of recursing.
//
// # Lists
//
// Index reads track "<path>.<i>" and Len tracks "<path>.length". The
// mutating operations (Push, Pop, Shift, Unshift, Splice, Sort, Reverse,
// Fill, CopyWithin) can touch any index and the length, so they trigger
// the list's own path once as a whole. Iterating operations (ForEach,
// Map, Filter, Find, FindIndex, Some, Every, Reduce, ReduceRight) may
// read any element, so they track the whole-list path before delegating.
//
// Go slices are values, not references: a list mutation that moves the
// backing array writes the new slice back into the parent container.
// For a root-level List the wrapper itself holds the current slice;
// read it back with Raw.
//
// # Read-only
//
// Every write or delete through a read-only wrapper — including wrapped
// list mutators — fails with a *ReadOnlyError naming the offending
// selector, and the underlying target is left unmodified. This is a hard
// contract, never silently degraded.
package wrap
