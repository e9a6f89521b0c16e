// Package loom is a runtime-agnostic dependency-tracking layer. It sits
// between an application's mutable state and any number of pluggable
// host reactive runtimes, letting them observe fine-grained reads and
// writes of an object graph without the state owner adopting a specific
// runtime API.
//
// # Core Types
//
// Tracker composes a dependency registry and an event channel:
//
//	tracker, err := loom.New(loom.Config{Adapter: myRuntime})
//	tracker.Track("settings")               // read side: register observer
//	tracker.Trigger("settings")             // write side: notify observers
//	tracker.TriggerEmit("settings", "settings.changed", payload)
//
// Selectors address four granularities: whole key, (collection, id)
// item, (key, property) and (collection, id, property). Tracking
// cascades upward so coarse observers see fine-grained changes roll up;
// triggering notifies exactly its selector. See pkg/registry for the
// full semantics.
//
// # Wrappers
//
// The interception layer in pkg/wrap turns ordinary reads and writes of
// dynamic object graphs into track/trigger calls:
//
//	obj := tracker.Wrap("config", map[string]any{"stats": map[string]any{"health": 100}})
//	stats := obj.Get("stats").(*wrap.Object) // tracked read
//	stats.Set("health", 50)                  // triggered write
//
// # Host runtimes
//
// A runtime plugs in by implementing adapter.Adapter; several runtimes
// observe the same state concurrently through adapter.NewMulti. With no
// adapter configured every tracking and triggering operation degrades to
// a safe no-op: instrumentation must never crash application logic.
//
// # Threading
//
// The tracker is a single-process, synchronous bookkeeping layer: every
// operation completes before returning, and observer scheduling is the
// host runtime's concern. Internal state is nonetheless mutex-guarded,
// so incidental cross-goroutine use does not corrupt the registry.
package loom
