// Package registry owns the multi-level dependency graph and is the sole
// authority on tracking and triggering semantics.
//
// Dependencies are addressed by selector, at four granularities:
//
//	key                    Track("settings")
//	collection + id        TrackItem("users", "u1")
//	key + property         TrackProp("settings", "theme")
//	collection + id + prop TrackItemProp("users", "u1", "score")
//
// A collection is itself a key selector, so collection-level dependencies
// live alongside plain keys.
//
// Tracking cascades upward: registering on an item property also registers
// on the item and the collection, and registering on a key property also
// registers on the key. Coarse observers therefore see fine-grained changes
// roll up, while fine observers stay isolated from unrelated changes.
// Triggering does not cascade: each trigger notifies exactly its selector,
// except TriggerItem, which also invalidates every property dependency
// nested under the item (a bulk item replacement invalidates all derived
// property reads) without touching the collection.
//
// A Registry built without an adapter is inert: every method degrades to a
// no-op, and no dependency is ever created. Instrumentation must never be
// able to crash otherwise-correct application logic.
package registry
