// Package adapter defines the contract between loom and a host reactive
// runtime, plus the Multi adapter that fans one logical dependency out to
// several runtimes at once.
//
// A host runtime plugs in by implementing Adapter: a factory for Dependency
// handles. Everything else is optional. Capabilities beyond Create are
// discovered by type assertion:
//
//	type Adapter interface{ Create() Dependency }
//	type ScopeReporter interface{ InScope() bool }
//	type DisposeNotifier interface{ OnDispose(fn func(), dep Dependency) }
//	type ReactiveWrapper interface{ WrapReactive(v any) any }
//
// An adapter that doesn't report scope is treated as always in scope; an
// adapter without a dispose hook silently drops dispose requests. The
// helpers InScope and OnDispose apply those defaults so callers never
// probe capabilities themselves.
//
// # Multiple runtimes
//
// NewMulti bundles several adapters behind the Adapter interface. Its
// dependencies are Composite handles: Depend and Notify hit every member
// unconditionally, and InScope is a conservative OR, so tracking is never
// skipped just because one runtime happens to be idle.
package adapter
