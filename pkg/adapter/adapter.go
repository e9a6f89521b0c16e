package adapter

// Dependency is one observable slot supplied by a host runtime.
// It is the minimal common denominator every runtime must implement.
type Dependency interface {
	// Depend registers the currently-running observer of the host runtime
	// on this dependency. Called on the read path.
	Depend()

	// Notify tells the host runtime that this dependency changed, so it
	// can re-run whatever observers it registered. Called on the write path.
	Notify()
}

// Adapter is the factory a host reactive runtime supplies to loom.
// Create is the only required capability; see ScopeReporter,
// DisposeNotifier and ReactiveWrapper for the optional ones.
type Adapter interface {
	// Create returns a fresh Dependency bound to the host runtime.
	Create() Dependency
}

// ScopeReporter is an optional Adapter capability reporting whether the
// host runtime is currently inside an observing context. Adapters that
// don't implement it are treated as always in scope.
type ScopeReporter interface {
	// InScope reports whether a read happening now would be observed.
	InScope() bool
}

// DisposeNotifier is an optional Adapter capability for running a callback
// when the host runtime's current observing context ends.
type DisposeNotifier interface {
	// OnDispose arranges for fn to run when the context that registered
	// dep is torn down.
	OnDispose(fn func(), dep Dependency)
}

// ReactiveWrapper is an optional Adapter capability exposing the host
// runtime's own "wrap as reactive" primitive. When present, mutable
// key-scoped wraps may delegate to it instead of the generic
// interception layer. Purely an optimization; see pkg/wrap.
type ReactiveWrapper interface {
	// WrapReactive returns the host runtime's native reactive wrapper
	// around v.
	WrapReactive(v any) any
}

// InScope reports whether a is currently inside an observing context,
// applying the absent-probe default: adapters without a ScopeReporter
// count as always active.
func InScope(a Adapter) bool {
	if sr, ok := a.(ScopeReporter); ok {
		return sr.InScope()
	}
	return true
}

// OnDispose forwards a dispose request to a if it supports the hook.
// Adapters without a DisposeNotifier drop the request silently.
func OnDispose(a Adapter, fn func(), dep Dependency) {
	if dn, ok := a.(DisposeNotifier); ok {
		dn.OnDispose(fn, dep)
	}
}
