package adapter

import "errors"

// ErrNoAdapters is returned by NewMulti when given nothing to fan out to.
var ErrNoAdapters = errors.New("loom: multi adapter requires at least one backing adapter")

// Multi fans one logical dependency out to several host runtimes.
// It implements Adapter (and the optional capabilities) itself, so
// anything that consumes a single adapter can observe state through
// every backing runtime at once.
type Multi struct {
	adapters []Adapter
}

// NewMulti builds a Multi over the given backing adapters.
// It fails immediately if the collection is empty or contains a nil
// adapter; a misconfigured fan-out must never be discovered lazily.
func NewMulti(adapters []Adapter) (*Multi, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}
	for _, a := range adapters {
		if a == nil {
			return nil, ErrNoAdapters
		}
	}
	// Copy so later mutation of the caller's slice can't change membership.
	own := make([]Adapter, len(adapters))
	copy(own, adapters)
	return &Multi{adapters: own}, nil
}

// Adapters returns the backing adapters in fan-out order.
func (m *Multi) Adapters() []Adapter {
	out := make([]Adapter, len(m.adapters))
	copy(out, m.adapters)
	return out
}

// Create builds one Dependency per backing adapter and bundles them into
// a Composite handle.
func (m *Multi) Create() Dependency {
	members := make([]member, len(m.adapters))
	for i, a := range m.adapters {
		members[i] = member{adapter: a, dep: a.Create()}
	}
	return &Composite{members: members}
}

// InScope reports whether any backing adapter is inside an observing
// context. Adapters without a scope probe count as active, so the result
// is a conservative OR: tracking happens unless every member is
// provably idle.
func (m *Multi) InScope() bool {
	for _, a := range m.adapters {
		if InScope(a) {
			return true
		}
	}
	return false
}

// OnDispose forwards fn to every backing adapter that supports a dispose
// hook, passing each one its own sub-dependency from the composite.
// If dep is not a Composite produced by this package the request is
// dropped: there are no sub-dependencies to route.
func (m *Multi) OnDispose(fn func(), dep Dependency) {
	comp, ok := dep.(*Composite)
	if !ok {
		return
	}
	for _, mem := range comp.members {
		OnDispose(mem.adapter, fn, mem.dep)
	}
}

// member pairs a backing adapter with the dependency it created, so
// dispose requests can be routed back to the right runtime.
type member struct {
	adapter Adapter
	dep     Dependency
}

// Composite is the dependency handle produced by Multi. It holds one
// sub-dependency per backing runtime.
type Composite struct {
	members []member
}

// Depend registers on every member dependency.
func (c *Composite) Depend() {
	for _, m := range c.members {
		m.dep.Depend()
	}
}

// Notify notifies every member dependency unconditionally, regardless of
// which runtime's context performed the triggering write.
func (c *Composite) Notify() {
	for _, m := range c.members {
		m.dep.Notify()
	}
}

// Len returns the number of member dependencies.
func (c *Composite) Len() int {
	return len(c.members)
}
