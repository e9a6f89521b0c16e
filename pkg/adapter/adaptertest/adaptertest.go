// Package adaptertest provides recording adapters and dependencies for
// testing code that consumes the adapter contracts. It is used by the
// loom packages' own tests and is equally usable by host-runtime
// bindings testing their integration.
package adaptertest

import (
	"fmt"
	"sync"

	"github.com/loomkit/loom/pkg/adapter"
)

// Journal is an ordered log of dependency activity, shared by every
// Dep created from the same Recorder. Tests use it to assert on the
// relative order of notifications.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// append records one entry.
func (j *Journal) append(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

// Entries returns a copy of the logged entries in order.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Reset discards all logged entries.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Dep is a recording dependency. It counts Depend/Notify calls and logs
// them to the owning Recorder's Journal.
type Dep struct {
	id      int
	journal *Journal

	mu       sync.Mutex
	label    string
	depends  int
	notifies int
}

// Depend implements adapter.Dependency.
func (d *Dep) Depend() {
	d.mu.Lock()
	d.depends++
	d.mu.Unlock()
	d.journal.append("depend:" + d.name())
}

// Notify implements adapter.Dependency.
func (d *Dep) Notify() {
	d.mu.Lock()
	d.notifies++
	d.mu.Unlock()
	d.journal.append("notify:" + d.name())
}

// ID returns the creation-order index of this dependency (0-based).
func (d *Dep) ID() int { return d.id }

// Depends returns how many times Depend has been called.
func (d *Dep) Depends() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.depends
}

// Notifies returns how many times Notify has been called.
func (d *Dep) Notifies() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notifies
}

// Label attaches a human-readable name used in Journal entries, so
// order assertions can name selectors instead of creation indexes.
func (d *Dep) Label(label string) *Dep {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.label = label
	return d
}

func (d *Dep) name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.label != "" {
		return d.label
	}
	return fmt.Sprintf("#%d", d.id)
}

// Recorder is a minimal recording adapter: it implements only Create,
// so consumers exercise the absent-probe defaults (always in scope,
// dispose requests dropped).
type Recorder struct {
	journal Journal

	mu      sync.Mutex
	created []*Dep
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Create implements adapter.Adapter.
func (r *Recorder) Create() adapter.Dependency {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Dep{id: len(r.created), journal: &r.journal}
	r.created = append(r.created, d)
	return d
}

// Created returns every dependency this adapter has produced, in order.
func (r *Recorder) Created() []*Dep {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Dep, len(r.created))
	copy(out, r.created)
	return out
}

// CreatedCount returns how many dependencies this adapter has produced.
func (r *Recorder) CreatedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// Journal returns the shared activity log for this adapter's dependencies.
func (r *Recorder) Journal() *Journal {
	return &r.journal
}

// Scoped is a Recorder with a controllable scope probe.
type Scoped struct {
	Recorder

	mu     sync.Mutex
	active bool
}

// NewScoped returns a Scoped recorder whose probe starts in the given state.
func NewScoped(active bool) *Scoped {
	s := &Scoped{}
	s.active = active
	return s
}

// InScope implements adapter.ScopeReporter.
func (s *Scoped) InScope() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive flips the scope probe.
func (s *Scoped) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// DisposeCall records one OnDispose forwarding.
type DisposeCall struct {
	Fn  func()
	Dep adapter.Dependency
}

// Disposable is a Recorder that also records dispose-hook registrations.
type Disposable struct {
	Recorder

	mu       sync.Mutex
	disposed []DisposeCall
}

// NewDisposable returns an empty Disposable recorder.
func NewDisposable() *Disposable {
	return &Disposable{}
}

// OnDispose implements adapter.DisposeNotifier.
func (d *Disposable) OnDispose(fn func(), dep adapter.Dependency) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disposed = append(d.disposed, DisposeCall{Fn: fn, Dep: dep})
}

// DisposeCalls returns the recorded dispose registrations in order.
func (d *Disposable) DisposeCalls() []DisposeCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DisposeCall, len(d.disposed))
	copy(out, d.disposed)
	return out
}

// Native is a Recorder exposing a fake native wrap primitive, for
// exercising the interception layer's fast-path delegation.
type Native struct {
	Recorder

	// Wrap is invoked by WrapReactive. If nil, values pass through as-is.
	Wrap func(v any) any
}

// NewNative returns a Native recorder using the given wrap hook.
func NewNative(wrap func(v any) any) *Native {
	return &Native{Wrap: wrap}
}

// WrapReactive implements adapter.ReactiveWrapper.
func (n *Native) WrapReactive(v any) any {
	if n.Wrap == nil {
		return v
	}
	return n.Wrap(v)
}
