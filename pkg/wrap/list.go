package wrap

import (
	"sort"
	"strconv"
)

// List intercepts access to a plain []any. Index reads track
// "<path>.<index>", length reads track "<path>.length", and the mutating
// operations trigger the list's own path once as a whole: any of them
// can touch every index and the length, so aggregate triggering is the
// conservative policy.
type List struct {
	sc    scope
	path  string
	elems []any
	opts  options
	cache *cache

	// store writes the current slice back into the parent container when
	// a mutation moves or resizes the backing array. nil for root lists,
	// which hold the slice themselves.
	store func([]any)
}

// newRootList builds a root List with a fresh identity cache.
func newRootList(sc scope, target []any, opts options) *List {
	l := &List{sc: sc, elems: target, opts: opts, cache: newCache()}
	if id, ok := identityOf(target); ok {
		l.cache.insert(id, l)
	}
	return l
}

// Key returns the root key for key-scoped wrappers, or "" for
// item-scoped ones.
func (l *List) Key() string { return l.sc.key }

// Path returns this wrapper's dot-joined path from the root.
func (l *List) Path() string { return l.path }

// ReadOnly reports whether mutations through this wrapper are rejected.
func (l *List) ReadOnly() bool { return l.opts.readOnly }

// lengthPath is the pseudo-property tracked by Len.
func (l *List) lengthPath() string {
	return joinPath(l.path, "length")
}

func (l *List) indexPath(i int) string {
	return joinPath(l.path, strconv.Itoa(i))
}

// Len returns the element count, tracking "<path>.length".
func (l *List) Len() int {
	l.sc.track(l.lengthPath())
	return len(l.elems)
}

// Index reads one element, tracking "<path>.<i>". Out-of-range reads
// return nil, like a missing property. Deep mode wraps eligible
// elements, sharing the traversal's identity cache.
func (l *List) Index(i int) any {
	l.sc.track(l.indexPath(i))
	if i < 0 || i >= len(l.elems) {
		return nil
	}
	if l.opts.shallow {
		return l.elems[i]
	}
	return l.wrapElem(i)
}

// Raw returns the current underlying slice without tracking.
func (l *List) Raw() []any {
	return l.elems
}

// SetIndex writes one element and triggers exactly "<path>.<i>": a
// single-index write is a property write, not a structural change.
func (l *List) SetIndex(i int, v any) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "set index " + strconv.Itoa(i), Selector: l.sc.describe(l.indexPath(i))}
	}
	if i < 0 || i >= len(l.elems) {
		return &IndexRangeError{Selector: l.sc.describe(l.path), Index: i, Len: len(l.elems)}
	}
	l.elems[i] = v
	l.sc.trigger(l.indexPath(i))
	return nil
}

// =============================================================================
// Mutating operations: delegate to the native slice operation, write the
// result back, then trigger the whole path once.
// =============================================================================

// Push appends elements to the end.
func (l *List) Push(vs ...any) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "push", Selector: l.sc.describe(l.path)}
	}
	l.replace(append(l.elems, vs...))
	l.sc.trigger(l.path)
	return nil
}

// Pop removes and returns the last element. Popping an empty list
// returns nil without triggering; there is nothing to invalidate.
func (l *List) Pop() (any, error) {
	if l.opts.readOnly {
		return nil, &ReadOnlyError{Op: "pop", Selector: l.sc.describe(l.path)}
	}
	n := len(l.elems)
	if n == 0 {
		return nil, nil
	}
	v := l.elems[n-1]
	l.elems[n-1] = nil // release the reference
	l.replace(l.elems[:n-1])
	l.sc.trigger(l.path)
	return v, nil
}

// Shift removes and returns the first element.
func (l *List) Shift() (any, error) {
	if l.opts.readOnly {
		return nil, &ReadOnlyError{Op: "shift", Selector: l.sc.describe(l.path)}
	}
	if len(l.elems) == 0 {
		return nil, nil
	}
	v := l.elems[0]
	l.replace(append([]any(nil), l.elems[1:]...))
	l.sc.trigger(l.path)
	return v, nil
}

// Unshift inserts elements at the front.
func (l *List) Unshift(vs ...any) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "unshift", Selector: l.sc.describe(l.path)}
	}
	ns := make([]any, 0, len(vs)+len(l.elems))
	ns = append(ns, vs...)
	ns = append(ns, l.elems...)
	l.replace(ns)
	l.sc.trigger(l.path)
	return nil
}

// Splice removes deleteCount elements at start, inserts items in their
// place, and returns the removed elements. A negative start counts back
// from the end; start and deleteCount are clamped to the bounds.
func (l *List) Splice(start, deleteCount int, items ...any) ([]any, error) {
	if l.opts.readOnly {
		return nil, &ReadOnlyError{Op: "splice", Selector: l.sc.describe(l.path)}
	}
	n := len(l.elems)
	start = normIndex(start, n)
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := append([]any(nil), l.elems[start:start+deleteCount]...)
	ns := make([]any, 0, n-deleteCount+len(items))
	ns = append(ns, l.elems[:start]...)
	ns = append(ns, items...)
	ns = append(ns, l.elems[start+deleteCount:]...)
	l.replace(ns)
	l.sc.trigger(l.path)
	return removed, nil
}

// Sort reorders the elements stably by the given comparison.
func (l *List) Sort(less func(a, b any) bool) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "sort", Selector: l.sc.describe(l.path)}
	}
	sort.SliceStable(l.elems, func(i, j int) bool {
		return less(l.elems[i], l.elems[j])
	})
	l.sc.trigger(l.path)
	return nil
}

// Reverse reverses the elements in place.
func (l *List) Reverse() error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "reverse", Selector: l.sc.describe(l.path)}
	}
	for i, j := 0, len(l.elems)-1; i < j; i, j = i+1, j-1 {
		l.elems[i], l.elems[j] = l.elems[j], l.elems[i]
	}
	l.sc.trigger(l.path)
	return nil
}

// Fill overwrites the half-open range [start, end) with v. Negative
// indexes count back from the end; out-of-bounds values are clamped.
func (l *List) Fill(v any, start, end int) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "fill", Selector: l.sc.describe(l.path)}
	}
	n := len(l.elems)
	start = normIndex(start, n)
	end = normIndex(end, n)
	for i := start; i < end; i++ {
		l.elems[i] = v
	}
	l.sc.trigger(l.path)
	return nil
}

// CopyWithin copies the half-open range [start, end) to the position
// target, without changing the length. Negative indexes count back from
// the end; out-of-bounds values are clamped.
func (l *List) CopyWithin(target, start, end int) error {
	if l.opts.readOnly {
		return &ReadOnlyError{Op: "copyWithin", Selector: l.sc.describe(l.path)}
	}
	n := len(l.elems)
	target = normIndex(target, n)
	start = normIndex(start, n)
	end = normIndex(end, n)
	if start < end && target < n {
		copy(l.elems[target:], l.elems[start:end])
	}
	l.sc.trigger(l.path)
	return nil
}

// =============================================================================
// Iterating operations: may read any element, so they track the whole
// path before delegating.
// =============================================================================

// ForEach invokes fn for every element in order.
func (l *List) ForEach(fn func(v any, i int)) {
	l.sc.track(l.path)
	for i := range l.elems {
		fn(l.elem(i), i)
	}
}

// Map returns a new plain slice holding fn applied to every element.
func (l *List) Map(fn func(v any, i int) any) []any {
	l.sc.track(l.path)
	out := make([]any, len(l.elems))
	for i := range l.elems {
		out[i] = fn(l.elem(i), i)
	}
	return out
}

// Filter returns the elements for which pred holds, in order.
func (l *List) Filter(pred func(v any, i int) bool) []any {
	l.sc.track(l.path)
	var out []any
	for i := range l.elems {
		if v := l.elem(i); pred(v, i) {
			out = append(out, v)
		}
	}
	return out
}

// Find returns the first element for which pred holds.
func (l *List) Find(pred func(v any, i int) bool) (any, bool) {
	l.sc.track(l.path)
	for i := range l.elems {
		if v := l.elem(i); pred(v, i) {
			return v, true
		}
	}
	return nil, false
}

// FindIndex returns the index of the first element for which pred holds,
// or -1.
func (l *List) FindIndex(pred func(v any, i int) bool) int {
	l.sc.track(l.path)
	for i := range l.elems {
		if pred(l.elem(i), i) {
			return i
		}
	}
	return -1
}

// Some reports whether pred holds for at least one element.
func (l *List) Some(pred func(v any, i int) bool) bool {
	return l.FindIndex(pred) >= 0
}

// Every reports whether pred holds for all elements.
func (l *List) Every(pred func(v any, i int) bool) bool {
	l.sc.track(l.path)
	for i := range l.elems {
		if !pred(l.elem(i), i) {
			return false
		}
	}
	return true
}

// Reduce folds the elements left to right.
func (l *List) Reduce(fn func(acc, v any, i int) any, initial any) any {
	l.sc.track(l.path)
	acc := initial
	for i := range l.elems {
		acc = fn(acc, l.elem(i), i)
	}
	return acc
}

// ReduceRight folds the elements right to left.
func (l *List) ReduceRight(fn func(acc, v any, i int) any, initial any) any {
	l.sc.track(l.path)
	acc := initial
	for i := len(l.elems) - 1; i >= 0; i-- {
		acc = fn(acc, l.elem(i), i)
	}
	return acc
}

// =============================================================================
// Internals
// =============================================================================

// elem returns element i for iteration: wrapped in deep mode, raw in
// shallow mode.
func (l *List) elem(i int) any {
	if l.opts.shallow {
		return l.elems[i]
	}
	return l.wrapElem(i)
}

func (l *List) wrapElem(i int) any {
	return wrapValue(l.sc, l.indexPath(i), l.elems[i], l.opts, l.cache, func(ns []any) {
		l.elems[i] = ns
	})
}

// replace installs a new slice, writes it back to the parent container,
// and re-keys this wrapper's cache entry so identity survives the move.
func (l *List) replace(ns []any) {
	from, _ := identityOf(l.elems)
	l.elems = ns
	if l.store != nil {
		l.store(ns)
	}
	to, ok := identityOf(ns)
	if !ok {
		to = identity{}
	}
	l.cache.rekey(from, to, l)
}

// normIndex resolves a possibly-negative index against length, clamped
// to [0, length].
func normIndex(i, length int) int {
	if i < 0 {
		i += length
		if i < 0 {
			return 0
		}
		return i
	}
	if i > length {
		return length
	}
	return i
}
