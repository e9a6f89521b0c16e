package wrap

// Object intercepts property access on a plain map[string]any. Reads
// track the property's dot-joined path; writes trigger it.
type Object struct {
	sc     scope
	path   string
	target map[string]any
	opts   options
	cache  *cache
}

// newObject builds a root Object with a fresh identity cache.
func newObject(sc scope, target map[string]any, opts options) *Object {
	o := &Object{sc: sc, target: target, opts: opts, cache: newCache()}
	if id, ok := identityOf(target); ok {
		o.cache.insert(id, o)
	}
	return o
}

// Key returns the root key for key-scoped wrappers, or "" for
// item-scoped ones.
func (o *Object) Key() string { return o.sc.key }

// Collection returns the collection name for item-scoped wrappers.
func (o *Object) Collection() string { return o.sc.collection }

// ID returns the item id for item-scoped wrappers.
func (o *Object) ID() string { return o.sc.id }

// Path returns this wrapper's dot-joined path from the root ("" at the
// root itself).
func (o *Object) Path() string { return o.path }

// ReadOnly reports whether writes through this wrapper are rejected.
func (o *Object) ReadOnly() bool { return o.opts.readOnly }

// Get reads one property, tracking its path. In deep mode an eligible
// composite value comes back wrapped, sharing this traversal's identity
// cache; everything else is returned as-is. Missing properties yield nil.
func (o *Object) Get(name string) any {
	path := joinPath(o.path, name)
	o.sc.track(path)

	v, ok := o.target[name]
	if !ok {
		return nil
	}
	if o.opts.shallow {
		return v
	}
	return wrapValue(o.sc, path, v, o.opts, o.cache, func(ns []any) {
		o.target[name] = ns
	})
}

// Has reports whether the property exists, tracking its path.
func (o *Object) Has(name string) bool {
	o.sc.track(joinPath(o.path, name))
	_, ok := o.target[name]
	return ok
}

// Keys returns the property names, tracking the object as a whole:
// adding or removing any property invalidates an enumeration.
func (o *Object) Keys() []string {
	o.sc.track(o.path)
	keys := make([]string, 0, len(o.target))
	for k := range o.target {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of properties, tracking the object as a whole.
func (o *Object) Len() int {
	o.sc.track(o.path)
	return len(o.target)
}

// Set writes one property and triggers exactly its path. Through a
// read-only wrapper it fails with *ReadOnlyError and the target is left
// unmodified.
func (o *Object) Set(name string, v any) error {
	path := joinPath(o.path, name)
	if o.opts.readOnly {
		return &ReadOnlyError{Op: "set " + name, Selector: o.sc.describe(path)}
	}
	o.target[name] = v
	o.sc.trigger(path)
	return nil
}

// Delete removes one property and triggers its path. Deleting a missing
// property still triggers: the caller signaled an intent to invalidate.
func (o *Object) Delete(name string) error {
	path := joinPath(o.path, name)
	if o.opts.readOnly {
		return &ReadOnlyError{Op: "delete " + name, Selector: o.sc.describe(path)}
	}
	delete(o.target, name)
	o.sc.trigger(path)
	return nil
}

// Raw returns the underlying map without tracking, the peek analogue to
// Get. Mutating it bypasses triggering entirely.
func (o *Object) Raw() map[string]any {
	return o.target
}
