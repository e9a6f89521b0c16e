package wrap_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/loomkit/loom/pkg/adapter/adaptertest"
	"github.com/loomkit/loom/pkg/registry"
	"github.com/loomkit/loom/pkg/wrap"
)

func newWrapRegistry() (*registry.Registry, *adaptertest.Recorder) {
	rec := adaptertest.NewRecorder()
	return registry.New(registry.Config{Adapter: rec}), rec
}

func TestDeepReadTracksEveryLevel(t *testing.T) {
	reg, _ := newWrapRegistry()
	cfg := map[string]any{"stats": map[string]any{"health": 100}}
	obj := wrap.Keyed(reg, "config", cfg)

	stats, ok := obj.Get("stats").(*wrap.Object)
	if !ok {
		t.Fatalf("expected nested *wrap.Object, got %T", obj.Get("stats"))
	}
	if got := stats.Get("health"); got != 100 {
		t.Errorf("expected health 100, got %v", got)
	}

	// Reading .stats.health tracked both "stats" and "stats.health".
	statsDep := reg.PropDependency("config", "stats").(*adaptertest.Dep)
	healthDep := reg.PropDependency("config", "stats.health").(*adaptertest.Dep)
	if statsDep.Depends() != 1 {
		t.Errorf("stats: expected 1 registration, got %d", statsDep.Depends())
	}
	if healthDep.Depends() != 1 {
		t.Errorf("stats.health: expected 1 registration, got %d", healthDep.Depends())
	}
}

func TestDeepWriteTriggersExactlyThePath(t *testing.T) {
	reg, _ := newWrapRegistry()
	cfg := map[string]any{"stats": map[string]any{"health": 100}}
	obj := wrap.Keyed(reg, "config", cfg)

	stats := obj.Get("stats").(*wrap.Object)
	statsDep := reg.PropDependency("config", "stats").(*adaptertest.Dep)
	healthDep := reg.PropDependency("config", "stats.health").(*adaptertest.Dep)
	keyDep := reg.KeyDependency("config").(*adaptertest.Dep)

	if err := stats.Set("health", 50); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if cfg["stats"].(map[string]any)["health"] != 50 {
		t.Error("write did not reach the underlying map")
	}
	if healthDep.Notifies() != 1 {
		t.Errorf("stats.health: expected exactly 1 notify, got %d", healthDep.Notifies())
	}
	if statsDep.Notifies() != 0 {
		t.Errorf("stats must not be notified by a nested write, got %d", statsDep.Notifies())
	}
	if keyDep.Notifies() != 0 {
		t.Errorf("key must not be notified by a property write, got %d", keyDep.Notifies())
	}
}

func TestWrapperIdentityStability(t *testing.T) {
	reg, _ := newWrapRegistry()
	obj := wrap.Keyed(reg, "config", map[string]any{
		"stats": map[string]any{"health": 100},
	})

	first := obj.Get("stats")
	second := obj.Get("stats")
	if first != second {
		t.Error("reading the same path twice must yield the identical wrapper")
	}
}

func TestCycleSafety(t *testing.T) {
	reg, _ := newWrapRegistry()
	m := map[string]any{"name": "root"}
	m["self"] = m

	obj := wrap.Keyed(reg, "graph", m)

	self, ok := obj.Get("self").(*wrap.Object)
	if !ok {
		t.Fatalf("expected *wrap.Object, got %T", obj.Get("self"))
	}
	// Re-encountering the root mid-traversal returns the root's wrapper.
	if self != obj {
		t.Error("self-referential object must resolve to the cached wrapper")
	}
	// And descending through the cycle terminates.
	deeper := self.Get("self").(*wrap.Object)
	if deeper != obj {
		t.Error("repeated traversal of the cycle must keep yielding the same wrapper")
	}
}

func TestSharedChildIsWrappedOnce(t *testing.T) {
	reg, _ := newWrapRegistry()
	shared := map[string]any{"v": 1}
	obj := wrap.Keyed(reg, "cfg", map[string]any{"a": shared, "b": shared})

	a := obj.Get("a")
	b := obj.Get("b")
	if a != b {
		t.Error("the same underlying object must yield the same wrapper within one traversal")
	}
}

func TestShallowReturnsRawValues(t *testing.T) {
	reg, _ := newWrapRegistry()
	nested := map[string]any{"health": 100}
	obj := wrap.Keyed(reg, "config", map[string]any{"stats": nested}, wrap.Shallow())

	got, ok := obj.Get("stats").(map[string]any)
	if !ok {
		t.Fatalf("shallow Get should return the raw map, got %T", obj.Get("stats"))
	}
	if got["health"] != 100 {
		t.Errorf("unexpected raw value %v", got)
	}
}

func TestIneligibleValuesPassThrough(t *testing.T) {
	reg, _ := newWrapRegistry()
	now := time.Now()
	type point struct{ X, Y int }
	obj := wrap.Keyed(reg, "cfg", map[string]any{
		"when":   now,
		"pt":     point{1, 2},
		"ints":   []int{1, 2, 3},
		"labels": map[string]string{"a": "b"},
		"err":    errors.New("boom"),
	})

	if got := obj.Get("when"); got != now {
		t.Errorf("time.Time must pass through unwrapped, got %T", got)
	}
	if got := obj.Get("pt"); got != (point{1, 2}) {
		t.Errorf("struct must pass through unwrapped, got %v", got)
	}
	if _, ok := obj.Get("ints").([]int); !ok {
		t.Errorf("typed slice must pass through unwrapped, got %T", obj.Get("ints"))
	}
	if _, ok := obj.Get("labels").(map[string]string); !ok {
		t.Errorf("typed map must pass through unwrapped, got %T", obj.Get("labels"))
	}
	if _, ok := obj.Get("err").(error); !ok {
		t.Errorf("error must pass through unwrapped, got %T", obj.Get("err"))
	}
}

func TestNilMapChildPassesThrough(t *testing.T) {
	reg, _ := newWrapRegistry()
	obj := wrap.Keyed(reg, "state", map[string]any{"m": map[string]any(nil)})

	got := obj.Get("m")
	if _, wrapped := got.(*wrap.Object); wrapped {
		t.Fatal("a nil map child must not be wrapped; it has no entries to write into")
	}
	m, ok := got.(map[string]any)
	if !ok || m != nil {
		t.Fatalf("expected the nil map back unwrapped, got %T", got)
	}

	// The read still tracked its path.
	dep := reg.PropDependency("state", "m").(*adaptertest.Dep)
	if dep.Depends() != 1 {
		t.Errorf("expected the nil-map read to be tracked, got %d registrations", dep.Depends())
	}
}

func TestReadOnlyObjectRejectsWrites(t *testing.T) {
	reg, _ := newWrapRegistry()
	cfg := map[string]any{"stats": map[string]any{"health": 100}}
	obj := wrap.Keyed(reg, "config", cfg, wrap.ReadOnly())

	if err := obj.Set("stats", nil); !errors.Is(err, wrap.ErrReadOnly) {
		t.Errorf("Set: expected ErrReadOnly, got %v", err)
	}
	if err := obj.Delete("stats"); !errors.Is(err, wrap.ErrReadOnly) {
		t.Errorf("Delete: expected ErrReadOnly, got %v", err)
	}

	// Read-only propagates to nested wrappers.
	stats := obj.Get("stats").(*wrap.Object)
	err := stats.Set("health", 0)
	if !errors.Is(err, wrap.ErrReadOnly) {
		t.Fatalf("nested Set: expected ErrReadOnly, got %v", err)
	}
	var roErr *wrap.ReadOnlyError
	if !errors.As(err, &roErr) {
		t.Fatalf("expected *ReadOnlyError, got %T", err)
	}
	if !strings.Contains(roErr.Selector, "config.stats.health") {
		t.Errorf("error should carry the offending selector, got %q", roErr.Selector)
	}

	// The underlying target is provably unchanged.
	if cfg["stats"].(map[string]any)["health"] != 100 {
		t.Error("read-only violation must leave the target unmodified")
	}
	if _, ok := cfg["stats"]; !ok {
		t.Error("read-only delete must leave the target unmodified")
	}
}

func TestItemScopedObject(t *testing.T) {
	reg, rec := newWrapRegistry()
	user := map[string]any{"score": 10}
	obj := wrap.Item(reg, "users", "u1", user)

	if obj.Get("score") != 10 {
		t.Fatal("unexpected value")
	}
	// Item-prop tracking cascades: item-prop + item + collection.
	if rec.CreatedCount() != 3 {
		t.Fatalf("expected 3 dependencies, got %d", rec.CreatedCount())
	}

	dep := reg.ItemPropDependency("users", "u1", "score").(*adaptertest.Dep)
	if dep.Depends() != 1 {
		t.Errorf("expected 1 registration on the item-prop, got %d", dep.Depends())
	}

	if err := obj.Set("score", 11); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if dep.Notifies() != 1 {
		t.Errorf("expected 1 notify on the item-prop, got %d", dep.Notifies())
	}
	if itemDep := reg.ItemDependency("users", "u1").(*adaptertest.Dep); itemDep.Notifies() != 0 {
		t.Errorf("item must not be notified by a property write, got %d", itemDep.Notifies())
	}
}

func TestHasKeysDelete(t *testing.T) {
	reg, _ := newWrapRegistry()
	obj := wrap.Keyed(reg, "cfg", map[string]any{"a": 1, "b": 2})

	if !obj.Has("a") || obj.Has("missing") {
		t.Error("Has mismatch")
	}
	if got := obj.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
	if keys := obj.Keys(); len(keys) != 2 {
		t.Errorf("Keys = %v, want 2 entries", keys)
	}

	keyDep := reg.KeyDependency("cfg").(*adaptertest.Dep)
	if err := obj.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if obj.Has("a") {
		t.Error("property should be gone after Delete")
	}
	aDep := reg.PropDependency("cfg", "a").(*adaptertest.Dep)
	if aDep.Notifies() != 1 {
		t.Errorf("deleted property should be triggered once, got %d", aDep.Notifies())
	}
	if keyDep.Notifies() != 0 {
		t.Errorf("key must not be notified by a property delete, got %d", keyDep.Notifies())
	}
}

func TestAnonymousKey(t *testing.T) {
	reg, _ := newWrapRegistry()

	a := wrap.Anonymous(reg, map[string]any{})
	b := wrap.Anonymous(reg, map[string]any{})

	if a.Key() == "" || b.Key() == "" {
		t.Fatal("anonymous wrappers must carry a generated key")
	}
	if a.Key() == b.Key() {
		t.Error("anonymous keys must be distinct")
	}
	if !strings.HasPrefix(a.Key(), "loom-") {
		t.Errorf("unexpected key format %q", a.Key())
	}
}

func TestNoAdapterWrapperStillWorks(t *testing.T) {
	reg := registry.New(registry.Config{})
	cfg := map[string]any{"stats": map[string]any{"health": 100}}
	obj := wrap.Keyed(reg, "config", cfg)

	stats := obj.Get("stats").(*wrap.Object)
	if stats.Get("health") != 100 {
		t.Error("reads must keep working without an adapter")
	}
	if err := stats.Set("health", 50); err != nil {
		t.Errorf("writes must keep working without an adapter: %v", err)
	}
	if cfg["stats"].(map[string]any)["health"] != 50 {
		t.Error("underlying data must still be mutated")
	}
	for level, n := range reg.DependencyCounts() {
		if n != 0 {
			t.Errorf("level %s: no dependencies should exist, got %d", level, n)
		}
	}
}
