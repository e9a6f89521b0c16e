package loom

import (
	"log/slog"

	"github.com/loomkit/loom/pkg/adapter"
	"github.com/loomkit/loom/pkg/events"
	"github.com/loomkit/loom/pkg/registry"
)

// Config is the main Tracker configuration.
type Config struct {
	// Adapter supplies dependencies from one host reactive runtime.
	// Leave nil (together with Adapters) for an inert tracker whose
	// tracking and triggering operations are safe no-ops.
	Adapter adapter.Adapter

	// Adapters, when non-empty, fans dependencies out to several host
	// runtimes at once via adapter.NewMulti. Mutually exclusive with
	// Adapter.
	Adapters []adapter.Adapter

	// Logger is the structured logger for debug-level bookkeeping
	// events. If nil, slog.Default() is used.
	Logger *slog.Logger

	// EventErrorHandler, when set, switches the event channel to
	// fail-soft emission: listener panics are recovered and routed
	// here instead of halting the emission. When nil, a panicking
	// listener propagates and halts the remaining listeners.
	EventErrorHandler events.ErrorHandler

	// Metrics, when non-nil, records registry activity in Prometheus
	// counters. See registry.NewMetrics.
	Metrics *registry.Metrics
}

// buildAdapter resolves the Adapter/Adapters pair into a single adapter.
func buildAdapter(cfg Config) (adapter.Adapter, error) {
	if len(cfg.Adapters) > 0 {
		if cfg.Adapter != nil {
			return nil, ErrAdapterConflict
		}
		return adapter.NewMulti(cfg.Adapters)
	}
	return cfg.Adapter, nil
}
