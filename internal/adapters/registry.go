package adapters

import (
	"log/slog"
	"sort"

	"litfed-backend/internal/config"
)

// Registry is the Source Registry of spec §2.3: a mapping from source
// identifier to adapter instance, constructed once from configuration and
// immutable thereafter (spec §9). Adapters whose required credentials are
// absent are omitted rather than registered disabled, so the orchestrator
// never has to re-check availability per call.
type Registry struct {
	adapters map[string]Adapter
	order    []string // registration order, for deterministic fan-out logs
}

// NewRegistry builds the registry from application configuration,
// constructing one adapter per configured source and skipping any whose
// ConfigurationMissing precondition fails.
func NewRegistry(cfg *config.Config, logger *slog.Logger) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	limiters := NewRateLimiterRegistry()

	descs := BuildDescriptors(cfg)
	for _, d := range descs {
		if !d.Enabled {
			continue
		}
		if d.RequiresKey && d.APIKey == "" {
			logger.Warn("adapter omitted: missing credential",
				slog.String("adapter", d.Name),
				slog.String("family", string(d.Family)))
			continue
		}
		rl := limiters.GetOrCreate(d.Name, effectiveRate(d))
		adapter := buildAdapter(d, rl, logger)
		if adapter == nil {
			continue
		}
		r.register(d.Name, adapter)
	}
	return r
}

func effectiveRate(d Descriptor) int {
	if d.RatePerMinute > 0 {
		return d.RatePerMinute
	}
	if def, ok := DefaultRatePerMinute[d.Family]; ok {
		return def
	}
	return 600
}

func (r *Registry) register(name string, a Adapter) {
	r.adapters[name] = a
	r.order = append(r.order, name)
}

// Get returns the adapter for a source name, or false if not registered.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// All returns every registered adapter in deterministic registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Names returns the sorted set of registered adapter names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByFamily returns registered adapters whose descriptor family matches,
// used by the orchestrator to select "priority academic", "citation
// database", "publisher-filter" and "preprint" groups per spec §4.3.
func (r *Registry) ByFamily(families ...Family) []Adapter {
	want := make(map[Family]bool, len(families))
	for _, f := range families {
		want[f] = true
	}
	var out []Adapter
	for _, name := range r.order {
		a := r.adapters[name]
		if fa, ok := a.(interface{ Family() Family }); ok && want[fa.Family()] {
			out = append(out, a)
		}
	}
	return out
}
