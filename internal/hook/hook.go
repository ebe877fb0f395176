// Package hook implements named filter points that rewrite a value before it is handed on.
package hook

import (
	"context"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

// Script is the filter point the aggregated preview script passes through.
const Script = "kirki/postmessage/script"

// Filter rewrites a value. Returning an error aborts the remaining filters.
type Filter interface {
	Name() string
	Apply(ctx context.Context, value string) (string, error)
}

// FilterFunc adapts a function into a Filter.
type FilterFunc struct {
	FilterName string
	Fn         func(ctx context.Context, value string) (string, error)
}

func (f FilterFunc) Name() string { return f.FilterName }

func (f FilterFunc) Apply(ctx context.Context, value string) (string, error) {
	return f.Fn(ctx, value)
}

type entry struct {
	priority int
	seq      int
	filter   Filter
}

// Registry holds filters per hook. Filters run in ascending priority, ties in the order
// they were added.
type Registry struct {
	mu      sync.RWMutex
	filters map[string][]entry
	seq     int
	metrics *telemetry.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records every filter invocation.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{filters: make(map[string][]entry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add attaches a filter to a hook.
func (r *Registry) Add(hook string, priority int, f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	list := append(r.filters[hook], entry{priority: priority, seq: r.seq, filter: f})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}
		return list[i].seq < list[j].seq
	})
	r.filters[hook] = list
}

// Filters lists the names of the filters attached to a hook in run order.
func (r *Registry) Filters(hook string) []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters[hook]))
	for _, e := range r.filters[hook] {
		names = append(names, e.filter.Name())
	}
	return names
}

// Apply passes value through every filter attached to hook. A nil registry returns the
// value unchanged.
func (r *Registry) Apply(ctx context.Context, hook, value string) (string, error) {
	if r == nil {
		return value, nil
	}
	r.mu.RLock()
	list := append([]entry(nil), r.filters[hook]...)
	r.mu.RUnlock()

	for _, e := range list {
		if err := ctx.Err(); err != nil {
			return value, lperrors.NewHookError(hook, e.filter.Name(), err)
		}
		out, err := e.filter.Apply(ctx, value)
		if err != nil {
			r.metrics.RecordHookFilter(hook, telemetry.StatusFailure)
			return value, lperrors.NewHookError(hook, e.filter.Name(), err)
		}
		r.metrics.RecordHookFilter(hook, telemetry.StatusSuccess)
		value = out
	}
	return value, nil
}
