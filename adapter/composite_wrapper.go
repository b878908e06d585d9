package adapter

import (
	"fmt"
	"log/slog"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/direct"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/metric"
)

// CompositeWrapper makes a legacy composite usable as a component.Composite.
//
// Every mutation is applied to the legacy composite and to a native
// StandardComposite view. Reads of children prefer a per-wrapper cache that
// is filled lazily by wrapping legacy tubes. Connections are always read
// from the legacy composite. Only wrapper-to-legacy synchronization is
// guaranteed; legacy changes show up on the next read that misses the cache
// or finds a different tube under the same name.
type CompositeWrapper struct {
	legacy  *legacy.Composite
	view    *component.StandardComposite
	units   cmap.ConcurrentMap[string, component.Unit]
	tubes   *direct.ComponentAdapter
	issues  *feedback.Logger
	metrics *metric.Metrics
	logger  *slog.Logger
}

var _ component.Composite = (*CompositeWrapper)(nil)

// NewCompositeWrapper wraps lc. The view starts with the legacy composite's
// activation flag. A nil legacy environment is replaced by an empty one and
// reported as a missing property.
func NewCompositeWrapper(lc *legacy.Composite, opts ...Option) (*CompositeWrapper, error) {
	if lc == nil {
		return nil, typeMismatch("CompositeWrapper", "NewCompositeWrapper", "*legacy.Composite")
	}
	o := applyOptions("adapter.composite_wrapper", opts)
	w := &CompositeWrapper{
		legacy:  lc,
		view:    component.NewComposite(lc.CompositeID(), o.tubes.Environments().FromLegacy(lc.Environment())),
		units:   cmap.New[component.Unit](),
		tubes:   o.tubes,
		issues:  o.issues,
		metrics: o.metrics,
		logger:  slog.Default().With("component", "adapter.CompositeWrapper", "composite_id", lc.CompositeID()),
	}
	if lc.IsActive() {
		w.view.Activate()
	}
	o.metrics.RecordWrapperCreated(kindCompositeWrapper)
	w.logger.Debug("Created composite wrapper", "tubes", len(lc.Tubes()))
	return w, nil
}

// Legacy returns the wrapped legacy composite.
func (w *CompositeWrapper) Legacy() *legacy.Composite { return w.legacy }

// CompositeID returns the legacy composite's id.
func (w *CompositeWrapper) CompositeID() string { return w.legacy.CompositeID() }

// Environment returns the composite's environment in the new family.
func (w *CompositeWrapper) Environment() *component.Environment { return w.view.Environment() }

// AddComponent adds u under name. A tube-backed unit is added to the legacy
// composite too; any other unit lives only in the wrapper and is reported
// as a structural difference.
func (w *CompositeWrapper) AddComponent(name string, u component.Unit) error {
	if err := w.view.AddComponent(name, u); err != nil {
		return err
	}
	if tc, ok := u.(*direct.TubeComponent); ok {
		w.legacy.AddTube(name, tc.Tube())
	} else {
		w.issues.ReportStructuralDifference("tube "+name,
			fmt.Sprintf("%T held only by the wrapper", u))
		w.logger.Warn("Unit without a tube added to legacy composite wrapper", "name", name)
	}
	w.units.Set(name, u)
	w.recordSize()
	return nil
}

// RemoveComponent removes name from the legacy composite and returns its unit.
func (w *CompositeWrapper) RemoveComponent(name string) (component.Unit, bool) {
	t, hadTube := w.legacy.RemoveTube(name)
	cached, hadCached := w.units.Pop(name)
	viewed, hadView := w.view.RemoveComponent(name)
	w.recordSize()
	switch {
	case hadCached:
		return cached, true
	case hadView:
		return viewed, true
	case hadTube:
		return w.wrapTube(t)
	}
	return nil, false
}

// Component returns the unit under name. A cached tube wrapper is only
// reused while the legacy composite still holds that same tube.
func (w *CompositeWrapper) Component(name string) (component.Unit, bool) {
	t, hasTube := w.legacy.Tube(name)
	if u, ok := w.units.Get(name); ok {
		tc, tubeBacked := u.(*direct.TubeComponent)
		if !tubeBacked || (hasTube && tc.Tube() == t) {
			return u, true
		}
		w.units.Remove(name)
	}
	if !hasTube {
		w.recordSize()
		return nil, false
	}
	u, ok := w.wrapTube(t)
	if !ok {
		return nil, false
	}
	u = w.units.Upsert(name, u, func(exists bool, cached, fresh component.Unit) component.Unit {
		if tc, ok := cached.(*direct.TubeComponent); exists && ok && tc.Tube() == t {
			return cached
		}
		return fresh
	})
	w.recordSize()
	return u, true
}

func (w *CompositeWrapper) wrapTube(t *legacy.Tube) (component.Unit, bool) {
	tc, err := w.tubes.Wrap(t)
	if err != nil {
		w.logger.Warn("Skipping tube that cannot be wrapped", "error", err)
		return nil, false
	}
	return tc, true
}

// Components returns every legacy tube, wrapped, plus units held only by
// the wrapper.
func (w *CompositeWrapper) Components() map[string]component.Unit {
	out := make(map[string]component.Unit)
	for name := range w.legacy.Tubes() {
		if u, ok := w.Component(name); ok {
			out[name] = u
		}
	}
	for name, u := range w.units.Items() {
		if _, ok := out[name]; !ok {
			if _, tubeBacked := u.(*direct.TubeComponent); !tubeBacked {
				out[name] = u
			}
		}
	}
	return out
}

func (w *CompositeWrapper) has(name string) bool {
	if _, ok := w.legacy.Tube(name); ok {
		return true
	}
	return w.units.Has(name)
}

// Connect records src->dst on both sides. Either endpoint may be added
// later.
func (w *CompositeWrapper) Connect(src, dst string) error {
	if err := w.view.Connect(src, dst); err != nil {
		return err
	}
	w.legacy.Connect(src, dst)
	return nil
}

// Disconnect removes the src to dst link on the legacy composite.
func (w *CompositeWrapper) Disconnect(src, dst string) bool {
	inView := w.view.Disconnect(src, dst)
	inLegacy := w.legacy.Disconnect(src, dst)
	return inView || inLegacy
}

// Connections returns the legacy composite's connection map.
func (w *CompositeWrapper) Connections() map[string][]string {
	return w.legacy.Connections()
}

// ConnectionsFrom returns the targets of src whose endpoints are both
// present now.
func (w *CompositeWrapper) ConnectionsFrom(src string) []string {
	return component.FilterConnections(w.legacy.Connections(), src, w.has)
}

// Activate activates the legacy composite.
func (w *CompositeWrapper) Activate() {
	w.view.Activate()
	w.legacy.Activate()
}

// Deactivate deactivates the legacy composite.
func (w *CompositeWrapper) Deactivate() {
	w.view.Deactivate()
	w.legacy.Deactivate()
}

// IsActive reads the legacy flag and brings the view in line with it.
func (w *CompositeWrapper) IsActive() bool {
	active := w.legacy.IsActive()
	if w.view.IsActive() != active {
		if active {
			w.view.Activate()
		} else {
			w.view.Deactivate()
		}
	}
	return active
}

// CacheSize reports how many units the wrapper currently holds.
func (w *CompositeWrapper) CacheSize() int { return w.units.Count() }

func (w *CompositeWrapper) recordSize() {
	w.metrics.RecordCacheSize(kindCompositeWrapper, w.units.Count())
}

// UnwrapLegacyComposite returns the legacy composite behind a wrapper.
func UnwrapLegacyComposite(c component.Composite) (*legacy.Composite, bool) {
	w, ok := c.(*CompositeWrapper)
	if !ok || w == nil {
		return nil, false
	}
	return w.legacy, true
}
