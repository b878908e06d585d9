package adapter

import (
	"fmt"
	"log/slog"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/metric"
)

// MachineWrapper makes a legacy machine usable as a component.Machine.
//
// The state bag is copied from the legacy machine at construction and every
// update afterwards is written to both sides. Composites are wrapped lazily
// and cached by name. Activation is written to both sides and read through
// from the legacy machine. Shutdown is immediate and irreversible.
type MachineWrapper struct {
	legacy     *legacy.Machine
	view       *component.StandardMachine
	composites cmap.ConcurrentMap[string, component.Composite]
	opts       []Option
	issues     *feedback.Logger
	metrics    *metric.Metrics
	logger     *slog.Logger
}

var _ component.Machine = (*MachineWrapper)(nil)

// NewMachineWrapper makes lm usable as a component.Machine.
func NewMachineWrapper(lm *legacy.Machine, opts ...Option) (*MachineWrapper, error) {
	if lm == nil {
		return nil, typeMismatch("MachineWrapper", "NewMachineWrapper", "*legacy.Machine")
	}
	o := applyOptions("adapter.machine_wrapper", opts)
	// Child wrappers report through the same logger and tube adapter.
	shared := append([]Option{}, opts...)
	shared = append(shared, WithIssues(o.issues), WithTubeAdapter(o.tubes))

	w := &MachineWrapper{
		legacy:     lm,
		view:       component.NewMachine(lm.MachineID(), o.tubes.Environments().FromLegacy(lm.Environment())),
		composites: cmap.New[component.Composite](),
		opts:       shared,
		issues:     o.issues,
		metrics:    o.metrics,
		logger:     slog.Default().With("component", "adapter.MachineWrapper", "machine_id", lm.MachineID()),
	}
	for k, v := range lm.State() {
		w.view.UpdateState(k, v)
	}
	if !lm.IsActive() {
		w.view.Deactivate()
	}
	o.metrics.RecordWrapperCreated(kindMachineWrapper)
	w.logger.Debug("Created machine wrapper", "composites", len(lm.Composites()))
	return w, nil
}

// Legacy returns the wrapped legacy machine.
func (w *MachineWrapper) Legacy() *legacy.Machine { return w.legacy }

// MachineID returns the legacy machine's id.
func (w *MachineWrapper) MachineID() string { return w.legacy.MachineID() }

// Environment returns the machine's environment in the new family.
func (w *MachineWrapper) Environment() *component.Environment { return w.view.Environment() }

// AddComposite adds c under name. A wrapped legacy composite is added to
// the legacy machine too; any other composite lives only in the wrapper
// and is reported as a structural difference.
func (w *MachineWrapper) AddComposite(name string, c component.Composite) error {
	if err := w.view.AddComposite(name, c); err != nil {
		return err
	}
	if lc, ok := UnwrapLegacyComposite(c); ok {
		w.legacy.AddComposite(name, lc)
	} else {
		w.issues.ReportStructuralDifference("composite "+name,
			fmt.Sprintf("%T held only by the wrapper", c))
		w.logger.Warn("Composite without a legacy counterpart added to machine wrapper", "name", name)
	}
	w.composites.Set(name, c)
	w.recordSize()
	return nil
}

// RemoveComposite removes name from the legacy machine and returns its wrapper.
func (w *MachineWrapper) RemoveComposite(name string) (component.Composite, bool) {
	lc, hadLegacy := w.legacy.RemoveComposite(name)
	cached, hadCached := w.composites.Pop(name)
	viewed, hadView := w.view.RemoveComposite(name)
	w.recordSize()
	switch {
	case hadCached:
		return cached, true
	case hadView:
		return viewed, true
	case hadLegacy:
		return w.wrapComposite(lc)
	}
	return nil, false
}

// Composite returns the composite under name, wrapping the legacy one on
// first access. A cached wrapper is dropped once the legacy machine holds a
// different composite under that name.
func (w *MachineWrapper) Composite(name string) (component.Composite, bool) {
	lc, hasLegacy := w.legacy.Composite(name)
	if c, ok := w.composites.Get(name); ok {
		held, wrapsLegacy := UnwrapLegacyComposite(c)
		if !wrapsLegacy || (hasLegacy && held == lc) {
			return c, true
		}
		w.composites.Remove(name)
	}
	if !hasLegacy {
		w.recordSize()
		return nil, false
	}
	c, ok := w.wrapComposite(lc)
	if !ok {
		return nil, false
	}
	c = w.composites.Upsert(name, c, func(exists bool, cached, fresh component.Composite) component.Composite {
		if held, ok := UnwrapLegacyComposite(cached); exists && ok && held == lc {
			return cached
		}
		return fresh
	})
	w.recordSize()
	return c, true
}

func (w *MachineWrapper) wrapComposite(lc *legacy.Composite) (component.Composite, bool) {
	cw, err := NewCompositeWrapper(lc, w.opts...)
	if err != nil {
		w.logger.Warn("Skipping composite that cannot be wrapped", "error", err)
		return nil, false
	}
	return cw, true
}

// Composites returns wrappers for every composite the legacy machine holds.
func (w *MachineWrapper) Composites() map[string]component.Composite {
	out := make(map[string]component.Composite)
	for name := range w.legacy.Composites() {
		if c, ok := w.Composite(name); ok {
			out[name] = c
		}
	}
	for name, c := range w.composites.Items() {
		if _, ok := out[name]; !ok {
			if _, wrapsLegacy := UnwrapLegacyComposite(c); !wrapsLegacy {
				out[name] = c
			}
		}
	}
	return out
}

// Connect links composite src to dst on the legacy machine.
func (w *MachineWrapper) Connect(src, dst string) error {
	if err := w.view.Connect(src, dst); err != nil {
		return err
	}
	w.legacy.Connect(src, dst)
	return nil
}

// Connections returns the legacy machine's connection map.
func (w *MachineWrapper) Connections() map[string][]string {
	return w.legacy.Connections()
}

// State returns the wrapper's copy of the state bag.
func (w *MachineWrapper) State() map[string]any { return w.view.State() }

// StateValue reads key from the legacy machine's state bag.
func (w *MachineWrapper) StateValue(key string) (any, bool) { return w.view.StateValue(key) }

// UpdateState writes key into the legacy machine's state bag.
func (w *MachineWrapper) UpdateState(key string, value any) {
	w.view.UpdateState(key, value)
	w.legacy.UpdateState(key, value)
}

// Activate is refused once the wrapper has been shut down.
func (w *MachineWrapper) Activate() {
	if w.view.IsShutdown() {
		w.logger.Warn("Activate called on shut down machine wrapper")
		return
	}
	w.view.Activate()
	w.legacy.Activate()
}

// Deactivate deactivates the legacy machine.
func (w *MachineWrapper) Deactivate() {
	w.view.Deactivate()
	w.legacy.Deactivate()
}

// IsActive reads the legacy flag and brings the view in line with it.
func (w *MachineWrapper) IsActive() bool {
	active := w.legacy.IsActive() && !w.view.IsShutdown()
	if w.view.IsActive() != active {
		if active {
			w.view.Activate()
		} else {
			w.view.Deactivate()
		}
	}
	return active
}

// Shutdown shuts down both the view and the legacy machine and drops every
// cached composite wrapper.
func (w *MachineWrapper) Shutdown() {
	w.view.Shutdown()
	w.legacy.Shutdown()
	w.composites.Clear()
	w.recordSize()
	w.logger.Info("Machine wrapper shut down")
}

// IsShutdown reports whether Shutdown has been called on the wrapper.
func (w *MachineWrapper) IsShutdown() bool { return w.view.IsShutdown() }

// CacheSize returns how many composite wrappers are cached.
func (w *MachineWrapper) CacheSize() int { return w.composites.Count() }

func (w *MachineWrapper) recordSize() {
	w.metrics.RecordCacheSize(kindMachineWrapper, w.composites.Count())
}

// UnwrapLegacyMachine returns the legacy machine behind a wrapper.
func UnwrapLegacyMachine(m component.Machine) (*legacy.Machine, bool) {
	w, ok := m.(*MachineWrapper)
	if !ok || w == nil {
		return nil, false
	}
	return w.legacy, true
}

func typeMismatch(owner, method, expected string) error {
	return errors.TypeMismatch(owner, method, expected, "nil")
}
