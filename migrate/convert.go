package migrate

import (
	"time"

	"github.com/c360/s8rbridge/adapter"
	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/port"
)

// Snapshot kinds used as metric labels.
const (
	kindCompositeCopy = "composite_copy"
	kindMachineCopy   = "machine_copy"
)

// ConvertComposite copies a legacy composite into a new, independent
// composite. Each tube becomes a component carrying the tube's identity,
// state, name and activity log. Later changes on either side are not
// mirrored.
func (f *Factory) ConvertComposite(lc *legacy.Composite) (*component.StandardComposite, error) {
	started := time.Now()
	c, err := f.convertComposite(lc)
	f.record(kindCompositeCopy, started, err)
	return c, err
}

func (f *Factory) convertComposite(lc *legacy.Composite) (*component.StandardComposite, error) {
	if lc == nil {
		return nil, f.mismatch("ConvertComposite", "*legacy.Composite", nil)
	}
	out := component.NewComposite(lc.CompositeID(), f.FromLegacyEnvironment(lc.Environment()))
	for name, t := range lc.Tubes() {
		c, err := f.convertTube(t)
		if err != nil {
			return nil, err
		}
		if err := out.AddComponent(name, c); err != nil {
			return nil, err
		}
	}
	for src, targets := range lc.Connections() {
		for _, dst := range targets {
			if err := out.Connect(src, dst); err != nil {
				return nil, err
			}
		}
	}
	if lc.IsActive() {
		out.Activate()
	}
	f.logger.Debug("Converted composite", "composite_id", lc.CompositeID(), "components", len(out.Components()))
	return out, nil
}

func (f *Factory) convertTube(t *legacy.Tube) (*component.Component, error) {
	cid, err := f.tubes.Identities().FromTube(t)
	if err != nil {
		return nil, err
	}
	state, err := f.tubes.State(t)
	if err != nil {
		return nil, err
	}
	c := component.FromID(cid, f.FromLegacyEnvironment(t.Environment()))
	for _, entry := range t.ActivityLog() {
		c.Log(entry)
	}
	c.ForceState(state)
	if name := t.Name(); name != "" {
		c.SetProperty("name", name)
	}
	c.SetProperty("legacy_id", t.UniqueID())
	return c, nil
}

// ConvertMachine copies a legacy machine, its composites, connections and
// state bag into a new, independent machine.
func (f *Factory) ConvertMachine(lm *legacy.Machine) (*component.StandardMachine, error) {
	started := time.Now()
	m, err := f.convertMachine(lm)
	f.record(kindMachineCopy, started, err)
	return m, err
}

func (f *Factory) convertMachine(lm *legacy.Machine) (*component.StandardMachine, error) {
	if lm == nil {
		return nil, f.mismatch("ConvertMachine", "*legacy.Machine", nil)
	}
	out := component.NewMachine(lm.MachineID(), f.FromLegacyEnvironment(lm.Environment()))
	for name, lc := range lm.Composites() {
		c, err := f.convertComposite(lc)
		if err != nil {
			return nil, err
		}
		if err := out.AddComposite(name, c); err != nil {
			return nil, err
		}
	}
	for src, targets := range lm.Connections() {
		for _, dst := range targets {
			if err := out.Connect(src, dst); err != nil {
				return nil, err
			}
		}
	}
	for k, v := range lm.State() {
		out.UpdateState(k, v)
	}
	if !lm.IsActive() {
		out.Deactivate()
	}
	f.logger.Debug("Converted machine", "machine_id", lm.MachineID(), "composites", len(out.Composites()))
	return out, nil
}

// ConvertMachineToPort copies a legacy machine and presents the copy
// through port.MachinePort.
func (f *Factory) ConvertMachineToPort(lm *legacy.Machine) (port.MachinePort, error) {
	m, err := f.ConvertMachine(lm)
	if err != nil {
		return nil, err
	}
	return adapter.NewMachinePort(m, f.adapterOptions()...), nil
}
