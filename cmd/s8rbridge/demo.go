package main

import (
	"fmt"
	"log/slog"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/config"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/migrate"
)

// runDemo builds a small legacy machine and drives it through the factory:
// a live port over the machine, a hybrid composite holding a native
// component, a reflectively wrapped core component and a one-time copy.
// Every mismatch along the way lands in the factory's collector.
func runDemo(f *migrate.Factory, logger *slog.Logger) error {
	env := legacy.NewEnvironment(map[string]string{"site": "demo"})
	lm := legacy.NewMachine("plant", env)
	lc := legacy.NewComposite("ingest", env)
	for _, name := range []string{"reader", "parser"} {
		if _, err := lc.CreateTube(name, "stage "+name); err != nil {
			return err
		}
	}
	lc.Connect("reader", "parser")
	lm.AddComposite("ingest", lc)

	mp, err := f.WrapMachineAsPort(lm)
	if err != nil {
		return err
	}
	if !mp.Start() {
		return fmt.Errorf("machine %s did not start", mp.MachineID())
	}

	w, err := f.WrapComposite(lc)
	if err != nil {
		return err
	}
	native, err := component.New("enrich records", w.Environment())
	if err != nil {
		return err
	}
	if err := w.AddComponent("enrich", native); err != nil {
		return err
	}
	if err := w.Connect("parser", "enrich"); err != nil {
		return err
	}

	hybrid := f.CreateHybridComposite("hybrid", env)
	if err := f.AddTubeToComposite(lc, "reader", hybrid, "reader"); err != nil {
		return err
	}

	fam, err := f.Resolver().Family(config.CoreFamily)
	if err != nil {
		return err
	}
	core, err := fam.Component.Create("audit", "sink", "audit trail")
	if err != nil {
		return err
	}
	cp, err := f.WrapLegacyAsPort(core)
	if err != nil {
		return err
	}
	if err := cp.Activate(); err != nil {
		return err
	}

	snapshot, err := f.ConvertMachine(lm)
	if err != nil {
		return err
	}
	logger.Info("Demo migration complete",
		"machine", snapshot.MachineID(),
		"composites", len(snapshot.Composites()),
		"hybrid_components", len(hybrid.Components()),
		"core_state", cp.LifecycleState().String())

	mp.Stop()
	return nil
}
