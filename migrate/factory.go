package migrate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/s8rbridge/adapter"
	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/config"
	"github.com/c360/s8rbridge/direct"
	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/metric"
	"github.com/c360/s8rbridge/port"
	"github.com/c360/s8rbridge/reflective"
	"github.com/c360/s8rbridge/translate"
)

// Conversion kinds used as metric labels.
const (
	kindTube       = "tube"
	kindComposite  = "composite"
	kindMachine    = "machine"
	kindReflective = "reflective"
	kindComponent  = "component"
)

// Factory is the single entry point for moving objects between the legacy
// and new component families. All state it owns (issue collector, type
// registry, contract cache) is scoped to the instance.
type Factory struct {
	cfg       *config.SafeConfig
	collector *feedback.Collector
	issues    *feedback.Logger
	logger    *slog.Logger
	core      *metric.Metrics
	tubes     *direct.ComponentAdapter
	registry  *reflective.TypeRegistry
	resolver  *reflective.Resolver
}

// New builds a factory. The configuration is validated and every family it
// names is registered with the reflective resolver.
func New(opts ...Option) (*Factory, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = config.DefaultConfig()
	}
	if err := o.config.Validate(); err != nil {
		return nil, errors.Wrap(err, "Factory", "New", "config validation")
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.collector == nil {
		cc, err := o.config.Feedback.CollectorConfig()
		if err != nil {
			return nil, errors.Wrap(err, "Factory", "New", "collector config")
		}
		o.collector = feedback.NewCollector(cc)
	}

	logOpts := []feedback.LoggerOption{feedback.WithSlog(o.logger)}
	if !o.config.Feedback.Console {
		logOpts = append(logOpts, feedback.WithoutConsole())
	}
	var core *metric.Metrics
	if o.metrics != nil {
		im, err := feedback.NewIssueMetrics(o.metrics)
		if err != nil {
			return nil, errors.Wrap(err, "Factory", "New", "issue metrics registration")
		}
		logOpts = append(logOpts, feedback.WithIssueMetrics(im))
		core = o.metrics.CoreMetrics()
	}
	issues := feedback.NewLogger("migrate", o.collector, logOpts...)

	if o.registry == nil {
		regOpts := []reflective.RegistryOption{
			reflective.WithLogger(o.logger),
			reflective.WithContractCache(o.config.Reflection.ContractCache),
		}
		if o.metrics != nil {
			regOpts = append(regOpts, reflective.WithMetrics(o.metrics))
		}
		reg, err := reflective.NewTypeRegistry(regOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "Factory", "New", "type registry creation")
		}
		o.registry = reg
	}
	if err := registerLegacyCore(o.registry); err != nil {
		return nil, err
	}

	resolver := reflective.NewResolver(o.registry, issues)
	for name, spec := range o.config.Reflection.Families {
		if err := resolver.Register(name, spec); err != nil {
			return nil, errors.Wrap(err, "Factory", "New", "family "+name)
		}
	}

	f := &Factory{
		cfg:       config.NewSafeConfig(o.config.Clone()),
		collector: o.collector,
		issues:    issues,
		logger:    o.logger.With("component", "migrate"),
		core:      core,
		tubes:     direct.NewComponentAdapter(issues),
		registry:  o.registry,
		resolver:  resolver,
	}
	f.logger.Debug("Migration factory ready", "families", resolver.Families())
	return f, nil
}

// registerLegacyCore makes the legacy core component types resolvable by
// the names DefaultConfig uses.
func registerLegacyCore(reg *reflective.TypeRegistry) error {
	samples := []any{(*legacy.Environment)(nil), (*legacy.Identity)(nil), (*legacy.CoreComponent)(nil)}
	for _, s := range samples {
		if _, err := reg.Register(s); err != nil {
			return errors.Wrap(err, "Factory", "New", "legacy core registration")
		}
	}
	idName := reflective.NameOf((*legacy.Identity)(nil))
	ctors := map[string]any{"adam": legacy.NewAdamIdentity, "child": legacy.NewChildIdentity}
	for name, fn := range ctors {
		err := reg.RegisterConstructor(idName, name, fn)
		if err != nil && !errors.Is(err, errors.ErrAlreadyExists) {
			return errors.Wrap(err, "Factory", "New", "legacy core constructor "+name)
		}
	}
	return nil
}

func (f *Factory) adapterOptions() []adapter.Option {
	return []adapter.Option{
		adapter.WithIssues(f.issues),
		adapter.WithTubeAdapter(f.tubes),
		adapter.WithMetrics(f.core),
	}
}

func (f *Factory) record(kind string, started time.Time, err error) {
	f.core.RecordConversion(kind, started, err)
	if err != nil {
		f.logger.Debug("Conversion failed", "kind", kind, "error", err)
	}
}

func (f *Factory) mismatch(method, expected string, obj any) error {
	actual := "nil"
	if obj != nil {
		actual = fmt.Sprintf("%T", obj)
	}
	f.issues.ReportTypeMismatch(method, actual, expected)
	return errors.TypeMismatch("Factory", method, expected, actual)
}

// WrapComponentAsPort presents a legacy tube through port.ComponentPort.
func (f *Factory) WrapComponentAsPort(t *legacy.Tube) (port.ComponentPort, error) {
	started := time.Now()
	p, err := f.tubes.Wrap(t)
	f.record(kindTube, started, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// WrapLegacyAsPort presents any supported object through
// port.ComponentPort. Tubes, composites and machines of the legacy family
// and new-style components are handled directly; any other type is
// resolved through the configured reflective families.
func (f *Factory) WrapLegacyAsPort(obj any) (port.ComponentPort, error) {
	switch v := obj.(type) {
	case nil:
		return nil, f.mismatch("WrapLegacyAsPort", "legacy component", obj)
	case *legacy.Tube:
		return f.WrapComponentAsPort(v)
	case *legacy.Composite:
		w, err := f.WrapComposite(v)
		if err != nil {
			return nil, err
		}
		return adapter.NewCompositePort(w, f.adapterOptions()...), nil
	case *legacy.Machine:
		return f.WrapMachineAsPort(v)
	case *component.Component:
		f.record(kindComponent, time.Now(), nil)
		return adapter.NewComponentPort(v), nil
	case port.ComponentPort:
		return v, nil
	}
	started := time.Now()
	p, err := f.resolver.Wrap(obj)
	f.record(kindReflective, started, err)
	return p, err
}

// WrapComposite makes a legacy composite usable as a component.Composite.
// The wrapper stays live: mutations reach the legacy composite.
func (f *Factory) WrapComposite(lc *legacy.Composite) (component.Composite, error) {
	started := time.Now()
	w, err := adapter.NewCompositeWrapper(lc, f.adapterOptions()...)
	f.record(kindComposite, started, err)
	if err != nil {
		f.issues.ReportTypeMismatch("WrapComposite", "nil", "*legacy.Composite")
		return nil, err
	}
	return w, nil
}

// WrapMachine makes a legacy machine usable as a component.Machine.
func (f *Factory) WrapMachine(lm *legacy.Machine) (component.Machine, error) {
	started := time.Now()
	w, err := adapter.NewMachineWrapper(lm, f.adapterOptions()...)
	f.record(kindMachine, started, err)
	if err != nil {
		f.issues.ReportTypeMismatch("WrapMachine", "nil", "*legacy.Machine")
		return nil, err
	}
	return w, nil
}

// WrapMachineAsPort presents a live legacy machine through port.MachinePort.
func (f *Factory) WrapMachineAsPort(lm *legacy.Machine) (port.MachinePort, error) {
	m, err := f.WrapMachine(lm)
	if err != nil {
		return nil, err
	}
	return adapter.NewMachinePort(m, f.adapterOptions()...), nil
}

// CreateLegacyComponent creates a legacy tube and returns its port view.
func (f *Factory) CreateLegacyComponent(name, componentType, reason string) (port.ComponentPort, error) {
	t, err := f.tubes.Create(name, componentType, reason)
	if err != nil {
		return nil, err
	}
	return f.WrapComponentAsPort(t)
}

// CreateChildComponent creates a legacy tube descending from parent.
func (f *Factory) CreateChildComponent(reason string, parent *legacy.Tube) (port.ComponentPort, error) {
	t, err := f.tubes.CreateChild(reason, parent)
	if err != nil {
		return nil, err
	}
	return f.WrapComponentAsPort(t)
}

// CreateHybridComposite creates a new-style composite in a legacy
// environment, ready to hold wrapped tubes next to native components.
func (f *Factory) CreateHybridComposite(compositeID string, env *legacy.Environment) *component.StandardComposite {
	return component.NewComposite(compositeID, f.tubes.Environments().FromLegacy(env))
}

// AddTubeToComposite wraps the tube src holds under tubeName and adds it to
// dst under name.
func (f *Factory) AddTubeToComposite(src *legacy.Composite, tubeName string, dst component.Composite, name string) error {
	if src == nil {
		return f.mismatch("AddTubeToComposite", "*legacy.Composite", nil)
	}
	if dst == nil {
		return f.mismatch("AddTubeToComposite", "component.Composite", nil)
	}
	t, ok := src.Tube(tubeName)
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("%w: tube %q in composite %s", errors.ErrNotFound, tubeName, src.CompositeID()),
			"Factory", "AddTubeToComposite", "tube lookup")
	}
	tc, err := f.tubes.Wrap(t)
	if err != nil {
		return err
	}
	return dst.AddComponent(name, tc)
}

// ToComponentID converts a legacy identity.
func (f *Factory) ToComponentID(id *legacy.Identity) (identity.ComponentID, error) {
	return f.tubes.Identities().ToComponentID(id)
}

// FromLegacyEnvironment copies a legacy environment into a new one.
func (f *Factory) FromLegacyEnvironment(env *legacy.Environment) *component.Environment {
	return f.tubes.Environments().FromLegacy(env)
}

// ToLegacyEnvironment copies a new environment into a legacy one.
func (f *Factory) ToLegacyEnvironment(env *component.Environment) *legacy.Environment {
	return f.tubes.Environments().ToLegacy(env)
}

// ExtractTube returns the legacy tube behind a port, if there is one.
func (f *Factory) ExtractTube(p port.ComponentPort) (*legacy.Tube, bool) {
	tc, ok := p.(*direct.TubeComponent)
	if !ok || tc == nil {
		return nil, false
	}
	return tc.Tube(), true
}

// Collector returns the issue collector every converter reports into.
func (f *Factory) Collector() *feedback.Collector { return f.collector }

// Issues returns the factory's issue logger.
func (f *Factory) Issues() *feedback.Logger { return f.issues }

// Translator returns the shared identity and state translator.
func (f *Factory) Translator() *translate.Translator { return f.tubes.Translator() }

// Resolver returns the reflective family resolver.
func (f *Factory) Resolver() *reflective.Resolver { return f.resolver }

// TypeRegistry returns the registry reflective families resolve against.
func (f *Factory) TypeRegistry() *reflective.TypeRegistry { return f.registry }

// Config returns a copy of the current configuration.
func (f *Factory) Config() *config.Config { return f.cfg.Get() }

// Reconfigure validates cfg and makes it current. The collector picks up the
// new feedback bounds at once; families and the contract cache keep the
// settings the factory was built with.
func (f *Factory) Reconfigure(cfg *config.Config) error {
	if err := f.cfg.Update(cfg); err != nil {
		return errors.Wrap(err, "Factory", "Reconfigure", "config update")
	}
	cc, err := cfg.Feedback.CollectorConfig()
	if err != nil {
		return errors.Wrap(err, "Factory", "Reconfigure", "collector config")
	}
	f.collector.Configure(cc)
	f.logger.Info("Factory reconfigured", "min_severity", cfg.Feedback.MinSeverity)
	return nil
}

// Report summarizes every issue collected so far.
func (f *Factory) Report() feedback.Report { return f.collector.Report() }
