// Package migrate is the facade over the translation layer. A Factory owns
// one issue collector, one reflective type registry and one tube adapter,
// and hands out live wrappers or one-time copies of legacy objects.
//
// # Live wrappers and copies
//
// WrapComposite, WrapMachine and the WrapXAsPort methods return views that
// forward mutations to the legacy object. ConvertComposite and
// ConvertMachine build new-family objects that share nothing with their
// source.
//
// # Basic Usage
//
//	f, err := migrate.New(
//		migrate.WithConfig(cfg),
//		migrate.WithMetrics(metric.NewMetricsRegistry()),
//	)
//	if err != nil {
//		return err
//	}
//
//	p, err := f.WrapLegacyAsPort(tube)
//	if err != nil {
//		return err
//	}
//	_ = p.Activate()
//
//	report := f.Report()
//
// Objects that are neither tubes, composites, machines nor new-family
// components are matched against the reflective families named in
// config.ReflectionConfig. The "core" family, covering legacy.CoreComponent,
// is configured by default.
package migrate
