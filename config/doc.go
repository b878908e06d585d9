// Package config loads and validates translation-layer configuration.
//
// Configuration comes from JSON or YAML files, chosen by extension, layered
// over DefaultConfig and then overridden from the environment:
//
//	S8R_LOG_LEVEL      logging.level
//	S8R_LOG_FORMAT     logging.format
//	S8R_MIN_SEVERITY   feedback.min_severity
//
// # Sections
//
// Feedback bounds the migration issue collector (minimum severity, per
// component cap, recommendation threshold). Reflection names the legacy
// families resolved by reflection and sizes the contract cache. Logging
// selects the slog handler.
//
// # Basic Usage
//
//	loader := config.NewLoader()
//	loader.AddLayer("s8r.yaml")
//	loader.AddLayer("s8r.local.json") // overrides s8r.yaml
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// SafeConfig wraps a Config for concurrent readers; Get returns a deep copy
// and Update validates before swapping.
//
// File reads are bounded: paths may not escape the working directory, files
// are capped at 10MB and JSON nesting at 100 levels.
package config
