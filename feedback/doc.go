// Package feedback records migration issues observed while translating between
// the legacy and new component families.
//
// A Collector aggregates Issues and indexes them by component, type and
// severity. It is always owned by a caller (usually a migrate.Factory); there
// is no package-level collector. A Logger is the reporting front end for one
// category: each report builds an Issue, adds it to the collector, counts it
// in s8rbridge_migration_issues_total and mirrors it to slog at the matching
// level.
//
// Reporting is observational. Converters call a Logger and then carry on
// with the fallback behavior they have already chosen.
package feedback
