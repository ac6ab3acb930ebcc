// Package schema declares the step-completeness vocabulary of the wizard:
// for each step, the required field names, minimum array lengths, and
// numeric ranges. The navigation engine's completeness predicates and the
// "missing fields" diagnostics surfaced to callers are both derived from
// this single definition.
//
// The schema is configuration, not code: Default() ships the built-in
// MCS-CEV wizard, and Load() reads an equivalent definition from YAML so
// per-step thresholds can be tuned without recompiling.
package schema
