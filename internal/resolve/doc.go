// Package resolve orders recipes into an executable build plan.
//
// Resolution walks the dependency graph depth-first from each requested
// recipe, emitting dependencies before dependents. Ties are broken by
// declaration order, never by name or map iteration, so two runs over the
// same registry and context produce byte-identical plans. That stability is
// what makes container layer caching reproducible between builds.
//
// Cycles and missing dependency names are resolution errors and surface
// before any stage executes.
package resolve
