// Package preflight provides readiness checks for an application root and
// the paths and binaries ahn depends on.
//
// The CLI "ahn doctor" command runs RunAll and renders each Result. Checks
// gated by a config toggle (history, the ps liveness probe) are skipped or
// marked optional when the feature is disabled.
package preflight
