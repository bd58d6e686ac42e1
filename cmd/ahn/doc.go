// Package main hosts the ahn CLI entrypoint and command graph.
//
// The Cobra command tree maps operator verbs (start, daemon, stop, restart,
// status) onto the lifecycle controller and renders its results. It also
// owns configuration and logger resolution, the doctor, history and config
// utility commands, and the legacy verb aliases older ahn releases accepted.
package main
