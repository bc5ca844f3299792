// Package gifsicle mediates access to the gifsicle CLI used for animated
// GIF optimization.
//
// It resolves the binary from a candidate list with a --version probe,
// normalizes command invocation behind a testable Executor interface,
// parses --info output into typed metadata, explodes animations into
// per-frame files, and builds validated argument lists for the
// optimize/merge operation.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// gifsicle so binary discovery and timeout handling remain consistent.
package gifsicle
