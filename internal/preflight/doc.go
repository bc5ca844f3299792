// Package preflight evaluates the runtime environment before optimization
// work: optimizer binary availability, scratch directory access, and free
// disk space.
package preflight
