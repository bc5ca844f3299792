// Package tempfs provides scoped temporary files and directories for
// pipeline runs. Every acquisition produces a uniquely named resource whose
// release is idempotent, so callers can guarantee cleanup with a single
// deferred call on every exit path.
package tempfs
