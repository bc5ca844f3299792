// Package optimize orchestrates the animated-image optimization pipeline:
// frame extraction through gifsicle, color budget planning, merge and
// verification, and the fallback chain down to in-process quantization and
// a verbatim copy. Falling back is a modeled state transition, not a
// caught-exception side effect, and every temporary resource is released
// on every exit path.
package optimize
