// Package engine defines the raster back-end interface the optimization
// pipeline falls back to when the external optimizer is unavailable or
// fails. Two implementations exist: animate (multi-frame GIF containers)
// and raster (single still frames).
package engine
