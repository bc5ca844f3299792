// Package quant implements median-cut palette generation and dithered
// palette application for the in-process quantization fallback.
package quant
