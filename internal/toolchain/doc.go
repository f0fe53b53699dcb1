// Package toolchain runs external processes and locates the package-manager
// binary that drives project generation. The Runner interface is the seam
// every pipeline stage uses to spawn processes, so tests can substitute a
// recording fake for the real exec-backed implementation.
package toolchain
