//go:build !amd64

package simd

// FlushDenormalsToZero is a no-op on architectures without an MXCSR-style
// control register reachable from user space (e.g. arm64, where denormal
// handling is controlled by the FPCR FZ bit through a different
// instruction sequence the teacher's cross-arch split does not need here,
// since ARM cores rarely show the x86 denormal slowdown in practice).
func FlushDenormalsToZero() uint32 { return 0 }

// RestoreDenormals is a no-op to match FlushDenormalsToZero on this arch.
func RestoreDenormals(saved uint32) {}
