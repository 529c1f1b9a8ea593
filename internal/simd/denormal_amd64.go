//go:build amd64

package simd

// MXCSR bit 6 (DAZ, denormals-are-zero) and bit 15 (FZ, flush-to-zero)
// together make denormal inputs and outputs round to zero in hardware,
// avoiding the severe slowdown some x86 cores take on denormal arithmetic
// in tight DSP inner loops (reverb tails, decaying delay lines).
const (
	mxcsrDAZ = 1 << 6
	mxcsrFZ  = 1 << 15
)

func readMXCSR() uint32
func writeMXCSR(uint32)

// FlushDenormalsToZero sets DAZ and FZ for the calling goroutine's OS
// thread. Must be called once at audio-thread startup (goroutines that
// process audio should be thread-locked via runtime.LockOSThread first,
// since MXCSR is per-thread, not per-goroutine).
func FlushDenormalsToZero() uint32 {
	prev := readMXCSR()
	writeMXCSR(prev | mxcsrDAZ | mxcsrFZ)
	return prev
}

// RestoreDenormals writes back a previously saved MXCSR value. Provided
// for compatibility tests that must not leak FZ/DAZ into later cases.
func RestoreDenormals(saved uint32) {
	writeMXCSR(saved)
}
