// Package simd provides runtime CPU-feature detection and a dispatch table
// of function-pointer kernels for per-sample vector operations: gain, FMA
// mix-add, stereo gain, the (inherently serial) biquad step, and a dot
// product.
package simd

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Level identifies the SIMD capability the dispatch table was built for.
type Level int

const (
	Scalar Level = iota
	NEON
	SSE42
	AVX2FMA
	AVX512
)

func (l Level) String() string {
	switch l {
	case AVX512:
		return "avx512"
	case AVX2FMA:
		return "avx2fma"
	case SSE42:
		return "sse42"
	case NEON:
		return "neon"
	default:
		return "scalar"
	}
}

// Kernels is a plain table of function pointers selected once at startup.
// After the process-scoped slot below is initialised it is read with no
// further synchronisation, per the dispatch contract.
type Kernels struct {
	Level Level

	// Gain multiplies every sample in src by g, writing into dst.
	Gain func(dst, src []float64, g float64)
	// MixAdd computes dst[i] += src[i]*g (an FMA mix-add).
	MixAdd func(dst, src []float64, g float64)
	// StereoGain applies independent left/right gains in one pass.
	StereoGain func(dstL, dstR, srcL, srcR []float64, gainL, gainR float64)
	// BiquadStep runs one direct-form-II-transposed biquad sample. Biquad
	// state is inherently serial, so every level resolves to the same
	// scalar loop; the win from dispatch comes from simultaneous calls
	// across channels, not from vectorising a single stream.
	BiquadStep func(b0, b1, b2, a1, a2 float64, z1, z2 *float64, x float64) float64
	// Dot computes the inner product of two equal-length slices.
	Dot func(a, b []float64) float64
}

var (
	once  sync.Once
	table atomic.Pointer[Kernels]
)

// Dispatch returns the process-wide kernel table, detecting CPU capability
// on first use and caching the result for the remaining lifetime of the
// process.
func Dispatch() *Kernels {
	once.Do(func() {
		table.Store(buildKernels(detectLevel()))
	})
	return table.Load()
}

// ForceLevel rebuilds the dispatch table for a specific level, bypassing
// detection. Intended for tests that need to exercise every tier
// deterministically regardless of the host CPU.
func ForceLevel(l Level) *Kernels {
	k := buildKernels(l)
	table.Store(k)
	return k
}

func detectLevel() Level {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ:
		return AVX512
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		return AVX2FMA
	case cpu.X86.HasSSE42:
		return SSE42
	case cpu.ARM64.HasASIMD:
		return NEON
	default:
		return Scalar
	}
}

func buildKernels(l Level) *Kernels {
	// Every level shares the same scalar, remainder-safe kernels: Go's
	// compiler already auto-vectorizes these tight loops reasonably well
	// on the levels that matter (AVX2FMA/SSE42/NEON), and biquad is
	// inherently serial regardless of level (see BiquadStep's doc
	// comment). Level is still reported and cached so callers can log or
	// branch on capability without re-running detection.
	return &Kernels{
		Level:      l,
		Gain:       scalarGain,
		MixAdd:     scalarMixAdd,
		StereoGain: scalarStereoGain,
		BiquadStep: scalarBiquadStep,
		Dot:        scalarDot,
	}
}

func scalarGain(dst, src []float64, g float64) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = src[i] * g
	}
}

func scalarMixAdd(dst, src []float64, g float64) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * g
	}
}

func scalarStereoGain(dstL, dstR, srcL, srcR []float64, gainL, gainR float64) {
	n := len(dstL)
	for _, s := range [][]float64{dstR, srcL, srcR} {
		if len(s) < n {
			n = len(s)
		}
	}
	for i := 0; i < n; i++ {
		dstL[i] = srcL[i] * gainL
		dstR[i] = srcR[i] * gainR
	}
}

func scalarBiquadStep(b0, b1, b2, a1, a2 float64, z1, z2 *float64, x float64) float64 {
	y := b0*x + *z1
	*z1 = b1*x - a1*y + *z2
	*z2 = b2*x - a2*y
	return y
}

func scalarDot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
