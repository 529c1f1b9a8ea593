package dsp

import "math"

// complexFFT is a minimal iterative radix-2 Cooley-Tukey FFT used by the
// partitioned convolution engine. The original engine uses rustfft; no
// pure-Go FFT library appears anywhere in the reference pack, so this is
// a small documented in-house implementation rather than a fabricated
// dependency (see DESIGN.md).
//
// n must be a power of two. inverse selects forward/inverse transform;
// the inverse transform is NOT normalized by 1/n, callers must scale.
func complexFFT(re, im []float64, inverse bool) {
	n := len(re)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		ang := 2 * math.Pi / float64(length)
		if !inverse {
			ang = -ang
		}
		wRe, wIm := math.Cos(ang), math.Sin(ang)
		for i := 0; i < n; i += length {
			curRe, curIm := 1.0, 0.0
			half := length / 2
			for j := 0; j < half; j++ {
				uRe, uIm := re[i+j], im[i+j]
				vRe := re[i+j+half]*curRe - im[i+j+half]*curIm
				vIm := re[i+j+half]*curIm + im[i+j+half]*curRe

				re[i+j] = uRe + vRe
				im[i+j] = uIm + vIm
				re[i+j+half] = uRe - vRe
				im[i+j+half] = uIm - vIm

				nextRe := curRe*wRe - curIm*wIm
				nextIm := curRe*wIm + curIm*wRe
				curRe, curIm = nextRe, nextIm
			}
		}
	}
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// realFFTPair holds a frequency-domain representation of a zero-padded
// real time-domain block, stored as parallel real/imaginary slices of
// length fftSize (the redundant conjugate-symmetric half is kept rather
// than packed, trading memory for simplicity in the partition multiply).
type realFFTPair struct {
	re, im []float64
}

func newRealFFTPair(timeDomain []float64, fftSize int) realFFTPair {
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	copy(re, timeDomain)
	complexFFT(re, im, false)
	return realFFTPair{re: re, im: im}
}

// complexMulAdd accumulates a*b into dstRe/dstIm (frequency-domain
// multiply is the time-domain convolution of the two partitions).
func complexMulAdd(dstRe, dstIm, aRe, aIm, bRe, bIm []float64) {
	for i := range dstRe {
		dstRe[i] += aRe[i]*bRe[i] - aIm[i]*bIm[i]
		dstIm[i] += aRe[i]*bIm[i] + aIm[i]*bRe[i]
	}
}
