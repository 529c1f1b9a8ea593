package dsp

// IRMode selects how a loaded impulse response maps mono/stereo input to
// stereo output.
type IRMode int

const (
	// IRMonoToStereo convolves a single mono IR against the summed mono
	// input, duplicated identically to both output channels.
	IRMonoToStereo IRMode = iota
	// IRStereoMatrix convolves a left IR against the left input and a
	// right IR against the right input independently, with no crosstalk.
	IRStereoMatrix
	// IRTrueStereo convolves all four IR legs (LL, LR, RL, RR) against
	// both input channels, modeling a space's full stereo crosstalk.
	IRTrueStereo
)

// PartitionScheme selects how a monoConvolver divides the IR tail (the
// part past the zero-latency direct partition) into FFT partitions.
type PartitionScheme int

const (
	// PartitionUniform gives every FFT partition the same size (one
	// blockSize) and recombines all of them, against a ring of past
	// input blocks, every callback.
	PartitionUniform PartitionScheme = iota
	// PartitionNonUniform doubles partition size every two segments (up
	// to a cap), so later, larger partitions fire their FFT only once
	// every size/blockSize blocks instead of every callback.
	PartitionNonUniform
)

// maxNonUniformBlocks caps how large a non-uniform partition's window
// may grow (in multiples of blockSize) so a very long IR still amortises
// rather than collapsing to one enormous, rarely-run FFT.
const maxNonUniformBlocks = 16

// monoConvolver is a single-channel partitioned convolution engine.
// Partition 0 (the first blockSize IR samples) runs as a direct
// time-domain FIR for zero added latency. Later IR samples run as FFT
// overlap-add partitions in one of two schemes (see PartitionScheme):
// PartitionUniform MACs every partition's spectrum against a ring of
// past input blocks every callback (Gardner's partitioned convolution);
// PartitionNonUniform instead gives each doubling-sized segment its own
// independent single-partition convolver plus a fixed delay line that
// places its output at its offset into the IR, so bigger segments fire
// less often.
type monoConvolver struct {
	blockSize int
	fftSize   int
	scheme    PartitionScheme

	directIR  []float64
	directBuf []float64 // ring buffer, length blockSize
	directPos int

	irPartitions []realFFTPair // frequency domain, one per later IR partition (PartitionUniform)
	inputHistory []realFFTPair // ring buffer of FFT'd input blocks (PartitionUniform)
	historyPos   int

	groups []*convGroup // one per non-uniform segment (PartitionNonUniform)

	overlapTail []float64 // saved second half of the last IFFT'd block (PartitionUniform)
	inputBlock  []float64 // accumulating current host-rate input block
	inputFill   int

	outputQueue []float64 // drained sample by sample (PartitionUniform)
	outputRead  int
}

func newMonoConvolver(blockSize int) *monoConvolver {
	return newMonoConvolverWithScheme(blockSize, PartitionUniform)
}

// newMonoConvolverWithScheme builds a convolver that partitions its IR
// tail per scheme once loadIR is called.
func newMonoConvolverWithScheme(blockSize int, scheme PartitionScheme) *monoConvolver {
	if blockSize < 1 {
		blockSize = 64
	}
	return &monoConvolver{
		blockSize:  blockSize,
		fftSize:    nextPow2(blockSize * 2),
		scheme:     scheme,
		directBuf:  make([]float64, blockSize),
		inputBlock: make([]float64, blockSize),
	}
}

// convGroup is one segment of a non-uniform partitioning scheme: a
// fixed-size slice of the IR tail, convolved independently against a
// window of the raw input the same size as the segment, then delayed by
// offset+blockSize-size samples (its absolute IR position less the size
// samples already spent filling its window) so its contribution lands
// at the correct absolute sample position once summed with the other
// groups. Firing only every size/blockSize blocks is what amortises the
// FFT cost of the larger, later segments across callbacks.
type convGroup struct {
	size    int // window size in samples, a multiple of blockSize
	offset  int // this segment's starting offset within the IR tail
	fftSize int

	irFreq realFFTPair

	accum       []float64
	accumFill   int
	overlapTail []float64

	delayBuf []float64 // ring buffer of length delay; no-op when delay == 0
	delayPos int

	outQueue []float64
	outRead  int
}

func newConvGroup(size, offset, delay int) *convGroup {
	g := &convGroup{
		size:        size,
		offset:      offset,
		fftSize:     nextPow2(2 * size),
		accum:       make([]float64, size),
		overlapTail: make([]float64, nextPow2(2*size)),
	}
	if delay > 0 {
		g.delayBuf = make([]float64, delay)
	}
	return g
}

func (g *convGroup) loadSegment(segment []float64) {
	padded := make([]float64, g.fftSize)
	copy(padded, segment)
	g.irFreq = newRealFFTPair(padded, g.fftSize)
}

func (g *convGroup) reset() {
	for i := range g.accum {
		g.accum[i] = 0
	}
	g.accumFill = 0
	for i := range g.overlapTail {
		g.overlapTail[i] = 0
	}
	for i := range g.delayBuf {
		g.delayBuf[i] = 0
	}
	g.delayPos = 0
	g.outQueue = nil
	g.outRead = 0
}

// pushBlock appends one blockSize-sized chunk of raw input to this
// group's accumulation window, firing its own FFT convolution once the
// window fills (every size/blockSize blocks).
func (g *convGroup) pushBlock(block []float64) {
	copy(g.accum[g.accumFill:], block)
	g.accumFill += len(block)
	if g.accumFill < g.size {
		return
	}
	g.accumFill = 0

	padded := make([]float64, g.fftSize)
	copy(padded, g.accum)
	freq := newRealFFTPair(padded, g.fftSize)

	accRe := make([]float64, g.fftSize)
	accIm := make([]float64, g.fftSize)
	complexMulAdd(accRe, accIm, freq.re, freq.im, g.irFreq.re, g.irFreq.im)
	complexFFT(accRe, accIm, true)
	scale := 1.0 / float64(g.fftSize)
	for i := range accRe {
		accRe[i] *= scale
	}

	out := make([]float64, g.size)
	for i := 0; i < g.size; i++ {
		out[i] = accRe[i] + g.overlapTail[i]
	}
	newTail := make([]float64, g.fftSize)
	copy(newTail, accRe[g.size:])
	g.overlapTail = newTail

	if len(g.delayBuf) == 0 {
		g.outQueue = append(g.outQueue, out...)
		return
	}
	for _, s := range out {
		delayed := g.delayBuf[g.delayPos]
		g.delayBuf[g.delayPos] = s
		g.delayPos++
		if g.delayPos >= len(g.delayBuf) {
			g.delayPos = 0
		}
		g.outQueue = append(g.outQueue, delayed)
	}
}

func (g *convGroup) nextSample() float64 {
	if g.outRead >= len(g.outQueue) {
		return 0
	}
	v := g.outQueue[g.outRead]
	g.outRead++
	if g.outRead == len(g.outQueue) {
		g.outQueue = g.outQueue[:0]
		g.outRead = 0
	}
	return v
}

// buildNonUniformGroups divides rest (the IR tail past the direct
// partition) into segments whose size in blocks doubles every two
// segments (1,1,2,2,4,4,... capped at maxNonUniformBlocks), per
// spec.md §4.2's non-uniform partitioning scheme.
func buildNonUniformGroups(rest []float64, minSize int) []*convGroup {
	var groups []*convGroup
	offset := 0
	blocks := 1
	sinceDouble := 0
	for offset < len(rest) {
		size := blocks * minSize
		end := offset + size
		hi := end
		if hi > len(rest) {
			hi = len(rest)
		}
		g := newConvGroup(size, offset, offset+minSize-size)
		g.loadSegment(rest[offset:hi])
		groups = append(groups, g)

		offset = end
		sinceDouble++
		if sinceDouble == 2 {
			sinceDouble = 0
			if blocks < maxNonUniformBlocks {
				blocks *= 2
			}
		}
	}
	return groups
}

// loadIR splits ir into a direct partition (first blockSize samples) and
// an IR tail partitioned per m.scheme: PartitionUniform chops the tail
// into equal blockSize-sized FFT partitions recombined every callback;
// PartitionNonUniform instead builds doubling-sized convGroups, each
// firing its own FFT only once every size/blockSize blocks.
func (m *monoConvolver) loadIR(ir []float64) {
	b := m.blockSize
	m.directIR = make([]float64, b)
	m.irPartitions = nil
	m.groups = nil

	if len(ir) <= b {
		copy(m.directIR, ir)
		m.inputHistory = nil
		m.overlapTail = make([]float64, m.fftSize)
		return
	}

	copy(m.directIR, ir[:b])
	rest := ir[b:]

	switch m.scheme {
	case PartitionNonUniform:
		m.groups = buildNonUniformGroups(rest, b)
		m.inputHistory = nil
	default:
		numPartitions := (len(rest) + b - 1) / b
		m.irPartitions = make([]realFFTPair, numPartitions)
		for p := 0; p < numPartitions; p++ {
			start := p * b
			end := start + b
			chunk := make([]float64, b)
			if start < len(rest) {
				copy(chunk, rest[start:min(end, len(rest))])
			}
			m.irPartitions[p] = newRealFFTPair(chunk, m.fftSize)
		}
		m.inputHistory = make([]realFFTPair, len(m.irPartitions))
		for i := range m.inputHistory {
			m.inputHistory[i] = realFFTPair{re: make([]float64, m.fftSize), im: make([]float64, m.fftSize)}
		}
	}
	m.historyPos = 0
	m.overlapTail = make([]float64, m.fftSize)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (m *monoConvolver) reset() {
	for i := range m.directBuf {
		m.directBuf[i] = 0
	}
	m.directPos = 0
	for i := range m.inputHistory {
		for j := range m.inputHistory[i].re {
			m.inputHistory[i].re[j] = 0
			m.inputHistory[i].im[j] = 0
		}
	}
	for i := range m.overlapTail {
		m.overlapTail[i] = 0
	}
	for i := range m.inputBlock {
		m.inputBlock[i] = 0
	}
	m.inputFill = 0
	m.outputQueue = nil
	m.outputRead = 0
	for _, g := range m.groups {
		g.reset()
	}
}

func (m *monoConvolver) latency() int {
	if len(m.irPartitions) == 0 && len(m.groups) == 0 {
		return 0
	}
	return m.blockSize
}

// directSample advances the direct-partition ring buffer and returns its
// contribution to the current output sample.
func (m *monoConvolver) directSample(x float64) float64 {
	m.directBuf[m.directPos] = x
	var out float64
	n := len(m.directBuf)
	for k, c := range m.directIR {
		idx := m.directPos - k
		for idx < 0 {
			idx += n
		}
		out += c * m.directBuf[idx]
	}
	m.directPos++
	if m.directPos >= n {
		m.directPos = 0
	}
	return out
}

// flushBlock runs the FFT partition pipeline once a full host-rate input
// block has accumulated, appending blockSize output samples (delayed by
// one block) to the output queue.
func (m *monoConvolver) flushBlock() {
	b := m.blockSize

	if len(m.irPartitions) == 0 {
		m.inputFill = 0
		return
	}

	padded := make([]float64, m.fftSize)
	copy(padded, m.inputBlock)
	freq := newRealFFTPair(padded, m.fftSize)

	m.historyPos = (m.historyPos - 1 + len(m.inputHistory)) % len(m.inputHistory)
	m.inputHistory[m.historyPos] = freq

	accRe := make([]float64, m.fftSize)
	accIm := make([]float64, m.fftSize)
	for p, ir := range m.irPartitions {
		hIdx := (m.historyPos + p) % len(m.inputHistory)
		h := m.inputHistory[hIdx]
		complexMulAdd(accRe, accIm, h.re, h.im, ir.re, ir.im)
	}

	complexFFT(accRe, accIm, true)
	scale := 1.0 / float64(m.fftSize)
	for i := range accRe {
		accRe[i] *= scale
	}

	out := make([]float64, b)
	for i := 0; i < b; i++ {
		out[i] = accRe[i] + m.overlapTail[i]
	}
	newTail := make([]float64, m.fftSize)
	copy(newTail, accRe[b:])
	m.overlapTail = newTail

	m.outputQueue = append(m.outputQueue, out...)
	m.inputFill = 0
}

// processSample pushes one input sample and returns the convolved output
// sample, combining the direct partition (zero latency) with the queued
// FFT-partition output (one block of latency).
func (m *monoConvolver) processSample(x float64) float64 {
	direct := m.directSample(x)

	// The queued FFT-partition output must be drained before this call's
	// own flush (if any) appends to it: a completed block's FFT result
	// belongs to the block starting at the *next* sample, one full block
	// later than the block that just completed.
	var fftPart float64
	switch m.scheme {
	case PartitionNonUniform:
		for _, g := range m.groups {
			fftPart += g.nextSample()
		}
	default:
		if m.outputRead < len(m.outputQueue) {
			fftPart = m.outputQueue[m.outputRead]
			m.outputRead++
			if m.outputRead == len(m.outputQueue) {
				m.outputQueue = m.outputQueue[:0]
				m.outputRead = 0
			}
		}
	}

	m.inputBlock[m.inputFill] = x
	m.inputFill++
	if m.inputFill >= m.blockSize {
		switch m.scheme {
		case PartitionNonUniform:
			for _, g := range m.groups {
				g.pushBlock(m.inputBlock)
			}
			m.inputFill = 0
		default:
			m.flushBlock()
		}
	}

	return direct + fftPart
}

// ConvolutionReverb is a convolution engine operating on a loaded impulse
// response with selectable stereo handling, predelay, and linear dry/wet
// mix.
type ConvolutionReverb struct {
	sr        float64
	blockSize int
	mode      IRMode
	scheme    PartitionScheme

	convLL, convLR, convRL, convRR *monoConvolver

	predelayBuf     []float64
	predelayPos     int
	predelaySamples int

	dry, wet float64
}

// NewConvolutionReverb builds an engine processing in blocks of
// blockSize samples (a smaller block lowers the FFT-partition latency at
// the cost of more frequent FFT work), using uniform partitioning by
// default.
func NewConvolutionReverb(sr float64, blockSize int) *ConvolutionReverb {
	c := &ConvolutionReverb{blockSize: blockSize, mode: IRMonoToStereo, dry: 1, wet: 0}
	c.SetSampleRate(sr)
	return c
}

// SetPartitionScheme selects uniform or non-uniform IR-tail partitioning
// for subsequent LoadIR calls.
func (c *ConvolutionReverb) SetPartitionScheme(scheme PartitionScheme) {
	c.scheme = scheme
}

func (c *ConvolutionReverb) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}
	c.sr = sr
	maxPredelay := int(0.5 * sr) // 500ms ring
	if maxPredelay < 1 {
		maxPredelay = 1
	}
	c.predelayBuf = make([]float64, maxPredelay)
	c.predelayPos = 0
}

// LoadIR installs an impulse response. For IRMonoToStereo and
// IRStereoMatrix, irs must have length 1 or 2 respectively (index order
// L, R). For IRTrueStereo, irs must have length 4 in order LL, LR, RL, RR.
func (c *ConvolutionReverb) LoadIR(mode IRMode, irs ...[]float64) {
	c.mode = mode
	newConv := func() *monoConvolver { return newMonoConvolverWithScheme(c.blockSize, c.scheme) }
	switch mode {
	case IRMonoToStereo:
		c.convLL = newConv()
		c.convLL.loadIR(irs[0])
	case IRStereoMatrix:
		c.convLL = newConv()
		c.convLL.loadIR(irs[0])
		c.convRR = newConv()
		c.convRR.loadIR(irs[1])
	case IRTrueStereo:
		c.convLL = newConv()
		c.convLL.loadIR(irs[0])
		c.convLR = newConv()
		c.convLR.loadIR(irs[1])
		c.convRL = newConv()
		c.convRL.loadIR(irs[2])
		c.convRR = newConv()
		c.convRR.loadIR(irs[3])
	}
}

// SetPredelay sets predelay time in milliseconds, clamped to the buffer
// capacity (500ms).
func (c *ConvolutionReverb) SetPredelay(ms float64) {
	n := int(ms / 1000 * c.sr)
	if n < 0 {
		n = 0
	}
	if n > len(c.predelayBuf)-1 {
		n = len(c.predelayBuf) - 1
	}
	c.predelaySamples = n
}

func (c *ConvolutionReverb) SetMix(dry, wet float64) { c.dry, c.wet = dry, wet }

func (c *ConvolutionReverb) Reset() {
	for _, conv := range []*monoConvolver{c.convLL, c.convLR, c.convRL, c.convRR} {
		if conv != nil {
			conv.reset()
		}
	}
	for i := range c.predelayBuf {
		c.predelayBuf[i] = 0
	}
	c.predelayPos = 0
}

func (c *ConvolutionReverb) Latency() int {
	latency := c.predelaySamples
	if c.convLL != nil && c.convLL.latency() > latency {
		latency = c.convLL.latency()
	}
	return latency
}

func (c *ConvolutionReverb) predelayed(x float64) float64 {
	if c.predelaySamples == 0 {
		return x
	}
	readPos := c.predelayPos - c.predelaySamples
	for readPos < 0 {
		readPos += len(c.predelayBuf)
	}
	delayed := c.predelayBuf[readPos]
	c.predelayBuf[c.predelayPos] = x
	c.predelayPos++
	if c.predelayPos >= len(c.predelayBuf) {
		c.predelayPos = 0
	}
	return delayed
}

// ProcessStereoSample runs predelay then convolution per the loaded IR
// mode and mixes dry/wet.
func (c *ConvolutionReverb) ProcessStereoSample(l, r float64) (float64, float64) {
	if c.convLL == nil {
		return l * c.dry, r * c.dry
	}

	dl := c.predelayed(l)
	dr := c.predelayed(r)

	var wetL, wetR float64
	switch c.mode {
	case IRMonoToStereo:
		mono := (dl + dr) / 2
		w := c.convLL.processSample(mono)
		wetL, wetR = w, w
	case IRStereoMatrix:
		wetL = c.convLL.processSample(dl)
		wetR = c.convRR.processSample(dr)
	case IRTrueStereo:
		wetL = c.convLL.processSample(dl) + c.convRL.processSample(dr)
		wetR = c.convLR.processSample(dl) + c.convRR.processSample(dr)
	}

	return l*c.dry + wetL*c.wet, r*c.dry + wetR*c.wet
}

var (
	_ Processor             = (*ConvolutionReverb)(nil)
	_ StereoSampleProcessor = (*ConvolutionReverb)(nil)
)
