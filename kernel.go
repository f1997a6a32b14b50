package w2vpin

import "math"

// expTableSize and maxExp parameterize the precomputed sigmoid table:
// expTable[i] approximates sigmoid at x = (i/expTableSize*2 - 1) * maxExp.
const (
	expTableSize = 1000
	maxExp       = 6.0
)

func buildExpTable() []float32 {
	table := make([]float32, expTableSize)
	for i := range table {
		arg := (float64(i)/float64(expTableSize)*2 - 1) * maxExp
		x := math.Exp(arg)
		table[i] = float32(x / (x + 1))
	}
	return table
}

// TrainingKernel performs the per-example CBOW and Skip-gram gradient
// steps against a shared EmbeddingMatrices, gated by hierarchical
// softmax and/or negative sampling as configured.
type TrainingKernel struct {
	mat      *EmbeddingMatrices
	vocab    *Vocabulary
	pins     *PinRegistry
	sampler  *UnigramSampler
	expTable []float32

	hs          bool
	negative    int
	window      int
	pinRepeats  int
	neu1, neu1e []float32
}

// NewTrainingKernel builds the kernel's sigmoid table and scratch
// buffers. Scratch buffers are reused across Step calls by a single
// worker and must not be shared across goroutines.
func NewTrainingKernel(mat *EmbeddingMatrices, vocab *Vocabulary, pins *PinRegistry, sampler *UnigramSampler, hs bool, negative int, window int, pinRepeats int) *TrainingKernel {
	return &TrainingKernel{
		mat:        mat,
		vocab:      vocab,
		pins:       pins,
		sampler:    sampler,
		expTable:   buildExpTable(),
		hs:         hs,
		negative:   negative,
		window:     window,
		pinRepeats: pinRepeats,
		neu1:       make([]float32, mat.D),
		neu1e:      make([]float32, mat.D),
	}
}

// sigmoidInRange returns the table lookup and true when |f| < maxExp,
// or (0, false) when the magnitude saturates — hierarchical softmax
// skips the entire update in that case, per spec §4.7.
func (k *TrainingKernel) sigmoidInRange(f float32) (float32, bool) {
	if f <= -maxExp || f >= maxExp {
		return 0, false
	}
	idx := int((f + maxExp) * (expTableSize / maxExp / 2))
	return k.expTable[idx], true
}

// sigmoidSaturating clamps to 0/1 outside [-maxExp, maxExp] instead of
// skipping — the negative-sampling update always applies.
func (k *TrainingKernel) sigmoidSaturating(f float32) float32 {
	if f >= maxExp {
		return 1
	}
	if f <= -maxExp {
		return 0
	}
	idx := int((f + maxExp) * (expTableSize / maxExp / 2))
	return k.expTable[idx]
}

// hsUpdate walks target's Huffman path, accumulating gradient into
// neu1e and updating syn1 rows in place.
func (k *TrainingKernel) hsUpdate(input, neu1e []float32, target int32, alpha float32) {
	code := k.vocab.CodeAt(target)
	point := k.vocab.PointAt(target)
	d := k.mat.D
	for i, node := range point {
		if i >= len(code) {
			break
		}
		syn1 := k.mat.Row(k.mat.Syn1, node)
		var f float32
		for c := 0; c < d; c++ {
			f += input[c] * syn1[c]
		}
		sig, ok := k.sigmoidInRange(f)
		if !ok {
			continue
		}
		g := (1 - float32(code[i]) - sig) * alpha
		for c := 0; c < d; c++ {
			neu1e[c] += g * syn1[c]
		}
		for c := 0; c < d; c++ {
			syn1[c] += g * input[c]
		}
	}
}

// nsUpdate draws k.negative negative labels plus the positive target,
// accumulating gradient into neu1e and updating syn1neg rows in place.
// A negative draw that collides with the positive target is abandoned
// rather than retried, so fewer than k.negative updates may be applied.
func (k *TrainingKernel) nsUpdate(rng *Rand, input, neu1e []float32, target int32, alpha float32) {
	d := k.mat.D
	for n := 0; n <= k.negative; n++ {
		var label float32
		cand := target
		if n == 0 {
			label = 1
		} else {
			var ok bool
			cand, ok = k.sampler.NegativeSample(rng, int32(k.mat.V), target)
			if !ok {
				continue
			}
			label = 0
		}
		row := k.mat.Row(k.mat.Syn1Neg, cand)
		var f float32
		for c := 0; c < d; c++ {
			f += input[c] * row[c]
		}
		sig := k.sigmoidSaturating(f)
		g := (label - sig) * alpha
		for c := 0; c < d; c++ {
			neu1e[c] += g * row[c]
		}
		for c := 0; c < d; c++ {
			row[c] += g * input[c]
		}
	}
}

// StepCBOW trains one sentence position under the CBOW objective,
// averaging the surviving context window into the hidden layer and
// writing the accumulated error back into every context row unmasked
// (CBOW never consults the pin mask on its input update, per spec §9).
func (k *TrainingKernel) StepCBOW(sentence []int32, pos, b int, alpha float32, rng *Rand) {
	d := k.mat.D
	for i := range k.neu1 {
		k.neu1[i] = 0
	}
	cw := 0
	lo, hi := b, k.window*2+1-b
	for a := lo; a < hi; a++ {
		if a == k.window {
			continue
		}
		c := pos - k.window + a
		if c < 0 || c >= len(sentence) {
			continue
		}
		row := k.mat.Row(k.mat.Syn0, sentence[c])
		for i := 0; i < d; i++ {
			k.neu1[i] += row[i]
		}
		cw++
	}
	if cw == 0 {
		return
	}
	for i := 0; i < d; i++ {
		k.neu1[i] /= float32(cw)
	}
	for i := range k.neu1e {
		k.neu1e[i] = 0
	}

	word := sentence[pos]
	if k.hs {
		k.hsUpdate(k.neu1, k.neu1e, word, alpha)
	}
	if k.negative > 0 {
		k.nsUpdate(rng, k.neu1, k.neu1e, word, alpha)
	}

	for a := lo; a < hi; a++ {
		if a == k.window {
			continue
		}
		c := pos - k.window + a
		if c < 0 || c >= len(sentence) {
			continue
		}
		row := k.mat.Row(k.mat.Syn0, sentence[c])
		for i := 0; i < d; i++ {
			row[i] += k.neu1e[i]
		}
	}
}

// StepSkipGram trains one sentence position under the Skip-gram
// objective. When either the center word or a context word is pinned,
// the step against that context word repeats pinRepeats times, reusing
// (and further mutating) the same input row across repeats — the
// chaining behavior documented in spec §9.
func (k *TrainingKernel) StepSkipGram(sentence []int32, pos, b int, alpha float32, rng *Rand) {
	d := k.mat.D
	word := sentence[pos]
	lo, hi := b, k.window*2+1-b
	for a := lo; a < hi; a++ {
		if a == k.window {
			continue
		}
		c := pos - k.window + a
		if c < 0 || c >= len(sentence) {
			continue
		}
		lastWord := sentence[c]

		repeats := 1
		if k.pins.IsPinned(word) || k.pins.IsPinned(lastWord) {
			repeats = k.pinRepeats
		}

		input := k.mat.Row(k.mat.Syn0, lastWord)
		pinsRow := k.mat.Row(k.mat.Pins, lastWord)
		for r := 0; r < repeats; r++ {
			for i := range k.neu1e {
				k.neu1e[i] = 0
			}
			if k.hs {
				k.hsUpdate(input, k.neu1e, word, alpha)
			}
			if k.negative > 0 {
				k.nsUpdate(rng, input, k.neu1e, word, alpha)
			}
			for i := 0; i < d; i++ {
				input[i] += k.neu1e[i] * pinsRow[i]
			}
		}
	}
}
