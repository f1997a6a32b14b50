package w2vpin

import "math"

// UnigramTableSize is the number of entries in the negative-sampling
// draw table.
const UnigramTableSize = 100000000

// unigramPower is the exponent applied to raw counts before building
// the cumulative distribution (count^0.75, the standard word2vec
// smoothing that over-samples rare words relative to their raw
// frequency).
const unigramPower = 0.75

// UnigramSampler draws word indices proportionally to count^0.75,
// using a flat pre-expanded table for O(1) draws.
type UnigramSampler struct {
	table []int32
}

// NewUnigramSampler builds the table by walking v once, keeping a
// running cumulative count^0.75 / total and filling table slots up to
// that fraction. Indices that would overrun the vocabulary are clamped
// to the last index.
func NewUnigramSampler(v *Vocabulary) *UnigramSampler {
	n := v.Size()
	total := 0.0
	for i := 0; i < n; i++ {
		total += math.Pow(float64(v.CountAt(int32(i))), unigramPower)
	}

	table := alignedInt32(UnigramTableSize)
	i := 0
	cur := math.Pow(float64(v.CountAt(int32(i))), unigramPower) / total
	for a := 0; a < UnigramTableSize; a++ {
		table[a] = int32(i)
		if float64(a)/float64(UnigramTableSize) > cur {
			i++
			if i >= n {
				i = n - 1
			}
			cur += math.Pow(float64(v.CountAt(int32(i))), unigramPower) / total
		}
	}
	return &UnigramSampler{table: table}
}

// Draw returns the table entry at (r>>16) mod the table size, where r is
// the next 64-bit draw from rng.
func (s *UnigramSampler) Draw(rng *Rand) int32 {
	r := rng.Next()
	return s.table[(r>>16)%uint64(len(s.table))]
}

// NegativeSample draws one candidate negative target for word. A draw
// of index 0 (the end-of-sentence sentinel) is remapped to a uniform
// pick over [1, vocabSize) using the *same* LCG draw that produced the
// table lookup, not a fresh one. A draw equal to word itself is
// abandoned (ok=false) rather than retried, so a single training step
// may apply fewer than `negative` updates — both behaviors mirror the
// original sampler's single next_random step per slot and its `continue`
// on a self-draw, rather than guaranteeing a replacement every time.
func (s *UnigramSampler) NegativeSample(rng *Rand, vocabSize int32, word int32) (int32, bool) {
	r := rng.Next()
	target := s.table[(r>>16)%uint64(len(s.table))]
	if target == 0 {
		target = int32(r%uint64(vocabSize-1)) + 1
	}
	if target == word {
		return 0, false
	}
	return target, true
}
