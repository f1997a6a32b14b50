package w2vpin

// EmbeddingMatrices holds the four dense V*D matrices that training
// mutates concurrently without locks: syn0 (input embeddings), syn1
// (hierarchical-softmax output weights), syn1neg (negative-sampling
// output weights), and pins (the update-gate mask). syn1/syn1neg are
// only allocated when their corresponding objective is enabled.
//
// All reads and writes to individual cells are allowed to race across
// worker goroutines; this is intentional Hogwild!-style training and
// must not be retrofitted with per-row locking.
type EmbeddingMatrices struct {
	V, D int

	Syn0    []float32
	Syn1    []float32 // nil unless hierarchical softmax is enabled
	Syn1Neg []float32 // nil unless negative sampling is enabled
	Pins    []float32
}

// NewEmbeddingMatrices allocates syn0/pins unconditionally, and syn1 /
// syn1neg according to hs / negative. syn0 is randomized with the
// shared LCG seeded at 1; syn1/syn1neg start at zero; pins starts at
// all-ones (fully free) and is later narrowed by PinRegistry.
func NewEmbeddingMatrices(v, d int, hs bool, negative bool) *EmbeddingMatrices {
	m := &EmbeddingMatrices{
		V: v, D: d,
		Syn0: alignedFloat32(v * d),
		Pins: alignedFloat32(v * d),
	}
	if hs {
		m.Syn1 = alignedFloat32(v * d)
	}
	if negative {
		m.Syn1Neg = alignedFloat32(v * d)
	}

	rng := NewRand(1)
	for i := range m.Syn0 {
		r := rng.Next()
		m.Syn0[i] = (float32(r&0xFFFF)/65536.0 - 0.5) / float32(d)
	}
	for i := range m.Pins {
		m.Pins[i] = 1
	}
	return m
}

// Row returns the D-wide slice for word index i within mat (one of
// Syn0, Syn1, Syn1Neg, Pins).
func (m *EmbeddingMatrices) Row(mat []float32, i int32) []float32 {
	off := int(i) * m.D
	return mat[off : off+m.D]
}
