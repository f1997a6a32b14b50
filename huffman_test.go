package w2vpin

import "testing"

// TestBuildHuffmanTreeKraftEquality checks the Kraft equality that any
// full binary code tree satisfies: sum(2^-len(code)) == 1.
func TestBuildHuffmanTreeKraftEquality(t *testing.T) {
	v := NewVocabulary()
	for _, w := range []string{"a", "a", "a", "a", "a", "b", "b", "b", "c", "c", "d"} {
		v.Add(w)
	}
	v.SortAndPrune(1)
	BuildHuffmanTree(v)

	var sum float64
	for i := 0; i < v.Size(); i++ {
		sum += 1.0 / float64(int64(1)<<uint(len(v.CodeAt(int32(i)))))
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("expected Kraft sum == 1, got %v", sum)
	}
}

// TestBuildHuffmanTreeFrequencyOrdering checks the defining Huffman
// property: a word with a strictly lower count never gets a strictly
// shorter code than a word with higher count.
func TestBuildHuffmanTreeFrequencyOrdering(t *testing.T) {
	v := NewVocabulary()
	for _, w := range []string{"frequent", "frequent", "frequent", "frequent", "frequent", "frequent", "frequent", "frequent",
		"common", "common", "common", "rare"} {
		v.Add(w)
	}
	v.SortAndPrune(1)
	BuildHuffmanTree(v)

	freqIdx, _ := v.Lookup("frequent")
	rareIdx, _ := v.Lookup("rare")
	if len(v.CodeAt(freqIdx)) > len(v.CodeAt(rareIdx)) {
		t.Errorf("expected the most frequent word to get a code no longer than the rarest: frequent=%d rare=%d",
			len(v.CodeAt(freqIdx)), len(v.CodeAt(rareIdx)))
	}
}

func TestBuildHuffmanTreeSkipsTinyVocabulary(t *testing.T) {
	v := NewVocabulary() // just </s>, size 1
	BuildHuffmanTree(v)  // must not panic on n < 2
	if v.CodeAt(0) != nil {
		t.Errorf("expected no code assigned when the vocabulary has fewer than 2 words")
	}
}

func TestBuildHuffmanTreeEveryWordGetsAPath(t *testing.T) {
	v := NewVocabulary()
	for _, w := range []string{"x", "y", "z", "x", "y", "x"} {
		v.Add(w)
	}
	v.SortAndPrune(1)
	BuildHuffmanTree(v)

	for i := 0; i < v.Size(); i++ {
		code := v.CodeAt(int32(i))
		point := v.PointAt(int32(i))
		if len(code) == 0 {
			t.Errorf("word %q got an empty code", v.WordAt(int32(i)))
		}
		if len(point) != len(code)+1 {
			t.Errorf("word %q: expected point length %d, got %d", v.WordAt(int32(i)), len(code)+1, len(point))
		}
	}
}
