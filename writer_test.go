package w2vpin

import (
	"path/filepath"
	"testing"
)

func buildWriterFixture() (*Vocabulary, *EmbeddingMatrices) {
	v := NewVocabulary()
	v.Add("alpha")
	v.Add("beta")
	v.SortAndPrune(1)
	mat := NewEmbeddingMatrices(v.Size(), 4, false, false)
	return v, mat
}

// TestWriteVectorsBinaryRoundTrip exercises the testable round-trip
// property from spec §8: writing binary vectors then reading them back
// yields bit-identical float32 values.
func TestWriteVectorsBinaryRoundTrip(t *testing.T) {
	v, mat := buildWriterFixture()
	for i := range mat.Syn0 {
		mat.Syn0[i] = float32(i) * 0.125
	}

	path := filepath.Join(t.TempDir(), "vectors.bin")
	if err := WriteVectors(path, v, mat, true); err != nil {
		t.Fatalf("WriteVectors failed: %v", err)
	}

	words, vectors, err := ReadBinaryVectors(path)
	if err != nil {
		t.Fatalf("ReadBinaryVectors failed: %v", err)
	}
	if len(words) != v.Size() {
		t.Fatalf("expected %d words, got %d", v.Size(), len(words))
	}
	for i := 0; i < v.Size(); i++ {
		if words[i] != v.WordAt(int32(i)) {
			t.Errorf("row %d: expected word %q, got %q", i, v.WordAt(int32(i)), words[i])
		}
		want := mat.Row(mat.Syn0, int32(i))
		got := vectors[i]
		if len(got) != len(want) {
			t.Fatalf("row %d: expected vector length %d, got %d", i, len(want), len(got))
		}
		for c := range want {
			if got[c] != want[c] {
				t.Errorf("row %d dim %d: expected bit-identical %v, got %v", i, c, want[c], got[c])
			}
		}
	}
}

func TestWriteClassesFormat(t *testing.T) {
	v, _ := buildWriterFixture()
	classes := make([]int32, v.Size())
	for i := range classes {
		classes[i] = int32(i % 2)
	}
	path := filepath.Join(t.TempDir(), "classes.txt")
	if err := WriteClasses(path, v, classes); err != nil {
		t.Fatalf("WriteClasses failed: %v", err)
	}
}

func TestWriteVectorsRejectsUnwritablePath(t *testing.T) {
	v, mat := buildWriterFixture()
	err := WriteVectors(filepath.Join(t.TempDir(), "missing-dir", "vectors.bin"), v, mat, true)
	if err == nil {
		t.Fatalf("expected an error writing to a nonexistent directory")
	}
}
