package w2vpin

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVocabularyAddAndLookup(t *testing.T) {
	v := NewVocabulary()
	if v.Size() != 1 {
		t.Fatalf("expected eosWord alone at construction, got size %d", v.Size())
	}
	if idx, ok := v.Lookup(eosWord); !ok || idx != 0 {
		t.Fatalf("expected eosWord at index 0, got idx=%d ok=%v", idx, ok)
	}

	aIdx := v.Add("a")
	v.Add("b")
	v.Add("a")
	v.Add("a")

	if got := v.CountAt(aIdx); got != 3 {
		t.Errorf("expected count(a)=3, got %d", got)
	}
	if _, ok := v.Lookup("c"); ok {
		t.Errorf("expected c to be absent")
	}
}

// TestVocabularySortAndPruneScenario checks that sort_and_prune orders
// words by descending count with eosWord always first: the seven tokens
// below leave 5 distinct words incl. </s> at min_count=1, with "the"
// (count 3) at index 1.
func TestVocabularySortAndPruneScenario(t *testing.T) {
	v := NewVocabulary()
	for _, w := range []string{"the", "cat", "sat", "the", "mat", "the", "cat"} {
		v.Add(w)
	}
	v.SortAndPrune(1)

	if v.Size() != 5 {
		t.Fatalf("expected 5 distinct words (</s>, the, cat, sat, mat), got %d", v.Size())
	}
	if v.WordAt(0) != eosWord {
		t.Errorf("expected index 0 to remain </s>, got %q", v.WordAt(0))
	}
	if v.WordAt(1) != "the" {
		t.Errorf("expected highest-frequency word 'the' at index 1, got %q", v.WordAt(1))
	}
	if v.CountAt(1) != 3 {
		t.Errorf("expected count(the)=3, got %d", v.CountAt(1))
	}
	for i := 1; i < v.Size()-1; i++ {
		if v.CountAt(int32(i)) < v.CountAt(int32(i+1)) {
			t.Errorf("expected descending counts, got %d before %d at index %d", v.CountAt(int32(i)), v.CountAt(int32(i+1)), i)
		}
	}
}

func TestVocabularySortAndPruneDropsRareWords(t *testing.T) {
	v := NewVocabulary()
	v.Add("common")
	v.Add("common")
	v.Add("common")
	v.Add("rare")
	v.SortAndPrune(2)

	if _, ok := v.Lookup("rare"); ok {
		t.Errorf("expected 'rare' (count 1) pruned at min_count=2")
	}
	if _, ok := v.Lookup("common"); !ok {
		t.Errorf("expected 'common' (count 3) to survive min_count=2")
	}
	if v.TrainWords() != 3 {
		t.Errorf("expected TrainWords=3 (eosWord count 0 + common 3), got %d", v.TrainWords())
	}
}

func TestVocabularyReduce(t *testing.T) {
	v := NewVocabulary()
	v.Add("frequent")
	v.Add("frequent")
	v.Add("frequent")
	v.Add("once")

	before := v.Size()
	v.Reduce()
	if v.Size() >= before {
		t.Fatalf("expected Reduce to drop at least the count-1 word, size went from %d to %d", before, v.Size())
	}
	if _, ok := v.Lookup("once"); ok {
		t.Errorf("expected 'once' (count 1) dropped by Reduce at min_reduce=1")
	}
	if _, ok := v.Lookup("frequent"); !ok {
		t.Errorf("expected 'frequent' (count 3) to survive Reduce")
	}
}

func TestVocabularySaveLoadRoundTrip(t *testing.T) {
	v := NewVocabulary()
	for _, w := range []string{"alpha", "beta", "alpha", "gamma", "alpha", "beta"} {
		v.Add(w)
	}
	v.SortAndPrune(1)

	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := v.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadVocabulary(path, 1)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if loaded.Size() != v.Size() {
		t.Fatalf("expected round-tripped size %d, got %d", v.Size(), loaded.Size())
	}
	for i := 0; i < v.Size(); i++ {
		if loaded.WordAt(int32(i)) != v.WordAt(int32(i)) {
			t.Errorf("index %d: expected word %q, got %q", i, v.WordAt(int32(i)), loaded.WordAt(int32(i)))
		}
		if loaded.CountAt(int32(i)) != v.CountAt(int32(i)) {
			t.Errorf("index %d: expected count %d, got %d", i, v.CountAt(int32(i)), loaded.CountAt(int32(i)))
		}
	}
}

func TestVocabularyLoadMissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(os.TempDir(), "does-not-exist-w2vpin.txt"), 1)
	if err == nil {
		t.Fatalf("expected an error opening a missing vocabulary file")
	}
}
