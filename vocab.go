package w2vpin

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// MaxString is the longest word kept verbatim; longer tokens are
	// truncated by the corpus reader.
	MaxString = 100
	// MaxCodeLength bounds the Huffman code/path length per word.
	MaxCodeLength = 40
	// VocabHashSize is the fixed capacity of the open-addressed hash
	// table backing the vocabulary. Do not substitute a resizable map:
	// the hash (multiplier 257, mod table size) and the load-factor
	// reduction policy both assume this exact capacity.
	VocabHashSize = 30000000
	// nilSlot marks an empty hash bucket.
	nilSlot = -1
	// eosWord is forced into index 0 of every vocabulary.
	eosWord = "</s>"
)

// wordRecord is one vocabulary entry: the literal bytes, an occurrence
// count, and its Huffman code/path once HuffmanCoder has run.
type wordRecord struct {
	Word  string
	Count int64
	Code  []uint8
	Point []int32
}

// Vocabulary is the open-addressed word table described in spec §3/§4.1.
// It must be built through NewVocabulary so eosWord lands at index 0.
type Vocabulary struct {
	words     []wordRecord
	hash      []int32
	minReduce int64
	trainWords int64
}

// NewVocabulary returns an empty vocabulary with the end-of-sentence
// sentinel already registered at index 0.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		hash:      make([]int32, VocabHashSize),
		minReduce: 1,
	}
	for i := range v.hash {
		v.hash[i] = nilSlot
	}
	v.insertNew(eosWord)
	return v
}

// Size returns the number of distinct words currently held, including
// the end-of-sentence sentinel.
func (v *Vocabulary) Size() int { return len(v.words) }

// TrainWords is the sum of surviving counts after the last SortAndPrune.
func (v *Vocabulary) TrainWords() int64 { return v.trainWords }

// CountAt returns the occurrence count of the word at index i.
func (v *Vocabulary) CountAt(i int32) int64 { return v.words[i].Count }

// WordAt returns the literal bytes of the word at index i.
func (v *Vocabulary) WordAt(i int32) string { return v.words[i].Word }

// CodeAt and PointAt expose the Huffman code/path assigned by
// BuildHuffmanTree; both are empty until that has run (nil before the
// first SortAndPrune, empty slices after it).
func (v *Vocabulary) CodeAt(i int32) []uint8  { return v.words[i].Code }
func (v *Vocabulary) PointAt(i int32) []int32 { return v.words[i].Point }

func hashOf(word string) uint64 {
	var h uint64
	for i := 0; i < len(word); i++ {
		h = h*257 + uint64(word[i])
	}
	return h % VocabHashSize
}

// Lookup returns the index of word, or (-1, false) if absent.
func (v *Vocabulary) Lookup(word string) (int32, bool) {
	h := hashOf(word)
	for {
		idx := v.hash[h]
		if idx == nilSlot {
			return -1, false
		}
		if v.words[idx].Word == word {
			return idx, true
		}
		h = (h + 1) % VocabHashSize
	}
}

// insertNew appends word with count 0 and registers it in the hash
// table. Callers must have already confirmed (via Lookup) that word is
// not present.
func (v *Vocabulary) insertNew(word string) int32 {
	if len(v.words) == cap(v.words) {
		// Grows by 1000 entries at a time.
		grown := make([]wordRecord, len(v.words), len(v.words)+1000)
		copy(grown, v.words)
		v.words = grown
	}
	idx := int32(len(v.words))
	v.words = append(v.words, wordRecord{Word: word})

	h := hashOf(word)
	for v.hash[h] != nilSlot {
		h = (h + 1) % VocabHashSize
	}
	v.hash[h] = idx
	return idx
}

// Add registers word if unseen and increments its count either way,
// returning its index. This is the usual entry point during corpus
// ingestion: Lookup first, then Add.
func (v *Vocabulary) Add(word string) int32 {
	if idx, ok := v.Lookup(word); ok {
		v.words[idx].Count++
		return idx
	}
	idx := v.insertNew(word)
	v.words[idx].Count = 1
	return idx
}

// LoadFactor reports the fraction of occupied hash slots.
func (v *Vocabulary) LoadFactor() float64 {
	return float64(len(v.words)) / float64(VocabHashSize)
}

func (v *Vocabulary) rebuildHash() {
	for i := range v.hash {
		v.hash[i] = nilSlot
	}
	for idx, w := range v.words {
		h := hashOf(w.Word)
		for v.hash[h] != nilSlot {
			h = (h + 1) % VocabHashSize
		}
		v.hash[h] = int32(idx)
	}
}

// Reduce discards every record whose count is at or below the current
// min_reduce threshold, rebuilds the hash table, then raises the
// threshold. Called opportunistically by the corpus counting pass when
// LoadFactor exceeds 0.7; it is the only mutation permitted mid-scan.
func (v *Vocabulary) Reduce() {
	survivors := v.words[:1] // eosWord is never pruned here
	for _, w := range v.words[1:] {
		if w.Count > v.minReduce {
			survivors = append(survivors, w)
		}
	}
	v.words = append([]wordRecord(nil), survivors...)
	v.rebuildHash()
	v.minReduce++
	glog.V(1).Infof("vocabulary reduced to %d words (min_reduce now %d)", len(v.words), v.minReduce)
}

// SortAndPrune orders words[1:] by descending count (ties keep their
// original relative order), drops every word below minCount, recomputes
// TrainWords, and allocates empty code/path slices for each survivor.
func (v *Vocabulary) SortAndPrune(minCount int64) {
	rest := append([]wordRecord(nil), v.words[1:]...)
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Count > rest[j].Count })

	survivors := make([]wordRecord, 0, len(v.words))
	survivors = append(survivors, v.words[0])
	trainWords := v.words[0].Count
	for _, w := range rest {
		if w.Count < minCount {
			continue
		}
		trainWords += w.Count
		survivors = append(survivors, w)
	}
	for i := range survivors {
		survivors[i].Code = make([]uint8, 0, MaxCodeLength)
		survivors[i].Point = make([]int32, 0, MaxCodeLength)
	}
	v.words = survivors
	v.trainWords = trainWords
	v.minReduce = 1
	v.rebuildHash()
	glog.Infof("vocabulary: %d words, %d training tokens after sort_and_prune(min_count=%d)",
		len(v.words), v.trainWords, minCount)
}

// Save writes one "<word> <count>\n" line per word, in current order.
func (v *Vocabulary) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "w2vpin: create vocabulary file %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, rec := range v.words {
		if _, err := fmt.Fprintf(w, "%s %d\n", rec.Word, rec.Count); err != nil {
			return errors.Wrapf(err, "w2vpin: write vocabulary file %s", path)
		}
	}
	return w.Flush()
}

// LoadVocabulary builds a new vocabulary from the contents of path, one
// "<word> <count>" line at a time, then sorts and prunes using
// minCount. A line whose count field fails to parse yields count 0 for
// that entry, preserving the writer/reader ambiguity noted in spec §9
// rather than treating it as fatal.
func LoadVocabulary(path string, minCount int64) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "w2vpin: open vocabulary file %s", path)
	}
	defer f.Close()

	v := &Vocabulary{
		hash:      make([]int32, VocabHashSize),
		minReduce: 1,
	}
	for i := range v.hash {
		v.hash[i] = nilSlot
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var word string
		var count int64
		n, _ := fmt.Sscanf(line, "%s %d", &word, &count)
		if n < 1 || word == "" {
			continue
		}
		if n < 2 {
			count = 0
		}
		idx := v.insertNew(word)
		v.words[idx].Count = count
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "w2vpin: read vocabulary file %s", path)
	}
	v.SortAndPrune(minCount)
	return v, nil
}
