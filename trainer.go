package w2vpin

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// MaxSentenceLength bounds how many words a worker buffers before
// forcing a STEP_POSITION pass, per spec §4.7's state machine.
const MaxSentenceLength = 1000

// kmeansIterations is fixed at the original implementation's constant.
const kmeansIterations = 10

// Trainer orchestrates vocabulary construction, matrix allocation, pin
// application, the parallel training loop, and final output — the
// glue spec §4.6 describes.
type Trainer struct {
	cfg     Config
	Vocab   *Vocabulary
	Mat     *EmbeddingMatrices
	Pins    *PinRegistry
	Sampler *UnigramSampler
}

// NewTrainer only captures configuration; Run performs all the work.
func NewTrainer(cfg Config) *Trainer {
	return &Trainer{cfg: cfg}
}

// buildVocabulary implements the -read-vocab / corpus-count strategy
// described in SPEC_FULL.md's supplemented-features section: vocabulary
// construction is selected once before any matrix is allocated.
func (t *Trainer) buildVocabulary() error {
	if t.cfg.ReadVocab != "" {
		v, err := LoadVocabulary(t.cfg.ReadVocab, t.cfg.MinCount)
		if err != nil {
			return err
		}
		t.Vocab = v
		return nil
	}

	v := NewVocabulary()
	reader, err := OpenCorpusShard(t.cfg.Train, v, 0, 0, 1)
	if err != nil {
		return err
	}
	defer reader.Close()
	for {
		word, eof := reader.lexer.next()
		if word != "" {
			v.Add(word)
			if v.LoadFactor() > 0.7 {
				v.Reduce()
			}
		}
		if eof {
			break
		}
	}
	v.SortAndPrune(t.cfg.MinCount)
	t.Vocab = v
	return nil
}

// Run executes the full training lifecycle and, on success, writes the
// configured output file.
func (t *Trainer) Run() error {
	if err := t.buildVocabulary(); err != nil {
		return err
	}
	if t.cfg.SaveVocab != "" {
		if err := t.Vocab.Save(t.cfg.SaveVocab); err != nil {
			return err
		}
	}
	if t.cfg.Output == "" {
		return nil
	}

	BuildHuffmanTree(t.Vocab)
	t.Mat = NewEmbeddingMatrices(t.Vocab.Size(), t.cfg.Size, t.cfg.HS, t.cfg.Negative > 0)
	t.Pins = NewPinRegistry(t.Vocab, t.Mat)
	t.Pins.ApplyBuiltins(t.cfg.Pin)
	if t.cfg.PinCSV != "" {
		if err := t.Pins.LoadPinsFromCSV(t.cfg.PinCSV); err != nil {
			return err
		}
	}
	if t.cfg.Negative > 0 {
		t.Sampler = NewUnigramSampler(t.Vocab)
	}

	startingAlpha := t.cfg.StartingAlpha()
	var wordCountActual int64
	startTime := nowStamp()

	var wg sync.WaitGroup
	errs := make([]error, t.cfg.Threads)
	for id := 0; id < t.cfg.Threads; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			errs[id] = t.runWorker(id, &wordCountActual, startingAlpha, startTime)
		}(id)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if t.cfg.Classes == 0 {
		return WriteVectors(t.cfg.Output, t.Vocab, t.Mat, t.cfg.Binary)
	}
	classes := KMeans(t.Mat, t.cfg.Classes, kmeansIterations)
	return WriteClasses(t.cfg.Output, t.Vocab, classes)
}

// nowStamp exists only so Run has a single, easily-stubbed call site
// for measuring elapsed training time in progress logs.
func nowStamp() time.Time { return time.Now() }

// computeAlpha implements the learning-rate decay formula from spec
// §4.6, floored at 0.01% of the starting rate.
func computeAlpha(startingAlpha float64, wordCountActual int64, iter int, trainWords int64) float64 {
	alpha := startingAlpha * (1 - float64(wordCountActual)/float64(int64(iter)*trainWords+1))
	floor := startingAlpha * 0.0001
	if alpha < floor {
		alpha = floor
	}
	return alpha
}

// runWorker mirrors the original per-thread state machine: fill a
// sentence buffer, step every position in it, and on EOF or quota
// exhaustion either terminate (after the final epoch) or rewind and
// continue.
func (t *Trainer) runWorker(id int, wordCountActual *int64, startingAlpha float64, startTime time.Time) error {
	reader, err := OpenCorpusShard(t.cfg.Train, t.Vocab, t.cfg.Sample, id, t.cfg.Threads)
	if err != nil {
		return err
	}
	defer reader.Close()

	kernel := NewTrainingKernel(t.Mat, t.Vocab, t.Pins, t.Sampler, t.cfg.HS, t.cfg.Negative, t.cfg.Window, t.cfg.PinRepeats)
	trainWords := t.Vocab.TrainWords()
	wordsPerWorker := trainWords / int64(t.cfg.Threads)

	alpha := startingAlpha
	localIter := t.cfg.Iter
	var wordCount, lastWordCount int64
	sentence := make([]int32, 0, MaxSentenceLength)

	for {
		if wordCount-lastWordCount > 10000 {
			atomic.AddInt64(wordCountActual, wordCount-lastWordCount)
			lastWordCount = wordCount
			alpha = computeAlpha(startingAlpha, atomic.LoadInt64(wordCountActual), t.cfg.Iter, trainWords)
			if t.cfg.Debug > 1 {
				glog.V(1).Infof("worker %d: %.2f%% alpha %.6f words/sec %.1fk elapsed %s",
					id, float64(atomic.LoadInt64(wordCountActual))/float64(int64(t.cfg.Iter)*trainWords+1)*100,
					alpha, float64(atomic.LoadInt64(wordCountActual))/1000/time.Since(startTime).Seconds(),
					time.Since(startTime))
			}
		}

		eofHit := false
		if len(sentence) == 0 {
			for len(sentence) < MaxSentenceLength {
				idx, ok := reader.ReadWordIndex()
				if !ok {
					eofHit = true
					break
				}
				if idx < 0 {
					continue
				}
				wordCount++
				if idx == 0 {
					break
				}
				if !reader.ShouldKeep(idx, trainWords) {
					continue
				}
				sentence = append(sentence, idx)
			}
		}

		if eofHit || wordCount > wordsPerWorker {
			atomic.AddInt64(wordCountActual, wordCount-lastWordCount)
			localIter--
			if localIter == 0 {
				break
			}
			wordCount, lastWordCount = 0, 0
			sentence = sentence[:0]
			if err := reader.Rewind(); err != nil {
				return err
			}
			continue
		}

		rng := reader.Rand()
		for pos := 0; pos < len(sentence); pos++ {
			b := reader.WindowRadius(t.cfg.Window)
			if t.cfg.CBOW {
				kernel.StepCBOW(sentence, pos, b, float32(alpha), rng)
			} else {
				kernel.StepSkipGram(sentence, pos, b, float32(alpha), rng)
			}
		}
		sentence = sentence[:0]
	}
	return nil
}

// KMeans runs kmeansIterations of cosine-similarity-after-normalization
// clustering over the trained syn0 rows, returning one class id per
// vocabulary index. Row normalization and the assignment dot product
// both go through gonum/floats rather than hand-rolled loops, since
// this post-pass (unlike the hot training loop) has no concurrency or
// alignment constraints that would rule a general-purpose vector
// library out.
func KMeans(mat *EmbeddingMatrices, classes, iterations int) []int32 {
	v, d := mat.V, mat.D
	assignment := make([]int32, v)
	for i := range assignment {
		assignment[i] = int32(i % classes)
	}

	centers := make([][]float64, classes)
	for i := range centers {
		centers[i] = make([]float64, d)
	}
	row64 := make([]float64, d)

	for it := 0; it < iterations; it++ {
		for _, c := range centers {
			for i := range c {
				c[i] = 0
			}
		}
		count := make([]int, classes)
		for w := 0; w < v; w++ {
			cl := assignment[w]
			count[cl]++
			rowF32ToF64(mat.Row(mat.Syn0, int32(w)), row64)
			floats.Add(centers[cl], row64)
		}
		for cl, c := range centers {
			if count[cl] == 0 {
				continue
			}
			floats.Scale(1/float64(count[cl]), c)
			if norm := floats.Norm(c, 2); norm > 0 {
				floats.Scale(1/norm, c)
			}
		}
		for w := 0; w < v; w++ {
			rowF32ToF64(mat.Row(mat.Syn0, int32(w)), row64)
			best, bestDot := 0, -1.0
			for cl, c := range centers {
				dot := floats.Dot(row64, c)
				if dot > bestDot {
					bestDot = dot
					best = cl
				}
			}
			assignment[w] = int32(best)
		}
	}
	return assignment
}

func rowF32ToF64(src []float32, dst []float64) {
	for i, x := range src {
		dst[i] = float64(x)
	}
}
