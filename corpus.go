package w2vpin

import (
	"bufio"
	"math"
	"os"

	"github.com/kho/easy"
	"github.com/pkg/errors"
)

// isSpace reports whether b is a word-boundary byte other than
// newline. Carriage returns are discarded outright, never treated as a
// boundary.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// lineSplit is a bufio.SplitFunc that trims leading/trailing
// whitespace and splits on newlines; used by PinRegistry.LoadPinsFromCSV
// through the stream package's line-oriented iteratees.
func lineSplit(data []byte, atEOF bool) (advance int, token []byte, err error) {
	l := -1
	for i, b := range data {
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			l = i
			break
		}
	}
	if l < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	r, n := -1, 0
	for i := l; i < len(data); i++ {
		if data[i] == '\n' {
			r, n = i, i+1
			break
		}
	}
	if r < 0 {
		if !atEOF {
			return l, nil, nil
		}
		r, n = len(data), len(data)
	}
	for r > l && (data[r-1] == ' ' || data[r-1] == '\t' || data[r-1] == '\r') {
		r--
	}
	return n, data[l:r], nil
}

// wordLexer implements the byte-level tokenizer: SPACE/TAB/LF are word
// boundaries, CR is discarded, and an LF following a non-empty word is
// pushed back so the *next* call yields the end-of-sentence sentinel.
// Tokens longer than MaxString-1 bytes are truncated.
type wordLexer struct {
	br *bufio.Reader
}

func newWordLexer(r *bufio.Reader) *wordLexer { return &wordLexer{br: r} }

// next returns the next token, or ("", true) once the stream is
// exhausted and no partial word remains. A non-empty word may be
// returned together with eof=true when the file ends mid-word.
func (l *wordLexer) next() (word string, eof bool) {
	var buf []byte
	for {
		b, err := l.br.ReadByte()
		if err != nil {
			eof = true
			break
		}
		if b == '\r' {
			continue
		}
		if isSpace(b) || b == '\n' {
			if len(buf) > 0 {
				if b == '\n' {
					l.br.UnreadByte()
				}
				break
			}
			if b == '\n' {
				return eosWord, false
			}
			continue
		}
		if len(buf) < MaxString-1 {
			buf = append(buf, b)
		}
	}
	if len(buf) == 0 {
		return "", eof
	}
	return string(buf), eof
}

// CorpusReader tokenizes one worker's share of the training file into a
// stream of vocabulary indices, applying frequency subsampling along
// the way.
type CorpusReader struct {
	vocab  *Vocabulary
	sample float64
	lexer  *wordLexer
	rng    *Rand
	file   *os.File
	offset int64
}

// OpenCorpusShard opens path independently, seeks to the byte offset
// file_size*workerID/numWorkers, and returns a reader positioned there.
// Sentence boundaries are rediscovered after the seek; the worker's
// first (likely partial) sentence is accepted as-is.
func OpenCorpusShard(path string, vocab *Vocabulary, sample float64, workerID, numWorkers int) (*CorpusReader, error) {
	f, err := easy.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "w2vpin: open training file %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "w2vpin: stat training file %s", path)
	}
	offset := info.Size() * int64(workerID) / int64(numWorkers)
	if _, err := f.Seek(offset, os.SEEK_SET); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "w2vpin: seek training file %s", path)
	}
	return &CorpusReader{
		vocab:  vocab,
		sample: sample,
		lexer:  newWordLexer(bufio.NewReader(f)),
		rng:    NewRand(uint64(workerID)),
		file:   f,
		offset: offset,
	}, nil
}

// Close releases the underlying file handle.
func (c *CorpusReader) Close() error { return c.file.Close() }

// Rewind seeks back to the worker's shard start and resets the
// tokenizer, used to begin a new training epoch.
func (c *CorpusReader) Rewind() error {
	if _, err := c.file.Seek(c.offset, os.SEEK_SET); err != nil {
		return errors.Wrapf(err, "w2vpin: rewind training file")
	}
	c.lexer = newWordLexer(bufio.NewReader(c.file))
	return nil
}

// ReadWordIndex returns the vocabulary index of the next token, -1 if
// the token is unknown, or ok=false at end of stream.
func (c *CorpusReader) ReadWordIndex() (idx int32, ok bool) {
	word, eof := c.lexer.next()
	if word == "" {
		return 0, false
	}
	_ = eof
	if i, found := c.vocab.Lookup(word); found {
		return i, true
	}
	return -1, true
}

// keepProbability implements the subsampling formula from spec §4.5:
// p_keep = (sqrt(c/(s*T)) + 1) * (s*T)/c.
func keepProbability(count int64, sample float64, trainWords int64) float64 {
	if sample <= 0 || count == 0 {
		return 1
	}
	ratio := sample * float64(trainWords)
	return (math.Sqrt(float64(count)/ratio) + 1) * ratio / float64(count)
}

// ShouldKeep decides whether a just-read word (already confirmed
// in-vocabulary, not the end-of-sentence sentinel) survives
// subsampling, drawing its uniform from the worker's own LCG stream.
func (c *CorpusReader) ShouldKeep(idx int32, trainWords int64) bool {
	if c.sample <= 0 {
		return true
	}
	keep := keepProbability(c.vocab.CountAt(idx), c.sample, trainWords)
	u := float64(c.rng.Next()&0xFFFF) / 65536.0
	return keep >= u
}

// WindowRadius draws the per-sentence-position context radius b used by
// both the CBOW and Skip-gram paths (shared draw per spec §4.7).
func (c *CorpusReader) WindowRadius(window int) int {
	return int(c.rng.Next() % uint64(window))
}

// Rand exposes the worker's private LCG stream for use by
// TrainingKernel's negative sampling draws.
func (c *CorpusReader) Rand() *Rand { return c.rng }
