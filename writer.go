package w2vpin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// WriteVectors emits the trained syn0 rows per spec §6: a "<V> <D>"
// header line, then one record per word — space-separated text floats
// in text mode, raw little-endian IEEE-754 rows (still newline
// terminated) in binary mode.
func WriteVectors(path string, vocab *Vocabulary, mat *EmbeddingMatrices, binaryMode bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "w2vpin: create output file %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if _, err := fmt.Fprintf(w, "%d %d\n", vocab.Size(), mat.D); err != nil {
		return errors.Wrapf(err, "w2vpin: write output header")
	}

	var floatBuf [4]byte
	for i := 0; i < vocab.Size(); i++ {
		if _, err := fmt.Fprintf(w, "%s ", vocab.WordAt(int32(i))); err != nil {
			return errors.Wrapf(err, "w2vpin: write output row")
		}
		row := mat.Row(mat.Syn0, int32(i))
		if binaryMode {
			for _, x := range row {
				binary.LittleEndian.PutUint32(floatBuf[:], math.Float32bits(x))
				if _, err := w.Write(floatBuf[:]); err != nil {
					return errors.Wrapf(err, "w2vpin: write output row")
				}
			}
		} else {
			for c, x := range row {
				sep := " "
				if c == len(row)-1 {
					sep = ""
				}
				if _, err := fmt.Fprintf(w, "%g%s", x, sep); err != nil {
					return errors.Wrapf(err, "w2vpin: write output row")
				}
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return errors.Wrapf(err, "w2vpin: write output row")
		}
	}
	return w.Flush()
}

// WriteClasses emits K-means cluster assignments as "<word> <class_id>"
// lines with no header, per spec §6.
func WriteClasses(path string, vocab *Vocabulary, classes []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "w2vpin: create output file %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, cl := range classes {
		if _, err := fmt.Fprintf(w, "%s %d\n", vocab.WordAt(int32(i)), cl); err != nil {
			return errors.Wrapf(err, "w2vpin: write class output")
		}
	}
	return w.Flush()
}

// ReadBinaryVectors parses a file written by WriteVectors(binaryMode=true)
// back into word/vector pairs, exercising the exact inverse of the
// write path so the round trip in spec §8 is testable byte for byte.
func ReadBinaryVectors(path string) (words []string, vectors [][]float32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "w2vpin: open vector file %s", path)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var v, d int
	if _, err := fmt.Fscanf(r, "%d %d\n", &v, &d); err != nil {
		return nil, nil, errors.Wrapf(err, "w2vpin: parse vector file header")
	}

	words = make([]string, v)
	vectors = make([][]float32, v)
	floatBuf := make([]byte, 4*d)
	for i := 0; i < v; i++ {
		word, err := r.ReadString(' ')
		if err != nil {
			return nil, nil, errors.Wrapf(err, "w2vpin: read word at row %d", i)
		}
		words[i] = word[:len(word)-1]

		if _, err := io.ReadFull(r, floatBuf); err != nil {
			return nil, nil, errors.Wrapf(err, "w2vpin: read vector at row %d", i)
		}
		vec := make([]float32, d)
		for c := 0; c < d; c++ {
			bits := binary.LittleEndian.Uint32(floatBuf[c*4 : c*4+4])
			vec[c] = math.Float32frombits(bits)
		}
		vectors[i] = vec

		if _, err := r.ReadByte(); err != nil { // trailing newline
			return nil, nil, errors.Wrapf(err, "w2vpin: read row terminator at row %d", i)
		}
	}
	return words, vectors, nil
}
