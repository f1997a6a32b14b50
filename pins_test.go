package w2vpin

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(words []string, dims int) (*PinRegistry, *Vocabulary, *EmbeddingMatrices) {
	v := NewVocabulary()
	for _, w := range words {
		v.Add(w)
	}
	v.SortAndPrune(1)
	m := NewEmbeddingMatrices(v.Size(), dims, false, false)
	return NewPinRegistry(v, m), v, m
}

// TestPinRegistryQueenScenario exercises the literal scenario: pinning
// "queen" on dimension 0 to 1.0 sets syn0[queen][0]==1.0,
// pins[queen][0]==0.0, and IsPinned(queen)==true.
func TestPinRegistryQueenScenario(t *testing.T) {
	reg, v, m := newTestRegistry([]string{"queen", "king"}, 8)
	reg.Pin("queen", 0, 1.0)

	idx, ok := v.Lookup("queen")
	if !ok {
		t.Fatalf("expected queen in vocabulary")
	}
	if got := m.Row(m.Syn0, idx)[0]; got != 1.0 {
		t.Errorf("expected syn0[queen][0] == 1.0, got %v", got)
	}
	if got := m.Row(m.Pins, idx)[0]; got != 0.0 {
		t.Errorf("expected pins[queen][0] == 0.0, got %v", got)
	}
	if !reg.IsPinned(idx) {
		t.Errorf("expected IsPinned(queen) == true")
	}

	kingIdx, _ := v.Lookup("king")
	if reg.IsPinned(kingIdx) {
		t.Errorf("expected IsPinned(king) == false, king was never pinned")
	}
}

func TestPinRegistryUnknownWordWarnsAndContinues(t *testing.T) {
	reg, _, _ := newTestRegistry([]string{"a"}, 4)
	// Must not panic; spec says warn and continue.
	reg.Pin("does-not-exist", 0, 1.0)
}

// TestEncodeMassScenario checks the literal encodeMass scenario values.
func TestEncodeMassScenario(t *testing.T) {
	cases := []struct {
		kg   float64
		want float64
	}{
		{1000, 0.3},
		{1, 0},
		{0.001, -0.3},
		{1e-6, -0.6},
	}
	for _, c := range cases {
		got := encodeMass(c.kg)
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("encodeMass(%v) = %v, want %v", c.kg, got, c.want)
		}
	}
}

func TestApplyBuiltinsResetsThenPins(t *testing.T) {
	reg, v, m := newTestRegistry([]string{"queen", "king", "elephant", "ant"}, 8)
	reg.ApplyBuiltins(true)

	queenIdx, _ := v.Lookup("queen")
	if got := m.Row(m.Syn0, queenIdx)[0]; got != 1 {
		t.Errorf("expected builtin gender pin to set syn0[queen][0]=1, got %v", got)
	}
	elephantIdx, _ := v.Lookup("elephant")
	want := float32(encodeMass(5000))
	if got := m.Row(m.Syn0, elephantIdx)[2]; got != want {
		t.Errorf("expected builtin mass pin syn0[elephant][2]=%v, got %v", want, got)
	}
}

func TestApplyBuiltinsDisabledLeavesPinsOpen(t *testing.T) {
	reg, v, m := newTestRegistry([]string{"queen"}, 8)
	reg.ApplyBuiltins(false)
	idx, _ := v.Lookup("queen")
	for _, x := range m.Row(m.Pins, idx) {
		if x != 1 {
			t.Errorf("expected all pins open when builtins disabled, got %v", x)
		}
	}
}

func TestLoadPinsFromCSV(t *testing.T) {
	reg, v, m := newTestRegistry([]string{"bus", "cabbage"}, 8)

	path := filepath.Join(t.TempDir(), "pins.csv")
	content := "id,property,word,value\n1,has_wheels,bus,1\n2,has_wheels,cabbage,0\n3,is_dangerous,bus,0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := reg.LoadPinsFromCSV(path); err != nil {
		t.Fatalf("LoadPinsFromCSV failed: %v", err)
	}

	busIdx, _ := v.Lookup("bus")
	if got := m.Row(m.Syn0, busIdx)[3]; got != 1 {
		t.Errorf("expected has_wheels pin syn0[bus][3]=1, got %v", got)
	}
	if got := m.Row(m.Syn0, busIdx)[4]; got != 0 {
		t.Errorf("expected is_dangerous pin syn0[bus][4]=0, got %v", got)
	}
	cabbageIdx, _ := v.Lookup("cabbage")
	if got := m.Row(m.Syn0, cabbageIdx)[3]; got != 0 {
		t.Errorf("expected has_wheels pin syn0[cabbage][3]=0, got %v", got)
	}
}
