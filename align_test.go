package w2vpin

import (
	"testing"
	"unsafe"
)

func TestAlignedFloat32Alignment(t *testing.T) {
	s := alignedFloat32(17)
	if len(s) != 17 {
		t.Fatalf("expected length 17, got %d", len(s))
	}
	addr := uintptr(unsafe.Pointer(&s[0]))
	if addr%alignment != 0 {
		t.Errorf("expected address aligned to %d bytes, got offset %d", alignment, addr%alignment)
	}
	for i := range s {
		s[i] = float32(i)
	}
	for i, x := range s {
		if x != float32(i) {
			t.Errorf("index %d: expected %v, got %v", i, float32(i), x)
		}
	}
}

func TestAlignedInt32Alignment(t *testing.T) {
	s := alignedInt32(9)
	addr := uintptr(unsafe.Pointer(&s[0]))
	if addr%alignment != 0 {
		t.Errorf("expected address aligned to %d bytes, got offset %d", alignment, addr%alignment)
	}
	s[8] = 42
	if s[8] != 42 {
		t.Errorf("expected write/read round trip, got %d", s[8])
	}
}
