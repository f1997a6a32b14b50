package w2vpin

import "unsafe"

// alignment is the byte boundary required for matrices and the unigram
// table so that SIMD-friendly row access never straddles a cache line
// at an odd offset.
const alignment = 128

// alignedFloat32 returns a []float32 of length n whose backing array
// starts at a 128-byte aligned address. The slice holds an interior
// pointer into a larger byte buffer; Go's garbage collector keeps the
// buffer alive for as long as the returned slice (or anything derived
// from it) is reachable, since the data pointer points inside it.
func alignedFloat32(n int) []float32 {
	buf := make([]byte, n*4+alignment)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	offset := (alignment - int(addr%alignment)) % alignment
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[offset])), n)
}

// alignedInt32 is alignedFloat32's counterpart for the unigram table.
func alignedInt32(n int) []int32 {
	buf := make([]byte, n*4+alignment)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	offset := (alignment - int(addr%alignment)) % alignment
	return unsafe.Slice((*int32)(unsafe.Pointer(&buf[offset])), n)
}
