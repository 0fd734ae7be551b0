// Package mem manages guest memory handed to the host.
package mem

import (
	"bytes"
	"fmt"
	"unsafe"
)

// pinnedAllocations keeps references to host-allocated buffers until guest code
// takes ownership, preventing the GC from reclaiming them too early.
var pinnedAllocations = map[uint32][]byte{}

// Alloc allocates and pins a byte buffer for a call argument.
//
//go:wasmexport indy_alloc
func Alloc(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	buf := make([]byte, size)
	ptr := Ptr(buf)
	pinnedAllocations[ptr] = buf
	return ptr
}

// Free unpins an allocation the guest never took. The host calls it once a
// symbol returns.
//
//go:wasmexport indy_free
func Free(ptr uint32) {
	delete(pinnedAllocations, ptr)
}

// TakeOwnership returns an allocated buffer and unpins it.
func TakeOwnership(ptr uint32, size uint32) []byte {
	if ptr == 0 && size == 0 {
		return nil
	}

	buf, ok := pinnedAllocations[ptr]
	if !ok {
		panic(fmt.Sprintf("TakeOwnership: unknown pointer %d", ptr))
	}

	delete(pinnedAllocations, ptr)
	if size > uint32(len(buf)) {
		panic(fmt.Sprintf("TakeOwnership: size %d exceeds allocation %d", size, len(buf)))
	}

	return buf[:size]
}

// TakeCString takes the allocation at ptr and returns the string up to its
// NUL. A null pointer is the empty string.
func TakeCString(ptr uint32) string {
	if ptr == 0 {
		return ""
	}
	buf, ok := pinnedAllocations[ptr]
	if !ok {
		panic(fmt.Sprintf("TakeCString: unknown pointer %d", ptr))
	}
	delete(pinnedAllocations, ptr)

	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		panic(fmt.Sprintf("TakeCString: string at %d is not terminated", ptr))
	}
	return string(buf[:i])
}

// CString returns s with a NUL terminator appended. Keep the result alive
// until the host has read it.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// Ptr returns the linear memory address of b, or 0 when b is empty.
func Ptr(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}
