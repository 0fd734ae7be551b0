package wasm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/indywasm/indywasm/native"
)

// copyToGuest allocates len(b) bytes with the guest allocator and writes b
// there. An empty b is passed as a null pointer.
func copyToGuest(ctx context.Context, mod api.Module, alloc api.Function, b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, nil
	}
	res, err := alloc.Call(ctx, uint64(len(b)))
	if err != nil {
		return 0, fmt.Errorf("wasm: %s(%d): %w", guestExportAlloc, len(b), err)
	}
	ptr := uint32(res[0])
	if ptr == 0 || !mod.Memory().Write(ptr, b) {
		return 0, fmt.Errorf("wasm: %s returned unusable pointer %d for %d bytes", guestExportAlloc, ptr, len(b))
	}
	return ptr, nil
}

// readCString returns the NUL-terminated string at ptr, terminator included.
// The bytes alias guest memory. A null pointer reads as an empty string.
func readCString(mem api.Memory, ptr uint32) native.Value {
	if ptr == 0 {
		return native.CStringBytes([]byte{0})
	}
	size := mem.Size()
	if ptr >= size {
		panic(fmt.Sprintf("string pointer %d outside memory of %d bytes", ptr, size)) // Bug: in guest
	}
	b, _ := mem.Read(ptr, size-ptr)
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		panic(fmt.Sprintf("string at %d is not terminated", ptr)) // Bug: in guest
	}
	return native.CStringBytes(b[:i+1])
}

// readBuffer returns the len bytes at ptr. The bytes alias guest memory.
func readBuffer(mem api.Memory, ptr, n uint32) native.Value {
	if n == 0 {
		return native.Buffer(nil)
	}
	b, ok := mem.Read(ptr, n)
	if !ok {
		panic(fmt.Sprintf("buffer %d+%d outside memory", ptr, n)) // Bug: in guest
	}
	return native.Buffer(b)
}
