//go:build wasm

package sdk

//go:wasmimport indy complete
func complete(cb uint32, h, code int32)

//go:wasmimport indy complete_str
func completeStr(cb uint32, h, code int32, s uint32)

//go:wasmimport indy complete_bool
func completeBool(cb uint32, h, code int32, b uint32)

//go:wasmimport indy complete_handle
func completeHandle(cb uint32, h, code int32, v int32)

//go:wasmimport indy complete_str_str
func completeStrStr(cb uint32, h, code int32, s1, s2 uint32)

//go:wasmimport indy complete_buf
func completeBuf(cb uint32, h, code int32, ptr, size uint32)

//go:wasmimport indy complete_str_buf
func completeStrBuf(cb uint32, h, code int32, s, ptr, size uint32)
