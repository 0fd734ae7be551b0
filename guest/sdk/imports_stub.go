//go:build !wasm

package sdk

// This file is used to stub out the imports for running tests.

func complete(cb uint32, h, code int32) {}

func completeStr(cb uint32, h, code int32, s uint32) {}

func completeBool(cb uint32, h, code int32, b uint32) {}

func completeHandle(cb uint32, h, code int32, v int32) {}

func completeStrStr(cb uint32, h, code int32, s1, s2 uint32) {}

func completeBuf(cb uint32, h, code int32, ptr, size uint32) {}

func completeStrBuf(cb uint32, h, code int32, s, ptr, size uint32) {}
