// Package sdk is the guest side of the wasm library's calling convention. An
// SDK shim built with GOOS=wasip1 -buildmode=c-shared imports it to receive
// arguments and report completions to the host.
//
// Every exported symbol has the form
//
//	//go:wasmexport indy_crypto_sign
//	func cryptoSign(h int32, wallet int32, signerVk uint32, msg, msgLen uint32, cb uint32) int32
//
// and reads its arguments with String and Bytes.
package sdk

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/indywasm/indywasm/guest/internal/mem"
	"github.com/indywasm/indywasm/native"
)

// Callback identifies the host callback a completion is for.
type Callback uint32

// String takes ownership of a string argument.
func String(ptr uint32) string {
	return mem.TakeCString(ptr)
}

// Bytes takes ownership of a buffer argument.
func Bytes(ptr, size uint32) []byte {
	return mem.TakeOwnership(ptr, size)
}

// Bool reads an indy_bool_t argument.
func Bool(v uint32) bool {
	return v != 0
}

// Complete reports a completion with no payload.
func Complete(cb Callback, h native.Handle, code native.ErrorCode) {
	complete(uint32(cb), int32(h), int32(code))
}

// Fail records the current error and completes with code.
func Fail(cb Callback, h native.Handle, code native.ErrorCode, format string, args ...any) {
	SetCurrentError(native.ErrorDetails{Message: fmt.Sprintf(format, args...)})
	Complete(cb, h, code)
}

// CompleteString reports a (String) completion.
func CompleteString(cb Callback, h native.Handle, s string) {
	b := mem.CString(s)
	completeStr(uint32(cb), int32(h), int32(native.Success), mem.Ptr(b))
	runtime.KeepAlive(b) // until the host has copied it
}

// CompleteBool reports a (Boolean) completion.
func CompleteBool(cb Callback, h native.Handle, v bool) {
	var b uint32
	if v {
		b = 1
	}
	completeBool(uint32(cb), int32(h), int32(native.Success), b)
}

// CompleteHandle reports a (Handle) completion.
func CompleteHandle(cb Callback, h native.Handle, v native.Handle) {
	completeHandle(uint32(cb), int32(h), int32(native.Success), int32(v))
}

// CompleteStringString reports a (String,String) completion.
func CompleteStringString(cb Callback, h native.Handle, first, second string) {
	b1, b2 := mem.CString(first), mem.CString(second)
	completeStrStr(uint32(cb), int32(h), int32(native.Success), mem.Ptr(b1), mem.Ptr(b2))
	runtime.KeepAlive(b1)
	runtime.KeepAlive(b2)
}

// CompleteBuffer reports a (ByteBuffer) completion.
func CompleteBuffer(cb Callback, h native.Handle, buf []byte) {
	completeBuf(uint32(cb), int32(h), int32(native.Success), mem.Ptr(buf), uint32(len(buf)))
	runtime.KeepAlive(buf)
}

// CompleteStringBuffer reports a (String,ByteBuffer) completion.
func CompleteStringBuffer(cb Callback, h native.Handle, s string, buf []byte) {
	b := mem.CString(s)
	completeStrBuf(uint32(cb), int32(h), int32(native.Success), mem.Ptr(b), mem.Ptr(buf), uint32(len(buf)))
	runtime.KeepAlive(b)
	runtime.KeepAlive(buf)
}

// currentError is the NUL-terminated JSON indy_get_current_error points at.
var currentError []byte

// SetCurrentError sets the description returned by indy_get_current_error.
func SetCurrentError(details native.ErrorDetails) {
	b, err := json.Marshal(details)
	if err != nil {
		panic(err) // Bug: ErrorDetails always marshals
	}
	currentError = append(b, 0)
}

// ClearCurrentError makes indy_get_current_error return null.
func ClearCurrentError() {
	currentError = nil
}

//go:wasmexport indy_get_current_error
func getCurrentError() uint32 {
	return mem.Ptr(currentError)
}
