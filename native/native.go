// Package native defines the calling boundary between the bridge and a native
// SDK build, plus a registry of library implementations.
package native

import (
	"bytes"
	"context"
	"fmt"
)

// Handle is the SDK's indy_handle_t: command handles, wallet handles and
// pool handles all share it.
type Handle int32

// ErrorCode is the SDK's indy_error_t. Zero is success.
type ErrorCode int32

// Success is the reserved success sentinel.
const Success ErrorCode = 0

// Kind tags the representation of a Value at the boundary.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindCString is NUL-terminated UTF-8.
	KindCString
	KindBool
	// KindInt is a 32-bit integer, signed or unsigned, widened to int64.
	KindInt
	KindHandle
	// KindBuffer is a pointer plus length.
	KindBuffer
)

func (k Kind) String() string {
	switch k {
	case KindCString:
		return "cstring"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindHandle:
		return "handle"
	case KindBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is one argument or payload item as it crosses the native boundary.
//
// Payload values handed to a Callback may alias native memory that is only
// valid for the duration of the callback; copy anything that must outlive it.
type Value struct {
	Kind  Kind
	Bytes []byte
	Num   int64
}

// CString marshals s as NUL-terminated UTF-8.
func CString(s string) Value {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return Value{Kind: KindCString, Bytes: b}
}

// CStringBytes wraps bytes that already end in NUL without copying.
func CStringBytes(b []byte) Value {
	return Value{Kind: KindCString, Bytes: b}
}

// Bool marshals an indy_bool_t.
func Bool(b bool) Value {
	v := Value{Kind: KindBool}
	if b {
		v.Num = 1
	}
	return v
}

// Int marshals an indy_i32_t or indy_u32_t.
func Int(n int64) Value {
	return Value{Kind: KindInt, Num: n}
}

// HandleValue marshals an indy_handle_t.
func HandleValue(h Handle) Value {
	return Value{Kind: KindHandle, Num: int64(h)}
}

// Buffer marshals a pointer/length pair. The slice is not copied.
func Buffer(b []byte) Value {
	return Value{Kind: KindBuffer, Bytes: b}
}

// Text returns the bytes of a C string without its terminator.
func (v Value) Text() []byte {
	if i := bytes.IndexByte(v.Bytes, 0); i >= 0 {
		return v.Bytes[:i]
	}
	return v.Bytes
}

// Callback is how a library reports a completion: the command handle it was
// given, the error code and the payload. It may be invoked from any goroutine.
type Callback func(h Handle, code ErrorCode, payload []Value)

// Library is a loaded native SDK.
type Library interface {
	// Call invokes symbol with the command handle, the marshaled arguments
	// and the completion callback. args are only valid until Call returns.
	// The returned error code is the function's immediate result; a non-zero
	// code means cb will not be invoked. A non-nil error means the call did
	// not reach the SDK.
	Call(ctx context.Context, symbol string, h Handle, args []Value, cb Callback) (ErrorCode, error)
	// Close releases the library.
	Close(ctx context.Context) error
}

// ErrorDetails is the SDK's description of the most recent failure.
type ErrorDetails struct {
	Message   string `json:"message"`
	Backtrace string `json:"backtrace,omitempty"`
}

// ErrorReporter is implemented by libraries that can describe the last error
// raised on the calling goroutine, like indy_get_current_error.
type ErrorReporter interface {
	CurrentError() (ErrorDetails, bool)
}

// CallErrorReporter is implemented by libraries that keep the description of
// each failed call under its command handle. CallError returns it once and
// forgets it, so concurrent failures never read each other's details.
type CallErrorReporter interface {
	CallError(h Handle) (ErrorDetails, bool)
}
