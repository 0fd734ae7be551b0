package bridge

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/indywasm/indywasm/native"
)

// CheckArgs verifies the argument count and that a receiver was supplied.
func CheckArgs(usage string, args []any, want int, done Receiver) error {
	if len(args) != want {
		return &ArgError{Usage: usage, Reason: fmt.Sprintf("expected %d arguments, got %d", want, len(args))}
	}
	if done == nil {
		return &ArgError{Usage: usage, Reason: "expected a completion receiver"}
	}
	return nil
}

func typeError(usage string, i int, want string, got any) error {
	return &ArgError{Usage: usage, Reason: fmt.Sprintf("expected %s for arg %d, got %T", want, i, got)}
}

// StringArg reads a String argument. C strings cannot carry NUL bytes.
func StringArg(usage string, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", typeError(usage, i, "String", args[i])
	}
	if strings.IndexByte(s, 0) >= 0 {
		return "", &ArgError{Usage: usage, Reason: fmt.Sprintf("expected String without NUL bytes for arg %d", i)}
	}
	return s, nil
}

// BoolArg reads a Boolean argument.
func BoolArg(usage string, args []any, i int) (bool, error) {
	b, ok := args[i].(bool)
	if !ok {
		return false, typeError(usage, i, "Boolean", args[i])
	}
	return b, nil
}

// Int32Arg reads an indy_i32_t Integer argument. Any Go integer, an integral
// float64 or a json.Number is accepted if it fits in an int32.
func Int32Arg(usage string, args []any, i int) (int64, error) {
	return intArg(usage, args, i, math.MinInt32, math.MaxInt32)
}

// Uint32Arg reads an indy_u32_t Integer argument, accepting the same inputs
// as Int32Arg if they fit in a uint32.
func Uint32Arg(usage string, args []any, i int) (int64, error) {
	return intArg(usage, args, i, 0, math.MaxUint32)
}

func intArg(usage string, args []any, i int, lo, hi int64) (int64, error) {
	n, ok := toInt64(args[i])
	if !ok {
		return 0, typeError(usage, i, "Integer", args[i])
	}
	if n < lo || n > hi {
		return 0, &ArgError{Usage: usage, Reason: fmt.Sprintf("Integer arg %d out of range [%d, %d]: %d", i, lo, hi, n)}
	}
	return n, nil
}

// HandleArg reads a Handle argument.
func HandleArg(usage string, args []any, i int) (native.Handle, error) {
	if h, ok := args[i].(native.Handle); ok {
		return h, nil
	}
	n, ok := toInt64(args[i])
	if !ok {
		return 0, typeError(usage, i, "Handle", args[i])
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &ArgError{Usage: usage, Reason: fmt.Sprintf("Handle arg %d out of range: %d", i, n)}
	}
	return native.Handle(n), nil
}

// BufferArg reads a ByteBuffer argument.
func BufferArg(usage string, args []any, i int) ([]byte, error) {
	b, ok := args[i].([]byte)
	if !ok {
		return nil, typeError(usage, i, "ByteBuffer", args[i])
	}
	return b, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
