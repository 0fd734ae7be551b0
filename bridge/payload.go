package bridge

import (
	"bytes"
	"fmt"

	"github.com/indywasm/indywasm/native"
)

// StringPair is the result of a (String,String) completion.
type StringPair struct {
	First  string
	Second string
}

// StringBuffer is the result of a (String,ByteBuffer) completion.
type StringBuffer struct {
	String string
	Buffer []byte
}

func payloadAt(payload []native.Value, i int, kind native.Kind) (native.Value, error) {
	if i >= len(payload) {
		return native.Value{}, fmt.Errorf("%w: %d values, need index %d", ErrMalformedPayload, len(payload), i)
	}
	v := payload[i]
	if v.Kind != kind {
		return native.Value{}, fmt.Errorf("%w: value %d is %s, want %s", ErrMalformedPayload, i, v.Kind, kind)
	}
	return v, nil
}

// CopyString copies a native string out of the payload.
func CopyString(payload []native.Value, i int) (string, error) {
	v, err := payloadAt(payload, i, native.KindCString)
	if err != nil {
		return "", err
	}
	return string(v.Text()), nil
}

// ReadBool reads an indy_bool_t from the payload.
func ReadBool(payload []native.Value, i int) (bool, error) {
	v, err := payloadAt(payload, i, native.KindBool)
	if err != nil {
		return false, err
	}
	return v.Num != 0, nil
}

// ReadHandle reads an indy_handle_t from the payload.
func ReadHandle(payload []native.Value, i int) (native.Handle, error) {
	v, err := payloadAt(payload, i, native.KindHandle)
	if err != nil {
		return 0, err
	}
	return native.Handle(v.Num), nil
}

// CopyBuffer copies a native buffer out of the payload.
func CopyBuffer(payload []native.Value, i int) ([]byte, error) {
	v, err := payloadAt(payload, i, native.KindBuffer)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(v.Bytes), nil
}
