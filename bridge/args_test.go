package bridge

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indywasm/indywasm/native"
)

const usage = "op(a, cb(err))"

func TestCheckArgs(t *testing.T) {
	done := func(any, error) {}

	require.NoError(t, CheckArgs(usage, []any{1, 2}, 2, done))

	err := CheckArgs(usage, []any{1}, 2, done)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "expected 2 arguments, got 1: "+usage)

	assert.ErrorIs(t, CheckArgs(usage, nil, 0, nil), ErrInvalidArgument)
}

func TestStringArg(t *testing.T) {
	s, err := StringArg(usage, []any{"abc"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	_, err = StringArg(usage, []any{"x", 3}, 1)
	assert.EqualError(t, err, "expected String for arg 1, got int: "+usage)

	_, err = StringArg(usage, []any{"a\x00"}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIntegerArgs(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		want     int64
		signed   bool
		unsigned bool
	}{
		{name: "int", in: 5, want: 5, signed: true, unsigned: true},
		{name: "zero", in: uint8(0), want: 0, signed: true, unsigned: true},
		{name: "negative", in: int32(-7), want: -7, signed: true},
		{name: "int32 min", in: int64(math.MinInt32), want: math.MinInt32, signed: true},
		{name: "int32 max", in: int64(math.MaxInt32), want: math.MaxInt32, signed: true, unsigned: true},
		{name: "above int32", in: int64(math.MaxInt32) + 1, want: math.MaxInt32 + 1, unsigned: true},
		{name: "uint32 max", in: uint32(math.MaxUint32), want: math.MaxUint32, unsigned: true},
		{name: "integral float", in: 12.0, want: 12, signed: true, unsigned: true},
		{name: "json number", in: json.Number("-42"), want: -42, signed: true},
		{name: "fractional float", in: 1.5},
		{name: "above uint32", in: int64(math.MaxUint32) + 1},
		{name: "below int32", in: int64(math.MinInt32) - 1},
		{name: "string", in: "5"},
		{name: "huge uint64", in: uint64(math.MaxUint64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := func(read func(string, []any, int) (int64, error), ok bool) {
				got, err := read(usage, []any{tt.in}, 0)
				if !ok {
					assert.ErrorIs(t, err, ErrInvalidArgument)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			check(Int32Arg, tt.signed)
			check(Uint32Arg, tt.unsigned)
		})
	}
}

func TestHandleArg(t *testing.T) {
	h, err := HandleArg(usage, []any{native.Handle(9)}, 0)
	require.NoError(t, err)
	assert.Equal(t, native.Handle(9), h)

	h, err = HandleArg(usage, []any{float64(3)}, 0)
	require.NoError(t, err)
	assert.Equal(t, native.Handle(3), h)

	_, err = HandleArg(usage, []any{int64(math.MaxInt32) + 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = HandleArg(usage, []any{true}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBoolAndBufferArg(t *testing.T) {
	b, err := BoolArg(usage, []any{true}, 0)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = BoolArg(usage, []any{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	buf, err := BufferArg(usage, []any{[]byte{1, 2}}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, buf)

	_, err = BufferArg(usage, []any{"bytes"}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPayloadReaders(t *testing.T) {
	raw := []byte{1, 2, 3}
	payload := []native.Value{
		native.CString("did"),
		native.Bool(true),
		native.HandleValue(4),
		native.Buffer(raw),
	}

	s, err := CopyString(payload, 0)
	require.NoError(t, err)
	assert.Equal(t, "did", s)

	b, err := ReadBool(payload, 1)
	require.NoError(t, err)
	assert.True(t, b)

	h, err := ReadHandle(payload, 2)
	require.NoError(t, err)
	assert.Equal(t, native.Handle(4), h)

	buf, err := CopyBuffer(payload, 3)
	require.NoError(t, err)
	raw[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, buf, "buffer must be copied out of native memory")

	_, err = CopyString(payload, 1)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = CopyBuffer(payload, 4)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestErrorNames(t *testing.T) {
	err := NewError(native.DidAlreadyExistsError)
	assert.EqualError(t, err, "indy error 600: DidAlreadyExistsError")

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, native.DidAlreadyExistsError, code)
	assert.NotErrorIs(t, err, NewError(native.WalletItemNotFound))
}

func TestLookup(t *testing.T) {
	exports := []Export{{Name: "create"}, {Name: "close"}}

	e, err := Lookup(exports, "close")
	require.NoError(t, err)
	assert.Equal(t, "close", e.Name)

	_, err = Lookup(exports, "open")
	assert.ErrorIs(t, err, ErrUnknownExport)
}
