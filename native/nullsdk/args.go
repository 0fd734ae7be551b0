package nullsdk

import (
	"bytes"

	"github.com/indywasm/indywasm/native"
)

// argReader reads call arguments, remembering the first bad one. Argument i
// is SDK parameter i+2: the command handle is parameter 1.
type argReader struct {
	args []native.Value
	code native.ErrorCode
}

func readArgs(args []native.Value, want int) *argReader {
	r := &argReader{args: args}
	if len(args) != want {
		r.code = paramCode(min(len(args), want))
	}
	return r
}

func paramCode(i int) native.ErrorCode {
	return min(native.CommonInvalidParam1+native.ErrorCode(i+1), native.CommonInvalidParam12)
}

func (r *argReader) value(i int, kind native.Kind) (native.Value, bool) {
	if r.code != native.Success {
		return native.Value{}, false
	}
	if r.args[i].Kind != kind {
		r.code = paramCode(i)
		return native.Value{}, false
	}
	return r.args[i], true
}

func (r *argReader) str(i int) string {
	v, ok := r.value(i, native.KindCString)
	if !ok {
		return ""
	}
	if bytes.IndexByte(v.Bytes, 0) < 0 {
		r.code = paramCode(i)
		return ""
	}
	return string(v.Text())
}

func (r *argReader) buf(i int) []byte {
	v, ok := r.value(i, native.KindBuffer)
	if !ok {
		return nil
	}
	return bytes.Clone(v.Bytes)
}

func (r *argReader) wallet(i int) native.Handle {
	v, ok := r.value(i, native.KindHandle)
	if !ok {
		return 0
	}
	if v.Num <= 0 {
		r.code = native.WalletInvalidHandle
		return 0
	}
	return native.Handle(v.Num)
}

// done returns op, or the immediate error code if an argument was bad.
func (r *argReader) done(op operation) (operation, native.ErrorCode) {
	if r.code != native.Success {
		return nil, r.code
	}
	return op, native.Success
}
