//go:build wasm

package logging

import (
	"runtime"

	"github.com/indywasm/indywasm/guest/internal/mem"
)

//go:wasmimport indy log
func hostLog(level int32, target, message, file uint32, line int32)

func writeHostLog(r record) {
	target, message, file := mem.CString(r.target), mem.CString(r.message), mem.CString(r.file)
	hostLog(int32(r.level), mem.Ptr(target), mem.Ptr(message), mem.Ptr(file), r.line)
	runtime.KeepAlive(target)
	runtime.KeepAlive(message)
	runtime.KeepAlive(file)
}
