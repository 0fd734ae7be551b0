package wasm

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	i32 = 0x7f

	// currentErrorJSON is what indy_get_current_error points at.
	currentErrorJSON   = `{"message":"wallet item missing","backtrace":"guest"}`
	currentErrorOffset = 16

	// failCode is what indy_fail completes with, rejectCode what
	// indy_reject returns.
	failCode   = 212
	rejectCode = 112

	// _initialize logs logMessage from logTarget at info level.
	logTarget  = "indy::wallet"
	logMessage = "opened storage"
	logFile    = "wallet.rs"
	logLine    = 42
	logOffset  = 256
)

type moduleOptions struct {
	exportMemory bool
	exportAlloc  bool
}

// buildSDKModule assembles a guest that imports three completion functions
// and log from the indy host module and exports:
//
//	indy_alloc(size) i32                  bump allocator starting at 1024
//	indy_echo(cmd, str, cb) i32           complete_str(cb, cmd, 0, str)
//	indy_fail(cmd, cb) i32                complete(cb, cmd, failCode)
//	indy_reject(cmd, cb) i32              returns rejectCode
//	indy_trap(cmd, cb) i32                unreachable
//	indy_get_current_error() i32          pointer to currentErrorJSON
//	indy_buf(cmd, ptr, len, cb) i32       complete_buf(cb, cmd, 0, ptr, len)
//	_initialize()                         log(info, logTarget, logMessage, logFile, logLine)
func buildSDKModule(opts moduleOptions) []byte {
	module := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}

	appendSection := func(sectionID byte, payload []byte) {
		module = append(module, sectionID)
		module = append(module, encodeULEB128Test(uint32(len(payload)))...)
		module = append(module, payload...)
	}

	// Type section:
	// 0: (i32, i32, i32) -> ()                 [complete]
	// 1: (i32, i32, i32, i32) -> ()            [complete_str]
	// 2: (i32, i32, i32, i32, i32) -> ()       [complete_buf, log]
	// 3: (i32) -> i32                          [indy_alloc]
	// 4: (i32, i32, i32) -> i32                [indy_echo]
	// 5: (i32, i32) -> i32                     [indy_fail, indy_reject, indy_trap]
	// 6: () -> i32                             [indy_get_current_error]
	// 7: (i32, i32, i32, i32) -> i32           [indy_buf]
	// 8: () -> ()                              [_initialize]
	appendSection(0x01, []byte{
		0x09,
		0x60, 0x03, i32, i32, i32, 0x00,
		0x60, 0x04, i32, i32, i32, i32, 0x00,
		0x60, 0x05, i32, i32, i32, i32, i32, 0x00,
		0x60, 0x01, i32, 0x01, i32,
		0x60, 0x03, i32, i32, i32, 0x01, i32,
		0x60, 0x02, i32, i32, 0x01, i32,
		0x60, 0x00, 0x01, i32,
		0x60, 0x04, i32, i32, i32, i32, 0x01, i32,
		0x60, 0x00, 0x00,
	})

	// Import section: indy.complete, indy.complete_str, indy.complete_buf and
	// indy.log are function indices 0 to 3.
	imports := []struct {
		name    string
		typeIdx byte
	}{
		{"complete", 0},
		{"complete_str", 1},
		{"complete_buf", 2},
		{hostFunctionLog, 2},
	}
	importPayload := []byte{byte(len(imports))}
	for _, imp := range imports {
		importPayload = append(importPayload, encodeULEB128Test(uint32(len(hostModuleName)))...)
		importPayload = append(importPayload, hostModuleName...)
		importPayload = append(importPayload, encodeULEB128Test(uint32(len(imp.name)))...)
		importPayload = append(importPayload, imp.name...)
		importPayload = append(importPayload, 0x00, imp.typeIdx) // kind=func, type index
	}
	appendSection(0x02, importPayload)

	// Function section: 8 local functions (indices 4..11).
	appendSection(0x03, []byte{0x08, 0x03, 0x04, 0x05, 0x05, 0x05, 0x06, 0x07, 0x08})

	if opts.exportMemory {
		appendSection(0x05, []byte{
			0x01, // 1 memory
			0x00, // min only
			0x01, // min pages
		})
	}

	// Global section: the allocator's next free address.
	globalPayload := []byte{0x01, i32, 0x01, 0x41}
	globalPayload = append(globalPayload, encodeSLEB128Test(1024)...)
	globalPayload = append(globalPayload, 0x0b)
	appendSection(0x06, globalPayload)

	// Export section.
	var exports []byte
	count := 7
	if opts.exportMemory {
		count++
		exports = append(exports, encodeULEB128Test(uint32(len(guestExportMemory)))...)
		exports = append(exports, guestExportMemory...)
		exports = append(exports, 0x02, 0x00) // memory index 0
	}
	if opts.exportAlloc {
		count++
		exports = appendExportedFunc(exports, guestExportAlloc, 4)
	}
	exports = appendExportedFunc(exports, "indy_echo", 5)
	exports = appendExportedFunc(exports, "indy_fail", 6)
	exports = appendExportedFunc(exports, "indy_reject", 7)
	exports = appendExportedFunc(exports, "indy_trap", 8)
	exports = appendExportedFunc(exports, guestExportCurrentError, 9)
	exports = appendExportedFunc(exports, "indy_buf", 10)
	exports = appendExportedFunc(exports, "_initialize", 11)
	appendSection(0x07, append(encodeULEB128Test(uint32(count)), exports...))

	allocBody := []byte{
		0x00,       // local decl count
		0x23, 0x00, // global.get 0 (result)
		0x23, 0x00, // global.get 0
		0x20, 0x00, // local.get 0
		0x6a,       // i32.add
		0x24, 0x00, // global.set 0
		0x0b, // end
	}
	echoBody := []byte{
		0x00,
		0x20, 0x02, // local.get cb
		0x20, 0x00, // local.get cmd
		0x41, 0x00, // i32.const 0
		0x20, 0x01, // local.get str
		0x10, 0x01, // call complete_str
		0x41, 0x00, // i32.const 0
		0x0b,
	}
	failBody := []byte{
		0x00,
		0x20, 0x01, // local.get cb
		0x20, 0x00, // local.get cmd
		0x41, // i32.const failCode
	}
	failBody = append(failBody, encodeSLEB128Test(failCode)...)
	failBody = append(failBody,
		0x10, 0x00, // call complete
		0x41, 0x00, // i32.const 0
		0x0b,
	)
	rejectBody := []byte{0x00, 0x41}
	rejectBody = append(rejectBody, encodeSLEB128Test(rejectCode)...)
	rejectBody = append(rejectBody, 0x0b)
	trapBody := []byte{
		0x00,
		0x00, // unreachable
		0x0b,
	}
	currentErrorBody := []byte{0x00, 0x41}
	currentErrorBody = append(currentErrorBody, encodeSLEB128Test(currentErrorOffset)...)
	currentErrorBody = append(currentErrorBody, 0x0b)
	bufBody := []byte{
		0x00,
		0x20, 0x03, // local.get cb
		0x20, 0x00, // local.get cmd
		0x41, 0x00, // i32.const 0
		0x20, 0x01, // local.get ptr
		0x20, 0x02, // local.get len
		0x10, 0x02, // call complete_buf
		0x41, 0x00, // i32.const 0
		0x0b,
	}

	targetPtr := int32(logOffset)
	messagePtr := targetPtr + int32(len(logTarget)) + 1
	filePtr := messagePtr + int32(len(logMessage)) + 1
	initializeBody := []byte{0x00}
	for _, arg := range []int32{3, targetPtr, messagePtr, filePtr, logLine} {
		initializeBody = append(initializeBody, 0x41) // i32.const
		initializeBody = append(initializeBody, encodeSLEB128Test(arg)...)
	}
	initializeBody = append(initializeBody,
		0x10, 0x03, // call log
		0x0b,
	)

	codePayload := []byte{0x08}
	for _, body := range [][]byte{
		allocBody,
		echoBody,
		failBody,
		rejectBody,
		trapBody,
		currentErrorBody,
		bufBody,
		initializeBody,
	} {
		codePayload = append(codePayload, encodeULEB128Test(uint32(len(body)))...)
		codePayload = append(codePayload, body...)
	}
	appendSection(0x0a, codePayload)

	if opts.exportMemory {
		// Data section: the NUL-terminated error JSON and log strings.
		segments := []struct {
			offset int32
			data   string
		}{
			{currentErrorOffset, currentErrorJSON + "\x00"},
			{logOffset, logTarget + "\x00" + logMessage + "\x00" + logFile + "\x00"},
		}
		dataPayload := []byte{byte(len(segments))}
		for _, seg := range segments {
			dataPayload = append(dataPayload,
				0x00, // active segment for memory index 0
				0x41, // i32.const
			)
			dataPayload = append(dataPayload, encodeSLEB128Test(seg.offset)...)
			dataPayload = append(dataPayload, 0x0b)
			dataPayload = append(dataPayload, encodeULEB128Test(uint32(len(seg.data)))...)
			dataPayload = append(dataPayload, seg.data...)
		}
		appendSection(0x0b, dataPayload)
	}

	return module
}

func appendExportedFunc(payload []byte, name string, funcIndex byte) []byte {
	payload = append(payload, encodeULEB128Test(uint32(len(name)))...)
	payload = append(payload, name...)
	payload = append(payload, 0x00, funcIndex) // kind=func, function index
	return payload
}

func encodeULEB128Test(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// encodeSLEB128Test encodes the immediate of i32.const.
func encodeSLEB128Test(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func writeTempModule(t *testing.T, module []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "sdk.wasm")
	if err := os.WriteFile(path, module, 0o600); err != nil {
		t.Fatalf("failed to write test module: %v", err)
	}
	return path
}
