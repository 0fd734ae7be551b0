package wasm

import "errors"

var (
	ErrMemoryExportNotFound        = errors.New("memory export not found")
	ErrRequiredFunctionNotExported = errors.New("required function not exported")
	ErrSignatureMismatch           = errors.New("export signature does not match arguments")
)
