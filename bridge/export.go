package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/indywasm/indywasm/abi"
)

// ErrUnknownExport is returned when an export name has no entry.
var ErrUnknownExport = errors.New("unknown export")

// Entry is a generated entry point.
type Entry func(ctx context.Context, rt *Runtime, args []any, done Receiver) error

// Export describes one generated entry point.
type Export struct {
	Name   string
	Symbol string
	Usage  string
	Shape  abi.Shape
	Params []abi.SemanticType
	Entry  Entry
}

// Lookup finds the export called name.
func Lookup(exports []Export, name string) (Export, error) {
	for _, e := range exports {
		if e.Name == name {
			return e, nil
		}
	}
	return Export{}, fmt.Errorf("%w: %s", ErrUnknownExport, name)
}
