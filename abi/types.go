// Package abi describes native SDK function declarations and the closed set
// of semantic types and callback shapes the bridge knows how to marshal.
package abi

import (
	"fmt"
	"strings"
)

// SemanticType is the bridge-level meaning of a raw C type spelling.
type SemanticType uint8

const (
	Invalid SemanticType = iota
	String
	Boolean
	Integer
	Handle
	ErrorCode
	ByteBuffer
	Void
)

// String returns the name of the semantic type.
func (t SemanticType) String() string {
	switch t {
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Handle:
		return "Handle"
	case ErrorCode:
		return "ErrorCode"
	case ByteBuffer:
		return "ByteBuffer"
	case Void:
		return "Void"
	default:
		return fmt.Sprintf("SemanticType(%d)", uint8(t))
	}
}

// MarshalText implements encoding.TextMarshaler so manifests carry type names.
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CallbackShape is the ordered list of semantic types carried by a completion
// payload, after the leading command handle and error code.
type CallbackShape []SemanticType

// Key renders the shape as "String+ByteBuffer"; the empty shape is "".
func (c CallbackShape) Key() string {
	parts := make([]string, len(c))
	for i, t := range c {
		parts[i] = t.String()
	}
	return strings.Join(parts, "+")
}

// String renders the shape as a tuple, e.g. "(String,ByteBuffer)".
func (c CallbackShape) String() string {
	return "(" + strings.ReplaceAll(c.Key(), "+", ",") + ")"
}

// Shape identifies one member of the supported set of callback shapes.
// Anything outside this set cannot be generated.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapeNone
	ShapeString
	ShapeBoolean
	ShapeHandle
	ShapeStringString
	ShapeBuffer
	ShapeStringBuffer
)

var shapeTypes = map[Shape]CallbackShape{
	ShapeNone:         {},
	ShapeString:       {String},
	ShapeBoolean:      {Boolean},
	ShapeHandle:       {Handle},
	ShapeStringString: {String, String},
	ShapeBuffer:       {ByteBuffer},
	ShapeStringBuffer: {String, ByteBuffer},
}

var shapeNames = map[Shape]string{
	ShapeNone:         "ShapeNone",
	ShapeString:       "ShapeString",
	ShapeBoolean:      "ShapeBoolean",
	ShapeHandle:       "ShapeHandle",
	ShapeStringString: "ShapeStringString",
	ShapeBuffer:       "ShapeBuffer",
	ShapeStringBuffer: "ShapeStringBuffer",
}

// Shapes returns the supported shapes in declaration order.
func Shapes() []Shape {
	return []Shape{
		ShapeNone,
		ShapeString,
		ShapeBoolean,
		ShapeHandle,
		ShapeStringString,
		ShapeBuffer,
		ShapeStringBuffer,
	}
}

// ShapeOf maps a callback payload to its supported shape. The second result
// is false when the payload is outside the supported set.
func ShapeOf(c CallbackShape) (Shape, bool) {
	key := c.Key()
	for _, s := range Shapes() {
		if shapeTypes[s].Key() == key {
			return s, true
		}
	}
	return ShapeInvalid, false
}

// Types returns the payload types of the shape.
func (s Shape) Types() CallbackShape {
	return append(CallbackShape(nil), shapeTypes[s]...)
}

// Ident is the Go identifier of the shape constant, e.g. "ShapeString".
func (s Shape) Ident() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "ShapeInvalid"
}

func (s Shape) String() string {
	if t, ok := shapeTypes[s]; ok {
		return t.String()
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}
