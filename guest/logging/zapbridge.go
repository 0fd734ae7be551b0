// Package logging gives SDK shims a zap.Logger whose records are written by
// the host's logger through the indy.log import.
package logging

import (
	"encoding/json"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/indywasm/indywasm/native"
)

// record is one call of indy.log.
type record struct {
	level   native.LogLevel
	target  string
	message string
	file    string
	line    int32
}

// emit sends a record to the host.
var emit = writeHostLog

// NewHostBridgeLogger returns a logger forwarding entries at or above level
// to the host. target names the record source, like "indy::wallet"; named
// child loggers extend it.
func NewHostBridgeLogger(target string, level zapcore.LevelEnabler) *zap.Logger {
	return zap.New(&hostBridgeCore{LevelEnabler: level, target: target}, zap.AddCaller())
}

type hostBridgeCore struct {
	zapcore.LevelEnabler
	target string
	fields []zapcore.Field
}

func (c *hostBridgeCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(slices.Clip(c.fields), fields...)
	return &clone
}

func (c *hostBridgeCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write renders fields as a JSON object after the message, since the host
// function only carries text.
func (c *hostBridgeCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	msg := entry.Message
	if len(enc.Fields) > 0 {
		b, err := json.Marshal(enc.Fields)
		if err != nil {
			return err
		}
		msg += " " + string(b)
	}

	target := c.target
	if entry.LoggerName != "" {
		name := strings.ReplaceAll(entry.LoggerName, ".", "::")
		if target == "" {
			target = name
		} else {
			target += "::" + name
		}
	}

	r := record{level: native.LogLevelOf(entry.Level), target: target, message: msg}
	if entry.Caller.Defined {
		r.file, r.line = entry.Caller.File, int32(entry.Caller.Line)
	}
	emit(r)
	return nil
}

func (c *hostBridgeCore) Sync() error {
	return nil
}
