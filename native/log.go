package native

import "go.uber.org/zap/zapcore"

// LogLevel is the level an SDK passes to its log callback.
type LogLevel int32

const (
	LogLevelError LogLevel = iota + 1
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// ZapLevel maps l to a zap level. Trace is logged at debug; unknown levels at
// info.
func (l LogLevel) ZapLevel() zapcore.Level {
	switch l {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelDebug, LogLevelTrace:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogLevelOf maps a zap level to the nearest SDK level.
func LogLevelOf(l zapcore.Level) LogLevel {
	switch {
	case l >= zapcore.ErrorLevel:
		return LogLevelError
	case l == zapcore.WarnLevel:
		return LogLevelWarn
	case l == zapcore.InfoLevel:
		return LogLevelInfo
	default:
		return LogLevelDebug
	}
}
