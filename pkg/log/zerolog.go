package log

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w with the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewZerologLoggerFrom wraps an existing zerolog.Logger.
func NewZerologLoggerFrom(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) Debug(msg string, fields ...any) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...any) {
	emit(l.zl.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...any) {
	e := l.zl.Warn()
	emit(e, msg, takeError(e, fields))
}

func (l *ZerologLogger) Error(msg string, fields ...any) {
	e := l.zl.Error()
	emit(e, msg, takeError(e, fields))
}

func (l *ZerologLogger) With(fields ...any) Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZerologLogger{zl: l.zl.With().Fields(normalize(fields)).Logger()}
}

func (l *ZerologLogger) Enabled(ctx context.Context, level Level) bool {
	zlLevel := toZerologLevel(level)
	return zlLevel >= l.zl.GetLevel() && zlLevel >= zerolog.GlobalLevel()
}

func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		e = e.Fields(normalize(fields))
	}
	e.Msg(msg)
}

// takeError attaches an error passed either as the first field or under
// ErrAttrKey to e and returns the remaining fields.
func takeError(e *zerolog.Event, fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	if err, ok := fields[0].(error); ok {
		withError(e, err)
		return fields[1:]
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] != ErrAttrKey {
			continue
		}
		if err, ok := fields[i+1].(error); ok {
			withError(e, err)
			rest := make([]any, 0, len(fields)-2)
			rest = append(rest, fields[:i]...)
			return append(rest, fields[i+2:]...)
		}
	}
	return fields
}

func withError(e *zerolog.Event, err error) {
	if e == nil {
		return
	}
	e.Err(err)
	if st := extractStacktrace(err); st != "" {
		e.Str(StacktraceAttrKey, st)
	}
	var marshaler zerolog.LogObjectMarshaler
	if errors.As(err, &marshaler) {
		e.Object(ErrorDetailKey, marshaler)
	}
}

// normalize turns key/value pairs into a list zerolog accepts; a dangling key
// gets a nil value and error values are rendered with their message.
func normalize(fields []any) []any {
	out := make([]any, 0, len(fields)+1)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		var value any
		if i+1 < len(fields) {
			value = fields[i+1]
		}
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		out = append(out, key, value)
	}
	return out
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
