package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Logger is a zerolog logger bound to a service name. Derived loggers share
// the service and add fields of their own.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New builds a logger writing to cfg.Output.
func New(cfg *Config, service string) *Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}
	return NewWithWriter(cfg, service, out)
}

// NewWithWriter builds a logger writing to w. Unknown levels mean info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.isConsole() {
		w = consoleWriter(w, service, cfg.NoColor)
	}
	zc := zerolog.New(w).Level(level).With().Str("service", service)
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger(), service: service}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{zl: zc.Logger(), service: l.service}
}

type ctxKey struct{}

// ContextWithRequestID stores a request id for later log enrichment.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext adds the request id and the active trace and span ids
// carried by ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if id := RequestIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRequestID, id)
	}
	if traceID, spanID := traceIDs(ctx); traceID != "" {
		zc = zc.Str(FieldTraceID, traceID).Str(FieldSpanID, spanID)
	}
	return l.derive(zc)
}

// WithComponent tags entries with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.zl.With().Str(FieldComponent, name))
}

// WithError attaches err under the "error" key.
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.zl.With().Err(err))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Fatal(), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, m := range fields {
		e.Fields(m)
	}
	e.Msg(msg)
}

var global atomic.Pointer[Logger]

// SetGlobalLogger installs l as the process-wide logger.
func SetGlobalLogger(l *Logger) { global.Store(l) }

// Global returns the process-wide logger, or a stderr console logger when
// none has been installed.
func Global() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l := New(&Config{Level: "info", Format: "console", Output: "stderr", Timestamp: true}, "authsvc")
	global.CompareAndSwap(nil, l)
	return global.Load()
}

// Fatal logs through the global logger and exits.
func Fatal(msg string, fields ...map[string]interface{}) {
	Global().Fatal(msg, fields...)
}

var levelTags = map[string]struct {
	tag   string
	color int
}{
	"debug": {"DBG", 36},
	"info":  {"INF", 32},
	"warn":  {"WRN", 33},
	"error": {"ERR", 31},
	"fatal": {"FTL", 35},
}

func consoleWriter(w io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	tag := ""
	if len(service) >= 3 {
		tag = "[" + strings.ToUpper(service[:3]) + "]"
	}
	paint := func(code int, s string) string {
		if noColor {
			return s
		}
		return fmt.Sprintf("\033[%dm%s\033[0m", code, s)
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			name := fmt.Sprint(i)
			lt, ok := levelTags[name]
			if !ok {
				lt.tag = strings.ToUpper(name)
			}
			out := paint(lt.color, "["+lt.tag+"]")
			if tag != "" {
				out = paint(34, tag) + out
			}
			return out
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
