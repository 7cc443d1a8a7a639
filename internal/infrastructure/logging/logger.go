package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = "request_id"
	// sessionKey holds the signed-in operator's session fields
	sessionKey contextKey = "session"
)

// redacted replaces the values of sensitive attributes.
const redacted = "[REDACTED]"

// sensitiveKeys never reach the log output in clear text.
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"password":      {},
	"secret":        {},
	"token":         {},
}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      io.Writer
	AddSource   bool
	ServiceName string
	Environment string
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a new structured logger with the given configuration
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.Level),
		AddSource:   cfg.AddSource,
		ReplaceAttr: replaceAttr,
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	})

	return slog.New(&contextHandler{handler: handler})
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.String(a.Key, a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

// sessionFields is what SessionAuth records about the caller.
type sessionFields struct {
	id       string
	operator string
}

// contextAttrs returns the request and session attributes carried by ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	if requestID := GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if s, ok := ctx.Value(sessionKey).(sessionFields); ok {
		if s.id != "" {
			attrs = append(attrs, slog.String("session_id", s.id))
		}
		if s.operator != "" {
			attrs = append(attrs, slog.String("operator", s.operator))
		}
	}
	return attrs
}

// contextHandler adds the request and session attributes of the record's context.
type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithSession records the session ID and operator email on the context.
func WithSession(ctx context.Context, sessionID, operator string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionFields{id: sessionID, operator: operator})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFromContext binds the context attributes to logger, for code that
// logs without passing the context along.
func LoggerFromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := contextAttrs(ctx)
	if len(attrs) == 0 {
		return logger
	}

	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return logger.With(args...)
}

// LogPanic logs panic information and stack trace
func LogPanic(logger *slog.Logger, panicValue any) {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)

	logger.Error("panic recovered",
		"panic", panicValue,
		"stack_trace", string(buf[:n]),
	)
}

// RequestLog describes one served HTTP request.
type RequestLog struct {
	Method       string
	Path         string
	StatusCode   int
	Duration     time.Duration
	BytesWritten int64
	ClientIP     string
	UserAgent    string
}

// HTTPRequestLogger provides a logger for HTTP request logging
type HTTPRequestLogger struct {
	Logger *slog.Logger
}

// LogRequest logs a served request at a level chosen by its status:
// 5xx at error, 4xx at warn, the rest at info.
func (l *HTTPRequestLogger) LogRequest(ctx context.Context, entry RequestLog) {
	level := slog.LevelInfo
	switch {
	case entry.StatusCode >= 500:
		level = slog.LevelError
	case entry.StatusCode >= 400:
		level = slog.LevelWarn
	}

	l.Logger.LogAttrs(ctx, level, "http request",
		slog.String("method", entry.Method),
		slog.String("path", entry.Path),
		slog.Int("status_code", entry.StatusCode),
		slog.Int64("duration_ms", entry.Duration.Milliseconds()),
		slog.Int64("bytes_written", entry.BytesWritten),
		slog.String("client_ip", entry.ClientIP),
		slog.String("user_agent", entry.UserAgent),
	)
}
