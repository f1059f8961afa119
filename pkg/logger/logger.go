package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogBookingCreated logs when a booking row is inserted
func (l *Logger) LogBookingCreated(ctx context.Context, bookingRef, eventID, categoryID string, quantity int) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_ref", bookingRef),
		slog.String("event_id", eventID),
		slog.String("category_id", categoryID),
		slog.Int("quantity", quantity),
	)
}

// LogBookingRejected logs a booking rejected at the write-time availability check
func (l *Logger) LogBookingRejected(ctx context.Context, eventID, categoryName string, requested, remaining int) {
	l.Logger.WarnContext(ctx,
		"Booking Rejected",
		slog.String("event_id", eventID),
		slog.String("category", categoryName),
		slog.Int("requested", requested),
		slog.Int("remaining", remaining),
	)
}

// LogCounterUpdateFailed logs a failed advisory available_quantity update.
// The cached counter is not the source of truth, so this never fails a booking.
func (l *Logger) LogCounterUpdateFailed(ctx context.Context, categoryID string, err error) {
	l.Logger.WarnContext(ctx,
		"Cached Availability Update Failed",
		slog.String("category_id", categoryID),
		slog.String("error", err.Error()),
	)
}

// LogPricingFieldDefaulted logs a missing or non-numeric pricing field that
// was silently treated as zero
func (l *Logger) LogPricingFieldDefaulted(ctx context.Context, bookingID, field string) {
	l.Logger.WarnContext(ctx,
		"Pricing Field Defaulted To Zero",
		slog.String("booking_id", bookingID),
		slog.String("field", field),
	)
}

// LogEventSoldOut logs when every category of an event computes to zero remaining
func (l *Logger) LogEventSoldOut(ctx context.Context, eventID string) {
	l.Logger.InfoContext(ctx,
		"Event Sold Out",
		slog.String("event_id", eventID),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
