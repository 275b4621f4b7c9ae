package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultSlowQuery   = 200 * time.Millisecond
	defaultMaxSQLChars = 2048
)

// GormLogger routes GORM statement logs to zap. Statement entries carry the
// request and trace ids found on the query context.
type GormLogger struct {
	logger      *zap.Logger
	logLevel    gormlogger.LogLevel
	slowQuery   time.Duration
	maxSQLChars int
	logNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as
// slow. Zero disables slow query logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowQuery = threshold }
}

// WithMaxSQLLength truncates logged statements. Bulk inserts of notifications
// can otherwise produce very long lines.
func WithMaxSQLLength(n int) GormLoggerOption {
	return func(l *GormLogger) { l.maxSQLChars = n }
}

// WithRecordNotFound logs gorm.ErrRecordNotFound as an error. Repositories
// translate it into shared.ErrNotFound, so it is skipped by default.
func WithRecordNotFound(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = enabled }
}

func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:      base.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		logLevel:    level,
		slowQuery:   defaultSlowQuery,
		maxSQLChars: defaultMaxSQLChars,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy at the given level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.logLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.withContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.withContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.withContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	failed := err != nil && (l.logNotFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowQuery > 0 && elapsed > l.slowQuery

	var (
		msg   string
		write func(string, ...zap.Field)
	)
	log := l.withContext(ctx)
	switch {
	case failed && l.logLevel >= gormlogger.Error:
		msg, write = "SQL Error", log.Error
	case err == nil && slow && l.logLevel >= gormlogger.Warn:
		msg, write = "Slow SQL", log.Warn
	case err == nil && l.logLevel >= gormlogger.Info:
		msg, write = "SQL Query", log.Debug
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", l.truncate(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if slow {
		fields = append(fields, zap.Duration("slow_threshold", l.slowQuery))
	}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	write(msg, fields...)
}

func (l *GormLogger) withContext(ctx context.Context) *zap.Logger {
	log := l.logger
	if id := GetRequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		log = log.With(zap.String("trace_id", id))
	}
	return log
}

func (l *GormLogger) truncate(sql string) string {
	if l.maxSQLChars <= 0 || len(sql) <= l.maxSQLChars {
		return sql
	}
	return sql[:l.maxSQLChars] + "...(truncated)"
}

// MapGormLogLevel maps the application log level onto GORM's. Debug and
// info both enable statement logging.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error", "fatal":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
