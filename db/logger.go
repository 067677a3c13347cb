package db

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// GormLogger implements gorm's logger.Interface on top of zap
type GormLogger struct {
	log *zap.Logger
}

func NewGormLogger(log *zap.Logger) *GormLogger {
	if log == nil {
		log = zap.L()
	}

	return &GormLogger{log: log.Named("gorm").WithOptions(zap.AddCallerSkip(3))}
}

func (l *GormLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	l.log.Sugar().Infof(msg, data...)
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	l.log.Sugar().Warnf(msg, data...)
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	l.log.Sugar().Errorf(msg, data...)
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	// Not found is a normal outcome for lookups, the callers handle it
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error("Query failed",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	case elapsed > slowQuery:
		l.log.Warn("Slow query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	default:
		l.log.Debug("Query",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	}
}
