package database

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// QueryLog is one recorded statement.
type QueryLog struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryLogger is a fixed-size ring of the latest statements.
type QueryLogger struct {
	mu    sync.RWMutex
	ring  []QueryLog
	next  int // slot the next statement is written to
	count int // filled slots, at most len(ring)
	seq   int
}

func NewQueryLogger(size int) *QueryLogger {
	if size < 1 {
		size = 1
	}
	return &QueryLogger{ring: make([]QueryLog, size)}
}

// Record stores a finished statement, overwriting the oldest one when full.
func (ql *QueryLogger) Record(sql string, duration time.Duration, rows int64, err error) {
	ql.mu.Lock()
	defer ql.mu.Unlock()

	ql.seq++
	q := QueryLog{ID: ql.seq, SQL: sql, Duration: duration, Rows: rows, Timestamp: time.Now()}
	if err != nil {
		q.Error = err.Error()
	}
	ql.ring[ql.next] = q
	ql.next = (ql.next + 1) % len(ql.ring)
	if ql.count < len(ql.ring) {
		ql.count++
	}
}

// Recent returns up to n statements, newest first. n <= 0 returns all.
func (ql *QueryLogger) Recent(n int) []QueryLog {
	ql.mu.RLock()
	defer ql.mu.RUnlock()

	if n <= 0 || n > ql.count {
		n = ql.count
	}
	out := make([]QueryLog, n)
	for i := range out {
		out[i] = ql.ring[(ql.next-1-i+len(ql.ring))%len(ql.ring)]
	}
	return out
}

// Reset drops every recorded statement. Ids keep increasing.
func (ql *QueryLogger) Reset() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.next, ql.count = 0, 0
}

// GormLogger sends gorm's output to logrus and, when set, records every
// statement in a QueryLogger.
type GormLogger struct {
	Level         logger.LogLevel
	SlowThreshold time.Duration
	Queries       *QueryLogger
}

func NewGormLogger(level logger.LogLevel, queries *QueryLogger) *GormLogger {
	return &GormLogger{
		Level:         level,
		SlowThreshold: 200 * time.Millisecond,
		Queries:       queries,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.Level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Info {
		log.WithContext(ctx).Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Warn {
		log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Error {
		log.WithContext(ctx).Errorf(msg, args...)
	}
}

// expectedError reports outcomes the repositories turn into domain errors
// and log themselves.
func expectedError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// Trace logs a finished statement. Missing rows and unique violations are
// not reported as errors here.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	if l.Queries != nil {
		l.Queries.Record(sql, elapsed, rows, err)
	}
	if l.Level <= logger.Silent {
		return
	}

	entry := log.WithContext(ctx).WithFields(log.Fields{
		"elapsed": elapsed,
		"rows":    rows,
		"sql":     sql,
	})
	switch {
	case err != nil && l.Level >= logger.Error && !expectedError(err):
		entry.WithError(err).Error("query failed")
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.Level >= logger.Warn:
		entry.Warn("slow query")
	case l.Level >= logger.Info:
		entry.Debug("query")
	}
}
