package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config implements the gorm logger adapter settings.
type Config struct {
	// SlowThreshold is the query duration from which on a query is logged as warning.
	//
	// Optional. Default: 200ms
	SlowThreshold time.Duration

	// SkipErrRecordNotFound drops gorm.ErrRecordNotFound from the query log.
	// The controllers treat a missing record as a regular outcome, not a fault.
	SkipErrRecordNotFound bool
}

// ConfigDefault is the default config for the adapter.
var ConfigDefault = Config{
	SlowThreshold:         200 * time.Millisecond,
	SkipErrRecordNotFound: true,
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.SlowThreshold == 0 {
		cfg.SlowThreshold = ConfigDefault.SlowThreshold
	}

	return cfg
}

// Logger routes gorm log output through zerolog.
type Logger struct {
	cfg Config
}

// New creates a new gorm logging adapter using zerolog.
func New(config ...Config) *Logger {
	return &Logger{cfg: configDefault(config...)}
}

// LogMode implements gorm logger.Interface. Level filtering is left to zerolog.
func (l *Logger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

// Info implements gorm logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	log.Info().Msgf(msg, args...)
}

// Warn implements gorm logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	log.Warn().Msgf(msg, args...)
}

// Error implements gorm logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	log.Error().Msgf(msg, args...)
}

// Trace implements gorm logger.Interface and logs a finished query with its
// duration and affected rows. Failed queries log as error, queries slower
// than the configured threshold as warning, everything else as trace.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	var (
		event *zerolog.Event
		msg   string
	)

	switch {
	case err != nil:
		if l.cfg.SkipErrRecordNotFound && errors.Is(err, gorm.ErrRecordNotFound) {
			return
		}

		event = log.Error().Err(err)
		msg = "query failed"
	case l.cfg.SlowThreshold > 0 && elapsed >= l.cfg.SlowThreshold:
		event = log.Warn()
		msg = "slow query"
	default:
		event = log.Trace()
		msg = "query"
	}

	// gorm hands over -1 if the affected rows are unknown
	if rows >= 0 {
		event = event.Int64("rows", rows)
	}

	event.Dur("elapsed", elapsed).Str("sql", sql).Msg(msg)
}
