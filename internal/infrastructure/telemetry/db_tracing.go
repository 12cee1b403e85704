package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBInstrumentationConfig controls the gorm tracing and query metrics
type DBInstrumentationConfig struct {
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
	// Meter records query durations; nil disables the histogram
	Meter metric.Meter
}

type queryStartKey struct{}

// hookPair registers the timer before a gorm operation and the observer
// between the operation and the otelgorm hook that ends its span
type hookPair struct {
	name   string
	before func(name string, fn func(*gorm.DB)) error
	after  func(name string, fn func(*gorm.DB)) error
}

func hookPairs(db *gorm.DB) []hookPair {
	cb := db.Callback()
	return []hookPair{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Create().After("gorm:create").Before("otel:after:create").Register(n, fn)
			}},
		{"select",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Query().After("gorm:query").Before("otel:after:select").Register(n, fn)
			}},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Update().After("gorm:update").Before("otel:after:update").Register(n, fn)
			}},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register(n, fn)
			}},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Row().After("gorm:row").Before("otel:after:row").Register(n, fn)
			}},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error {
				return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register(n, fn)
			}},
	}
}

// InstrumentDB registers otelgorm and, around every gorm operation, a timer
// that flags slow queries on the span and feeds the duration histogram
func InstrumentDB(db *gorm.DB, cfg DBInstrumentationConfig, logger *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("shop")}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	var duration metric.Float64Histogram
	if cfg.Meter != nil {
		var err error
		duration, err = cfg.Meter.Float64Histogram("db.query.duration",
			metric.WithDescription("Duration of database operations"),
			metric.WithUnit("ms"),
			metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
		)
		if err != nil {
			return err
		}
	}

	for _, hp := range hookPairs(db) {
		op := hp.name
		if err := hp.before("shop:timer:"+op, startTimer); err != nil {
			return err
		}
		observe := func(tx *gorm.DB) { observeQuery(tx, op, cfg.SlowQueryThresh, duration) }
		if err := hp.after("shop:observe:"+op, observe); err != nil {
			return err
		}
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
		zap.Bool("query_metrics", duration != nil),
	)
	return nil
}

func startTimer(tx *gorm.DB) {
	if tx.Statement.Context != nil {
		tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
	}
}

func observeQuery(tx *gorm.DB, op string, slowThresh time.Duration, duration metric.Float64Histogram) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	if duration != nil {
		duration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(
			attribute.String("db.operation", op),
			attribute.String("db.sql.table", tx.Statement.Table),
			attribute.Bool("error", tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound)),
		))
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
	}
	if slowThresh > 0 && elapsed > slowThresh {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", slowThresh.Milliseconds()),
		))
	}
}
