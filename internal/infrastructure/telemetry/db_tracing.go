package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/celuvia/backend/internal/infrastructure/config"
)

// slowQueryThreshold flags queries slower than this on their span
const slowQueryThreshold = 200 * time.Millisecond

type dbContextKey string

const queryStartKey dbContextKey = "db_query_start"

// RegisterDBTracing attaches the otelgorm plugin plus callbacks that
// annotate spans with row counts and flag slow queries. Query variables
// are never recorded.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
		}
	}
	after := annotateSpan

	registrations := []struct {
		kind   string
		before func(*gorm.DB) error
		after  func(*gorm.DB) error
	}{
		{"create",
			func(d *gorm.DB) error {
				return d.Callback().Create().Before("gorm:create").Register("db_tracing:before_create", before)
			},
			func(d *gorm.DB) error {
				return d.Callback().Create().After("gorm:create").Register("db_tracing:after_create", after)
			}},
		{"query",
			func(d *gorm.DB) error {
				return d.Callback().Query().Before("gorm:query").Register("db_tracing:before_query", before)
			},
			func(d *gorm.DB) error {
				return d.Callback().Query().After("gorm:query").Register("db_tracing:after_query", after)
			}},
		{"update",
			func(d *gorm.DB) error {
				return d.Callback().Update().Before("gorm:update").Register("db_tracing:before_update", before)
			},
			func(d *gorm.DB) error {
				return d.Callback().Update().After("gorm:update").Register("db_tracing:after_update", after)
			}},
		{"delete",
			func(d *gorm.DB) error {
				return d.Callback().Delete().Before("gorm:delete").Register("db_tracing:before_delete", before)
			},
			func(d *gorm.DB) error {
				return d.Callback().Delete().After("gorm:delete").Register("db_tracing:after_delete", after)
			}},
	}
	for _, r := range registrations {
		if err := r.before(db); err != nil {
			return err
		}
		if err := r.after(db); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Duration("slow_query_threshold", slowQueryThreshold))
	return nil
}

// annotateSpan runs after each operation and enriches the active span
func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// ErrRecordNotFound is an expected outcome, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slowQueryThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
