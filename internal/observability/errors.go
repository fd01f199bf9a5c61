package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/trace"
)

var errorReporting atomic.Bool

// InitErrorReporting enables Sentry when dsn is non-empty. The returned func flushes
// buffered events and should run on shutdown.
func InitErrorReporting(dsn, environment, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	}); err != nil {
		return nil, err
	}
	errorReporting.Store(true)
	return func() {
		sentry.Flush(2 * time.Second)
		errorReporting.Store(false)
	}, nil
}

// ReportStoreFailure sends an unexpected store error to Sentry, tagged with the
// failure category and the active trace id.
func ReportStoreFailure(ctx context.Context, category string, err error) {
	StoreFailures.WithLabelValues(category).Inc()
	if !errorReporting.Load() || err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("store.category", category)
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			scope.SetTag("trace_id", sc.TraceID().String())
		}
	})
	hub.CaptureException(err)
}
