package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementEvents counts social mutations by action and outcome.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_engagement_events_total",
		Help: "Total follow, like and comment mutations by action and outcome",
	}, []string{"action", "outcome"})

	// StoreFailures counts unexpected store errors by category.
	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_store_failures_total",
		Help: "Total store failures by category",
	}, []string{"category"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// EventPublishFailures counts events that could not be published, by backend.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_event_publish_failures_total",
		Help: "Total events that failed to publish",
	}, []string{"backend", "event"})
)

// RecordEngagement increments the engagement counter for action with the given outcome.
func RecordEngagement(action, outcome string) {
	EngagementEvents.WithLabelValues(action, outcome).Inc()
}

const queryStartKey = "observability:query_start"

// RegisterGormMetrics installs callbacks that observe every query's latency.
func RegisterGormMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "raw"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	registrations := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
		when     string
	}{
		{"before_create", cb.Create().Before("gorm:create").Register, "create"},
		{"after_create", cb.Create().After("gorm:create").Register, "create"},
		{"before_query", cb.Query().Before("gorm:query").Register, "query"},
		{"after_query", cb.Query().After("gorm:query").Register, "query"},
		{"before_update", cb.Update().Before("gorm:update").Register, "update"},
		{"after_update", cb.Update().After("gorm:update").Register, "update"},
		{"before_delete", cb.Delete().Before("gorm:delete").Register, "delete"},
		{"after_delete", cb.Delete().After("gorm:delete").Register, "delete"},
		{"before_row", cb.Row().Before("gorm:row").Register, "row"},
		{"after_row", cb.Row().After("gorm:row").Register, "row"},
		{"before_raw", cb.Raw().Before("gorm:raw").Register, "raw"},
		{"after_raw", cb.Raw().After("gorm:raw").Register, "raw"},
	}

	for _, r := range registrations {
		fn := before
		if strings.HasPrefix(r.name, "after_") {
			fn = after(r.when)
		}
		if err := r.register("metrics:"+r.name, fn); err != nil {
			return err
		}
	}
	return nil
}
