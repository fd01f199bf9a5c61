package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "test.span")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("ignored"))
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Contains(t, newSampler(0.25).Description(), "ParentBased")
}

func TestInitErrorReporting_NoDSNIsNoop(t *testing.T) {
	flush, err := InitErrorReporting("", "test", "dev")
	require.NoError(t, err)
	flush()

	before := testutil.ToFloat64(StoreFailures.WithLabelValues("unknown"))
	ReportStoreFailure(context.Background(), "unknown", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(StoreFailures.WithLabelValues("unknown")))
}

func TestRecordEngagement(t *testing.T) {
	before := testutil.ToFloat64(EngagementEvents.WithLabelValues("like", "created"))
	RecordEngagement("like", "created")
	assert.Equal(t, before+1, testutil.ToFloat64(EngagementEvents.WithLabelValues("like", "created")))
}

func TestRegisterGormMetrics(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterGormMetrics(db))

	type probe struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&probe{}))
	require.NoError(t, db.Create(&probe{Name: "a"}).Error)

	var out []probe
	require.NoError(t, db.Find(&out).Error)
	assert.Len(t, out, 1)

	assert.Positive(t, testutil.CollectAndCount(DatabaseQueryLatency))
}
