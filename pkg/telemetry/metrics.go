package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/ghuser/apidocs/pkg/app"

// Instrument names of SchemaMetrics.
const (
	SchemaBuildsMetric        = "apidocs.schema.builds"
	SchemaBuildDurationMetric = "apidocs.schema.build.duration"
)

// schemaBuildBuckets start well below the SDK default of 5 ms; a build
// usually finishes in under a millisecond.
var schemaBuildBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// SchemaMetrics records schema document generation.
type SchemaMetrics struct {
	builds   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewSchemaMetrics creates the schema instruments on mp.
func NewSchemaMetrics(mp metric.MeterProvider) (*SchemaMetrics, error) {
	meter := mp.Meter(meterName)

	builds, err := meter.Int64Counter(SchemaBuildsMetric,
		metric.WithDescription("Schema document generation attempts."),
	)
	if err != nil {
		return nil, fmt.Errorf("schema builds counter: %w", err)
	}
	duration, err := meter.Float64Histogram(SchemaBuildDurationMetric,
		metric.WithDescription("Time spent generating the schema document."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("schema duration histogram: %w", err)
	}
	return &SchemaMetrics{builds: builds, duration: duration}, nil
}

// Record matches the signature of app.WithSchemaObserver.
func (m *SchemaMetrics) Record(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	attrs := metric.WithAttributes(attribute.String("result", result))
	ctx := context.Background()
	m.builds.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func schemaBuildView() sdkmetric.View {
	return sdkmetric.NewView(
		sdkmetric.Instrument{Name: SchemaBuildDurationMetric},
		sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: schemaBuildBuckets}},
	)
}
