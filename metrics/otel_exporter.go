package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	collector     Collector
	instance      attribute.KeyValue

	meter         metric.Meter
	booksGauge    metric.Int64ObservableGauge
	categoryGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates an exporter with its own Prometheus registry, so
// several exporters can live in one process.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"book-catalog",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		instance:      attribute.String("service.instance.id", uuid.NewString()),
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.booksGauge, err = oe.meter.Int64ObservableGauge(
		"catalog.books",
		metric.WithDescription("Number of books in the catalog"),
		metric.WithUnit("{books}"),
		metric.WithInt64Callback(oe.observeBooks),
	)
	if err != nil {
		return fmt.Errorf("creating books gauge: %w", err)
	}

	oe.categoryGauge, err = oe.meter.Int64ObservableGauge(
		"catalog.books.by_category",
		metric.WithDescription("Number of books per category"),
		metric.WithUnit("{books}"),
		metric.WithInt64Callback(oe.observeCategories),
	)
	if err != nil {
		return fmt.Errorf("creating category gauge: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeBooks(ctx context.Context, observer metric.Int64Observer) error {
	count, err := oe.collector.GetBookCount(ctx)
	if err != nil {
		return err
	}
	observer.Observe(count, metric.WithAttributes(oe.instance))
	return nil
}

func (oe *OTelExporter) observeCategories(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetCategoryCounts(ctx)
	if err != nil {
		return err
	}
	for category, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			oe.instance,
			attribute.String("category", category),
		))
	}
	return nil
}

// ServeHTTP returns the scrape handler for this exporter's registry
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
