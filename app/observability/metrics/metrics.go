package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ItineraryRequestsTotal      metric.Int64Counter
	PipelineFallbacksTotal      metric.Int64Counter
	ProviderCallRetriesTotal    metric.Int64Counter
	ProviderCallDurationSeconds metric.Float64Histogram
	ChatMessagesTotal           metric.Int64Counter
	StaleCommitsTotal           metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider; without an SDK
// configured the instruments are no-ops, which keeps tests quiet.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripWeaverAPI")
		var err error
		m := &AppMetrics{}

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Total number of itinerary generation submissions"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_requests_total: %v", err)
		}

		m.PipelineFallbacksTotal, err = meter.Int64Counter(
			"pipeline_fallbacks_total",
			metric.WithDescription("Total number of pipeline settles that committed a fallback value"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_fallbacks_total: %v", err)
		}

		m.ProviderCallRetriesTotal, err = meter.Int64Counter(
			"provider_call_retries_total",
			metric.WithDescription("Total number of retried provider calls"),
			metric.WithUnit("{retry}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_call_retries_total: %v", err)
		}

		m.ProviderCallDurationSeconds, err = meter.Float64Histogram(
			"provider_call_duration_seconds",
			metric.WithDescription("Duration of outbound provider calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_call_duration_seconds: %v", err)
		}

		m.ChatMessagesTotal, err = meter.Int64Counter(
			"chat_messages_total",
			metric.WithDescription("Total number of chat messages appended to transcripts"),
			metric.WithUnit("{message}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_messages_total: %v", err)
		}

		m.StaleCommitsTotal, err = meter.Int64Counter(
			"stale_commits_total",
			metric.WithDescription("Total number of completions discarded because a newer submission superseded them"),
			metric.WithUnit("{completion}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stale_commits_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing the
// instruments on first use.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
