package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is served on /api/metrics. A dedicated registry keeps
	// test binaries free of duplicate-registration panics.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets tuned for an API whose slowest path is the simulated submit delay
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 8}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Booking wizard metrics
	WizardTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_wizard_transitions_total",
			Help: "Wizard step transitions by action and outcome",
		},
		[]string{"action", "result"},
	)

	BookingsConfirmed = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicconnect_bookings_confirmed_total",
			Help: "Total number of simulated bookings that reached confirmation",
		},
	)

	BookingSubmitDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clinicconnect_booking_submit_duration_seconds",
			Help:    "Time between submit and confirmation",
			Buckets: CustomAPIBuckets,
		},
	)

	SlotGenerations = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicconnect_slot_generations_total",
			Help: "Total number of generated time-slot sets",
		},
	)

	ActiveVisits = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinicconnect_active_visits",
			Help: "Number of live visit sessions",
		},
	)

	PanelSwitches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_panel_switches_total",
			Help: "Total number of page-shell panel switches",
		},
		[]string{"panel"},
	)

	// Form metrics
	ContactMessages = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_contact_messages_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"status"},
	)

	NewsletterSubscriptions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_newsletter_subscriptions_total",
			Help: "Total number of newsletter subscription attempts",
		},
		[]string{"status"},
	)

	NewsletterSubscribers = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinicconnect_newsletter_subscribers",
			Help: "Number of distinct newsletter subscribers",
		},
	)

	ThemeToggles = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_theme_toggles_total",
			Help: "Total number of theme preference toggles",
		},
		[]string{"theme"},
	)

	TriggerCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicconnect_trigger_calls_total",
			Help: "Outbound webhook trigger calls",
		},
		[]string{"trigger", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

func init() {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RecordInfrastructureMetrics collects infrastructure metrics until ctx is done
func RecordInfrastructureMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
