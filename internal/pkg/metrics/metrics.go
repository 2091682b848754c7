package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for availability and hold flows.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	slotComputations *prometheus.HistogramVec
	slotsReturned    prometheus.Histogram
	holdsTotal       *prometheus.CounterVec
	confirmsTotal    *prometheus.CounterVec
	holdsSwept       prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotComputations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "computation_seconds",
			Help:      "Latency of slot computations including snapshot loading",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Number of slots returned per availability request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		holdsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "holds",
			Name:      "requests_total",
			Help:      "Hold requests by result",
		}, []string{"result"}),
		confirmsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "holds",
			Name:      "confirmations_total",
			Help:      "Hold confirmations by result",
		}, []string{"result"}),
		holdsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "holds",
			Name:      "swept_total",
			Help:      "Expired holds removed from the hold index",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.slotComputations,
		m.slotsReturned,
		m.holdsTotal,
		m.confirmsTotal,
		m.holdsSwept,
		m.httpRequests,
		m.httpLatency,
	)
	return m
}

func (m *BookingMetrics) ObserveSlotComputation(outcome string, seconds float64, slots int) {
	if m == nil {
		return
	}
	m.slotComputations.WithLabelValues(outcome).Observe(seconds)
	m.slotsReturned.Observe(float64(slots))
}

func (m *BookingMetrics) IncHold(result string) {
	if m == nil {
		return
	}
	m.holdsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) IncConfirm(result string) {
	if m == nil {
		return
	}
	m.confirmsTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) AddSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.holdsSwept.Add(float64(n))
}

func (m *BookingMetrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(seconds)
}
