package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the intake and appointment
// flows.
type BookingMetrics struct {
	intakesTotal      *prometheus.CounterVec
	appointmentsTotal *prometheus.CounterVec
	conflictsTotal    *prometheus.CounterVec
	emailsTotal       *prometheus.CounterVec
	webhookLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		intakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "intakes_total",
			Help:      "Total intakes by source and outcome",
		}, []string{"source", "outcome"}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Total appointment lifecycle events by status",
		}, []string{"status"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "scheduling_conflicts_total",
			Help:      "Appointment creations rejected, by failed rule",
		}, []string{"rule"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Outbound emails by kind and outcome",
		}, []string{"kind", "outcome"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of external booking webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakesTotal, m.appointmentsTotal, m.conflictsTotal, m.emailsTotal, m.webhookLatency)
	return m
}

func (m *BookingMetrics) ObserveIntake(source, outcome string) {
	if m == nil {
		return
	}
	m.intakesTotal.WithLabelValues(source, outcome).Inc()
}

func (m *BookingMetrics) ObserveAppointment(status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveConflict(rule string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(rule).Inc()
}

func (m *BookingMetrics) ObserveEmail(kind, outcome string) {
	if m == nil {
		return
	}
	m.emailsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *BookingMetrics) ObserveWebhookLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(outcome).Observe(seconds)
}
