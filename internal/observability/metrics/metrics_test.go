package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveIntake("webhook", "created")
	m.ObserveIntake("webhook", "created")
	m.ObserveAppointment("scheduled")
	m.ObserveConflict("daily_limit")
	m.ObserveEmail("confirmation", "sent")
	m.ObserveWebhookLatency("created", 0.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var intakes *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "portal_booking_intakes_total" {
			intakes = mf
		}
	}
	if intakes == nil {
		t.Fatalf("expected intakes counter to be registered")
	}
	if got := intakes.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 intakes observed, got %v", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveIntake("form", "created")
	m.ObserveAppointment("confirmed")
	m.ObserveConflict("availability")
	m.ObserveEmail("gift_card", "failed")
	m.ObserveWebhookLatency("error", 0.1)
}
