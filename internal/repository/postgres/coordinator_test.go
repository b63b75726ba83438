package postgres

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/healthdesk/clinic-api/pkg/metrics"
)

func TestObserveBookingCountsOutcomes(t *testing.T) {
	m := metrics.NewMetrics("coordinator_test")
	c := &coordinator{metrics: m}

	c.observeBooking("booked")
	c.observeBooking("booked")
	c.observeBooking("conflict")
	c.observeBooking("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAttempts.WithLabelValues("failed")))
}

func TestObserveBookingWithoutMetrics(t *testing.T) {
	c := &coordinator{}

	assert.NotPanics(t, func() { c.observeBooking("booked") })
}
