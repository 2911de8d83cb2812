// Package metrics records request, error and duration (RED) metrics for
// backend calls.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "crm"

// REDClient records requests, errors and duration labelled by operation.
type REDClient struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	now      func() time.Time
}

// New creates a REDClient for subsystem and registers it with reg.
func New(reg prometheus.Registerer, subsystem string) *REDClient {
	c := &REDClient{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of calls by operation.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Number of failed calls by operation.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Call duration by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		now: time.Now,
	}
	reg.MustRegister(c.requests, c.errors, c.duration)
	return c
}

// Record starts timing op. The returned function stops the timer, counts
// err if non-nil, and returns err unchanged.
func (c *REDClient) Record(op string) func(error) error {
	start := c.now()
	return func(err error) error {
		c.requests.WithLabelValues(op).Inc()
		if err != nil {
			c.errors.WithLabelValues(op).Inc()
		}
		c.duration.WithLabelValues(op).Observe(c.now().Sub(start).Seconds())
		return err
	}
}

// WriteText writes every family gathered from g in the text exposition
// format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
