// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector aggregates the service's Prometheus metrics. It satisfies the
// service.Metrics interface.
type Collector struct {
	codesIssued   prometheus.Counter
	verifySuccess prometheus.Counter
	verifyFailure prometheus.Counter
	emailsSent    prometheus.Counter
	emailsFailed  prometheus.Counter
	httpResponses *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authapi_codes_issued_total",
			Help: "Total number of verification codes issued.",
		}),
		verifySuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authapi_verifications_success_total",
			Help: "Total number of successful code verifications.",
		}),
		verifyFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authapi_verifications_failure_total",
			Help: "Total number of rejected code verifications.",
		}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authapi_emails_sent_total",
			Help: "Total number of verification emails handed to the sender.",
		}),
		emailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authapi_emails_failed_total",
			Help: "Total number of verification emails that failed to send.",
		}),
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authapi_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.codesIssued, c.verifySuccess, c.verifyFailure,
		c.emailsSent, c.emailsFailed, c.httpResponses)
	return c
}

func (c *Collector) CodeIssued()            { c.codesIssued.Inc() }
func (c *Collector) VerificationSucceeded() { c.verifySuccess.Inc() }
func (c *Collector) VerificationFailed()    { c.verifyFailure.Inc() }
func (c *Collector) EmailSent()             { c.emailsSent.Inc() }
func (c *Collector) EmailFailed()           { c.emailsFailed.Inc() }

// RecordHTTPStatus counts one HTTP response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}
