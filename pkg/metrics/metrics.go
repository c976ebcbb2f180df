package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder exposes the application counters. A nil *Recorder is valid and
// records nothing, so services can run without a registry.
type Recorder struct {
	mutations   *prometheus.CounterVec
	logins      *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// New registers the metrics on the provided registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return nil
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pollos_catalog_mutations_total",
		Help: "Catalog writes grouped by entity, operation and outcome.",
	}, []string{"entity", "op", "result"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pollos_logins_total",
		Help: "Login attempts grouped by outcome code.",
	}, []string{"result"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pollos_price_resolutions_total",
		Help: "Price lookups grouped by outcome.",
	}, []string{"result"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pollos_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(mutations, logins, resolutions, requests)
	return &Recorder{
		mutations:   mutations,
		logins:      logins,
		resolutions: resolutions,
		requests:    requests,
	}
}

func (r *Recorder) Mutation(entity, op string, err error) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(normalizeLabel(entity), normalizeLabel(op), outcome(err)).Inc()
}

// Login records a login attempt. result is ok or the error code.
func (r *Recorder) Login(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func (r *Recorder) PriceResolution(result string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(normalizeLabel(result)).Inc()
}

func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
