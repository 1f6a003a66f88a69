package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer records through.
type Recorder interface {
	RecordSignup()
	RecordLogin(success bool)
	RecordDeviceBind(rebind bool)
	RecordMediaToken()
	RecordProviderFailure()
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	signups          prometheus.Counter
	logins           *prometheus.CounterVec
	deviceBinds      prometheus.Counter
	deviceRebinds    prometheus.Counter
	mediaTokens      prometheus.Counter
	providerFailures prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairing_signups_total",
			Help: "Total accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pairing_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		deviceBinds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairing_device_binds_total",
			Help: "Total device registrations.",
		}),
		deviceRebinds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairing_device_rebinds_total",
			Help: "Device registrations that overwrote an existing binding.",
		}),
		mediaTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairing_media_tokens_total",
			Help: "Media session tokens minted.",
		}),
		providerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairing_provider_failures_total",
			Help: "Media provider token-minting failures.",
		}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.deviceBinds,
		c.deviceRebinds,
		c.mediaTokens,
		c.providerFailures,
	)

	return c
}

func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordDeviceBind(rebind bool) {
	c.deviceBinds.Inc()
	if rebind {
		c.deviceRebinds.Inc()
	}
}

func (c *Collector) RecordMediaToken() {
	c.mediaTokens.Inc()
}

func (c *Collector) RecordProviderFailure() {
	c.providerFailures.Inc()
}

// Handler returns the exposition endpoint for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards all recordings; used in tests.
type Nop struct{}

func (Nop) RecordSignup()          {}
func (Nop) RecordLogin(bool)       {}
func (Nop) RecordDeviceBind(bool)  {}
func (Nop) RecordMediaToken()      {}
func (Nop) RecordProviderFailure() {}
