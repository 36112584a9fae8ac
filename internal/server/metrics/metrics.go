// Package metrics exposes Prometheus instrumentation for the auth server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login attempt results recorded on the loginAttempts counter.
const (
	ResultSuccess     = "success"
	ResultFailure     = "failure"
	ResultUnavailable = "unavailable"
)

// Metrics holds the server's counters. All fields are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	loginAttempts     *prometheus.CounterVec
	challengesIssued  prometheus.Counter
	sessionsDestroyed prometheus.Counter
	chatTokensIssued  prometheus.Counter
}

// New builds a Metrics with its own registry so tests never collide on the
// default global registerer.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,

		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hivegate",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),

		challengesIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hivegate",
			Name:      "challenges_issued_total",
			Help:      "Login challenges issued to clients",
		}),

		sessionsDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hivegate",
			Name:      "sessions_destroyed_total",
			Help:      "Sessions removed by logout",
		}),

		chatTokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hivegate",
			Name:      "chat_tokens_issued_total",
			Help:      "Chat tokens minted for logged-in users",
		}),
	}
}

func (m *Metrics) LoginAttempt(result string) { m.loginAttempts.WithLabelValues(result).Inc() }
func (m *Metrics) ChallengeIssued()           { m.challengesIssued.Inc() }
func (m *Metrics) SessionDestroyed()          { m.sessionsDestroyed.Inc() }
func (m *Metrics) ChatTokenIssued()           { m.chatTokensIssued.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
