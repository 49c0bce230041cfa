package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors of the bot.
type Metrics struct {
	Updates     *prometheus.CounterVec // Updates received, by kind
	Denied      *prometheus.CounterVec // Updates dropped by the access guard, by reason
	Transitions *prometheus.CounterVec // Handled selections, by resulting stage
	Commands    *prometheus.CounterVec // Commands published, by kind
	Failures    prometheus.Counter     // Updates that failed with an internal error
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Updates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsbot_updates_total",
			Help: "Total number of Telegram updates received",
		}, []string{"kind"}),
		Denied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsbot_updates_denied_total",
			Help: "Total number of updates dropped by the access guard",
		}, []string{"reason"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsbot_transitions_total",
			Help: "Total number of menu selections, by resulting stage",
		}, []string{"stage"}),
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightsbot_commands_published_total",
			Help: "Total number of commands published to the lights controller",
		}, []string{"kind"}),
		Failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lightsbot_update_failures_total",
			Help: "Total number of updates that failed with an internal error",
		}),
	}
}
