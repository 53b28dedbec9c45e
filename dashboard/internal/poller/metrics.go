package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldwatch_polls_total",
		Help: "Alert endpoint polls by outcome.",
	}, []string{"outcome"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldwatch_alert_transitions_total",
		Help: "Alert state transitions by severity.",
	}, []string{"severity"})
)
