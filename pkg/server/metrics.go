// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal prometheus.Counter
	FailuresTotal prometheus.Counter
	Duration      prometheus.Histogram
	Inflight      prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "esmcheck_validate_requests_total",
			Help: "Number of validation requests served.",
		}),
		FailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "esmcheck_validate_failures_total",
			Help: "Number of validation requests that found violations.",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "esmcheck_validate_duration_seconds",
			Help:    "Validation request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		Inflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "esmcheck_validate_inflight",
			Help: "Validation requests currently being served.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
