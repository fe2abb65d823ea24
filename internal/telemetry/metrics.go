/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

// Metrics holds the process counters. Each instance owns its registry so
// tests and multiple stores do not collide on the global one. All methods are
// safe on a nil receiver.
type Metrics struct {
	reg *prometheus.Registry

	events      *prometheus.CounterVec
	extractions prometheus.Counter
	drafts      *prometheus.CounterVec
	copies      *prometheus.CounterVec
	subscribers prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "promptarchitect_session_events_total",
			Help: "Session events by name and outcome.",
		}, []string{"event", "outcome"}),
		extractions: f.NewCounter(prometheus.CounterOpts{
			Name: "promptarchitect_extractions_total",
			Help: "Extraction runs that changed the session.",
		}),
		drafts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "promptarchitect_drafts_total",
			Help: "Draft records produced by extraction, by kind.",
		}, []string{"kind"}),
		copies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "promptarchitect_clipboard_copies_total",
			Help: "Clipboard copy attempts by outcome.",
		}, []string{"outcome"}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "promptarchitect_preview_subscribers",
			Help: "Open live preview subscriptions.",
		}),
	}
}

func (m *Metrics) ObserveEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) ObserveExtraction(characters, beats int) {
	if m == nil {
		return
	}
	m.extractions.Inc()
	m.drafts.WithLabelValues("character").Add(float64(characters))
	m.drafts.WithLabelValues("beat").Add(float64(beats))
}

func (m *Metrics) ObserveCopy(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.copies.WithLabelValues(outcome).Inc()
}

// SubscriberDelta adjusts the open subscription gauge.
func (m *Metrics) SubscriberDelta(d int) {
	if m == nil {
		return
	}
	m.subscribers.Add(float64(d))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
