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
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveEvent("edit", OutcomeApplied)
	m.ObserveEvent("edit", OutcomeApplied)
	m.ObserveEvent("edit", OutcomeRejected)
	m.ObserveExtraction(2, 3)
	m.ObserveCopy(nil)
	m.ObserveCopy(errors.New("no clipboard"))
	m.SubscriberDelta(1)

	if got := testutil.ToFloat64(m.events.WithLabelValues("edit", OutcomeApplied)); got != 2 {
		t.Fatalf("applied edits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.extractions); got != 1 {
		t.Fatalf("extractions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.drafts.WithLabelValues("beat")); got != 3 {
		t.Fatalf("beat drafts = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.copies.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed copies = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.subscribers); got != 1 {
		t.Fatalf("subscribers = %v, want 1", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.ObserveEvent("edit", OutcomeApplied)
	m.ObserveExtraction(1, 1)
	m.ObserveCopy(nil)
	m.SubscriberDelta(1)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("nil metrics handler status = %d", rec.Code)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveExtraction(1, 0)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "promptarchitect_extractions_total 1") {
		t.Fatalf("metrics output missing extraction counter:\n%s", body)
	}
}
