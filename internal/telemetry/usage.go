/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry exposes process metrics and an opt-in sender for
// anonymous usage reports and crash uploads. Usage reports carry counts only;
// note text and document content never leave the machine.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	applog "promptarchitect/internal/log"
	"promptarchitect/internal/version"
)

// Config holds runtime configuration for usage reports and crash uploads.
// Everything is disabled by default.
//
// Environment variables (read by FromEnv):
//   - VPA_TELEMETRY_OPT_IN: "1", "true", "yes" or "on" to enable
//   - VPA_TELEMETRY_URL: endpoint receiving JSON usage reports
//   - VPA_CRASH_UPLOAD_URL: endpoint receiving crash reports
//   - VPA_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
//   - VPA_TELEMETRY_DEBUG: if set, logs send attempts
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("VPA_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("VPA_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("VPA_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("VPA_TELEMETRY_DEBUG") != "",
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv("VPA_TELEMETRY_TIMEOUT_MS"))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Usage is one anonymous report. Only counts are carried.
type Usage struct {
	Event      string `json:"event"`
	Characters int    `json:"characters,omitempty"`
	Beats      int    `json:"beats,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
}

type envelope struct {
	Usage
	TS      string `json:"ts"`
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// Sender posts usage reports from a bounded queue on a background goroutine.
// Reports are dropped when the queue is full or a request fails.
type Sender struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan envelope
	once   sync.Once
	closed chan struct{}
	// pending counts queued and in-flight reports.
	pending atomic.Int64
}

var (
	defaultMu     sync.Mutex
	defaultSender *Sender
)

// InitDefault installs a sender configured from the environment unless one
// is already set.
func InitDefault() { current() }

func current() *Sender {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSender == nil {
		defaultSender = NewSender(FromEnv())
	}
	return defaultSender
}

// SetDefault replaces the package-level sender.
func SetDefault(s *Sender) {
	defaultMu.Lock()
	defaultSender = s
	defaultMu.Unlock()
}

func NewSender(cfg Config) *Sender {
	s := &Sender{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan envelope, 64),
		closed: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Enabled reports whether reports are opted in and have somewhere to go.
func (s *Sender) Enabled() bool { return s != nil && s.cfg.OptIn && s.cfg.EventsURL != "" }

// Enabled reports on the default sender.
func Enabled() bool { return current().Enabled() }

// Report queues u. It never blocks.
func (s *Sender) Report(u Usage) {
	if !s.Enabled() || u.Event == "" {
		return
	}
	e := envelope{
		Usage:   u,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	s.pending.Add(1)
	select {
	case s.q <- e:
	default:
		s.pending.Add(-1)
	}
}

// Report queues u on the default sender.
func Report(u Usage) { current().Report(u) }

// Flush waits until queued and in-flight reports are sent, at most until ctx
// is done or half a second has passed.
func (s *Sender) Flush(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.NewTimer(500 * time.Millisecond)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for s.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-tick.C:
		}
	}
}

// Flush drains the default sender, if one was installed.
func Flush(ctx context.Context) {
	defaultMu.Lock()
	s := defaultSender
	defaultMu.Unlock()
	s.Flush(ctx)
}

// Close stops the background goroutine.
func (s *Sender) Close() { s.once.Do(func() { close(s.closed) }) }

func (s *Sender) loop() {
	for {
		select {
		case <-s.closed:
			return
		case e := <-s.q:
			if buf, err := json.Marshal(e); err == nil {
				s.post(s.cfg.EventsURL, "application/json", buf, "usage report")
			}
			s.pending.Add(-1)
		}
	}
}

func (s *Sender) post(url, contentType string, body []byte, what string) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := s.cli.Do(req)
	if err != nil {
		if s.cfg.DebugLogging {
			s.log.Debug(what+" failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if s.cfg.DebugLogging {
		s.log.Debug(what+" sent", slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a serialized crash report if opted in and a crash URL is
// set. It blocks for at most the sender's timeout so the report leaves before
// the process exits.
func (s *Sender) UploadCrash(report []byte) {
	if s == nil || !s.cfg.OptIn || s.cfg.CrashURL == "" {
		return
	}
	s.post(s.cfg.CrashURL, "text/plain; charset=utf-8", report, "crash upload")
}

// UploadCrash posts report with the default sender.
func UploadCrash(report []byte) { current().UploadCrash(report) }
