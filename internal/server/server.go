/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package server exposes a session over HTTP: JSON edit events in, the
// encoded prompt document out, and a websocket that pushes every change.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"promptarchitect/internal/export"
	applog "promptarchitect/internal/log"
	"promptarchitect/internal/session"
	"promptarchitect/internal/telemetry"
)

const (
	DefaultAddr        = "127.0.0.1:8787"
	DefaultReadTimeout = 15 * time.Second
)

type Config struct {
	Addr        string
	ReadTimeout time.Duration
	Store       *session.Store
	// Copier is optional; without it the copy endpoints answer 501.
	Copier  *export.Copier
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
	// Token guards mutating routes with a bearer check when non-empty.
	Token     string
	StartTime time.Time
}

func (cfg Config) withDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = applog.WithComponent("server")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	return cfg
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr,
			Handler:     NewRouter(cfg),
			ReadTimeout: cfg.ReadTimeout,
			// Preview sockets are long lived; writes carry their own deadlines.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting HTTP server", slog.String("addr", ln.Addr().String()))
	err := s.httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
