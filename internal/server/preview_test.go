/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"promptarchitect/internal/document"
	"promptarchitect/internal/session"
)

func TestPreviewStreamsChanges(t *testing.T) {
	cfg := testConfig()
	srv := httptest.NewServer(NewRouter(cfg))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, first, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if _, err := document.Decode(first); err != nil {
		t.Fatalf("initial message is not a document: %v", err)
	}

	if _, err := cfg.Store.Dispatch(session.Edit{Slice: session.SliceProject, Path: "title", Value: "Live"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("no update received: %v", err)
		}
		p, err := document.Decode(msg)
		if err != nil {
			t.Fatalf("update is not a document: %v", err)
		}
		if p.Project.Title == "Live" {
			break
		}
	}
}

func TestPreviewRejectsPlainHTTP(t *testing.T) {
	rr := do(t, NewRouter(testConfig()), http.MethodGet, "/preview", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d", rr.Code)
	}
}

func TestServerServeAndShutdown(t *testing.T) {
	cfg := testConfig()
	s := New(cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("serve returned %v", err)
	}
	if s.Addr() != DefaultAddr {
		t.Fatalf("Addr = %q", s.Addr())
	}
}
