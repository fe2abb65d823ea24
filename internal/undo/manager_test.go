/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func snap(label, blob string, ts time.Time) Snapshot {
	return Snapshot{Scope: "s", Label: label, Blob: []byte(blob), TS: ts}
}

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10, MinInterval: 10 * time.Millisecond})
	t0 := time.Now()
	m.Record(snap("a", "v0", t0))
	m.Record(snap("b", "v1", t0.Add(20*time.Millisecond)))
	if _, scopes, total := m.Stats(); scopes != 1 || total != 2 {
		t.Fatalf("expected 1 scope and 2 snapshots, got scopes=%d total=%d", scopes, total)
	}
	s, ok := m.Undo("s", snap("", "v2", t0))
	if !ok || string(s.Blob) != "v1" {
		t.Fatalf("undo expected 'v1', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if !m.CanRedo("s") {
		t.Fatalf("expected redo to be available")
	}
	s, ok = m.Redo("s", snap("", "v1", t0))
	if !ok || string(s.Blob) != "v2" {
		t.Fatalf("redo expected 'v2', got ok=%v blob=%q", ok, string(s.Blob))
	}
	if m.CanRedo("s") {
		t.Fatalf("redo stack should be empty")
	}
	if _, ok := m.Undo("other", Snapshot{}); ok {
		t.Fatalf("unknown scope should have nothing to undo")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Record(snap("a", "v0", t0))
	m.Undo("s", snap("", "v1", t0))
	m.Record(snap("b", "v0", t0.Add(time.Second)))
	if m.CanRedo("s") {
		t.Fatalf("new change should drop redo history")
	}
}

func TestCoalesceKeepsOldestOfBurst(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10, MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.Record(snap("project.title", "1", t0))
	m.Record(snap("project.title", "2", t0.Add(10*time.Millisecond)))
	m.Record(snap("project.title", "3", t0.Add(40*time.Millisecond)))
	if _, _, total := m.Stats(); total != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", total)
	}
	s, ok := m.Undo("s", snap("", "4", t0))
	if !ok || string(s.Blob) != "1" {
		t.Fatalf("expected first snapshot of burst, got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestDifferentLabelsDoNotCoalesce(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	t0 := time.Now()
	m.Record(snap("project.title", "1", t0))
	m.Record(snap("project.logline", "2", t0))
	m.Record(snap("", "3", t0))
	m.Record(snap("", "4", t0))
	if _, _, total := m.Stats(); total != 4 {
		t.Fatalf("expected 4 snapshots, got %d", total)
	}
}

func TestDepthCap(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxDepth: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		m.Record(Snapshot{Scope: "s", Blob: []byte("xxxxx"), TS: t0.Add(time.Duration(i) * time.Second)})
	}
	if _, _, total := m.Stats(); total != 2 {
		t.Fatalf("expected MaxDepth cap to limit to 2, got %d", total)
	}
}

func TestGlobalPruneAcrossScopes(t *testing.T) {
	m := NewManager(Config{MaxBytes: 8, MinInterval: time.Millisecond})
	t0 := time.Now()
	m.Record(Snapshot{Scope: "a", Blob: []byte("xxxx"), TS: t0})
	m.Record(Snapshot{Scope: "b", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})
	m.Record(Snapshot{Scope: "b", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})

	if m.CanUndo("a") {
		t.Fatalf("expected oldest scope to have been pruned")
	}
	if !m.CanUndo("b") {
		t.Fatalf("expected scope b to keep snapshots")
	}
}

func TestClearAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MinInterval: time.Millisecond})
	m.Record(Snapshot{Scope: "s", Blob: []byte("abcdef"), TS: time.Now()})
	m.Undo("s", Snapshot{Blob: []byte("gh")})
	m.Record(Snapshot{Scope: "s", Blob: []byte("abcdef"), TS: time.Now()})
	tb, scopes, total := m.Stats()
	if tb == 0 || scopes != 1 || total != 1 {
		t.Fatalf("unexpected stats before clear: tb=%d scopes=%d total=%d", tb, scopes, total)
	}
	m.Clear("s")
	tb, scopes, total = m.Stats()
	if tb != 0 || scopes != 0 || total != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d scopes=%d total=%d", tb, scopes, total)
	}
}
