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
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one session scope.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// Label names the change that followed the snapshot; TS is when it was captured.
type Snapshot struct {
	Scope string
	Label string
	Blob  []byte
	TS    time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxDepth limits the number of undo entries per scope (0 means unlimited).
	MaxDepth int
	// MinInterval coalesces snapshots with the same label captured within the
	// interval for the same scope. The earlier snapshot is kept, so a burst of
	// keystrokes in one field undoes as a single step.
	MinInterval time.Duration
}

// Manager keeps in-memory undo and redo stacks per scope.
// It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting covers both stacks
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Record stores the state captured before a change. Any new change
// invalidates the redo stack for the scope.
func (m *Manager) Record(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropRedoLocked(s.Scope)
	stack := m.undo[s.Scope]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.Label != "" && s.Label == last.Label && s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: keep the older blob, extend the window.
			stack[n-1].TS = s.TS
			return
		}
	}
	m.undo[s.Scope] = append(stack, s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(s.Scope)
}

// Undo pops the most recent snapshot for scope and parks current on the redo
// stack. The caller restores the returned snapshot.
func (m *Manager) Undo(scope string, current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[scope]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[scope] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	current.Scope = scope
	m.redo[scope] = append(m.redo[scope], current)
	m.totalBytes += len(current.Blob)
	return s, true
}

// Redo is the inverse of Undo.
func (m *Manager) Redo(scope string, current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[scope]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[scope] = r[:len(r)-1]
	m.totalBytes -= len(s.Blob)
	current.Scope = scope
	// a redone step must not coalesce with the one before it
	current.Label = ""
	m.undo[scope] = append(m.undo[scope], current)
	m.totalBytes += len(current.Blob)
	m.enforceCapsLocked(scope)
	return s, true
}

// CanUndo and CanRedo report whether the stacks for scope are non-empty.
func (m *Manager) CanUndo(scope string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[scope]) > 0
}

func (m *Manager) CanRedo(scope string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[scope]) > 0
}

// Clear drops both stacks for scope.
func (m *Manager) Clear(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[scope] {
		m.totalBytes -= len(s.Blob)
	}
	m.dropRedoLocked(scope)
	delete(m.undo, scope)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, scopes int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scopes = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, scopes, totalSnapshots
}

func (m *Manager) dropRedoLocked(scope string) {
	for _, s := range m.redo[scope] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.redo, scope)
}

func (m *Manager) enforceCapsLocked(scope string) {
	if m.cfg.MaxDepth > 0 {
		stack := m.undo[scope]
		if len(stack) > m.cfg.MaxDepth {
			toDrop := len(stack) - m.cfg.MaxDepth
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[scope] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune the oldest undo entry across all scopes
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestScope := ""
		found := false
		var oldestTS time.Time
		for scope, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestScope = scope
				oldestTS = stack[0].TS
				found = true
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestScope]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestScope] = stack[1:]
		if len(m.undo[oldestScope]) == 0 {
			delete(m.undo, oldestScope)
		}
	}
}
