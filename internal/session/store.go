/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"promptarchitect/internal/document"
	"promptarchitect/internal/domain"
	applog "promptarchitect/internal/log"
	"promptarchitect/internal/telemetry"
	"promptarchitect/internal/undo"
)

const historyScope = "session"

// Options configures a Store.
type Options struct {
	Env Env
	// UndoDepth caps the undo history; 0 uses the manager default of unlimited.
	UndoDepth int
	// Coalesce merges consecutive edits of one field within the window into a
	// single undo step. 0 uses the manager default.
	Coalesce time.Duration
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
	// Now is the clock used for undo coalescing.
	Now func() time.Time
}

// Store owns a single session state. All methods are safe for concurrent use;
// events are applied one at a time in arrival order.
type Store struct {
	mu      sync.Mutex
	state   State
	env     Env
	history *undo.Manager
	metrics *telemetry.Metrics
	log     *slog.Logger
	now     func() time.Time

	subMu  sync.Mutex
	subs   map[int]chan domain.PromptStructure
	nextID int
}

// NewStore returns a store holding the default document.
func NewStore(opts Options) *Store {
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("session")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		state:   Default(opts.Env.newID()),
		env:     opts.Env,
		history: undo.NewManager(undo.Config{MaxDepth: opts.UndoDepth, MinInterval: opts.Coalesce}),
		metrics: opts.Metrics,
		log:     l,
		now:     now,
		subs:    make(map[int]chan domain.PromptStructure),
	}
}

// Dispatch applies ev and returns the resulting snapshot together with the
// reason the event was ignored, if it was.
func (s *Store) Dispatch(ev Event) (domain.PromptStructure, error) {
	snap, rep := s.apply(ev)
	s.observe(ev, rep)
	return snap, rep.Err
}

// apply runs ev under mu. The deferred unlock keeps the store usable after a
// panic in the reducer or the id generator.
func (s *Store) apply(ev Event) (domain.PromptStructure, Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next, rep := Step(prev, ev, s.env)
	if rep.Changed {
		s.record(prev, historyLabel(ev))
		s.state = next
	}
	snap := s.state.Snapshot()
	if rep.Changed {
		s.publish(snap)
	}
	return snap, rep
}

func historyLabel(ev Event) string {
	if e, ok := ev.(Edit); ok {
		return string(e.Slice) + "." + e.Path
	}
	return ""
}

func (s *Store) observe(ev Event, rep Report) {
	outcome := telemetry.OutcomeApplied
	switch {
	case rep.Err != nil:
		outcome = telemetry.OutcomeRejected
		s.log.Debug("event rejected", slog.String("event", ev.Name()), slog.Any("err", rep.Err))
	case !rep.Changed:
		outcome = telemetry.OutcomeIgnored
	}
	s.metrics.ObserveEvent(ev.Name(), outcome)
	if _, ok := ev.(RunExtraction); ok && rep.Changed {
		s.metrics.ObserveExtraction(len(rep.Drafts.Characters), len(rep.Drafts.Beats))
		s.log.Info("notes organized",
			slog.Int("characters", len(rep.Drafts.Characters)),
			slog.Int("beats", len(rep.Drafts.Beats)))
	}
}

// record pushes prev onto the undo history. Called with mu held.
func (s *Store) record(prev State, label string) {
	blob, err := json.Marshal(prev)
	if err != nil {
		s.log.Warn("undo snapshot failed", slog.Any("err", err))
		return
	}
	s.history.Record(undo.Snapshot{Scope: historyScope, Label: label, Blob: blob, TS: s.now()})
}

// Undo restores the state before the most recent change. It reports false
// when there is nothing to undo.
func (s *Store) Undo() (domain.PromptStructure, bool, error) {
	return s.travel(s.history.Undo)
}

// Redo reapplies the most recently undone change.
func (s *Store) Redo() (domain.PromptStructure, bool, error) {
	return s.travel(s.history.Redo)
}

func (s *Store) travel(step func(string, undo.Snapshot) (undo.Snapshot, bool)) (domain.PromptStructure, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := json.Marshal(s.state)
	if err != nil {
		return s.state.Snapshot(), false, fmt.Errorf("snapshot session: %w", err)
	}
	target, ok := step(historyScope, undo.Snapshot{Blob: cur, TS: s.now()})
	if !ok {
		return s.state.Snapshot(), false, nil
	}
	var restored State
	if err := json.Unmarshal(target.Blob, &restored); err != nil {
		return s.state.Snapshot(), false, fmt.Errorf("restore session: %w", err)
	}
	s.state = restored
	snap := s.state.Snapshot()
	s.publish(snap)
	return snap, true, nil
}

// State returns a copy of the current slices.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Characters = cloneSlice(st.Characters)
	st.SceneBeats = cloneSlice(st.SceneBeats)
	return st
}

// Snapshot assembles the current document.
func (s *Store) Snapshot() domain.PromptStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Encoded returns the current document in its textual form.
func (s *Store) Encoded() ([]byte, error) {
	return document.Encode(s.Snapshot())
}

// Subscribe returns a channel receiving the snapshot after every change and a
// function that ends the subscription. Slow subscribers miss intermediate
// snapshots but always see the latest one once they catch up.
func (s *Store) Subscribe() (<-chan domain.PromptStructure, func()) {
	ch := make(chan domain.PromptStructure, 1)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()
	s.metrics.SubscriberDelta(1)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
			s.metrics.SubscriberDelta(-1)
		})
	}
	return ch, cancel
}

// publish is called with mu held so subscribers see snapshots in order.
func (s *Store) publish(snap domain.PromptStructure) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// replace a stale pending snapshot rather than block
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
