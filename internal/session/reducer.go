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
	"strings"

	"promptarchitect/internal/domain"
	"promptarchitect/internal/ideas"
	"promptarchitect/internal/reconcile"
)

// Report describes what a transition did.
type Report struct {
	Changed bool
	// Err is set when an edit or remove was rejected and ignored.
	Err error
	// Drafts holds the extractor output for RunExtraction events.
	Drafts ideas.Result
}

// Apply returns the state that follows s after ev. Events that cannot apply
// (unknown field, unknown id, invalid enum value, blank notes) return s.
func Apply(s State, ev Event, env Env) State {
	next, _ := Step(s, ev, env)
	return next
}

// Step is Apply with a report of the outcome.
func Step(s State, ev Event, env Env) (State, Report) {
	switch ev := ev.(type) {
	case Edit:
		return applyEdit(s, ev)
	case Add:
		return applyAdd(s, ev, env)
	case Remove:
		return applyRemove(s, ev)
	case RunExtraction:
		return applyExtraction(s, ev, env)
	case Reset:
		return Default(env.newID()), Report{Changed: true}
	}
	return s, Report{}
}

func applyEdit(s State, e Edit) (State, Report) {
	if err := e.Validate(s); err != nil {
		return s, Report{Err: err}
	}
	switch e.Slice {
	case SliceProject:
		projectFields[e.Path](&s.Project, e.Value)
	case SliceVisualLanguage:
		visualFields[e.Path](&s.VisualLanguage, e.Value)
	case SliceAudio:
		audioFields[e.Path](&s.Audio, e.Value)
	case SliceGenerationSettings:
		generationFields[e.Path](&s.GenerationSettings, e.Value)
	case SliceCharacters:
		id, field, _ := splitPath(e.Path)
		chars := cloneSlice(s.Characters)
		for i := range chars {
			if chars[i].ID == id {
				characterFields[field](&chars[i], e.Value)
			}
		}
		s.Characters = chars
	case SliceSceneBeats:
		id, field, _ := splitPath(e.Path)
		beats := cloneSlice(s.SceneBeats)
		for i := range beats {
			if beats[i].ID == id {
				beatFields[field](&beats[i], e.Value)
			}
		}
		s.SceneBeats = beats
	}
	return s, Report{Changed: true}
}

func applyAdd(s State, a Add, env Env) (State, Report) {
	switch a.Kind {
	case KindCharacter:
		s.Characters = append(cloneSlice(s.Characters), domain.NewCharacter(env.newID()))
	case KindBeat:
		s.SceneBeats = append(cloneSlice(s.SceneBeats), domain.NewSceneBeat(env.newID(), len(s.SceneBeats)))
	default:
		return s, Report{Err: ErrUnknownKind}
	}
	return s, Report{Changed: true}
}

func applyRemove(s State, r Remove) (State, Report) {
	removed := false
	switch r.Kind {
	case KindCharacter:
		s.Characters, removed = without(s.Characters, func(c domain.Character) bool { return c.ID == r.ID })
	case KindBeat:
		s.SceneBeats, removed = without(s.SceneBeats, func(b domain.SceneBeat) bool { return b.ID == r.ID })
	default:
		return s, Report{Err: ErrUnknownKind}
	}
	if !removed {
		return s, Report{Err: ErrUnknownEntity}
	}
	return s, Report{Changed: true}
}

func applyExtraction(s State, r RunExtraction, env Env) (State, Report) {
	notes := r.Text
	if notes == "" {
		notes = s.Project.BrainDump
	}
	if strings.TrimSpace(notes) == "" {
		return s, Report{}
	}
	drafts := ideas.NewExtractor(env.newID()).Extract(notes)
	rep := Report{Drafts: drafts}
	if drafts.Empty() {
		return s, rep
	}
	s.Characters = reconcile.MergeCharacters(env.law(), s.Characters, drafts.Characters)
	s.SceneBeats = reconcile.ReplaceBeats(s.SceneBeats, drafts.Beats)
	rep.Changed = true
	return s, rep
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// without returns a copy of in minus every element matching drop. The input
// is returned as is when nothing matches.
func without[T any](in []T, drop func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	if len(out) == len(in) {
		return in, false
	}
	return out, true
}
