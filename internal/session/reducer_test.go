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
	"errors"
	"reflect"
	"testing"

	"promptarchitect/internal/domain"
	"promptarchitect/internal/reconcile"
)

const rooftop = "Hero: calm visionary leader\nScene 1: Rooftop reveal at dawn\nShe looks at the skyline and smiles"

// fixture returns a default state with ids t-1 (seed character) and t-2
// (seed beat), plus an env minting n-1, n-2, ...
func fixture() (State, Env) {
	return Default(domain.CounterIDs("t")), Env{NewID: domain.CounterIDs("n")}
}

func TestDefaultState(t *testing.T) {
	s, _ := fixture()
	if s.Project.Title != "Working Title" || s.Project.RuntimeSeconds != 45 {
		t.Fatalf("unexpected default project: %+v", s.Project)
	}
	if len(s.Characters) != 1 || s.Characters[0].ID != "t-1" || s.Characters[0].Name != domain.SeedCharacterName {
		t.Fatalf("unexpected seed roster: %+v", s.Characters)
	}
	if len(s.SceneBeats) != 1 || s.SceneBeats[0].ID != "t-2" {
		t.Fatalf("unexpected seed timeline: %+v", s.SceneBeats)
	}
	if s.Snapshot().DirectorNotes != domain.DirectorNotes {
		t.Fatalf("snapshot missing director notes")
	}
}

func TestEditSingletonFields(t *testing.T) {
	s, env := fixture()
	tests := []struct {
		ev    Edit
		check func(State) bool
	}{
		{Edit{SliceProject, "title", "Night Market"}, func(s State) bool { return s.Project.Title == "Night Market" }},
		{Edit{SliceProject, "runtimeSeconds", "90s"}, func(s State) bool { return s.Project.RuntimeSeconds == 90 }},
		{Edit{SliceProject, "runtimeSeconds", "abc"}, func(s State) bool { return s.Project.RuntimeSeconds == 0 }},
		{Edit{SliceProject, "aspectRatio", "9:16"}, func(s State) bool { return s.Project.AspectRatio == domain.Aspect9x16 }},
		{Edit{SliceVisualLanguage, "lensing", "50mm"}, func(s State) bool { return s.VisualLanguage.Lensing == "50mm" }},
		{Edit{SliceAudio, "music", ""}, func(s State) bool { return s.Audio.Music == "" }},
		{Edit{SliceGenerationSettings, "renderQuality", "high"}, func(s State) bool { return s.GenerationSettings.RenderQuality == domain.QualityHigh }},
	}
	for _, tt := range tests {
		next, rep := Step(s, tt.ev, env)
		if rep.Err != nil || !rep.Changed {
			t.Errorf("%v: unexpected report %+v", tt.ev, rep)
			continue
		}
		if !tt.check(next) {
			t.Errorf("%v: field not updated", tt.ev)
		}
	}
	if s.Project.Title != "Working Title" || s.Project.RuntimeSeconds != 45 {
		t.Fatalf("input state was modified: %+v", s.Project)
	}
}

func TestEditRejectsInvalidInput(t *testing.T) {
	s, env := fixture()
	tests := []struct {
		ev   Edit
		want error
	}{
		{Edit{SliceProject, "aspectRatio", "4:3"}, ErrInvalidValue},
		{Edit{SliceProject, "budgetLevel", "huge"}, ErrInvalidValue},
		{Edit{SliceGenerationSettings, "motionIntensity", "wild"}, ErrInvalidValue},
		{Edit{SliceProject, "subtitle", "x"}, ErrUnknownField},
		{Edit{"lighting", "key", "x"}, ErrUnknownSlice},
		{Edit{SliceCharacters, "missing.name", "x"}, ErrUnknownEntity},
		{Edit{SliceCharacters, "t-1.id", "x"}, ErrUnknownField},
		{Edit{SliceSceneBeats, "t-2", "x"}, ErrUnknownField},
	}
	for _, tt := range tests {
		next, rep := Step(s, tt.ev, env)
		if !errors.Is(rep.Err, tt.want) {
			t.Errorf("%v: err = %v, want %v", tt.ev, rep.Err, tt.want)
		}
		if rep.Changed || !reflect.DeepEqual(next, s) {
			t.Errorf("%v: rejected edit changed state", tt.ev)
		}
	}
}

func TestEditCollectionEntryByID(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Add{KindCharacter}, env)

	next := Apply(s, Edit{SliceCharacters, "n-1.wardrobe", "red coat"}, env)
	if next.Characters[1].Wardrobe != "red coat" {
		t.Fatalf("wardrobe not set: %+v", next.Characters[1])
	}
	if next.Characters[0].Wardrobe == "red coat" {
		t.Fatalf("edit leaked to another character")
	}
	if s.Characters[1].Wardrobe != "" {
		t.Fatalf("input roster was modified")
	}

	next = Apply(next, Edit{SliceSceneBeats, "t-2.label", "Cold Open"}, env)
	if next.SceneBeats[0].Label != "Cold Open" || s.SceneBeats[0].Label != "Opening Hero Shot" {
		t.Fatalf("beat edit wrong: next=%q orig=%q", next.SceneBeats[0].Label, s.SceneBeats[0].Label)
	}
}

func TestAddAndRemove(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Add{KindCharacter}, env)
	s = Apply(s, Add{KindBeat}, env)

	c := s.Characters[1]
	if c.ID != "n-1" || c.Name != domain.NewCharacterName || c.Role != domain.NewCharacterRole {
		t.Fatalf("unexpected new character: %+v", c)
	}
	b := s.SceneBeats[1]
	if b.ID != "n-2" || b.Label != "Beat 2" || b.Timestamp != "" {
		t.Fatalf("unexpected new beat: %+v", b)
	}

	s = Apply(s, Remove{KindCharacter, "t-1"}, env)
	if len(s.Characters) != 1 || s.Characters[0].ID != "n-1" {
		t.Fatalf("remove left %+v", s.Characters)
	}
	s = Apply(s, Remove{KindBeat, "n-2"}, env)
	if len(s.SceneBeats) != 1 || s.SceneBeats[0].ID != "t-2" {
		t.Fatalf("remove left %+v", s.SceneBeats)
	}

	_, rep := Step(s, Remove{KindBeat, "nope"}, env)
	if !errors.Is(rep.Err, ErrUnknownEntity) || rep.Changed {
		t.Fatalf("removing unknown id: %+v", rep)
	}
	_, rep = Step(s, Add{"prop"}, env)
	if !errors.Is(rep.Err, ErrUnknownKind) {
		t.Fatalf("adding unknown kind: %+v", rep)
	}
}

func TestRemovingEverythingLeavesEmptyCollections(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Remove{KindCharacter, "t-1"}, env)
	s = Apply(s, Remove{KindBeat, "t-2"}, env)
	snap := s.Snapshot()
	if snap.Characters == nil || len(snap.Characters) != 0 || snap.SceneBeats == nil || len(snap.SceneBeats) != 0 {
		t.Fatalf("expected empty collections, got %+v / %+v", snap.Characters, snap.SceneBeats)
	}
}

func TestRunExtractionFromBrainDump(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Edit{SliceProject, "brainDump", rooftop}, env)
	next, rep := Step(s, RunExtraction{}, env)
	if !rep.Changed || len(rep.Drafts.Characters) != 1 || len(rep.Drafts.Beats) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(next.Characters) != 1 || next.Characters[0].Name != "Hero" {
		t.Fatalf("seed should be evicted and Hero appended: %+v", next.Characters)
	}
	if len(next.SceneBeats) != 2 || next.SceneBeats[0].Label != "Scene 1" || next.SceneBeats[1].Label != "Beat 2" {
		t.Fatalf("timeline should be replaced: %+v", next.SceneBeats)
	}
	if next.Project.BrainDump != rooftop {
		t.Fatalf("extraction must not touch the project slice")
	}
}

func TestRunExtractionKeepsUserCharacters(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Add{KindCharacter}, env)
	s = Apply(s, Edit{SliceCharacters, "n-1.name", "Ada"}, env)
	next := Apply(s, RunExtraction{Text: "Villain - masked rival"}, env)
	got := []string{}
	for _, c := range next.Characters {
		got = append(got, c.Name)
	}
	if !reflect.DeepEqual(got, []string{"Ada", "Villain"}) {
		t.Fatalf("roster = %q", got)
	}
	if len(next.SceneBeats) != 1 || next.SceneBeats[0].ID != "t-2" {
		t.Fatalf("no beat drafts should keep the timeline: %+v", next.SceneBeats)
	}
}

func TestRunExtractionDedupLaw(t *testing.T) {
	s, env := fixture()
	env.Law = reconcile.DedupByID
	next := Apply(s, RunExtraction{Text: rooftop}, env)
	if len(next.Characters) != 2 || next.Characters[0].Name != domain.SeedCharacterName {
		t.Fatalf("dedup law should keep the seed: %+v", next.Characters)
	}
}

func TestRunExtractionBlankIsNoop(t *testing.T) {
	s, env := fixture()
	for _, text := range []string{"", "  \n\t"} {
		next, rep := Step(s, RunExtraction{Text: text}, env)
		if rep.Changed || !reflect.DeepEqual(next, s) {
			t.Fatalf("blank notes %q changed state", text)
		}
	}
	next, rep := Step(s, RunExtraction{Text: "short\nlines"}, env)
	if rep.Changed || !reflect.DeepEqual(next, s) {
		t.Fatalf("notes without ideas changed state")
	}
}

func TestReset(t *testing.T) {
	s, env := fixture()
	s = Apply(s, Edit{SliceProject, "title", "X"}, env)
	s = Apply(s, Remove{KindCharacter, "t-1"}, env)
	s = Apply(s, Reset{}, env)
	if s.Project.Title != "Working Title" || len(s.Characters) != 1 || s.Characters[0].ID != "n-1" {
		t.Fatalf("reset did not restore defaults with fresh ids: %+v", s)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{
		"":     0,
		"45":   45,
		"  30": 30,
		"90s":  90,
		"-5":   -5,
		"+7x":  7,
		"abc":  0,
		"1.5":  1,
		"-":    0,
	}
	tests["9999999999999999999999"] = 0
	for in, want := range tests {
		if got := LeadingInt(in); got != want {
			t.Errorf("LeadingInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFields(t *testing.T) {
	got := Fields(SliceAudio)
	want := []string{"dialogueNotes", "music", "soundDesign", "voiceOverTone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fields(audio) = %v", got)
	}
	if len(Fields("nope")) != 0 {
		t.Fatalf("unknown slice should have no fields")
	}
}
