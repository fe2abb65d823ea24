/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ideas

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		position   int
		beatsSoFar int
		want       Classification
	}{
		{
			name: "named character",
			line: "Hero: calm visionary leader",
			want: Classification{Kind: KindCharacter, Rule: "character-keyword", Name: "Hero", Role: "Hero: calm visionary leader"},
		},
		{
			name: "character with dash separator",
			line: "Mara Quinn - the founder of the lab",
			want: Classification{Kind: KindCharacter, Rule: "character-keyword", Name: "Mara Quinn", Role: "Mara Quinn - the founder of the lab"},
		},
		{
			name:     "character without leading name",
			line:     "a reluctant villain who hides in plain sight",
			position: 3,
			want:     Classification{Kind: KindCharacter, Rule: "character-keyword", Name: "Character 4", Role: "a reluctant villain who hides in plain sight"},
		},
		{
			name:     "lowercase lead-in is not a name",
			line:     "hero: calm",
			position: 0,
			want:     Classification{Kind: KindCharacter, Rule: "character-keyword", Name: "Character 1", Role: "hero: calm"},
		},
		{
			name:     "spokesperson matches",
			line:     "Spokesperson delivers the tagline",
			position: 1,
			want:     Classification{Kind: KindCharacter, Rule: "character-keyword", Name: "Character 2", Role: "Spokesperson delivers the tagline"},
		},
		{
			name: "beat keyword with clause",
			line: "Scene 1: Rooftop reveal at dawn",
			want: Classification{Kind: KindBeat, Rule: "beat-keyword", Label: "Scene 1", Objective: "Scene 1: Rooftop reveal at dawn"},
		},
		{
			name:       "beat keyword without clause keeps line",
			line:       "Final shot",
			beatsSoFar: 2,
			want:       Classification{Kind: KindBeat, Rule: "beat-keyword", Label: "Final shot", Objective: "Final shot"},
		},
		{
			name:       "beat keyword with empty lead-in falls back",
			line:       ": transition to black",
			beatsSoFar: 2,
			want:       Classification{Kind: KindBeat, Rule: "beat-keyword", Label: "Beat 3", Objective: ": transition to black"},
		},
		{
			name:       "long line becomes numbered beat",
			line:       "She looks at the skyline and smiles",
			beatsSoFar: 1,
			want:       Classification{Kind: KindBeat, Rule: "long-line", Label: "Beat 2", Objective: "She looks at the skyline and smiles"},
		},
		{
			name: "exactly twelve characters is dropped",
			line: "twelve chars",
			want: Classification{Kind: KindNone},
		},
		{
			name: "thirteen characters is a beat",
			line: "thirteen char",
			want: Classification{Kind: KindBeat, Rule: "long-line", Label: "Beat 1", Objective: "thirteen char"},
		},
		{
			name: "blank",
			line: "   ",
			want: Classification{Kind: KindNone},
		},
		{
			name: "surrounding whitespace is trimmed",
			line: "  Scene 2 - alley chase \t",
			want: Classification{Kind: KindBeat, Rule: "beat-keyword", Label: "Scene 2", Objective: "Scene 2 - alley chase"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line, tt.position, tt.beatsSoFar)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyCharacterWinsOverBeat(t *testing.T) {
	lines := []string{
		"The hero enters the scene",
		"Villain: final shot of the sequence",
		"Supporting actor in the transition",
		"beat where the founder speaks",
	}
	for _, l := range lines {
		if got := Classify(l, 0, 0); got.Kind != KindCharacter {
			t.Errorf("Classify(%q).Kind = %v, want character", l, got.Kind)
		}
	}
}

func TestClassifyShortUnmatchedLinesAreDropped(t *testing.T) {
	for _, l := range []string{"a", "rooftop", "neon rain", "12 chars....", "éééééééééééé"} {
		if got := Classify(l, 5, 5); got.Kind != KindNone {
			t.Errorf("Classify(%q) = %+v, want none", l, got)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	line := "Scene 4: the escape across the rooftops"
	a := Classify(line, 2, 1)
	b := Classify(line, 2, 1)
	if a != b {
		t.Fatalf("Classify not deterministic: %+v vs %+v", a, b)
	}
}
