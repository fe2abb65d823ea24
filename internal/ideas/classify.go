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

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"promptarchitect/internal/domain"
)

// MinBeatLength is the length a line must exceed to become a beat without any
// beat keyword.
const MinBeatLength = 12

var (
	reCharacterWords = regexp.MustCompile(`character|protagonist|hero|villain|support|actor|founder|spokes`)
	reBeatWords      = regexp.MustCompile(`scene|shot|moment|sequence|beat|transition`)
	// A leading capitalized phrase directly followed by ':' or '-', e.g. "Hero: ...".
	reLeadingName = regexp.MustCompile(`^([A-Z][\w\s]+)[:\-]`)
)

// rule is one entry of the classification table. match sees the trimmed line and
// its lower-cased form; build fills the Classification on a match.
type rule struct {
	name  string
	kind  Kind
	match func(line, lower string) bool
	build func(line string, position, beatsSoFar int) Classification
}

// rules are evaluated top to bottom and the first match wins. Character
// keywords come first, so a line naming both a hero and a scene is a character.
var rules = []rule{
	{
		name:  "character-keyword",
		kind:  KindCharacter,
		match: func(_, lower string) bool { return reCharacterWords.MatchString(lower) },
		build: func(line string, position, _ int) Classification {
			return Classification{Name: characterName(line, position), Role: line}
		},
	},
	{
		name:  "beat-keyword",
		kind:  KindBeat,
		match: func(_, lower string) bool { return reBeatWords.MatchString(lower) },
		build: func(line string, _, beatsSoFar int) Classification {
			return Classification{Label: beatLabel(line, beatsSoFar), Objective: line}
		},
	},
	{
		name:  "long-line",
		kind:  KindBeat,
		match: func(line, _ string) bool { return utf8.RuneCountInString(line) > MinBeatLength },
		build: func(line string, _, beatsSoFar int) Classification {
			return Classification{Label: domain.BeatLabel(beatsSoFar), Objective: line}
		},
	},
}

// Classify decides whether line describes a character, a scene beat, or neither.
// position is the line's zero-based index in the split brain dump and only feeds
// the fallback character name; beatsSoFar is the number of beats already emitted
// and only feeds the fallback beat label. The result depends on nothing else.
func Classify(line string, position, beatsSoFar int) Classification {
	line = strings.TrimSpace(line)
	if line == "" {
		return Classification{Kind: KindNone}
	}
	lower := strings.ToLower(line)
	for _, r := range rules {
		if !r.match(line, lower) {
			continue
		}
		c := r.build(line, position, beatsSoFar)
		c.Kind = r.kind
		c.Rule = r.name
		return c
	}
	return Classification{Kind: KindNone}
}

// characterName returns the capitalized lead-in before ':' or '-', or a numbered
// placeholder when the line has none.
func characterName(line string, position int) string {
	if m := reLeadingName.FindStringSubmatch(line); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return domain.CharacterLabel(position)
}

// beatLabel drops everything from the first ':' or '-' on.
func beatLabel(line string, beatsSoFar int) string {
	label := line
	if i := strings.IndexAny(line, ":-"); i >= 0 {
		label = line[:i]
	}
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return domain.BeatLabel(beatsSoFar)
}
