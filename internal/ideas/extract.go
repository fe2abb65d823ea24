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

	"promptarchitect/internal/domain"
)

var reNewlines = regexp.MustCompile(`\n+`)

// Line is one segment of a brain dump that survived trimming.
// Index is its position in the split list before empty segments were dropped.
type Line struct {
	Index int
	Text  string
}

// Lines splits raw on runs of newlines, trims every segment and drops the empty ones.
// Document order is preserved.
func Lines(raw string) []Line {
	parts := reNewlines.Split(raw, -1)
	out := make([]Line, 0, len(parts))
	for i, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		out = append(out, Line{Index: i, Text: t})
	}
	return out
}

// Extractor builds drafts from a brain dump. NewID mints identity tokens for
// the drafts; a nil NewID uses domain.NewID.
type Extractor struct {
	NewID domain.IDFunc
}

// NewExtractor returns an Extractor using newID for draft identities.
func NewExtractor(newID domain.IDFunc) *Extractor {
	return &Extractor{NewID: newID}
}

// Extract classifies every line of raw and collects the drafts.
// It never fails; lines that match nothing are dropped silently.
func (e *Extractor) Extract(raw string) Result {
	newID := domain.NewID
	if e != nil && e.NewID != nil {
		newID = e.NewID
	}
	res := Result{Characters: []domain.Character{}, Beats: []domain.SceneBeat{}}
	for _, ln := range Lines(raw) {
		c := Classify(ln.Text, ln.Index, len(res.Beats))
		switch c.Kind {
		case KindCharacter:
			res.Characters = append(res.Characters, domain.Character{
				ID:   newID(),
				Name: c.Name,
				Role: c.Role,
			})
		case KindBeat:
			res.Beats = append(res.Beats, domain.SceneBeat{
				ID:        newID(),
				Label:     c.Label,
				Timestamp: domain.BeatTimestamp(len(res.Beats)),
				Objective: c.Objective,
			})
		}
	}
	return res
}

// Extract runs the default extractor over raw.
func Extract(raw string) Result {
	return (&Extractor{}).Extract(raw)
}
