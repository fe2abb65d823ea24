/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package reconcile merges extraction drafts into the canonical character and
// beat collections. Merges never modify their inputs; they return new slices.
package reconcile

import (
	"fmt"
	"strings"

	"promptarchitect/internal/domain"
)

// CharacterLaw selects how extracted characters join the existing roster.
type CharacterLaw string

const (
	// EvictSeed drops every existing character named domain.SeedCharacterName,
	// then appends all drafts. Other existing characters keep their position and values.
	EvictSeed CharacterLaw = "evict_seed"
	// DedupByID appends the drafts whose id is not already in the roster.
	// Nothing is evicted.
	DedupByID CharacterLaw = "dedup_id"
)

// ParseCharacterLaw maps a config value onto a law. Empty selects EvictSeed.
func ParseCharacterLaw(s string) (CharacterLaw, error) {
	switch CharacterLaw(strings.ToLower(strings.TrimSpace(s))) {
	case "", EvictSeed:
		return EvictSeed, nil
	case DedupByID:
		return DedupByID, nil
	}
	return "", fmt.Errorf("unknown character merge law %q", s)
}

// MergeCharacters applies law to existing and drafts. With no drafts the
// existing slice is returned unchanged.
func MergeCharacters(law CharacterLaw, existing, drafts []domain.Character) []domain.Character {
	if len(drafts) == 0 {
		return existing
	}
	if law == DedupByID {
		return appendNewIDs(existing, drafts)
	}
	return evictSeedAndAppend(existing, drafts)
}

func evictSeedAndAppend(existing, drafts []domain.Character) []domain.Character {
	out := make([]domain.Character, 0, len(existing)+len(drafts))
	for _, c := range existing {
		if c.Name == domain.SeedCharacterName {
			continue
		}
		out = append(out, c)
	}
	return append(out, drafts...)
}

func appendNewIDs(existing, drafts []domain.Character) []domain.Character {
	seen := make(map[string]struct{}, len(existing)+len(drafts))
	out := make([]domain.Character, 0, len(existing)+len(drafts))
	for _, c := range existing {
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	for _, d := range drafts {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ReplaceBeats discards the existing timeline in favor of drafts, in draft order.
// With no drafts the existing slice is returned unchanged.
func ReplaceBeats(existing, drafts []domain.SceneBeat) []domain.SceneBeat {
	if len(drafts) == 0 {
		return existing
	}
	out := make([]domain.SceneBeat, len(drafts))
	copy(out, drafts)
	return out
}
