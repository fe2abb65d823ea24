/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc mints an opaque identity token for a new character or beat.
type IDFunc func() string

// NewID returns a random UUID string. Tokens only need to be unique within a
// session; nothing persists them.
func NewID() string { return uuid.NewString() }

// CounterIDs returns a deterministic generator yielding prefix-1, prefix-2, ...
// It is safe for concurrent use and intended for tests and reproducible CLI runs.
func CounterIDs(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}

// BeatLabel is the fallback label for the beat at zero-based position index.
func BeatLabel(index int) string { return fmt.Sprintf("Beat %d", index+1) }

// CharacterLabel is the fallback name for a character found at zero-based line index.
func CharacterLabel(index int) string { return fmt.Sprintf("Character %d", index+1) }

// BeatTimestamp is the five second slot label for the beat at zero-based position index.
func BeatTimestamp(index int) string {
	return fmt.Sprintf("%ds - %ds", index*5, (index+1)*5)
}
