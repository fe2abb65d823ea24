/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"promptarchitect/internal/ideas"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#06B6D4")
	colorMuted     = lipgloss.Color("#6B7280")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// renderSummary lays out extraction drafts for a terminal.
func renderSummary(res ideas.Result) string {
	if res.Empty() {
		return styleMuted.Render("No characters or scene beats found.")
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Characters (%d)", len(res.Characters))))
	for _, c := range res.Characters {
		b.WriteString("\n  ")
		b.WriteString(styleLabel.Render(c.Name))
		b.WriteString(" ")
		b.WriteString(styleMuted.Render(truncate(c.Role, 60)))
	}
	b.WriteString("\n\n")
	b.WriteString(styleTitle.Render(fmt.Sprintf("Scene Beats (%d)", len(res.Beats))))
	for _, sb := range res.Beats {
		b.WriteString("\n  ")
		b.WriteString(styleMuted.Render(fmt.Sprintf("%-10s", sb.Timestamp)))
		b.WriteString(" ")
		b.WriteString(styleLabel.Render(sb.Label))
	}
	return styleBox.Render(b.String())
}

// truncate shortens s to n runes, adding "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
