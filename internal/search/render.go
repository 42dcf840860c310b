// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package search

import (
	"fmt"
	"strings"
)

const (
	groupSeparator = "---"
	matchMarker    = "→ "
	contextIndent  = "  "
)

// RenderMatch formats the match at index i of lines. Without context the bare
// line follows the location prefix; otherwise a window of up to 2c+1 lines is
// emitted, and "..." marks that the file continues past the window.
func RenderMatch(base string, lines []string, i, contextLines int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d: ", base, i+1)
	if contextLines <= 0 {
		sb.WriteString(lines[i])
		return sb.String()
	}

	start := max(0, i-contextLines)
	end := min(len(lines), i+1+contextLines)
	for j := start; j < end; j++ {
		if j == i {
			sb.WriteString(matchMarker)
		} else {
			sb.WriteString(contextIndent)
		}
		sb.WriteString(lines[j])
		sb.WriteByte('\n')
	}
	if end < len(lines) {
		sb.WriteString("...")
	}
	return sb.String()
}

// Samples returns the matches shown for the group.
func (g Group) Samples() []Match {
	if len(g.Matches) > MaxSamplesPerFile {
		return g.Matches[:MaxSamplesPerFile]
	}
	return g.Matches
}

// Overflow is the number of matches not shown.
func (g Group) Overflow() int {
	return max(0, len(g.Matches)-MaxSamplesPerFile)
}

// Lines renders the group including its trailing separator.
func (g Group) Lines() []string {
	out := make([]string, 0, len(g.Matches)+3)
	out = append(out, fmt.Sprintf("%s (%d matches)", g.File, len(g.Matches)))
	for _, m := range g.Samples() {
		out = append(out, m.Rendered)
	}
	if k := g.Overflow(); k > 0 {
		out = append(out, fmt.Sprintf("... and %d more matches in this file", k))
	}
	return append(out, groupSeparator)
}

// Results renders every group in walk order without the final separator.
func (s Summary) Results() []string {
	results := []string{}
	for _, g := range s.Groups {
		results = append(results, g.Lines()...)
	}
	if n := len(results); n > 0 && results[n-1] == groupSeparator {
		results = results[:n-1]
	}
	return results
}

// Text is the one-line summary.
func (s Summary) Text() string {
	return fmt.Sprintf("Found %d matches in %d files", s.TotalMatches, s.FilesWithMatches)
}

// Payload is the envelope payload for a search.
func (s Summary) Payload() map[string]interface{} {
	return map[string]interface{}{
		"summary":          s.Text(),
		"results":          s.Results(),
		"limitReached":     s.LimitReached,
		"totalMatches":     s.TotalMatches,
		"filesWithMatches": s.FilesWithMatches,
	}
}
