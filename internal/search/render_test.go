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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderMatch(t *testing.T) {
	lines := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	tests := []struct {
		name     string
		index    int
		context  int
		expected string
	}{
		{name: "bare line", index: 2, context: 0, expected: "f.txt:3: gamma"},
		{name: "clamped at first line", index: 0, context: 2, expected: "f.txt:1: → alpha\n  beta\n  gamma\n..."},
		{name: "middle window", index: 2, context: 1, expected: "f.txt:3:   beta\n→ gamma\n  delta\n..."},
		{name: "clamped at last line", index: 4, context: 2, expected: "f.txt:5:   gamma\n  delta\n→ epsilon\n"},
		{name: "window covers file", index: 2, context: 10, expected: "f.txt:3:   alpha\n  beta\n→ gamma\n  delta\n  epsilon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, RenderMatch("f.txt", lines, tt.index, tt.context))
		})
	}
}

func TestSplitLines(t *testing.T) {
	require.Nil(t, SplitLines(""))
	require.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	require.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb"))
	require.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
	require.Equal(t, []string{""}, SplitLines("\n"))
	require.Equal(t, []string{"a", "b", "c"}, SplitLines("a\rb\rc\r"))
	require.Equal(t, []string{"a", "", "b", "c"}, SplitLines("a\r\rb\nc"))
}

func TestGroupSamplesAndOverflow(t *testing.T) {
	g := Group{File: "/x/f.txt"}
	for i := 1; i <= 7; i++ {
		g.Matches = append(g.Matches, Match{File: g.File, LineNumber: i, Rendered: "m"})
	}
	require.Len(t, g.Samples(), MaxSamplesPerFile)
	require.Equal(t, 2, g.Overflow())

	lines := g.Lines()
	require.Equal(t, "/x/f.txt (7 matches)", lines[0])
	require.Equal(t, "... and 2 more matches in this file", lines[len(lines)-2])
	require.Equal(t, "---", lines[len(lines)-1])
}

func TestSummaryPayload(t *testing.T) {
	s := Summary{}
	payload := s.Payload()
	require.Equal(t, "Found 0 matches in 0 files", payload["summary"])
	require.Equal(t, []string{}, payload["results"])
	require.Equal(t, false, payload["limitReached"])
}
