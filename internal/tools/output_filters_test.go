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

package tools

import "testing"

func TestOutputFilterApply(t *testing.T) {
	tests := []struct {
		name      string
		config    OutputFilterConfig
		input     string
		want      string
		truncated bool
	}{
		{name: "ansi", config: DefaultOutputFilterConfig(), input: "\x1b[1;32mgreen\x1b[0m", want: "green"},
		{name: "osc title", config: DefaultOutputFilterConfig(), input: "\x1b]0;title\x07text", want: "text"},
		{name: "control chars", config: DefaultOutputFilterConfig(), input: "a\x00b\x07c\td\ne", want: "abc\td\ne"},
		{name: "disabled", config: OutputFilterConfig{}, input: "\x1b[0mraw", want: "\x1b[0mraw"},
		{name: "rune truncation", config: OutputFilterConfig{MaxChars: 3}, input: "héllo", want: "hél", truncated: true},
		{name: "exact length", config: OutputFilterConfig{MaxChars: 5}, input: "héllo", want: "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := tt.config.Apply(tt.input)
			if got != tt.want || truncated != tt.truncated {
				t.Fatalf("Apply(%q) = (%q, %v), want (%q, %v)", tt.input, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestLimitsNormalize(t *testing.T) {
	l := Limits{MaxFileSizeBytes: -1, MaxDirectoryDepth: 3}.Normalize()
	if l.MaxFileSizeBytes != defaultMaxFileSizeBytes || l.MaxDirectoryDepth != 3 || l.MaxDirectoryEntries != defaultMaxDirectoryEntries {
		t.Fatalf("unexpected limits: %+v", l)
	}
}
