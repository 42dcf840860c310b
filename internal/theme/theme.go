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

package theme

import "github.com/fatih/color"

// Theme names the colors of the interactive shell.
type Theme struct {
	HeaderColor  string `json:"header_color,omitempty" toml:"header_color" yaml:"header_color"`
	ToolColor    string `json:"tool_color,omitempty" toml:"tool_color" yaml:"tool_color"`
	SuccessColor string `json:"success_color,omitempty" toml:"success_color" yaml:"success_color"`
	ErrorColor   string `json:"error_color,omitempty" toml:"error_color" yaml:"error_color"`
	HintColor    string `json:"hint_color,omitempty" toml:"hint_color" yaml:"hint_color"`
}

// ColorScheme provides color styles based on theme
type ColorScheme struct {
	Header  *color.Color
	Tool    *color.Color
	Success *color.Color
	Error   *color.Color
	Hint    *color.Color
}

// DefaultTheme returns a theme with default values
func DefaultTheme() *Theme {
	return &Theme{
		HeaderColor:  "magenta",
		ToolColor:    "cyan",
		SuccessColor: "green",
		ErrorColor:   "red",
		HintColor:    "yellow",
	}
}

// ToColorScheme converts theme to color styles. Call ValidateTheme first;
// unknown names render uncolored.
func (t *Theme) ToColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:  color.New(namedColors[t.HeaderColor], color.Bold),
		Tool:    color.New(namedColors[t.ToolColor]),
		Success: color.New(namedColors[t.SuccessColor]),
		Error:   color.New(namedColors[t.ErrorColor], color.Bold),
		Hint:    color.New(namedColors[t.HintColor]),
	}
}

// DisabledColorScheme returns a color scheme with all colors disabled (for NO_COLOR).
func DisabledColorScheme() *ColorScheme {
	scheme := &ColorScheme{
		Header:  color.New(),
		Tool:    color.New(),
		Success: color.New(),
		Error:   color.New(),
		Hint:    color.New(),
	}
	for _, c := range []*color.Color{scheme.Header, scheme.Tool, scheme.Success, scheme.Error, scheme.Hint} {
		c.DisableColor()
	}
	return scheme
}
