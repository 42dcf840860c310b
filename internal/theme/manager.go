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

import (
	"fmt"
	"os"
)

// Manager resolves a theme into the color scheme the shell prints with.
// It respects the NO_COLOR environment variable.
type Manager struct {
	theme       *Theme
	colorScheme *ColorScheme
	noColor     bool
}

// NewManager validates t and builds its color scheme. A nil theme uses DefaultTheme.
func NewManager(t *Theme) (*Manager, error) {
	if t == nil {
		t = DefaultTheme()
	}
	if err := ValidateTheme(t); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	noColor := os.Getenv("NO_COLOR") != ""
	colorScheme := t.ToColorScheme()
	if noColor {
		colorScheme = DisabledColorScheme()
	}

	return &Manager{
		theme:       t,
		colorScheme: colorScheme,
		noColor:     noColor,
	}, nil
}

// ColorScheme returns the current color scheme.
func (m *Manager) ColorScheme() *ColorScheme {
	return m.colorScheme
}

// Theme returns the current theme.
func (m *Manager) Theme() *Theme {
	return m.theme
}

// IsColorDisabled returns true if colors are disabled (NO_COLOR set).
func (m *Manager) IsColorDisabled() bool {
	return m.noColor
}
