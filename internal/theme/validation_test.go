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
	"errors"
	"testing"
)

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		wantErr error
	}{
		{"basic", "cyan", nil},
		{"bright", "hi-magenta", nil},
		{"empty string", "", ErrEmptyColor},
		{"hex", "#abcdef", ErrInvalidColor},
		{"case", "Cyan", ErrInvalidColor},
		{"spaces", " red", ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.color)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateColor(%q) unexpected error %v", tt.color, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateColor(%q) error = %v, want %v", tt.color, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTheme(t *testing.T) {
	t.Run("valid theme", func(t *testing.T) {
		if err := ValidateTheme(DefaultTheme()); err != nil {
			t.Errorf("ValidateTheme() with default theme should not error: %v", err)
		}
	})

	t.Run("nil theme", func(t *testing.T) {
		if err := ValidateTheme(nil); err == nil {
			t.Error("ValidateTheme(nil) should error")
		}
	})

	t.Run("invalid color in theme", func(t *testing.T) {
		theme := DefaultTheme()
		theme.ToolColor = "invalid"
		err := ValidateTheme(theme)
		if err == nil || err.Error() != `tool_color: invalid color name: "invalid"` {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty color in theme", func(t *testing.T) {
		theme := DefaultTheme()
		theme.ErrorColor = ""
		if err := ValidateTheme(theme); err == nil {
			t.Error("ValidateTheme() with empty color should error")
		}
	})
}
