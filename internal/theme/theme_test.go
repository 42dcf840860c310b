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

import "testing"

func TestDisabledColorSchemePrintsPlainText(t *testing.T) {
	scheme := DisabledColorScheme()
	for name, c := range map[string]interface{ Sprint(...interface{}) string }{
		"header":  scheme.Header,
		"tool":    scheme.Tool,
		"success": scheme.Success,
		"error":   scheme.Error,
		"hint":    scheme.Hint,
	} {
		if got := c.Sprint("text"); got != "text" {
			t.Errorf("%s: expected plain text, got %q", name, got)
		}
	}
}

func TestToColorSchemeBuildsEveryStyle(t *testing.T) {
	scheme := DefaultTheme().ToColorScheme()
	if scheme.Header == nil || scheme.Tool == nil || scheme.Success == nil || scheme.Error == nil || scheme.Hint == nil {
		t.Fatalf("expected every style to be set: %+v", scheme)
	}
}
