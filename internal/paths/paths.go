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

package paths

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ValidatePathString validates raw path input before it reaches the filesystem.
// Relative and absolute paths are both accepted; no base directory is enforced.
func ValidatePathString(path string, maxLen int) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.IndexByte(path, 0) != -1 {
		return fmt.Errorf("path contains null byte")
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("path is not valid UTF-8")
	}
	if maxLen > 0 {
		if len(path) > maxLen || len(filepath.Clean(path)) > maxLen {
			return fmt.Errorf("path exceeds maximum length of %d characters", maxLen)
		}
	}
	return nil
}

// WalkDir is filepath.WalkDir that also descends when root is a symlink to a
// directory. Paths handed to fn are spelled under root, not under its target.
func WalkDir(root string, fn fs.WalkDirFunc) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil || resolved == filepath.Clean(root) {
		return filepath.WalkDir(root, fn)
	}
	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(resolved, path)
		switch {
		case relErr != nil:
		case rel == ".":
			path = root
		default:
			path = filepath.Join(root, rel)
		}
		return fn(path, d, err)
	})
}
