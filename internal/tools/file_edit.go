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

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/paths"
)

type editFileArgs struct {
	Path    string `json:"path" jsonschema:"description=Path to the file to edit,minLength=1"`
	OldText string `json:"oldText" jsonschema:"description=Text to replace; must identify a single location,minLength=1"`
	NewText string `json:"newText" jsonschema:"description=Replacement text"`
}

var errMultipleMatches = errors.New("text to replace matches multiple locations")

func (tb *Toolbox) editFile(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	a, err := decodeArgs[editFileArgs](args)
	if err != nil {
		return nil, err
	}
	if err := paths.ValidatePathString(a.Path, maxPathLength); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid path", err)
	}

	info, err := os.Stat(a.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "File does not exist: %s", a.Path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to read file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Path is not a regular file: %s", a.Path)
	}
	if info.Size() > tb.Limits.MaxFileSizeBytes {
		return nil, apperrors.Newf(apperrors.CodeValidation, "File exceeds maximum size of %d bytes", tb.Limits.MaxFileSizeBytes)
	}

	original, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to read file", err)
	}
	if !isTextContent(original) {
		return nil, apperrors.New(apperrors.CodeValidation, "File appears to be binary; edit_file supports text only")
	}

	updated, mode, err := replaceUnique(string(original), a.OldText, a.NewText)
	if errors.Is(err, errMultipleMatches) {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Text to replace matches multiple locations in %s", a.Path)
	}
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Text to replace was not found in %s", a.Path)
	}
	if int64(len(updated)) > tb.Limits.MaxFileSizeBytes {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Updated file exceeds maximum size of %d bytes", tb.Limits.MaxFileSizeBytes)
	}

	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	if err := os.WriteFile(a.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to write file", err)
	}

	return map[string]interface{}{
		"path":         a.Path,
		"mode":         mode,
		"bytesWritten": len(updated),
	}, nil
}

// replaceUnique swaps the single occurrence of search in content. It reports
// "exact" or "whitespace" depending on which strategy located the text.
func replaceUnique(content, search, replace string) (string, string, error) {
	start, end, err := findExactMatch(content, search)
	if err != nil {
		return "", "", err
	}
	if start >= 0 {
		return replaceSpan(content, start, end, replace), "exact", nil
	}

	start, end, err = findWhitespaceInsensitiveMatch(content, search)
	if err != nil {
		return "", "", err
	}
	if start < 0 {
		return "", "", fmt.Errorf("text to replace not found")
	}
	matched := content[start:end]
	replacement := reindentReplacement(replace, indentOfFirstNonEmptyLine(matched))
	if strings.HasSuffix(matched, "\n") && replacement != "" && !strings.HasSuffix(replacement, "\n") {
		replacement += "\n"
	}
	replacement = applyLineEndings(matched, replacement)
	return replaceSpan(content, start, end, replacement), "whitespace", nil
}

func findExactMatch(content, search string) (int, int, error) {
	idx := strings.Index(content, search)
	if idx == -1 {
		return -1, -1, nil
	}
	if strings.Contains(content[idx+len(search):], search) {
		return -1, -1, errMultipleMatches
	}
	return idx, idx + len(search), nil
}

// findWhitespaceInsensitiveMatch compares whole lines with runs of blanks
// collapsed. The returned span covers the matched lines including their
// terminators.
func findWhitespaceInsensitiveMatch(content, search string) (int, int, error) {
	contentLines, offsets := splitLinesWithOffsets(content)
	searchLines := strings.Split(strings.TrimSuffix(normalizeToLF(search), "\n"), "\n")
	if len(searchLines) == 0 {
		return -1, -1, nil
	}

	matches := 0
	matchIndex := -1
	window := len(searchLines)
	for i := 0; i+window <= len(contentLines); i++ {
		if linesMatchWhitespace(contentLines[i:i+window], searchLines) {
			matches++
			matchIndex = i
		}
	}

	if matches == 0 {
		return -1, -1, nil
	}
	if matches > 1 {
		return -1, -1, errMultipleMatches
	}

	start := offsets[matchIndex]
	end := len(content)
	if matchIndex+window < len(offsets) {
		end = offsets[matchIndex+window]
	}
	return start, end, nil
}

func splitLinesWithOffsets(text string) ([]string, []int) {
	offsets := []int{0}
	for idx, r := range text {
		if r == '\n' && idx+1 < len(text) {
			offsets = append(offsets, idx+1)
		}
	}
	lines := make([]string, len(offsets))
	for i, start := range offsets {
		end := len(text)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		lines[i] = text[start:end]
	}
	return lines, offsets
}

func normalizeToLF(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func normalizeLine(line string) string {
	trimmed := strings.TrimSuffix(line, "\n")
	trimmed = strings.TrimSuffix(trimmed, "\r")
	return strings.Join(strings.Fields(trimmed), " ")
}

func linesMatchWhitespace(contentLines, searchLines []string) bool {
	if len(contentLines) != len(searchLines) {
		return false
	}
	for i := range contentLines {
		if normalizeLine(contentLines[i]) != normalizeLine(searchLines[i]) {
			return false
		}
	}
	return true
}

func indentOfFirstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return leadingWhitespace(line)
	}
	return ""
}

func leadingWhitespace(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}

// reindentReplacement shifts replacement so its shallowest line starts at targetIndent.
func reindentReplacement(replacement, targetIndent string) string {
	lines := strings.Split(replacement, "\n")
	common := commonLeadingIndent(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = targetIndent + strings.TrimPrefix(line, common)
	}
	return strings.Join(lines, "\n")
}

func commonLeadingIndent(lines []string) string {
	indent := ""
	found := false
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineIndent := leadingWhitespace(line)
		if !found || len(lineIndent) < len(indent) {
			indent = lineIndent
			found = true
		}
	}
	return indent
}

func applyLineEndings(matched, replacement string) string {
	if strings.Contains(matched, "\r\n") {
		return strings.ReplaceAll(normalizeToLF(replacement), "\n", "\r\n")
	}
	return replacement
}

func replaceSpan(content string, start, end int, replacement string) string {
	return content[:start] + replacement + content[end:]
}
