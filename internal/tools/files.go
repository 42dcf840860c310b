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
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/paths"
)

const maxPathLength = 4096

type readFileArgs struct {
	Path string `json:"path" jsonschema:"description=The full path to the file,minLength=1"`
}

type writeFileArgs struct {
	Path    string `json:"path" jsonschema:"description=The path to the file to create or overwrite,minLength=1"`
	Content string `json:"content" jsonschema:"description=The content to write to the file"`
}

func (tb *Toolbox) readFile(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	a, err := decodeArgs[readFileArgs](args)
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

	content, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to read file", err)
	}
	if !isTextContent(content) {
		return nil, apperrors.New(apperrors.CodeValidation, "File appears to be binary; read_file supports text only")
	}

	return map[string]interface{}{
		"content": string(content),
		"path":    a.Path,
		"size":    info.Size(),
	}, nil
}

func (tb *Toolbox) writeFile(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	a, err := decodeArgs[writeFileArgs](args)
	if err != nil {
		return nil, err
	}
	if err := paths.ValidatePathString(a.Path, maxPathLength); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid path", err)
	}
	if int64(len(a.Content)) > tb.Limits.MaxFileSizeBytes {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Content exceeds maximum size of %d bytes", tb.Limits.MaxFileSizeBytes)
	}

	payload := map[string]interface{}{}
	parent := filepath.Dir(a.Path)
	if _, err := os.Stat(parent); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to write file", err)
		}
		payload["createdDirectories"] = parent
	}

	mode := fs.FileMode(0o644)
	existed := false
	if info, err := os.Stat(a.Path); err == nil {
		if info.IsDir() {
			return nil, apperrors.Newf(apperrors.CodeValidation, "Path is a directory: %s", a.Path)
		}
		existed = true
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(a.Path, []byte(a.Content), mode); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to write file", err)
	}

	action := "created"
	if existed {
		action = "overwritten"
	}
	payload["path"] = a.Path
	payload["bytesWritten"] = len(a.Content)
	payload["action"] = action
	return payload, nil
}

// isTextContent accepts UTF-8 data without NUL bytes and with few control characters.
func isTextContent(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if !utf8.Valid(data) {
		return false
	}

	const sampleSize = 8192
	limit := min(len(data), sampleSize)

	var nonPrintable int
	for _, b := range data[:limit] {
		switch b {
		case '\n', '\r', '\t':
			continue
		}
		if b == 0 {
			return false
		}
		if b < 0x20 || b == 0x7f {
			nonPrintable++
		}
	}
	return nonPrintable*20 < limit
}

func ensureContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeInterrupted, "Execution interrupted", err)
	}
	return nil
}
