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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/u-root/u-root/pkg/core"
	corels "github.com/u-root/u-root/pkg/core/ls"
	coremkdir "github.com/u-root/u-root/pkg/core/mkdir"

	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/paths"
)

type listDirectoryArgs struct {
	Path       string `json:"path,omitempty" jsonschema:"description=Directory path to list (default: current directory)"`
	Recursive  bool   `json:"recursive,omitempty" jsonschema:"description=Whether to list recursively (default: false)"`
	ShowHidden bool   `json:"showHidden,omitempty" jsonschema:"description=Whether to include hidden entries (default: false)"`
}

type createDirectoryArgs struct {
	Path string `json:"path" jsonschema:"description=Directory to create; missing parents are created too,minLength=1"`
}

type dirEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (tb *Toolbox) listDirectory(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	a, err := decodeArgs[listDirectoryArgs](args)
	if err != nil {
		return nil, err
	}
	path := a.Path
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	if err := paths.ValidatePathString(path, maxPathLength); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid path", err)
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "Directory does not exist or is not a directory: %s", path)
	}

	var entries []dirEntry
	if a.Recursive {
		entries, err = tb.walkEntries(ctx, path, a.ShowHidden)
	} else {
		entries, err = tb.readEntries(ctx, path, a.ShowHidden)
	}
	if err != nil {
		return nil, err
	}

	// Entries were bounded above, so the listing cannot run away.
	var lsArgs []string
	if a.ShowHidden {
		lsArgs = append(lsArgs, "-a")
	}
	if a.Recursive {
		lsArgs = append(lsArgs, "-R")
	}
	lsArgs = append(lsArgs, "-l", path)
	listing, err := runCoreCommand(ctx, corels.New(), lsArgs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to list directory", err)
	}

	return map[string]interface{}{
		"path":    path,
		"count":   len(entries),
		"entries": entries,
		"listing": listing,
	}, nil
}

func (tb *Toolbox) readEntries(ctx context.Context, root string, showHidden bool) ([]dirEntry, error) {
	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to read directory", err)
	}
	if len(dirents) > tb.Limits.MaxDirectoryEntries {
		return nil, apperrors.Newf(apperrors.CodeValidation, "Directory contains more than %d entries", tb.Limits.MaxDirectoryEntries)
	}

	entries := make([]dirEntry, 0, len(dirents))
	for _, d := range dirents {
		if err := ensureContext(ctx); err != nil {
			return nil, err
		}
		if !showHidden && isHidden(d.Name()) {
			continue
		}
		entries = append(entries, newDirEntry(d.Name(), d))
	}
	return entries, nil
}

func (tb *Toolbox) walkEntries(ctx context.Context, root string, showHidden bool) ([]dirEntry, error) {
	var entries []dirEntry
	err := paths.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			tb.Logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if path == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !showHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if depth := strings.Count(rel, string(os.PathSeparator)) + 1; depth > tb.Limits.MaxDirectoryDepth {
			return apperrors.Newf(apperrors.CodeValidation, "Directory depth exceeds maximum of %d", tb.Limits.MaxDirectoryDepth)
		}
		if len(entries) >= tb.Limits.MaxDirectoryEntries {
			return apperrors.Newf(apperrors.CodeValidation, "Directory contains more than %d entries", tb.Limits.MaxDirectoryEntries)
		}
		entries = append(entries, newDirEntry(rel, d))
		return nil
	})
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.CodeInterrupted, "Execution interrupted", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to read directory", err)
	}
	return entries, nil
}

func newDirEntry(name string, d fs.DirEntry) dirEntry {
	entry := dirEntry{Name: name, Type: entryType(d.Type())}
	if info, err := d.Info(); err == nil && info.Mode().IsRegular() {
		entry.Size = info.Size()
	}
	return entry
}

func entryType(mode fs.FileMode) string {
	switch {
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode.IsRegular():
		return "file"
	default:
		return "other"
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (tb *Toolbox) createDirectory(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ensureContext(ctx); err != nil {
		return nil, err
	}
	a, err := decodeArgs[createDirectoryArgs](args)
	if err != nil {
		return nil, err
	}
	if err := paths.ValidatePathString(a.Path, maxPathLength); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid path", err)
	}

	if info, err := os.Stat(a.Path); err == nil {
		if !info.IsDir() {
			return nil, apperrors.Newf(apperrors.CodeValidation, "Path exists and is not a directory: %s", a.Path)
		}
		return map[string]interface{}{"path": a.Path, "created": false}, nil
	}

	if _, err := runCoreCommand(ctx, coremkdir.New(), []string{"-p", a.Path}); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, "Failed to create directory", err)
	}
	return map[string]interface{}{"path": a.Path, "created": true}, nil
}

// runCoreCommand runs an in-process u-root command in the current working
// directory and returns its stdout.
func runCoreCommand(ctx context.Context, cmd core.Command, args []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetIO(strings.NewReader(""), &stdout, &stderr)

	workdir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %v", err)
	}
	cmd.SetWorkingDir(workdir)

	if err := cmd.RunContext(ctx, args...); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%v: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
