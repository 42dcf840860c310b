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

	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/paths"
	"toolbelt/internal/search"
)

type searchFilesArgs struct {
	Directory  string `json:"directory" jsonschema:"description=The base directory to search in,minLength=1"`
	Pattern    string `json:"pattern" jsonschema:"description=Glob matched against file names (e.g. '*.go'),minLength=1"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"description=Maximum number of files to return (default: 100)"`
}

type searchPatternArgs struct {
	Directory     string `json:"directory" jsonschema:"description=The base directory to search in,minLength=1"`
	Pattern       string `json:"pattern" jsonschema:"description=The pattern to search for in file contents"`
	FileExtension string `json:"fileExtension,omitempty" jsonschema:"description=Optional file extension filter (e.g. '.java' or '.txt')"`
	UseRegex      bool   `json:"useRegex,omitempty" jsonschema:"description=Whether to use regex for pattern matching"`
	ContextLines  int    `json:"contextLines,omitempty" jsonschema:"description=Number of context lines to include before/after matches"`
	MaxResults    int    `json:"maxResults,omitempty" jsonschema:"description=Maximum number of results to return (default: 100)"`
}

func (tb *Toolbox) searchPattern(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	a, err := decodeArgs[searchPatternArgs](args)
	if err != nil {
		return nil, err
	}
	maxResults := a.MaxResults
	if maxResults <= 0 {
		maxResults = tb.SearchMaxResults
	}

	summary, err := tb.Search.Search(ctx, search.Request{
		Directory:     a.Directory,
		Pattern:       a.Pattern,
		FileExtension: a.FileExtension,
		UseRegex:      a.UseRegex,
		ContextLines:  a.ContextLines,
		MaxResults:    maxResults,
	})
	if err != nil {
		return nil, err
	}
	return summary.Payload(), nil
}

// searchFiles walks directory in lexical order collecting paths whose base
// name matches the glob, up to maxResults.
func (tb *Toolbox) searchFiles(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	a, err := decodeArgs[searchFilesArgs](args)
	if err != nil {
		return nil, err
	}
	maxResults := a.MaxResults
	if maxResults <= 0 {
		maxResults = tb.SearchMaxResults
	}
	if _, err := filepath.Match(a.Pattern, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid pattern", err)
	}
	if info, err := os.Stat(a.Directory); err != nil || !info.IsDir() {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "Directory does not exist or is not a directory: %s", a.Directory)
	}

	matches := []string{}
	limitReached := false
	err = paths.WalkDir(a.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == a.Directory {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == a.Directory {
			return nil
		}
		if ok, _ := filepath.Match(a.Pattern, d.Name()); !ok {
			return nil
		}
		if len(matches) >= maxResults {
			limitReached = true
			return fs.SkipAll
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.CodeInterrupted, "Execution interrupted", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeIO, "IO error", err)
	}

	return map[string]interface{}{
		"matches":      matches,
		"count":        len(matches),
		"limitReached": limitReached,
	}, nil
}
