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

// Package search implements a recursive, case-insensitive line search over a
// directory tree with per-match context windows and a global result cap.
package search

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/paths"
)

const (
	DefaultMaxResults = 100
	// MaxSamplesPerFile bounds how many rendered matches a group shows.
	MaxSamplesPerFile = 5
)

// Request describes one search. Zero values take the documented defaults.
type Request struct {
	Directory     string
	Pattern       string
	FileExtension string
	UseRegex      bool
	ContextLines  int
	MaxResults    int
}

// Match is one matching line, already rendered.
type Match struct {
	File       string
	LineNumber int
	Rendered   string
}

// Group holds every match found in a single file.
type Group struct {
	File    string
	Matches []Match
}

// Summary is the aggregate result of a search.
type Summary struct {
	TotalMatches     int
	FilesWithMatches int
	LimitReached     bool
	Groups           []Group
}

// Engine searches files on the local filesystem. Files larger than
// MaxFileSizeBytes are skipped when the limit is positive.
type Engine struct {
	MaxFileSizeBytes int64
	Logger           zerolog.Logger
}

// NewEngine returns an engine with logging disabled.
func NewEngine(maxFileSize int64) *Engine {
	return &Engine{MaxFileSizeBytes: maxFileSize, Logger: zerolog.Nop()}
}

func (r Request) normalized() Request {
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.ContextLines < 0 {
		r.ContextLines = 0
	}
	return r
}

// Compile builds the case-insensitive matcher for a pattern. Literal patterns
// are escaped first.
func Compile(pattern string, useRegex bool) (*regexp.Regexp, error) {
	if !useRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid pattern", err)
	}
	return re, nil
}

// Search walks req.Directory in lexical order and collects matches until the
// tree is exhausted or MaxResults matches were found.
func (e *Engine) Search(ctx context.Context, req Request) (Summary, error) {
	req = req.normalized()
	var summary Summary

	info, err := os.Stat(req.Directory)
	if err != nil || !info.IsDir() {
		return summary, apperrors.Newf(apperrors.CodeNotFound,
			"Directory does not exist or is not a directory: %s", req.Directory)
	}

	re, err := Compile(req.Pattern, req.UseRegex)
	if err != nil {
		return summary, err
	}

	walkErr := paths.WalkDir(req.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == req.Directory {
				return err
			}
			e.Logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !isRegularFile(path, d) {
			return nil
		}
		if req.FileExtension != "" && !strings.HasSuffix(d.Name(), req.FileExtension) {
			return nil
		}

		lines, ok := e.readLines(path)
		if !ok {
			return nil
		}
		group := scanFile(path, lines, re, req, &summary.TotalMatches)
		if len(group.Matches) > 0 {
			summary.Groups = append(summary.Groups, group)
			summary.FilesWithMatches++
		}
		if summary.TotalMatches >= req.MaxResults {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		if stderrors.Is(walkErr, context.Canceled) || stderrors.Is(walkErr, context.DeadlineExceeded) {
			return summary, apperrors.Wrap(apperrors.CodeInterrupted, "Search interrupted", walkErr)
		}
		return summary, apperrors.Wrap(apperrors.CodeIO, "IO error", walkErr)
	}

	summary.LimitReached = summary.TotalMatches >= req.MaxResults
	e.Logger.Debug().
		Int("matches", summary.TotalMatches).
		Int("files", summary.FilesWithMatches).
		Bool("limit_reached", summary.LimitReached).
		Msg("search finished")
	return summary, nil
}

// scanFile matches every line of a file, stopping as soon as the global total
// reaches the cap.
func scanFile(path string, lines []string, re *regexp.Regexp, req Request, total *int) Group {
	group := Group{File: path}
	base := filepath.Base(path)
	for i, line := range lines {
		if *total >= req.MaxResults {
			break
		}
		if !re.MatchString(line) {
			continue
		}
		*total++
		group.Matches = append(group.Matches, Match{
			File:       path,
			LineNumber: i + 1,
			Rendered:   RenderMatch(base, lines, i, req.ContextLines),
		})
	}
	return group
}

// readLines loads a text file. Unreadable, oversized and non-UTF-8 files
// report false.
func (e *Engine) readLines(path string) ([]string, bool) {
	if e.MaxFileSizeBytes > 0 {
		info, err := os.Stat(path)
		if err != nil || info.Size() > e.MaxFileSizeBytes {
			return nil, false
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		e.Logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
		return nil, false
	}
	if !utf8.Valid(content) {
		return nil, false
	}
	return SplitLines(string(content)), true
}

// SplitLines splits text on "\r\n", "\n" or a lone "\r". A terminator at the
// very end does not start an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = lineBreaks.Replace(text)
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
