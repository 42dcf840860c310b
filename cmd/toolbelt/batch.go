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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"toolbelt/internal/tools"
)

const maxBatchLineBytes = 16 << 20

func runBatchMode(registry *tools.Registry, logger zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runBatch(ctx, os.Stdin, os.Stdout, registry, logger); err != nil {
		logger.Error().Err(err).Msg("Batch mode failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runBatch reads one "<tool> [json]" request per line and writes one result
// envelope per line. Blank lines and lines starting with '#' are skipped.
func runBatch(ctx context.Context, in io.Reader, out io.Writer, registry *tools.Registry, logger zerolog.Logger) error {
	logger.Debug().Msg("Running in batch mode")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLineBytes)

	requests := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name, argsJSON := parseToolRequest(line)
		result := registry.ExecuteJSON(ctx, name, argsJSON)
		requests++
		if _, err := fmt.Fprintln(out, result.Result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	logger.Debug().Int("requests", requests).Msg("Batch finished")
	return nil
}
