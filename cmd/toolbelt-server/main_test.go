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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerDestinations(t *testing.T) {
	var stderr bytes.Buffer
	logger, closer, err := initLogger(false, "", &stderr)
	require.NoError(t, err)
	require.Nil(t, closer)
	logger.Info().Msg("discarded")
	require.Zero(t, stderr.Len())

	logger, closer, err = initLogger(true, "", &stderr)
	require.NoError(t, err)
	require.Nil(t, closer)
	logger.Info().Msg("to stderr")
	require.Contains(t, stderr.String(), "to stderr")

	stderr.Reset()
	path := filepath.Join(t.TempDir(), "server.log")
	logger, closer, err = initLogger(true, path, &stderr)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()
	logger.Info().Msg("to file")
	require.Zero(t, stderr.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
}

func TestNewServerRegistersTools(t *testing.T) {
	t.Setenv("TOOLBELT_DEFAULT_TIMEOUT", "")
	t.Setenv("TOOLBELT_MAX_RESULTS", "")
	t.Setenv("TOOLBELT_FETCH_TIMEOUT_MS", "")

	srv, err := newServer(filepath.Join(t.TempDir(), "toolbelt.json"), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, srv.ToolNames(), 10)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolbelt.toml")
	require.NoError(t, os.WriteFile(path, []byte("bogus = true\n"), 0o644))

	_, err := newServer(path, zerolog.Nop())
	require.Error(t, err)
}
