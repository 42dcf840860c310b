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

// Command toolbelt-server serves the toolbelt tools over MCP on stdio.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"toolbelt/internal/config"
	"toolbelt/internal/mcpserver"
	"toolbelt/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	debugMode  = flag.Bool("d", false, "Enable debug logging (to stderr unless -log-file is set)")
	logFile    = flag.String("log-file", "", "Log file path")
	configFile = flag.String("config", "", "Config file (default: toolbelt.json/.toml/.yaml in the current directory)")
)

func main() {
	flag.Parse()

	logger, closer, err := initLogger(*debugMode, *logFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	if err := run(*configFile, logger); err != nil {
		logger.Error().Err(err).Msg("Server stopped")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, logger zerolog.Logger) error {
	srv, err := newServer(configPath, logger)
	if err != nil {
		return err
	}
	return srv.ServeStdio()
}

func newServer(configPath string, logger zerolog.Logger) (*mcpserver.Server, error) {
	if configPath == "" {
		configPath = config.FindConfigFile(".")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, w := range cfg.Validate() {
		logger.Warn().Str("field", w.Field).Msg(w.Message)
	}

	registry := tools.NewRegistry(tools.NewToolbox(cfg.ToolOptions(), logger))
	return mcpserver.New(registry, Version, logger)
}

// initLogger never writes to stdout, which carries the protocol. Logs go to
// the log file when given, to stderr with -d, and nowhere otherwise.
func initLogger(debug bool, logFilePath string, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var output io.Writer = io.Discard
	var closer io.Closer
	switch {
	case logFilePath != "":
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closer = file
	case debug:
		output = zerolog.ConsoleWriter{Out: stderr, NoColor: true}
	}

	return zerolog.New(output).With().Timestamp().Logger(), closer, nil
}
