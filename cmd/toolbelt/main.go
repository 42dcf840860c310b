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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"toolbelt/internal/config"
	"toolbelt/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	debugMode  = flag.Bool("d", false, "Enable debug mode")
	logFile    = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configFile = flag.String("config", "", "Config file (default: toolbelt.json/.toml/.yaml in the current directory)")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("toolbelt", Version)
		return
	}

	logger, closer, err := initLogger(*debugMode, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger.Info().Str("version", Version).Msg("Toolbelt starting")

	cfg, registry, err := loadRegistry(*configFile, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load config")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Batch mode with "-" argument or when stdin is not a terminal
	args := flag.Args()
	if (len(args) > 0 && args[0] == "-") || !term.IsTerminal(int(os.Stdin.Fd())) {
		runBatchMode(registry, logger)
		return
	}

	runTUIMode(cfg, registry, logger)
}

func initLogger(debug bool, logFilePath string) (zerolog.Logger, io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var output io.Writer = io.Discard
	var closer io.Closer
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closer = file
	}

	return zerolog.New(output).With().Timestamp().Logger(), closer, nil
}

func loadRegistry(path string, logger zerolog.Logger) (*config.Config, *tools.Registry, error) {
	if path == "" {
		path = config.FindConfigFile(".")
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Validate() {
		logger.Warn().Str("field", w.Field).Msg(w.Message)
	}
	logger.Debug().Str("config", path).Msg("Configuration loaded")

	toolbox := tools.NewToolbox(cfg.ToolOptions(), logger)
	return cfg, tools.NewRegistry(toolbox), nil
}
