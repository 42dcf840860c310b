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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"toolbelt/internal/config"
	"toolbelt/internal/theme"
	"toolbelt/internal/tools"
)

func runTUIMode(cfg *config.Config, registry *tools.Registry, logger zerolog.Logger) {
	logger.Debug().Msg("Running in interactive mode")

	themeManager, err := theme.NewManager(&cfg.Theme)
	if err != nil {
		logger.Warn().Err(err).Msg("Falling back to default theme")
		themeManager, _ = theme.NewManager(nil)
	}
	colors := themeManager.ColorScheme()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "toolbelt❯ ",
		HistoryFile:         cfg.CommandHistoryFile,
		AutoComplete:        getCompleter(registry),
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		FuncFilterInputRune: filterPromptRune,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize readline")
	}
	defer rl.Close()

	shell := &shell{
		registry: registry,
		colors:   colors,
		out:      rl.Stdout(),
		logger:   logger,
	}

	// Ctrl+C while a tool runs cancels it; the child process group does not
	// receive the terminal's SIGINT.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if name, ok := shell.active.interrupt(); ok {
				logger.Info().Str("tool", name).Msg("Tool execution cancelled by user")
			}
		}
	}()

	colors.Header.Fprintln(shell.out, "Toolbelt "+Version)
	colors.Hint.Fprintln(shell.out, "Type /help for commands, /quit to exit")
	fmt.Fprintln(shell.out)

	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineContinue:
			continue
		case readlineExit:
			logger.Info().Msg("Session ended")
			return
		}
		if err != nil {
			logger.Debug().Err(err).Msg("Readline interrupted")
			break
		}

		line = strings.TrimSpace(sanitizeInputLine(line))
		if line == "" {
			continue
		}
		logger.Debug().Str("input", line).Msg("Input received")

		if shell.handleLine(context.Background(), line) {
			break
		}
	}

	logger.Info().Msg("Session ended")
}

// getCompleter builds a readline completer from slash commands and tool names.
func getCompleter(registry *tools.Registry) *readline.PrefixCompleter {
	names := registry.GetToolNames()
	toolItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, len(names))
		for i, name := range names {
			items[i] = readline.PcItem(name)
		}
		return items
	}

	var items []readline.PrefixCompleterInterface
	for _, cmd := range getAvailableCommands() {
		switch cmd.Name {
		case "call", "schema":
			items = append(items, readline.PcItem("/"+cmd.Name, toolItems()...))
		default:
			items = append(items, readline.PcItem("/"+cmd.Name))
		}
	}
	items = append(items, toolItems()...)
	return readline.NewPrefixCompleter(items...)
}
