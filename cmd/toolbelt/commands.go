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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"toolbelt/internal/theme"
	"toolbelt/internal/tools"
)

// Command represents a slash command
type Command struct {
	Name        string
	Usage       string
	Description string
}

// getAvailableCommands returns the list of all slash commands
func getAvailableCommands() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands"},
		{Name: "tools", Description: "List available tools"},
		{Name: "schema", Usage: "<tool>", Description: "Show the parameter schema of a tool"},
		{Name: "call", Usage: "<tool> [json]", Description: "Invoke a tool with JSON arguments"},
		{Name: "quit", Description: "Exit the application"},
		{Name: "exit", Description: "Exit the application"},
	}
}

type shell struct {
	registry *tools.Registry
	colors   *theme.ColorScheme
	out      io.Writer
	logger   zerolog.Logger
	active   activeTool
}

// activeTool tracks the tool call in flight so Ctrl+C can cancel it.
type activeTool struct {
	mu     sync.Mutex
	name   string
	cancel context.CancelFunc
}

// begin derives the call context and registers it. The returned func must be
// called once the tool returns.
func (a *activeTool) begin(ctx context.Context, name string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.name, a.cancel = name, cancel
	a.mu.Unlock()
	return ctx, func() {
		a.mu.Lock()
		a.name, a.cancel = "", nil
		a.mu.Unlock()
		cancel()
	}
}

// interrupt cancels the running tool and reports its name.
func (a *activeTool) interrupt() (string, bool) {
	a.mu.Lock()
	name, cancel := a.name, a.cancel
	a.mu.Unlock()
	if cancel == nil {
		return "", false
	}
	cancel()
	return name, true
}

// handleLine runs a slash command or a "<tool> <json>" request. It returns
// true when the session should end.
func (s *shell) handleLine(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, "/") {
		s.callTool(ctx, line)
		return false
	}

	cmdName, rest, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	cmdName = strings.ToLower(strings.TrimSpace(cmdName))
	rest = strings.TrimSpace(rest)
	s.logger.Debug().Str("command", cmdName).Msg("Executing command")

	switch cmdName {
	case "help":
		s.showHelp()
	case "tools":
		s.showTools()
	case "schema":
		s.showSchema(rest)
	case "call":
		if rest == "" {
			s.colors.Error.Fprintln(s.out, "✗ Usage: /call <tool> [json]")
			return false
		}
		s.callTool(ctx, rest)
	case "quit", "exit":
		return true
	default:
		s.colors.Error.Fprintf(s.out, "✗ Unknown command: /%s (type /help for available commands)\n", cmdName)
	}
	return false
}

func (s *shell) showHelp() {
	s.colors.Header.Fprintln(s.out, "\nAvailable Commands:")
	for _, cmd := range getAvailableCommands() {
		usage := "/" + cmd.Name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}
		fmt.Fprintf(s.out, "  %-22s - %s\n", usage, cmd.Description)
	}
	fmt.Fprintln(s.out, "\nA line without a leading slash is read as <tool> [json].")
	fmt.Fprintln(s.out, "\nKeyboard Shortcuts:")
	fmt.Fprintln(s.out, "  Ctrl+C       - Cancel the running tool")
	fmt.Fprintln(s.out, "  Tab          - Auto-complete commands and tool names")
	fmt.Fprintln(s.out)
}

func (s *shell) showTools() {
	s.colors.Header.Fprintln(s.out, "\nTools:")
	w := tabwriter.NewWriter(s.out, 0, 8, 2, ' ', 0)
	for _, name := range s.registry.GetToolNames() {
		tool, _ := s.registry.GetTool(name)
		summary, _, _ := strings.Cut(tool.Description(), "\n")
		fmt.Fprintf(w, "  %s\t%s\n", s.colors.Tool.Sprint(name), summary)
	}
	_ = w.Flush()
	fmt.Fprintln(s.out)
}

func (s *shell) showSchema(name string) {
	if name == "" {
		s.colors.Error.Fprintln(s.out, "✗ Usage: /schema <tool>")
		return
	}
	tool, ok := s.registry.GetTool(name)
	if !ok {
		s.colors.Error.Fprintf(s.out, "✗ Unknown tool: %s\n", name)
		return
	}
	data, err := json.MarshalIndent(tool.Parameters(), "", "  ")
	if err != nil {
		s.colors.Error.Fprintf(s.out, "✗ %v\n", err)
		return
	}
	s.colors.Tool.Fprintln(s.out, tool.Name())
	fmt.Fprintln(s.out, tool.Description())
	fmt.Fprintln(s.out, string(data))
}

func (s *shell) callTool(ctx context.Context, line string) {
	name, argsJSON := parseToolRequest(line)
	ctx, done := s.active.begin(ctx, name)
	defer done()
	result := s.registry.ExecuteJSON(ctx, name, argsJSON)

	style := s.colors.Success
	if !result.Success {
		style = s.colors.Error
	}
	style.Fprintln(s.out, prettyEnvelope(result.Result))
	if ctx.Err() != nil {
		s.colors.Hint.Fprintf(s.out, "%s interrupted after %s\n", result.Function, result.Duration.Round(time.Millisecond))
		return
	}
	s.colors.Hint.Fprintf(s.out, "%s in %s\n", result.Function, result.Duration.Round(time.Millisecond))
}

// parseToolRequest splits "<tool> [json]". Missing arguments become "{}".
func parseToolRequest(line string) (string, string) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		rest = "{}"
	}
	return name, rest
}

func prettyEnvelope(envelope string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(envelope), "", "  "); err != nil {
		return envelope
	}
	return buf.String()
}
