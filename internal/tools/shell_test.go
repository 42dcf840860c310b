//go:build !windows

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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"toolbelt/internal/process"
)

func TestExecuteBash(t *testing.T) {
	registry := newTestRegistry()
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     map[string]interface{}
		exitCode float64
		output   string
	}{
		{name: "echo", args: map[string]interface{}{"command": "echo hello"}, exitCode: 0, output: "hello"},
		{name: "non-zero exit is success", args: map[string]interface{}{"command": "echo partial; exit 3"}, exitCode: 3, output: "partial"},
		{name: "working directory", args: map[string]interface{}{"command": "pwd", "workingDirectory": dir}, exitCode: 0, output: dir},
		{name: "ansi stripped", args: map[string]interface{}{"command": `printf '\033[31mred\033[0m'`}, exitCode: 0, output: "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := requireSuccess(t, registry.Execute(context.Background(), "execute_bash", tt.args))
			if env["exitCode"] != tt.exitCode {
				t.Fatalf("expected exit code %v, got %v", tt.exitCode, env["exitCode"])
			}
			output := env["output"].(string)
			if tt.name == "working directory" {
				resolved, _ := filepath.EvalSymlinks(dir)
				if output != dir && output != resolved {
					t.Fatalf("expected %q, got %q", dir, output)
				}
				return
			}
			if output != tt.output {
				t.Fatalf("expected output %q, got %q", tt.output, output)
			}
			if env["command"] != tt.args["command"] {
				t.Fatalf("expected command echoed back, got %v", env["command"])
			}
		})
	}
}

func TestExecuteBashRejectsDenylistedCommandsWithoutSpawning(t *testing.T) {
	registry := newTestRegistry()
	dir := t.TempDir()
	target := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, command := range []string{"rm " + target, "  rm -f " + target, "mv " + target + " " + target + ".bak", "", "   "} {
		result := registry.Execute(context.Background(), "execute_bash", map[string]interface{}{"command": command})
		requireFailure(t, result, "Invalid or disallowed command.")
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("denylisted command must not run: %v", err)
	}
}

func TestExecuteBashMissingCommand(t *testing.T) {
	registry := newTestRegistry()
	result := registry.Execute(context.Background(), "execute_bash", map[string]interface{}{})
	requireFailure(t, result, "Invalid or disallowed command.")
}

func TestExecuteBashTimeout(t *testing.T) {
	registry := newTestRegistry()
	start := time.Now()
	result := registry.Execute(context.Background(), "execute_bash", map[string]interface{}{
		"command":        "sleep 5",
		"timeoutSeconds": 1,
	})
	requireFailure(t, result, "Command execution timed out.")
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestExecuteBashOutputTruncation(t *testing.T) {
	tb := newTestToolbox()
	tb.Output.MaxChars = 5
	registry := NewRegistry(tb)

	env := requireSuccess(t, registry.Execute(context.Background(), "execute_bash", map[string]interface{}{"command": "echo 0123456789"}))
	if env["output"] != "01234" || env["truncated"] != true {
		t.Fatalf("expected truncated output, got %v", env)
	}
}

// fakePowerShell runs commands through bash so the PowerShell policy can be
// exercised on hosts without PowerShell.
func fakePowerShell(tb *Toolbox) {
	tb.PowerShell = process.NewRunner(process.Interpreter{Name: "powershell", Path: "/bin/bash", Args: []string{"-c"}}, 0)
}

func TestExecutePowerShellNonZeroExitKeepsOutput(t *testing.T) {
	tb := newTestToolbox()
	fakePowerShell(tb)
	registry := NewRegistry(tb)

	env := requireFailure(t, registry.Execute(context.Background(), "execute_powershell", map[string]interface{}{
		"command": "echo partial; exit 2",
	}), "Command failed with exit code 2")
	if env["output"] != "partial" || env["command"] != "echo partial; exit 2" {
		t.Fatalf("expected command and output in failure, got %v", env)
	}
}

func TestExecutePowerShellSuccess(t *testing.T) {
	tb := newTestToolbox()
	fakePowerShell(tb)
	registry := NewRegistry(tb)

	env := requireSuccess(t, registry.Execute(context.Background(), "execute_powershell", map[string]interface{}{"command": "echo ok"}))
	if env["output"] != "ok" {
		t.Fatalf("unexpected output: %v", env["output"])
	}
	if _, ok := env["exitCode"]; ok {
		t.Fatal("powershell payload carries no exitCode")
	}
}

func TestExecutePowerShellDenylistIsCaseInsensitive(t *testing.T) {
	tb := newTestToolbox()
	fakePowerShell(tb)
	registry := NewRegistry(tb)

	for _, command := range []string{"Remove-Item x", "remove-item x", "STOP-PROCESS -Id 1", "ri x"} {
		requireFailure(t, registry.Execute(context.Background(), "execute_powershell", map[string]interface{}{"command": command}),
			"Invalid or disallowed command.")
	}
}

func TestExecutePowerShellNotInstalled(t *testing.T) {
	tb := newTestToolbox()
	tb.PowerShell = process.NewRunner(process.Interpreter{Name: "powershell", Path: "toolbelt-missing-powershell.exe"}, 0)
	registry := NewRegistry(tb)

	env := requireFailure(t, registry.Execute(context.Background(), "execute_powershell", map[string]interface{}{"command": "Get-Date"}), "")
	msg := env["error"].(string)
	if !strings.HasPrefix(msg, "IO error: 'toolbelt-missing-powershell.exe' not found.") ||
		!strings.HasSuffix(msg, "Ensure PowerShell is installed and in the system's PATH.") {
		t.Fatalf("unexpected error: %q", msg)
	}
}
