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
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	apperrors "toolbelt/internal/errors"
)

func newTestToolbox() *Toolbox {
	return NewToolbox(DefaultOptions(), zerolog.Nop())
}

func newTestRegistry() *Registry {
	return NewRegistry(newTestToolbox())
}

func decodeEnvelope(t *testing.T, result *ToolResult) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(result.Result), &out); err != nil {
		t.Fatalf("result is not a JSON envelope: %v (%s)", err, result.Result)
	}
	return out
}

func requireSuccess(t *testing.T, result *ToolResult) map[string]interface{} {
	t.Helper()
	env := decodeEnvelope(t, result)
	if env["success"] != true || result.Error != nil {
		t.Fatalf("expected success, got %s (err=%v)", result.Result, result.Error)
	}
	return env
}

func requireFailure(t *testing.T, result *ToolResult, message string) map[string]interface{} {
	t.Helper()
	env := decodeEnvelope(t, result)
	if env["success"] != false || result.Error == nil {
		t.Fatalf("expected failure, got %s", result.Result)
	}
	if message != "" && env["error"] != message {
		t.Fatalf("expected error %q, got %q", message, env["error"])
	}
	return env
}

func TestRegistryListsBuiltInTools(t *testing.T) {
	registry := newTestRegistry()
	expected := []string{
		"create_directory",
		"edit_file",
		"execute_bash",
		"execute_powershell",
		"fetch_webpage",
		"list_directory",
		"read_file",
		"search_files",
		"search_pattern",
		"write_file",
	}
	if got := registry.GetToolNames(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected tool names: %v", got)
	}
}

func TestRegisterToolRejectsDuplicates(t *testing.T) {
	registry := newTestRegistry()
	err := registry.RegisterTool(&ToolDefinition{NameValue: "read_file"})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.RegisterTool(&ToolDefinition{NameValue: "  "}); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
}

func TestToolParametersExposeArguments(t *testing.T) {
	registry := newTestRegistry()
	expected := map[string][]string{
		"execute_bash":       {"command", "workingDirectory", "timeoutSeconds"},
		"execute_powershell": {"command", "workingDirectory", "timeoutSeconds"},
		"read_file":          {"path"},
		"write_file":         {"path", "content"},
		"edit_file":          {"path", "oldText", "newText"},
		"list_directory":     {"path", "recursive", "showHidden"},
		"create_directory":   {"path"},
		"search_files":       {"directory", "pattern", "maxResults"},
		"search_pattern":     {"directory", "pattern", "fileExtension", "useRegex", "contextLines", "maxResults"},
		"fetch_webpage":      {"url", "timeoutMs"},
	}

	for name, keys := range expected {
		t.Run(name, func(t *testing.T) {
			tool, ok := registry.GetTool(name)
			if !ok {
				t.Fatalf("tool %s not registered", name)
			}
			params := tool.Parameters()
			if params["type"] != "object" {
				t.Fatalf("expected object schema, got %v", params["type"])
			}
			props, ok := params["properties"].(map[string]interface{})
			if !ok {
				t.Fatalf("expected properties map, got %T", params["properties"])
			}
			for _, key := range keys {
				if _, ok := props[key]; !ok {
					t.Errorf("missing property %q in %v", key, props)
				}
			}
		})
	}
}

func TestOpenAITools(t *testing.T) {
	registry := newTestRegistry()
	defs := registry.OpenAITools()
	if len(defs) != len(registry.GetToolNames()) {
		t.Fatalf("expected %d definitions, got %d", len(registry.GetToolNames()), len(defs))
	}
	for _, def := range defs {
		if def.Type != openai.ToolTypeFunction || def.Function == nil || def.Function.Name == "" {
			t.Fatalf("malformed definition: %+v", def)
		}
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	registry := newTestRegistry()
	result := registry.Execute(context.Background(), "does_not_exist", nil)
	env := requireFailure(t, result, "")
	if !strings.HasPrefix(env["error"].(string), "Unknown tool: does_not_exist") {
		t.Fatalf("unexpected error: %v", env["error"])
	}
	if result.InvocationID == "" {
		t.Fatal("expected an invocation id")
	}
}

func TestExecuteJSONInvalidArgs(t *testing.T) {
	registry := newTestRegistry()
	result := registry.ExecuteJSON(context.Background(), "read_file", `{"path": `)
	env := requireFailure(t, result, "")
	if !strings.HasPrefix(env["error"].(string), "Invalid tool arguments") {
		t.Fatalf("unexpected error: %v", env["error"])
	}
}

func TestExecuteValidationFailure(t *testing.T) {
	registry := newTestRegistry()
	result := registry.Execute(context.Background(), "read_file", map[string]interface{}{"path": 42})
	requireFailure(t, result, msgMissingPath)
}

func TestExecuteRecoversFromPanics(t *testing.T) {
	registry := newRegistry(zerolog.Nop())
	if err := registry.RegisterTool(&ToolDefinition{
		NameValue: "explode",
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			panic("boom")
		},
	}); err != nil {
		t.Fatal(err)
	}
	result := registry.Execute(context.Background(), "explode", nil)
	requireFailure(t, result, "Unexpected error: boom")
}

func TestExecuteSerializationFailure(t *testing.T) {
	registry := newRegistry(zerolog.Nop())
	if err := registry.RegisterTool(&ToolDefinition{
		NameValue: "unencodable",
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"ch": make(chan int)}, nil
		},
	}); err != nil {
		t.Fatal(err)
	}
	result := registry.Execute(context.Background(), "unencodable", nil)
	if result.Result != `{"success": false, "error": "Failed to serialize result"}` {
		t.Fatalf("expected serialization literal, got %s", result.Result)
	}
	if result.Success || !apperrors.HasCode(result.Error, apperrors.CodeSerialization) {
		t.Fatalf("expected serialization failure, got success=%v err=%v", result.Success, result.Error)
	}
}

func TestExecuteOpenAIToolCall(t *testing.T) {
	registry := newTestRegistry()
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "example.txt"), []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	args, _ := json.Marshal(map[string]string{"path": tempDir})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "list_directory",
			Arguments: string(args),
		},
	}

	env := requireSuccess(t, registry.ExecuteOpenAIToolCall(context.Background(), call))
	if env["count"] != float64(1) {
		t.Fatalf("expected one entry, got %v", env["count"])
	}
}

func TestExecuteOpenAIToolCallMissingName(t *testing.T) {
	registry := newTestRegistry()
	result := registry.ExecuteOpenAIToolCall(context.Background(), openai.ToolCall{})
	requireFailure(t, result, "Tool call missing function name")
	if result.Function != "unknown_tool" {
		t.Fatalf("unexpected function name %q", result.Function)
	}
}

func TestValidateToolCall(t *testing.T) {
	registry := newTestRegistry()
	if err := registry.ValidateToolCall("read_file", `{"path":"x"}`); err != nil {
		t.Fatalf("expected valid call, got %v", err)
	}
	if err := registry.ValidateToolCall("nope", `{}`); err == nil || !strings.Contains(err.Error(), ErrToolNotFound.Error()) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := registry.ValidateToolCall("execute_bash", `{"command":"rm -rf x"}`); err == nil {
		t.Fatal("expected denylisted command to fail validation")
	}
}
