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
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"toolbelt/internal/envelope"
	apperrors "toolbelt/internal/errors"
)

// ToolResult is the outcome of one invocation. Result always holds a
// serialized envelope, even when Error is set.
type ToolResult struct {
	Function     string
	InvocationID string
	Result       string
	Success      bool
	Error        error
	Duration     time.Duration
}

// Registry maps tool names to tools. It is populated once at construction.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger zerolog.Logger
}

// NewRegistry builds a registry holding every built-in tool bound to tb.
func NewRegistry(tb *Toolbox) *Registry {
	r := newRegistry(tb.Logger)
	registerBuiltInTools(r, tb)
	return r
}

func newRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// RegisterTool adds a tool. Names must be unique.
func (r *Registry) RegisterTool(tool Tool) error {
	if tool == nil || strings.TrimSpace(tool.Name()) == "" {
		return fmt.Errorf("tool must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// GetToolNames returns the registered names in sorted order.
func (r *Registry) GetToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTool looks up a tool by name.
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// OpenAITools exports the registry in the OpenAI function-calling shape.
func (r *Registry) OpenAITools() []openai.Tool {
	names := r.GetToolNames()
	defs := make([]openai.Tool, 0, len(names))
	for _, name := range names {
		tool, _ := r.GetTool(name)
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}

// Execute validates and runs a tool. Every failure, including a panic inside
// the tool, is rendered into the returned envelope.
func (r *Registry) Execute(ctx context.Context, function string, args map[string]interface{}) *ToolResult {
	result := &ToolResult{
		Function:     function,
		InvocationID: uuid.NewString(),
	}
	logger := r.logger.With().
		Str("tool", function).
		Str("invocation_id", result.InvocationID).
		Logger()
	start := time.Now()

	payload, err := r.run(ctx, function, args)
	result.Duration = time.Since(start)
	r.render(result, payload, err)

	event := logger.Info()
	if err != nil {
		event = logger.Warn().Str("code", string(apperrors.CodeOf(err))).Err(err)
	}
	event.Dur("duration", result.Duration).Bool("success", result.Success).Msg("tool invocation")
	return result
}

// ExecuteJSON runs a tool whose arguments are a JSON object.
func (r *Registry) ExecuteJSON(ctx context.Context, function, argsJSON string) *ToolResult {
	args, err := parseToolArgs(argsJSON)
	if err != nil {
		result := &ToolResult{Function: function, InvocationID: uuid.NewString()}
		r.render(result, nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid tool arguments", err))
		return result
	}
	return r.Execute(ctx, function, args)
}

// ExecuteOpenAIToolCall runs a tool call produced by an OpenAI-compatible model.
func (r *Registry) ExecuteOpenAIToolCall(ctx context.Context, call openai.ToolCall) *ToolResult {
	name := call.Function.Name
	if name == "" {
		result := &ToolResult{Function: "unknown_tool", InvocationID: uuid.NewString()}
		r.render(result, nil, apperrors.New(apperrors.CodeValidation, "Tool call missing function name"))
		return result
	}
	return r.ExecuteJSON(ctx, name, call.Function.Arguments)
}

func (r *Registry) run(ctx context.Context, function string, args map[string]interface{}) (payload map[string]interface{}, err error) {
	tool, ok := r.GetTool(function)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound,
			"Unknown tool: %s. Available tools: %s", function, strings.Join(r.GetToolNames(), ", "))
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := tool.Validate(args); err != nil {
		return nil, asValidationError(err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("tool", function).Interface("panic", rec).Msg("tool panicked")
			payload, err = nil, apperrors.Newf(apperrors.CodeToolExecution, "Unexpected error: %v", rec)
		}
	}()
	return tool.Execute(ctx, args)
}

func (r *Registry) render(result *ToolResult, payload map[string]interface{}, err error) {
	if err != nil {
		result.Error = err
		if details := apperrors.DetailsOf(err); details != nil {
			result.Result = envelope.FailWith(err.Error(), details)
		} else {
			result.Result = envelope.Fail(err.Error())
		}
		return
	}
	result.Result = envelope.OK(payload)
	if result.Result == envelope.SerializationFailure {
		result.Error = apperrors.New(apperrors.CodeSerialization, "Failed to serialize result")
		return
	}
	result.Success = true
}

func parseToolArgs(argsJSON string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if strings.TrimSpace(argsJSON) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, err
	}
	return args, nil
}
