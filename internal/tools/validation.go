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
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "toolbelt/internal/errors"
)

// ValidationRule checks tool arguments and returns an error if invalid.
type ValidationRule func(args map[string]interface{}) error

// ValidateToolCall checks a call without running it. It returns nil when the
// tool exists and accepts the arguments.
func (r *Registry) ValidateToolCall(name, argsJSON string) error {
	tool, ok := r.GetTool(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	args, err := parseToolArgs(argsJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := tool.Validate(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// ChainValidation runs rules in order until the first error.
func ChainValidation(rules ...ValidationRule) ValidationRule {
	return func(args map[string]interface{}) error {
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if err := rule(args); err != nil {
				return err
			}
		}
		return nil
	}
}

// RequireStringArg ensures a string argument is present and non-blank.
func RequireStringArg(key, message string) ValidationRule {
	return func(args map[string]interface{}) error {
		str, ok := args[key].(string)
		if !ok || strings.TrimSpace(str) == "" {
			return apperrors.New(apperrors.CodeValidation, message)
		}
		return nil
	}
}

// RequirePresentStringArg ensures a string argument is present; it may be empty.
func RequirePresentStringArg(key, message string) ValidationRule {
	return func(args map[string]interface{}) error {
		if _, ok := args[key].(string); !ok {
			return apperrors.New(apperrors.CodeValidation, message)
		}
		return nil
	}
}

// OptionalStringArg accepts a missing, null or string argument.
func OptionalStringArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return nil
		}
		if _, ok := value.(string); !ok {
			return apperrors.Newf(apperrors.CodeValidation, "Invalid '%s' parameter: expected a string", key)
		}
		return nil
	}
}

// OptionalIntArg accepts a missing, null or integral numeric argument.
func OptionalIntArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return nil
		}
		switch v := value.(type) {
		case int, int32, int64:
			return nil
		case float64:
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				return nil
			}
		case json.Number:
			if _, err := v.Int64(); err == nil {
				return nil
			}
		}
		return apperrors.Newf(apperrors.CodeValidation, "Invalid '%s' parameter: expected an integer", key)
	}
}

// OptionalBoolArg accepts a missing, null or boolean argument.
func OptionalBoolArg(key string) ValidationRule {
	return func(args map[string]interface{}) error {
		value, ok := args[key]
		if !ok || value == nil {
			return nil
		}
		if _, ok := value.(bool); !ok {
			return apperrors.Newf(apperrors.CodeValidation, "Invalid '%s' parameter: expected a boolean", key)
		}
		return nil
	}
}

// decodeArgs maps validated arguments onto the tool's argument struct.
func decodeArgs[T any](args map[string]interface{}) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, apperrors.Wrap(apperrors.CodeValidation, "Invalid tool arguments", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperrors.Wrap(apperrors.CodeValidation, "Invalid tool arguments", err)
	}
	return out, nil
}

func asValidationError(err error) error {
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.Wrap(apperrors.CodeValidation, "Invalid tool arguments", err)
}
