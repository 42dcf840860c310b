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
	"testing"

	apperrors "toolbelt/internal/errors"
)

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  ValidationRule
		args  map[string]interface{}
		valid bool
	}{
		{name: "string present", rule: RequireStringArg("p", "bad"), args: map[string]interface{}{"p": "x"}, valid: true},
		{name: "string blank", rule: RequireStringArg("p", "bad"), args: map[string]interface{}{"p": "  "}, valid: false},
		{name: "string wrong type", rule: RequireStringArg("p", "bad"), args: map[string]interface{}{"p": 1}, valid: false},
		{name: "present empty ok", rule: RequirePresentStringArg("p", "bad"), args: map[string]interface{}{"p": ""}, valid: true},
		{name: "present missing", rule: RequirePresentStringArg("p", "bad"), args: map[string]interface{}{}, valid: false},
		{name: "int missing", rule: OptionalIntArg("n"), args: map[string]interface{}{}, valid: true},
		{name: "int null", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": nil}, valid: true},
		{name: "int float integral", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": float64(3)}, valid: true},
		{name: "int negative", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": float64(-3)}, valid: true},
		{name: "int fractional", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": 2.5}, valid: false},
		{name: "int json number", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": json.Number("7")}, valid: true},
		{name: "int string", rule: OptionalIntArg("n"), args: map[string]interface{}{"n": "7"}, valid: false},
		{name: "bool ok", rule: OptionalBoolArg("b"), args: map[string]interface{}{"b": true}, valid: true},
		{name: "bool string", rule: OptionalBoolArg("b"), args: map[string]interface{}{"b": "true"}, valid: false},
		{name: "optional string", rule: OptionalStringArg("s"), args: map[string]interface{}{"s": 1}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule(tt.args)
			if (err == nil) != tt.valid {
				t.Fatalf("expected valid=%v, got %v", tt.valid, err)
			}
			if err != nil && !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestChainValidationStopsAtFirstError(t *testing.T) {
	calls := 0
	count := func(map[string]interface{}) error { calls++; return nil }
	rule := ChainValidation(count, RequireStringArg("p", "first"), count)
	err := rule(map[string]interface{}{})
	if err == nil || err.Error() != "first" {
		t.Fatalf("expected first error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected chain to stop, got %d calls", calls)
	}
}
