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

package envelope

import (
	"encoding/json"
	"math"
	"testing"
)

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("envelope is not valid JSON: %v (%s)", err, s)
	}
	return out
}

func TestOKInjectsSuccess(t *testing.T) {
	payload := map[string]interface{}{"path": "a.txt", "size": 3}
	out := decode(t, OK(payload))

	if out["success"] != true {
		t.Fatalf("expected success=true, got %v", out["success"])
	}
	if out["path"] != "a.txt" {
		t.Fatalf("expected payload keys to be kept, got %v", out)
	}
	if _, ok := out["error"]; ok {
		t.Fatal("success envelope must not carry an error")
	}
	if payload["success"] != true {
		t.Fatal("expected OK to extend the caller's payload")
	}
}

func TestOKNilPayload(t *testing.T) {
	out := decode(t, OK(nil))
	if out["success"] != true || len(out) != 1 {
		t.Fatalf("unexpected envelope: %v", out)
	}
}

func TestFail(t *testing.T) {
	out := decode(t, Fail("Invalid or disallowed command."))
	if out["success"] != false {
		t.Fatalf("expected success=false, got %v", out["success"])
	}
	if out["error"] != "Invalid or disallowed command." {
		t.Fatalf("unexpected error message: %v", out["error"])
	}
	if len(out) != 2 {
		t.Fatalf("failure envelope must only carry success and error, got %v", out)
	}
}

func TestFailWithKeepsPayload(t *testing.T) {
	payload := map[string]interface{}{"command": "exit 3", "output": "partial", "success": true}
	out := decode(t, FailWith("Command failed with exit code 3", payload))
	if out["success"] != false {
		t.Fatalf("payload must not override success, got %v", out["success"])
	}
	if out["output"] != "partial" || out["command"] != "exit 3" {
		t.Fatalf("expected payload keys, got %v", out)
	}
	if payload["success"] != true {
		t.Fatal("FailWith must not mutate the caller's payload")
	}
}

func TestSerializationFailureLiteral(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "nan", payload: map[string]interface{}{"value": math.NaN()}},
		{name: "channel", payload: map[string]interface{}{"value": make(chan int)}},
		{name: "func", payload: map[string]interface{}{"value": func() {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OK(tt.payload); got != SerializationFailure {
				t.Fatalf("expected fixed literal, got %s", got)
			}
		})
	}
}
