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

// Package envelope renders the uniform success/error payload every tool returns.
package envelope

import "encoding/json"

const (
	KeySuccess = "success"
	KeyError   = "error"
)

// SerializationFailure is returned verbatim whenever a payload cannot be encoded.
const SerializationFailure = `{"success": false, "error": "Failed to serialize result"}`

// OK marks payload as successful and serializes it. The payload map is extended in place.
func OK(payload map[string]interface{}) string {
	if payload == nil {
		payload = make(map[string]interface{}, 1)
	}
	payload[KeySuccess] = true
	return serialize(payload)
}

// Fail renders an error-only envelope.
func Fail(message string) string {
	return serialize(map[string]interface{}{
		KeySuccess: false,
		KeyError:   message,
	})
}

// FailWith renders a failure that still carries tool output, e.g. the partial
// output of a command that exited non-zero.
func FailWith(message string, payload map[string]interface{}) string {
	result := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		result[k] = v
	}
	result[KeySuccess] = false
	result[KeyError] = message
	return serialize(result)
}

func serialize(payload map[string]interface{}) (out string) {
	defer func() {
		// json.Marshal can panic on exotic Marshaler implementations.
		if r := recover(); r != nil {
			out = SerializationFailure
		}
	}()
	data, err := json.Marshal(payload)
	if err != nil {
		return SerializationFailure
	}
	return string(data)
}
