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

package config

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SchemaJSON returns the JSON schema for toolbelt.json.
func SchemaJSON() string {
	return configSchemaJSON
}

// ExampleConfigJSON returns a minimal example config derived from the schema.
func ExampleConfigJSON() string {
	return exampleConfigJSON
}

func normalizeConfigJSON(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	migrateLegacyConfig(raw)
	if err := validateConfigMap(raw, ""); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// migrateLegacyConfig accepts the flat "max_results" and "timeout_seconds"
// keys written by early versions.
func migrateLegacyConfig(raw map[string]interface{}) {
	if legacy, ok := raw["timeout_seconds"]; ok {
		if _, set := raw["default_timeout_seconds"]; !set {
			raw["default_timeout_seconds"] = legacy
		}
		delete(raw, "timeout_seconds")
	}
	if legacy, ok := raw["max_results"]; ok {
		section, _ := raw["search"].(map[string]interface{})
		if section == nil {
			section = map[string]interface{}{}
		}
		if _, set := section["max_results"]; !set {
			section["max_results"] = legacy
		}
		raw["search"] = section
		delete(raw, "max_results")
	}
}

func validateConfigMap(raw map[string]interface{}, prefix string) error {
	allowed := map[string]func(interface{}) error{
		"default_timeout_seconds": func(v interface{}) error {
			return validateNumber(v, prefix+"default_timeout_seconds")
		},
		"bash_denylist": func(v interface{}) error {
			return validateStringArray(v, prefix+"bash_denylist")
		},
		"powershell_denylist": func(v interface{}) error {
			return validateStringArray(v, prefix+"powershell_denylist")
		},
		"command_history_file": func(v interface{}) error {
			return validateString(v, prefix+"command_history_file")
		},
		"search": func(v interface{}) error {
			return validateSearch(v, prefix+"search.")
		},
		"tool_limits": func(v interface{}) error {
			return validateToolLimits(v, prefix+"tool_limits.")
		},
		"tool_output_filters": func(v interface{}) error {
			return validateToolOutputFilters(v, prefix+"tool_output_filters.")
		},
		"fetch": func(v interface{}) error {
			return validateFetch(v, prefix+"fetch.")
		},
		"theme": func(v interface{}) error {
			return validateThemeSection(v, prefix+"theme.")
		},
	}
	return validateSection(raw, allowed, prefix)
}

func validateSearch(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%ssearch must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"max_results": func(v interface{}) error { return validateNumber(v, prefix+"max_results") },
	}
	return validateSection(section, allowed, prefix)
}

func validateToolLimits(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%stool_limits must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"max_file_size_bytes":   func(v interface{}) error { return validateNumber(v, prefix+"max_file_size_bytes") },
		"max_directory_depth":   func(v interface{}) error { return validateNumber(v, prefix+"max_directory_depth") },
		"max_directory_entries": func(v interface{}) error { return validateNumber(v, prefix+"max_directory_entries") },
	}
	return validateSection(section, allowed, prefix)
}

func validateToolOutputFilters(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%stool_output_filters must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"max_chars":     func(v interface{}) error { return validateNumber(v, prefix+"max_chars") },
		"strip_ansi":    func(v interface{}) error { return validateBool(v, prefix+"strip_ansi") },
		"strip_control": func(v interface{}) error { return validateBool(v, prefix+"strip_control") },
	}
	return validateSection(section, allowed, prefix)
}

func validateFetch(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%sfetch must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"timeout_ms": func(v interface{}) error { return validateNumber(v, prefix+"timeout_ms") },
		"user_agent": func(v interface{}) error { return validateString(v, prefix+"user_agent") },
		"max_bytes":  func(v interface{}) error { return validateNumber(v, prefix+"max_bytes") },
	}
	return validateSection(section, allowed, prefix)
}

func validateThemeSection(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%stheme must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"header_color":  func(v interface{}) error { return validateString(v, prefix+"header_color") },
		"tool_color":    func(v interface{}) error { return validateString(v, prefix+"tool_color") },
		"success_color": func(v interface{}) error { return validateString(v, prefix+"success_color") },
		"error_color":   func(v interface{}) error { return validateString(v, prefix+"error_color") },
		"hint_color":    func(v interface{}) error { return validateString(v, prefix+"hint_color") },
	}
	return validateSection(section, allowed, prefix)
}

func validateSection(section map[string]interface{}, allowed map[string]func(interface{}) error, prefix string) error {
	keys := make([]string, 0, len(section))
	for key := range section {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		validator, ok := allowed[key]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", prefix+key)
		}
		if err := validator(section[key]); err != nil {
			return err
		}
	}
	return nil
}

func validateString(value interface{}, name string) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("%s must be a string", name)
	}
	return nil
}

func validateNumber(value interface{}, name string) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("%s must be a number", name)
	}
	return nil
}

func validateBool(value interface{}, name string) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("%s must be a boolean", name)
	}
	return nil
}

func validateStringArray(value interface{}, name string) error {
	list, ok := value.([]interface{})
	if !ok {
		return fmt.Errorf("%s must be an array of strings", name)
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return fmt.Errorf("%s must be an array of strings", name)
		}
	}
	return nil
}

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Toolbelt Config",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "default_timeout_seconds": { "type": "number" },
    "bash_denylist": { "type": "array", "items": { "type": "string" } },
    "powershell_denylist": { "type": "array", "items": { "type": "string" } },
    "command_history_file": { "type": "string" },
    "search": {
      "type": "object",
      "properties": {
        "max_results": { "type": "number" }
      }
    },
    "tool_limits": {
      "type": "object",
      "properties": {
        "max_file_size_bytes": { "type": "number" },
        "max_directory_depth": { "type": "number" },
        "max_directory_entries": { "type": "number" }
      }
    },
    "tool_output_filters": {
      "type": "object",
      "properties": {
        "max_chars": { "type": "number" },
        "strip_ansi": { "type": "boolean" },
        "strip_control": { "type": "boolean" }
      }
    },
    "fetch": {
      "type": "object",
      "properties": {
        "timeout_ms": { "type": "number" },
        "user_agent": { "type": "string" },
        "max_bytes": { "type": "number" }
      }
    },
    "theme": {
      "type": "object",
      "properties": {
        "header_color": { "type": "string" },
        "tool_color": { "type": "string" },
        "success_color": { "type": "string" },
        "error_color": { "type": "string" },
        "hint_color": { "type": "string" }
      }
    }
  }
}`

const exampleConfigJSON = `{
  "default_timeout_seconds": 30,
  "bash_denylist": ["rm", "rmdir", "mv", "del", "erase", "dd", "mkfs", "format"],
  "search": { "max_results": 100 },
  "tool_limits": {
    "max_file_size_bytes": 10485760,
    "max_directory_depth": 8,
    "max_directory_entries": 2000
  },
  "tool_output_filters": { "max_chars": 65536, "strip_ansi": true, "strip_control": true },
  "fetch": { "timeout_ms": 10000 }
}`
