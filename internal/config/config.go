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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"toolbelt/internal/cmdfilter"
	"toolbelt/internal/process"
	"toolbelt/internal/search"
	"toolbelt/internal/theme"
	"toolbelt/internal/tools"
)

// Environment overrides applied after the config file is read.
const (
	EnvDefaultTimeout = "TOOLBELT_DEFAULT_TIMEOUT"
	EnvMaxResults     = "TOOLBELT_MAX_RESULTS"
	EnvFetchTimeoutMs = "TOOLBELT_FETCH_TIMEOUT_MS"
)

// DefaultFileNames are probed in order by FindConfigFile.
var DefaultFileNames = []string{"toolbelt.json", "toolbelt.toml", "toolbelt.yaml", "toolbelt.yml"}

// Config represents the application configuration
type Config struct {
	DefaultTimeoutSeconds int               `json:"default_timeout_seconds,omitempty" toml:"default_timeout_seconds" yaml:"default_timeout_seconds"`
	BashDenylist          []string          `json:"bash_denylist,omitempty" toml:"bash_denylist" yaml:"bash_denylist"`
	PowerShellDenylist    []string          `json:"powershell_denylist,omitempty" toml:"powershell_denylist" yaml:"powershell_denylist"`
	Search                SearchSettings    `json:"search,omitempty" toml:"search" yaml:"search"`
	ToolLimits            ToolLimits        `json:"tool_limits,omitempty" toml:"tool_limits" yaml:"tool_limits"`
	ToolOutputFilters     ToolOutputFilters `json:"tool_output_filters,omitempty" toml:"tool_output_filters" yaml:"tool_output_filters"`
	Fetch                 FetchSettings     `json:"fetch,omitempty" toml:"fetch" yaml:"fetch"`
	CommandHistoryFile    string            `json:"command_history_file,omitempty" toml:"command_history_file" yaml:"command_history_file"`
	Theme                 theme.Theme       `json:"theme,omitempty" toml:"theme" yaml:"theme"`
}

// SearchSettings configures search_pattern and search_files.
type SearchSettings struct {
	MaxResults int `json:"max_results,omitempty" toml:"max_results" yaml:"max_results"`
}

// ToolLimits configures resource limits for tool execution.
type ToolLimits struct {
	MaxFileSizeBytes    int64 `json:"max_file_size_bytes,omitempty" toml:"max_file_size_bytes" yaml:"max_file_size_bytes"`
	MaxDirectoryDepth   int   `json:"max_directory_depth,omitempty" toml:"max_directory_depth" yaml:"max_directory_depth"`
	MaxDirectoryEntries int   `json:"max_directory_entries,omitempty" toml:"max_directory_entries" yaml:"max_directory_entries"`
}

// ToolOutputFilters configures output sanitization for command output.
type ToolOutputFilters struct {
	MaxChars     int  `json:"max_chars,omitempty" toml:"max_chars" yaml:"max_chars"`
	StripANSI    bool `json:"strip_ansi,omitempty" toml:"strip_ansi" yaml:"strip_ansi"`
	StripControl bool `json:"strip_control,omitempty" toml:"strip_control" yaml:"strip_control"`
}

// FetchSettings configures fetch_webpage.
type FetchSettings struct {
	TimeoutMs int    `json:"timeout_ms,omitempty" toml:"timeout_ms" yaml:"timeout_ms"`
	UserAgent string `json:"user_agent,omitempty" toml:"user_agent" yaml:"user_agent"`
	MaxBytes  int64  `json:"max_bytes,omitempty" toml:"max_bytes" yaml:"max_bytes"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	opts := tools.DefaultOptions()
	return &Config{
		DefaultTimeoutSeconds: int(process.DefaultTimeout / time.Second),
		BashDenylist:          append([]string(nil), cmdfilter.BashCommands...),
		PowerShellDenylist:    append([]string(nil), cmdfilter.PowerShellCommands...),
		Search:                SearchSettings{MaxResults: search.DefaultMaxResults},
		ToolLimits: ToolLimits{
			MaxFileSizeBytes:    opts.Limits.MaxFileSizeBytes,
			MaxDirectoryDepth:   opts.Limits.MaxDirectoryDepth,
			MaxDirectoryEntries: opts.Limits.MaxDirectoryEntries,
		},
		ToolOutputFilters: ToolOutputFilters{
			MaxChars:     opts.Output.MaxChars,
			StripANSI:    opts.Output.StripANSI,
			StripControl: opts.Output.StripControl,
		},
		Fetch: FetchSettings{
			TimeoutMs: int(opts.Fetch.Timeout / time.Millisecond),
			UserAgent: opts.Fetch.UserAgent,
			MaxBytes:  opts.Fetch.MaxBytes,
		},
		CommandHistoryFile: ".toolbelt_history",
		Theme:              *theme.DefaultTheme(),
	}
}

// FindConfigFile returns the first of DefaultFileNames present in dir, or
// the JSON name when none exists.
func FindConfigFile(dir string) string {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return filepath.Join(dir, DefaultFileNames[0])
}

// LoadConfig loads configuration from path, picking the decoder from the file
// extension, then applies environment overrides. A missing file yields the
// defaults. Unknown fields are rejected in every format.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := decode(path, data, config); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), config)
		if err != nil {
			return err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown configuration field %q", undecoded[0].String())
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		normalized, err := normalizeConfigJSON(data)
		if err != nil {
			return err
		}
		return json.Unmarshal(normalized, config)
	}
}

func applyEnvOverrides(config *Config) error {
	if val, ok, err := envInt(EnvDefaultTimeout); err != nil {
		return err
	} else if ok {
		config.DefaultTimeoutSeconds = val
	}
	if val, ok, err := envInt(EnvMaxResults); err != nil {
		return err
	} else if ok {
		config.Search.MaxResults = val
	}
	if val, ok, err := envInt(EnvFetchTimeoutMs); err != nil {
		return err
	} else if ok {
		config.Fetch.TimeoutMs = val
	}
	return nil
}

func envInt(name string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return val, true, nil
}

// ToolOptions converts the config into toolbox options.
func (c *Config) ToolOptions() tools.Options {
	opts := tools.Options{
		BashDenylist:       append([]string(nil), c.BashDenylist...),
		PowerShellDenylist: append([]string(nil), c.PowerShellDenylist...),
		SearchMaxResults:   c.Search.MaxResults,
		Limits: tools.Limits{
			MaxFileSizeBytes:    c.ToolLimits.MaxFileSizeBytes,
			MaxDirectoryDepth:   c.ToolLimits.MaxDirectoryDepth,
			MaxDirectoryEntries: c.ToolLimits.MaxDirectoryEntries,
		},
		Output: tools.OutputFilterConfig{
			MaxChars:     c.ToolOutputFilters.MaxChars,
			StripANSI:    c.ToolOutputFilters.StripANSI,
			StripControl: c.ToolOutputFilters.StripControl,
		},
		Fetch: tools.FetchConfig{
			UserAgent: c.Fetch.UserAgent,
			MaxBytes:  c.Fetch.MaxBytes,
		},
	}
	if c.DefaultTimeoutSeconds > 0 {
		opts.DefaultTimeout = time.Duration(c.DefaultTimeoutSeconds) * time.Second
	}
	if c.Fetch.TimeoutMs > 0 {
		opts.Fetch.Timeout = time.Duration(c.Fetch.TimeoutMs) * time.Millisecond
	}
	return opts
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate() []ValidationWarning {
	var warnings []ValidationWarning

	if c.DefaultTimeoutSeconds <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "default_timeout_seconds",
			Message: fmt.Sprintf("default_timeout_seconds %d should be positive, using default", c.DefaultTimeoutSeconds),
		})
	}

	if c.Search.MaxResults <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "search.max_results",
			Message: fmt.Sprintf("search.max_results %d should be positive, using default", c.Search.MaxResults),
		})
	}

	warnings = append(warnings, validateDenylist("bash_denylist", c.BashDenylist)...)
	warnings = append(warnings, validateDenylist("powershell_denylist", c.PowerShellDenylist)...)

	if c.ToolOutputFilters.MaxChars < 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "tool_output_filters.max_chars",
			Message: fmt.Sprintf("tool_output_filters.max_chars %d is negative, output will not be truncated", c.ToolOutputFilters.MaxChars),
		})
	}

	if c.Fetch.TimeoutMs <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "fetch.timeout_ms",
			Message: fmt.Sprintf("fetch.timeout_ms %d should be positive, using default", c.Fetch.TimeoutMs),
		})
	}

	if err := theme.ValidateTheme(&c.Theme); err != nil {
		warnings = append(warnings, ValidationWarning{
			Field:   "theme",
			Message: err.Error(),
		})
	}

	return warnings
}

func validateDenylist(field string, entries []string) []ValidationWarning {
	if len(entries) == 0 {
		return []ValidationWarning{{
			Field:   field,
			Message: fmt.Sprintf("%s is empty, no command will be rejected", field),
		}}
	}
	var warnings []ValidationWarning
	for _, entry := range entries {
		// Only the first token of a command is compared.
		if len(strings.Fields(entry)) > 1 {
			warnings = append(warnings, ValidationWarning{
				Field:   field,
				Message: fmt.Sprintf("entry %q contains whitespace and will never match", entry),
			})
		}
	}
	return warnings
}
