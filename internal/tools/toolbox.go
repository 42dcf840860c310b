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
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"toolbelt/internal/cmdfilter"
	"toolbelt/internal/process"
	"toolbelt/internal/search"
)

const (
	defaultFetchTimeout   = 10 * time.Second
	defaultFetchMaxBytes  = 5 << 20
	defaultFetchUserAgent = "toolbelt-fetch/1.0"
)

// FetchConfig configures fetch_webpage.
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// Options carries the tunables of a Toolbox, typically loaded from config.
type Options struct {
	DefaultTimeout     time.Duration
	BashDenylist       []string
	PowerShellDenylist []string
	SearchMaxResults   int
	Limits             Limits
	Output             OutputFilterConfig
	Fetch              FetchConfig
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		DefaultTimeout:     process.DefaultTimeout,
		BashDenylist:       append([]string(nil), cmdfilter.BashCommands...),
		PowerShellDenylist: append([]string(nil), cmdfilter.PowerShellCommands...),
		SearchMaxResults:   search.DefaultMaxResults,
		Limits:             DefaultLimits(),
		Output:             DefaultOutputFilterConfig(),
		Fetch: FetchConfig{
			Timeout:   defaultFetchTimeout,
			UserAgent: defaultFetchUserAgent,
			MaxBytes:  defaultFetchMaxBytes,
		},
	}
}

// Toolbox holds the collaborators the built-in tools delegate to. It carries
// no per-invocation state and is safe for concurrent use.
type Toolbox struct {
	Bash               *process.Runner
	PowerShell         *process.Runner
	BashDenylist       *cmdfilter.Denylist
	PowerShellDenylist *cmdfilter.Denylist
	Search             *search.Engine
	SearchMaxResults   int
	Limits             Limits
	Output             OutputFilterConfig
	Fetch              FetchConfig
	HTTPClient         *http.Client
	Logger             zerolog.Logger
}

// NewToolbox wires a toolbox from opts. Zero-valued options fall back to defaults.
func NewToolbox(opts Options, logger zerolog.Logger) *Toolbox {
	defaults := DefaultOptions()
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = defaults.DefaultTimeout
	}
	if opts.BashDenylist == nil {
		opts.BashDenylist = defaults.BashDenylist
	}
	if opts.PowerShellDenylist == nil {
		opts.PowerShellDenylist = defaults.PowerShellDenylist
	}
	if opts.SearchMaxResults <= 0 {
		opts.SearchMaxResults = defaults.SearchMaxResults
	}
	if opts.Fetch.Timeout <= 0 {
		opts.Fetch.Timeout = defaults.Fetch.Timeout
	}
	if opts.Fetch.UserAgent == "" {
		opts.Fetch.UserAgent = defaults.Fetch.UserAgent
	}
	if opts.Fetch.MaxBytes <= 0 {
		opts.Fetch.MaxBytes = defaults.Fetch.MaxBytes
	}
	limits := opts.Limits.Normalize()

	bash := process.NewRunner(process.Bash, opts.DefaultTimeout)
	bash.Logger = logger.With().Str("component", "process").Str("interpreter", process.Bash.Name).Logger()
	powershell := process.NewRunner(process.PowerShell, opts.DefaultTimeout)
	powershell.Logger = logger.With().Str("component", "process").Str("interpreter", process.PowerShell.Name).Logger()

	engine := search.NewEngine(limits.MaxFileSizeBytes)
	engine.Logger = logger.With().Str("component", "search").Logger()

	return &Toolbox{
		Bash:               bash,
		PowerShell:         powershell,
		BashDenylist:       cmdfilter.New(opts.BashDenylist, true),
		PowerShellDenylist: cmdfilter.New(opts.PowerShellDenylist, false),
		Search:             engine,
		SearchMaxResults:   opts.SearchMaxResults,
		Limits:             limits,
		Output:             opts.Output,
		Fetch:              opts.Fetch,
		HTTPClient:         &http.Client{},
		Logger:             logger,
	}
}
