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

// Package cmdfilter rejects shell commands whose program name is on a denylist.
//
// Only the first whitespace-delimited token is inspected. Shell syntax is not
// parsed, so `echo x; rm -rf y` passes: the filter is a guard against obvious
// destructive calls, not a security boundary.
package cmdfilter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Default denylists for the two interpreter bindings.
var (
	BashCommands = []string{"rm", "rmdir", "mv", "del", "erase", "dd", "mkfs", "format"}

	PowerShellCommands = []string{
		"Remove-Item", "Move-Item", "Format-Volume", "Stop-Process", "Stop-Service", "Clear-Content",
		"rm", "del", "erase", "rd", "ri", "mv", "move", "clc",
		"rmdir", "dd", "mkfs", "format",
	}
)

// Denylist is an immutable set of forbidden program names.
type Denylist struct {
	names         map[string]struct{}
	caseSensitive bool
}

// New builds a denylist. Blank entries are ignored.
func New(names []string, caseSensitive bool) *Denylist {
	d := &Denylist{
		names:         make(map[string]struct{}, len(names)),
		caseSensitive: caseSensitive,
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		d.names[d.fold(name)] = struct{}{}
	}
	return d
}

// NewBash returns the case-sensitive bash denylist.
func NewBash() *Denylist {
	return New(BashCommands, true)
}

// NewPowerShell returns the case-insensitive PowerShell denylist.
func NewPowerShell() *Denylist {
	return New(PowerShellCommands, false)
}

// Allows reports whether command may be executed.
func (d *Denylist) Allows(command string) bool {
	first := FirstToken(command)
	if first == "" {
		return false
	}
	if d == nil {
		return true
	}
	_, denied := d.names[d.fold(first)]
	return !denied
}

// Contains reports whether name is on the list.
func (d *Denylist) Contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.names[d.fold(strings.TrimSpace(name))]
	return ok
}

// Len returns the number of entries.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// FirstToken returns the NFKC-normalized first whitespace-delimited token of
// command, or "" if command is blank.
func FirstToken(command string) string {
	fields := strings.Fields(norm.NFKC.String(command))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (d *Denylist) fold(name string) string {
	if d.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}
