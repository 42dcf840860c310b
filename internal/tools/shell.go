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

	"toolbelt/internal/cmdfilter"
	apperrors "toolbelt/internal/errors"
	"toolbelt/internal/process"
)

type bashArgs struct {
	Command          string `json:"command" jsonschema:"description=Bash command to execute,minLength=1"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema:"description=Working directory (optional)"`
	TimeoutSeconds   int    `json:"timeoutSeconds,omitempty" jsonschema:"description=Command timeout in seconds (default: 30)"`
}

type powerShellArgs struct {
	Command          string `json:"command" jsonschema:"description=PowerShell command to execute,minLength=1"`
	WorkingDirectory string `json:"workingDirectory,omitempty" jsonschema:"description=Working directory (optional)"`
	TimeoutSeconds   int    `json:"timeoutSeconds,omitempty" jsonschema:"description=Command timeout in seconds (default: 30)"`
}

// commandValidation rejects blank and denylisted commands before anything is spawned.
func commandValidation(denylist *cmdfilter.Denylist) ValidationRule {
	return ChainValidation(
		RequireStringArg("command", msgDisallowedCommand),
		func(args map[string]interface{}) error {
			if !denylist.Allows(args["command"].(string)) {
				return apperrors.New(apperrors.CodeValidation, msgDisallowedCommand)
			}
			return nil
		},
		OptionalStringArg("workingDirectory"),
		OptionalIntArg("timeoutSeconds"),
	)
}

// executeBash reports a non-zero exit as a successful call carrying exitCode.
func (tb *Toolbox) executeBash(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	a, err := decodeArgs[bashArgs](args)
	if err != nil {
		return nil, err
	}
	outcome, err := tb.runCommand(ctx, tb.Bash, tb.BashDenylist, process.Request{
		Command:          a.Command,
		WorkingDirectory: a.WorkingDirectory,
		TimeoutSeconds:   a.TimeoutSeconds,
	})
	if err != nil {
		return nil, err
	}

	payload := tb.commandPayload(outcome)
	payload["exitCode"] = outcome.ExitCode
	return payload, nil
}

// executePowerShell treats a non-zero exit as a failure that still carries
// the command and its output.
func (tb *Toolbox) executePowerShell(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	a, err := decodeArgs[powerShellArgs](args)
	if err != nil {
		return nil, err
	}
	outcome, err := tb.runCommand(ctx, tb.PowerShell, tb.PowerShellDenylist, process.Request{
		Command:          a.Command,
		WorkingDirectory: a.WorkingDirectory,
		TimeoutSeconds:   a.TimeoutSeconds,
	})
	if err != nil {
		return nil, err
	}

	payload := tb.commandPayload(outcome)
	if outcome.ExitCode != 0 {
		return nil, apperrors.Newf(apperrors.CodeToolExecution, "Command failed with exit code %d", outcome.ExitCode).
			WithDetails(payload)
	}
	return payload, nil
}

func (tb *Toolbox) runCommand(ctx context.Context, runner *process.Runner, denylist *cmdfilter.Denylist, req process.Request) (process.Outcome, error) {
	if !denylist.Allows(req.Command) {
		return process.Outcome{}, apperrors.New(apperrors.CodeValidation, msgDisallowedCommand)
	}
	outcome, err := runner.Run(ctx, req)
	if err != nil {
		return outcome, err
	}
	if outcome.TimedOut {
		return outcome, apperrors.New(apperrors.CodeTimeout, msgTimedOut)
	}
	return outcome, nil
}

func (tb *Toolbox) commandPayload(outcome process.Outcome) map[string]interface{} {
	output, truncated := tb.Output.Apply(outcome.Output)
	payload := map[string]interface{}{
		"command": outcome.Command,
		"output":  output,
	}
	if truncated {
		payload["truncated"] = true
	}
	return payload
}
