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

const builtinToolVersion = "1.0.0"

// registerBuiltInTools registers all built-in tools to the registry
func registerBuiltInTools(r *Registry, tb *Toolbox) {
	register := func(tool Tool) {
		if err := r.RegisterTool(tool); err != nil {
			panic(err)
		}
	}

	register(&ToolDefinition{
		NameValue: "execute_bash",
		DescriptionValue: "Run a Bash command and return its output. " +
			"Caution: avoid commands that alter or delete system files.",
		ParametersValue: schemaFor[bashArgs](),
		ExecuteFunc:     tb.executeBash,
		ValidateFunc:    commandValidation(tb.BashDenylist),
	})

	register(&ToolDefinition{
		NameValue: "execute_powershell",
		DescriptionValue: "Run a PowerShell command and return its output. " +
			"Note: avoid commands that alter or delete system files.",
		ParametersValue: schemaFor[powerShellArgs](),
		ExecuteFunc:     tb.executePowerShell,
		ValidateFunc:    commandValidation(tb.PowerShellDenylist),
	})

	register(&ToolDefinition{
		NameValue: "read_file",
		DescriptionValue: "Read and return the full content of a text file. " +
			"Ideal for examining the contents of a single file.",
		ParametersValue: schemaFor[readFileArgs](),
		ExecuteFunc:     tb.readFile,
		ValidateFunc:    RequireStringArg("path", msgMissingPath),
	})

	register(&ToolDefinition{
		NameValue: "write_file",
		DescriptionValue: "Create or overwrite a file with new text content. " +
			"Missing parent directories are created. Existing files are overwritten without notice.",
		ParametersValue: schemaFor[writeFileArgs](),
		ExecuteFunc:     tb.writeFile,
		ValidateFunc: ChainValidation(
			RequireStringArg("path", msgMissingPath),
			RequirePresentStringArg("content", "Missing or invalid 'content' parameter"),
		),
	})

	register(&ToolDefinition{
		NameValue: "edit_file",
		DescriptionValue: "Replace a unique block of text in a file. " +
			"Exact matches are tried first, then a whitespace-insensitive line match.",
		ParametersValue: schemaFor[editFileArgs](),
		ExecuteFunc:     tb.editFile,
		ValidateFunc: ChainValidation(
			RequireStringArg("path", msgMissingPath),
			RequireStringArg("oldText", "Missing or invalid 'oldText' parameter"),
			RequirePresentStringArg("newText", "Missing or invalid 'newText' parameter"),
		),
	})

	register(&ToolDefinition{
		NameValue:        "list_directory",
		DescriptionValue: "List directory contents with type and size. Can recursively traverse directories.",
		ParametersValue:  schemaFor[listDirectoryArgs](),
		ExecuteFunc:      tb.listDirectory,
		ValidateFunc: ChainValidation(
			OptionalStringArg("path"),
			OptionalBoolArg("recursive"),
			OptionalBoolArg("showHidden"),
		),
	})

	register(&ToolDefinition{
		NameValue:        "create_directory",
		DescriptionValue: "Create a directory, including missing parents. Succeeds if it already exists.",
		ParametersValue:  schemaFor[createDirectoryArgs](),
		ExecuteFunc:      tb.createDirectory,
		ValidateFunc:     RequireStringArg("path", msgMissingPath),
	})

	register(&ToolDefinition{
		NameValue:        "search_files",
		DescriptionValue: "Recursively find files whose name matches a glob pattern such as '*.go'.",
		ParametersValue:  schemaFor[searchFilesArgs](),
		ExecuteFunc:      tb.searchFiles,
		ValidateFunc: ChainValidation(
			RequireStringArg("directory", "Missing or invalid 'directory' parameter"),
			RequireStringArg("pattern", "Missing or invalid 'pattern' parameter"),
			OptionalIntArg("maxResults"),
		),
	})

	register(&ToolDefinition{
		NameValue: "search_pattern",
		DescriptionValue: "Search files for text patterns, returning matches with line numbers and context. " +
			"Functions like 'grep' with output tailored for LLM processing.",
		ParametersValue: schemaFor[searchPatternArgs](),
		ExecuteFunc:     tb.searchPattern,
		ValidateFunc: ChainValidation(
			RequireStringArg("directory", "Missing or invalid 'directory' parameter"),
			RequirePresentStringArg("pattern", "Missing or invalid 'pattern' parameter"),
			OptionalStringArg("fileExtension"),
			OptionalBoolArg("useRegex"),
			OptionalIntArg("contextLines"),
			OptionalIntArg("maxResults"),
		),
	})

	register(&ToolDefinition{
		NameValue:        "fetch_webpage",
		DescriptionValue: "Retrieve a webpage and return its title and readable text content.",
		ParametersValue:  schemaFor[fetchWebpageArgs](),
		ExecuteFunc:      tb.fetchWebpage,
		ValidateFunc: ChainValidation(
			RequireStringArg("url", "Missing or invalid 'url' parameter"),
			OptionalIntArg("timeoutMs"),
		),
	})
}
