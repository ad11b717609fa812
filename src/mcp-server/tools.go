// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultSearchLimit caps search_templates results when no limit is given.
const defaultSearchLimit = 10

// createTools creates and returns all MCP tool definitions with their handlers.
//
// Returns:
//   - A slice of ToolDefinition, in the order they are listed to clients
//
// The function defines the following tools:
//   - list_languages: Lists the supported languages with template counts
//   - list_templates: Lists the templates of one language with metadata
//   - search_templates: Fuzzy search over template names and descriptions
//   - get_template: Returns a template listing or a single file
//   - validate_catalog: Reports catalog violations and disk drift
//
// Each tool includes proper parameter definitions, descriptions, and default values
// as required by the MCP specification.
func createTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Tool: mcp.NewTool("list_languages",
				mcp.WithDescription("List the supported languages with the number of templates each one offers"),
			),
			Handler: handleListLanguages,
			Role:    "languageLister",
		},
		{
			Tool: mcp.NewTool("list_templates",
				mcp.WithDescription("List the templates of a language with their description, category, use case and binding type"),
				mcp.WithString("language",
					mcp.Required(),
					mcp.Description("Language name: 'python', 'typescript', 'java' or 'csharp'"),
				),
				mcp.WithString("category",
					mcp.Description("Only return templates in this category, case-insensitive (e.g. 'storage')"),
				),
				mcp.WithString("binding_type",
					mcp.Description("Only return templates with this binding type: 'trigger', 'input' or 'output'"),
				),
			),
			Handler: handleListTemplates,
			Role:    "templateLister",
		},
		{
			Tool: mcp.NewTool("search_templates",
				mcp.WithDescription("Fuzzy search templates by name and description across languages"),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search text, e.g. 'blob' or 'timer'"),
				),
				mcp.WithString("language",
					mcp.Description("Restrict the search to one language"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of results (default: 10)"),
					mcp.DefaultNumber(defaultSearchLimit),
				),
			),
			Handler: handleSearchTemplates,
			Role:    "templateSearcher",
		},
		{
			Tool: mcp.NewTool("get_template",
				mcp.WithDescription("Get a template: without file_path, the file list and key file contents; with file_path, that file's content"),
				mcp.WithString("language",
					mcp.Required(),
					mcp.Description("Language name: 'python', 'typescript', 'java' or 'csharp'"),
				),
				mcp.WithString("template",
					mcp.Required(),
					mcp.Description("Template name, case-sensitive (e.g. 'HttpTrigger')"),
				),
				mcp.WithString("file_path",
					mcp.Description("File relative to the template directory, exactly as listed (optional)"),
				),
				mcp.WithString("runtime_version",
					mcp.Description("Java or Node.js version written into runtime placeholders (default from server config)"),
				),
			),
			Handler: handleGetTemplate,
			Role:    "templateRetriever",
		},
		{
			Tool: mcp.NewTool("validate_catalog",
				mcp.WithDescription("Validate the template catalog and compare it with the templates found on disk"),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleValidateCatalog,
			Role:    "catalogValidator",
		},
	}
}
