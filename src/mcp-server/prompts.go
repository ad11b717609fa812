// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []PromptDefinition {
	return []PromptDefinition{
		{
			Prompt: mcp.NewPrompt("scaffold-function",
				mcp.WithPromptDescription("Guided workflow for choosing a template and writing a new Azure Functions project"),
				mcp.WithArgument("language",
					mcp.ArgumentDescription("Language name: 'python', 'typescript', 'java' or 'csharp'"),
					mcp.RequiredArgument(),
				),
				mcp.WithArgument("scenario",
					mcp.ArgumentDescription("What the function should do, e.g. 'resize images uploaded to blob storage'"),
				),
			),
			Handler: handleScaffoldFunctionPrompt,
		},
	}
}
