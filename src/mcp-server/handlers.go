// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/H0llyW00dzZ/functions-template-server/src/mcp-server/assets"
)

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // Maps tool roles to tool names for template use
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// loadInstructions parses the template with dynamic data from the provided tools and returns the rendered instructions as a string for MCP client initialization.
//
// Parameters:
//   - embed: Filesystem holding instructions.md
//   - tools: Tool definitions to describe
//
// Returns:
//   - string: The rendered instruction text describing server capabilities and tool usage
//   - error: If the embedded file cannot be read or template parsing fails
func loadInstructions(embed assets.EmbedFS, tools []ToolDefinition) (string, error) {
	templateBytes, err := embed.ReadFile("instructions.md")
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	toolInfos := make([]toolInfo, 0, len(tools))
	toolRoles := make(map[string]string, len(tools))
	for _, tool := range tools {
		toolInfos = append(toolInfos, toolInfo{
			Name:        tool.Tool.Name,
			Description: tool.Tool.Description,
		})

		if tool.Role != "" {
			toolRoles[tool.Role] = tool.Tool.Name
		}
	}

	// A role referenced by the template but not registered is an error rather
	// than an empty tool name in the rendered text.
	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, instructionData{Tools: toolInfos, ToolRoles: toolRoles}); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}

// capabilities describes what the server registered, for the version resource.
type capabilities struct {
	Tools     []toolInfo     `json:"tools"`
	Resources []resourceInfo `json:"resources"`
	Prompts   []promptInfo   `json:"prompts"`
}

// resourceInfo describes one registered resource.
type resourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// promptInfo describes one registered prompt.
type promptInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []promptArgument `json:"arguments,omitempty"`
}

// promptArgument describes one prompt argument.
type promptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// describeCapabilities extracts the metadata of the registered definitions.
// It runs once per Build, so the result needs no synchronization.
func describeCapabilities(tools []ToolDefinition, resources []ResourceDefinition, prompts []PromptDefinition) capabilities {
	c := capabilities{
		Tools:     make([]toolInfo, 0, len(tools)),
		Resources: make([]resourceInfo, 0, len(resources)),
		Prompts:   make([]promptInfo, 0, len(prompts)),
	}

	for _, def := range tools {
		c.Tools = append(c.Tools, toolInfo{Name: def.Tool.Name, Description: def.Tool.Description})
	}

	for _, def := range resources {
		r := def.Resource
		c.Resources = append(c.Resources, resourceInfo{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
		})
	}

	for _, def := range prompts {
		p := promptInfo{Name: def.Prompt.Name, Description: def.Prompt.Description}
		for _, arg := range def.Prompt.Arguments {
			p.Arguments = append(p.Arguments, promptArgument{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		c.Prompts = append(c.Prompts, p)
	}

	return c
}
